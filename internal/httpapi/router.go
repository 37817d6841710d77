package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/wallym/auctionhouse/internal/httpapi/authctx"
	"github.com/wallym/auctionhouse/internal/metrics"
)

var authRequireMiddleware = authctx.Require

// Options configures router construction beyond the handler set.
type Options struct {
	AllowedOrigins []string
	RateLimiter    *BidRateLimiter
}

// NewRouter builds the chi router exposing the auction HTTP surface.
func NewRouter(h *Handlers, m *metrics.Metrics, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))

	allowedOrigins := opts.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-JWT-PAYLOAD", "X-MS-CLIENT-PRINCIPAL"},
		AllowCredentials: len(allowedOrigins) == 1 && allowedOrigins[0] != "*",
	}))

	if m != nil {
		r.Use(m.Middleware)
	}

	r.Get("/healthz", h.Healthz)
	if m != nil {
		r.Handle("/metrics", metrics.Handler())
	}

	r.Get("/auctions", h.ListAuctions)
	r.Get("/auctions/{id}", h.GetAuction)
	r.Get("/ws/auctions/{id}", h.WatchAuction)

	r.Group(func(r chi.Router) {
		r.Use(authRequireMiddleware)
		r.Post("/auction", h.CreateAuction)
		if opts.RateLimiter != nil {
			r.With(opts.RateLimiter.Middleware).Post("/auctions/{id}/bids", h.PlaceBid)
		} else {
			r.Post("/auctions/{id}/bids", h.PlaceBid)
		}
	})

	return r
}
