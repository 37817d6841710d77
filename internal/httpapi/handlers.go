// Package httpapi wires the chi router, middleware, and HTTP
// handlers together, grounded on the teacher's main.go route table
// and handlers/auction.go.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/wallym/auctionhouse/internal/command"
	"github.com/wallym/auctionhouse/internal/domain"
	"github.com/wallym/auctionhouse/internal/httpapi/authctx"
	"github.com/wallym/auctionhouse/internal/liveroom"
	"github.com/wallym/auctionhouse/internal/metrics"
	"github.com/wallym/auctionhouse/internal/projection"
	"github.com/wallym/auctionhouse/internal/repository"
	"github.com/wallym/auctionhouse/pkg/logger"
)

// Handlers holds the dependencies every HTTP handler needs.
type Handlers struct {
	Repo          repository.Repository
	Clock         domain.Clock
	CreateAuction *command.CreateAuctionHandler
	PlaceBid      *command.PlaceBidHandler
	Room          *liveroom.Room
	Metrics       *metrics.Metrics
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// ListAuctions handles GET /auctions.
func (h *Handlers) ListAuctions(w http.ResponseWriter, r *http.Request) {
	auctions, err := h.Repo.List(r.Context())
	if err != nil {
		logger.HTTP().Error().Err(err).Msg("list auctions")
		writeError(w, http.StatusInternalServerError, "failed to list auctions")
		return
	}

	now := h.Clock.Now()
	views := make([]projection.AuctionView, len(auctions))
	for i, a := range auctions {
		views[i] = projection.ToView(a, now)
	}
	writeJSON(w, http.StatusOK, views)
}

// GetAuction handles GET /auctions/{id}.
func (h *Handlers) GetAuction(w http.ResponseWriter, r *http.Request) {
	id, ok := parseAuctionID(w, r)
	if !ok {
		return
	}

	a, err := h.Repo.Get(r.Context(), id)
	if err != nil {
		logger.HTTP().Error().Err(err).Int64("auction_id", int64(id)).Msg("get auction")
		writeError(w, http.StatusInternalServerError, "failed to load auction")
		return
	}
	if a == nil {
		writeError(w, http.StatusNotFound, "auction not found")
		return
	}

	writeJSON(w, http.StatusOK, projection.ToView(*a, h.Clock.Now()))
}

// CreateAuction handles POST /auction.
func (h *Handlers) CreateAuction(w http.ResponseWriter, r *http.Request) {
	user, ok := authctx.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var body createAuctionRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cmd, err := body.toCommand()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	a, err := h.CreateAuction.Handle(r.Context(), user, cmd)
	if err != nil {
		writeCommandError(w, err)
		return
	}

	if h.Metrics != nil {
		h.Metrics.RecordAuctionCreated(a.Kind.String())
	}
	writeJSON(w, http.StatusCreated, projection.ToView(a, h.Clock.Now()))
}

// PlaceBid handles POST /auctions/{id}/bids.
func (h *Handlers) PlaceBid(w http.ResponseWriter, r *http.Request) {
	user, ok := authctx.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, ok := parseAuctionID(w, r)
	if !ok {
		return
	}

	var body struct {
		Amount string `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	amount, err := domain.ParseAmount(body.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	a, err := h.PlaceBid.Handle(r.Context(), id, user, amount)
	if err != nil {
		if h.Metrics != nil {
			if errs, ok := domain.AsValidation(err); ok {
				h.Metrics.RecordBidRejected(errs.String())
			}
		}
		writeCommandError(w, err)
		return
	}

	if h.Metrics != nil {
		h.Metrics.RecordBidAccepted(a.Kind.String())
	}

	view := projection.ToView(a, h.Clock.Now())
	if h.Room != nil {
		if payload, err := json.Marshal(view); err == nil {
			h.Room.Broadcast(chi.URLParam(r, "id"), payload)
		}
	}

	writeJSON(w, http.StatusOK, view)
}

// WatchAuction handles GET /ws/auctions/{id}, upgrading the
// connection to a one-directional feed of that auction's projection.
func (h *Handlers) WatchAuction(w http.ResponseWriter, r *http.Request) {
	idParam := chi.URLParam(r, "id")
	if _, ok := parseAuctionID(w, r); !ok {
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.HTTP().Error().Err(err).Msg("websocket upgrade")
		return
	}
	h.Room.Watch(idParam, conn)
}

// Healthz handles GET /healthz.
func (h *Handlers) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func parseAuctionID(w http.ResponseWriter, r *http.Request) (domain.AuctionId, bool) {
	raw := chi.URLParam(r, "id")
	var id int64
	if _, err := parseInt64(raw, &id); err != nil {
		writeError(w, http.StatusBadRequest, "invalid auction id")
		return 0, false
	}
	return domain.AuctionId(id), true
}

func parseInt64(s string, out *int64) (int64, error) {
	var n int64
	var negative bool
	if len(s) == 0 {
		return 0, errors.New("empty id")
	}
	for i, c := range s {
		if i == 0 && c == '-' {
			negative = true
			continue
		}
		if c < '0' || c > '9' {
			return 0, errors.New("invalid id")
		}
		n = n*10 + int64(c-'0')
	}
	if negative {
		n = -n
	}
	*out = n
	return n, nil
}

func writeCommandError(w http.ResponseWriter, err error) {
	var notFound *domain.NotFoundError
	var validation *domain.ValidationError
	var domErr *domain.DomainError
	var unauthorized *domain.UnauthorizedError

	switch {
	case errors.As(err, &notFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &validation):
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error": validation.Set.String(),
		})
	case errors.As(err, &domErr):
		writeError(w, http.StatusInternalServerError, err.Error())
	case errors.As(err, &unauthorized):
		writeError(w, http.StatusUnauthorized, err.Error())
	default:
		logger.HTTP().Error().Err(err).Msg("command failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// createAuctionRequest is the wire shape of POST /auction.
type createAuctionRequest struct {
	Title                  string  `json:"title"`
	Currency               string  `json:"currency"`
	StartsAt               string  `json:"startsAt"`
	EndsAt                 string  `json:"endsAt"`
	MinRaise               *int64  `json:"minRaise"`
	ReservePrice           *int64  `json:"reservePrice"`
	TimeFrame              *int64  `json:"timeFrame"`
	SingleSealedBidOptions *string `json:"singleSealedBidOptions"`
	OpenBidders            bool    `json:"openBidders"`
}

func (req createAuctionRequest) toCommand() (domain.CreateAuctionCommand, error) {
	currency, err := domain.ParseCurrencyCode(req.Currency)
	if err != nil {
		return domain.CreateAuctionCommand{}, err
	}
	startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		return domain.CreateAuctionCommand{}, errors.New("startsAt must be RFC 3339")
	}
	endsAt, err := time.Parse(time.RFC3339, req.EndsAt)
	if err != nil {
		return domain.CreateAuctionCommand{}, errors.New("endsAt must be RFC 3339")
	}

	cmd := domain.CreateAuctionCommand{
		Title:        req.Title,
		Currency:     currency,
		StartsAt:     startsAt,
		EndsAt:       endsAt,
		MinRaise:     req.MinRaise,
		ReservePrice: req.ReservePrice,
		OpenBidders:  req.OpenBidders,
	}
	if req.TimeFrame != nil {
		d := time.Duration(*req.TimeFrame) * time.Second
		cmd.TimeFrame = &d
	}
	if req.SingleSealedBidOptions != nil {
		opt := domain.SealedBidOptions(*req.SingleSealedBidOptions)
		cmd.SingleSealedBidOptions = &opt
	}
	return cmd, nil
}
