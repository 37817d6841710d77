package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wallym/auctionhouse/internal/httpapi/authctx"
	"github.com/wallym/auctionhouse/internal/metrics"
)

// BidRateLimiter throttles bid submissions per user using a Redis
// fixed-window counter, adapted from thenexusengine's token-bucket
// RateLimiter — a window counter is used in place of a token bucket
// here since the counter must be shared across server instances,
// which rules out the teacher's in-process map.
type BidRateLimiter struct {
	client  *redis.Client
	limit   int
	window  time.Duration
	metrics *metrics.Metrics
}

func NewBidRateLimiter(client *redis.Client, limit int, window time.Duration, m *metrics.Metrics) *BidRateLimiter {
	return &BidRateLimiter{client: client, limit: limit, window: window, metrics: m}
}

// Middleware rejects a request with 429 once the calling user has
// exceeded limit submissions within the current window.
func (l *BidRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := authctx.UserFromContext(r.Context())
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		allowed, err := l.allow(r.Context(), string(user))
		if err != nil {
			// Fail open: a Redis outage should not take bidding down.
			next.ServeHTTP(w, r)
			return
		}
		if !allowed {
			if l.metrics != nil {
				l.metrics.RecordRateLimitRejected(r.URL.Path)
			}
			w.Header().Set("Retry-After", fmt.Sprintf("%d", int(l.window.Seconds())))
			http.Error(w, `{"error":"rate limit exceeded"}`, http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (l *BidRateLimiter) allow(ctx context.Context, userID string) (bool, error) {
	key := fmt.Sprintf("bidrate:%s", userID)
	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		l.client.Expire(ctx, key, l.window)
	}
	return count <= int64(l.limit), nil
}
