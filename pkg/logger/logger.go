// Package logger provides structured logging for the auction service,
// adapted from thenexusengine's pkg/logger.
package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

type ContextKey string

const (
	RequestIDKey ContextKey = "request_id"
	AuctionIDKey ContextKey = "auction_id"
)

var Log zerolog.Logger

// Config holds logger configuration, sourced from internal/config.
type Config struct {
	Level      string // debug, info, warn, error
	Format     string // json, console
	TimeFormat string
}

func DefaultConfig() Config {
	return Config{
		Level:      "info",
		Format:     "json",
		TimeFormat: time.RFC3339,
	}
}

// Init initializes the global logger.
func Init(cfg Config) {
	var output io.Writer = os.Stdout

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	if cfg.Format == "console" {
		output = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: cfg.TimeFormat,
		}
	}

	Log = zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Str("service", "auctionhouse").
		Logger()
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

func WithAuctionID(ctx context.Context, auctionID string) context.Context {
	return context.WithValue(ctx, AuctionIDKey, auctionID)
}

// FromContext returns a logger enriched with whatever request/auction
// identifiers are present on ctx.
func FromContext(ctx context.Context) zerolog.Logger {
	l := Log.With()
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		l = l.Str("request_id", requestID)
	}
	if auctionID, ok := ctx.Value(AuctionIDKey).(string); ok {
		l = l.Str("auction_id", auctionID)
	}
	return l.Logger()
}

func Auction(auctionID string) zerolog.Logger {
	return Log.With().Str("auction_id", auctionID).Logger()
}

func Bidder(userID string) zerolog.Logger {
	return Log.With().Str("bidder", userID).Logger()
}

func HTTP() zerolog.Logger {
	return Log.With().Str("component", "http").Logger()
}

func Feed() zerolog.Logger {
	return Log.With().Str("component", "liveroom").Logger()
}

// RequestLogger holds request-scoped logging state: a logger tagged
// with the request id and the time the request started.
type RequestLogger struct {
	logger    zerolog.Logger
	startTime time.Time
}

func NewRequestLogger(requestID string) *RequestLogger {
	return &RequestLogger{
		logger:    Log.With().Str("request_id", requestID).Logger(),
		startTime: time.Now(),
	}
}

func (r *RequestLogger) Info(msg string) { r.logger.Info().Msg(msg) }

func (r *RequestLogger) Error(msg string, err error) { r.logger.Error().Err(err).Msg(msg) }

func (r *RequestLogger) Duration() time.Duration { return time.Since(r.startTime) }

func (r *RequestLogger) LogComplete(status int) {
	r.logger.Info().
		Int("status", status).
		Dur("duration_ms", r.Duration()).
		Msg("request completed")
}
