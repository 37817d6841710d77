// Package repository defines the durable store contract for auctions
// and provides a Postgres-backed implementation plus an in-memory
// fake used by tests.
package repository

import (
	"context"

	"github.com/wallym/auctionhouse/internal/domain"
)

// Repository is the abstract durable store for auctions and their bid
// lists. The domain entity never observes ids being assigned — that
// is this component's responsibility alone.
type Repository interface {
	// Get loads an auction with all its bids. Returns (nil, nil) if
	// no auction with that id exists.
	Get(ctx context.Context, id domain.AuctionId) (*domain.Auction, error)
	// List loads every auction with its bids.
	List(ctx context.Context) ([]domain.Auction, error)
	// Create assigns a fresh id, persists, and returns the auction
	// with its id set.
	Create(ctx context.Context, a domain.Auction) (domain.Auction, error)
	// Update persists bids newly present on a since the stored
	// version and the mutable header fields (Expiry and EndsAt).
	// It must never remove a bid already committed.
	Update(ctx context.Context, a domain.Auction) (domain.Auction, error)
}
