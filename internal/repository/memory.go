package repository

import (
	"context"
	"sync"

	"github.com/wallym/auctionhouse/internal/domain"
)

// Memory is an in-memory Repository used by tests. It honours the same
// append-only update semantics as the Postgres implementation.
type Memory struct {
	mu       sync.Mutex
	auctions map[domain.AuctionId]domain.Auction
	nextID   int64
}

func NewMemory() *Memory {
	return &Memory{auctions: make(map[domain.AuctionId]domain.Auction)}
}

func (m *Memory) Get(_ context.Context, id domain.AuctionId) (*domain.Auction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.auctions[id]
	if !ok {
		return nil, nil
	}
	cp := cloneAuction(a)
	return &cp, nil
}

func (m *Memory) List(_ context.Context) ([]domain.Auction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Auction, 0, len(m.auctions))
	for _, a := range m.auctions {
		out = append(out, cloneAuction(a))
	}
	return out, nil
}

func (m *Memory) Create(_ context.Context, a domain.Auction) (domain.Auction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	a.Base.AuctionID = domain.AuctionId(m.nextID)
	m.auctions[a.Base.AuctionID] = cloneAuction(a)
	return cloneAuction(a), nil
}

func (m *Memory) Update(_ context.Context, a domain.Auction) (domain.Auction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.auctions[a.Base.AuctionID]
	if !ok {
		return domain.Auction{}, &domain.NotFoundError{Message: "auction not found"}
	}

	storedIDs := make(map[int64]struct{}, len(stored.Base.Bids))
	for _, b := range stored.Base.Bids {
		storedIDs[b.ID] = struct{}{}
	}
	incomingIDs := make(map[int64]struct{}, len(a.Base.Bids))
	for _, b := range a.Base.Bids {
		incomingIDs[b.ID] = struct{}{}
	}
	for id := range storedIDs {
		if _, ok := incomingIDs[id]; !ok {
			return domain.Auction{}, &domain.InternalError{Message: "Should not be able to delete bids"}
		}
	}

	stored.Base.Expiry = a.Base.Expiry
	stored.Base.Bids = append([]domain.Bid(nil), a.Base.Bids...)
	stored.EndsAt = a.EndsAt
	m.auctions[a.Base.AuctionID] = stored
	return cloneAuction(stored), nil
}

func cloneAuction(a domain.Auction) domain.Auction {
	cp := a
	cp.Base.Bids = append([]domain.Bid(nil), a.Base.Bids...)
	if a.EndsAt != nil {
		t := *a.EndsAt
		cp.EndsAt = &t
	}
	return cp
}
