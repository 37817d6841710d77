package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wallym/auctionhouse/internal/domain"
)

func newTestAuction() domain.Auction {
	base := domain.AuctionBase{
		Title:    "item",
		StartsAt: time.Date(2016, 1, 1, 0, 0, 0, 0, time.UTC),
		Expiry:   time.Date(2016, 2, 1, 0, 0, 0, 0, time.UTC),
		Seller:   "x1",
		Currency: domain.CurrencySEK,
	}
	return domain.NewTimedAscending(base, domain.TimedAscendingOptions{MinRaise: 1})
}

func TestMemoryCreateAssignsID(t *testing.T) {
	m := NewMemory()
	a, err := m.Create(context.Background(), newTestAuction())
	require.NoError(t, err)
	require.Equal(t, domain.AuctionId(1), a.Base.AuctionID)

	got, err := m.Get(context.Background(), a.Base.AuctionID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "item", got.Base.Title)
}

func TestMemoryGetMissingReturnsNilNil(t *testing.T) {
	m := NewMemory()
	got, err := m.Get(context.Background(), 999)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestMemoryUpdateRejectsBidDeletion(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	a, err := m.Create(ctx, newTestAuction())
	require.NoError(t, err)

	now := a.Base.StartsAt.Add(time.Hour)
	_, ok := a.TryAddBid(now, domain.BidData{User: "x2", Amount: domain.NewAmount(50, domain.CurrencySEK), At: now})
	require.True(t, ok)
	_, ok = a.TryAddBid(now.Add(time.Hour), domain.BidData{User: "x3", Amount: domain.NewAmount(60, domain.CurrencySEK), At: now.Add(time.Hour)})
	require.True(t, ok)

	updated, err := m.Update(ctx, a)
	require.NoError(t, err)
	require.Len(t, updated.Base.Bids, 2)

	truncated := updated
	truncated.Base.Bids = updated.Base.Bids[:1]
	_, err = m.Update(ctx, truncated)
	require.Error(t, err)
	require.Contains(t, err.Error(), "Should not be able to delete bids")
}

func TestMemoryListReturnsClones(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	_, err := m.Create(ctx, newTestAuction())
	require.NoError(t, err)

	all, err := m.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)

	all[0].Base.Title = "mutated"
	again, err := m.List(ctx)
	require.NoError(t, err)
	require.Equal(t, "item", again[0].Base.Title)
}
