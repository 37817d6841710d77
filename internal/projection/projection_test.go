package projection

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wallym/auctionhouse/internal/domain"
)

func newAuction(t *testing.T, openBidders bool) domain.Auction {
	t.Helper()
	base := domain.AuctionBase{
		AuctionID:   1,
		Title:       "item",
		StartsAt:    time.Date(2016, 1, 1, 0, 0, 0, 0, time.UTC),
		Expiry:      time.Date(2016, 2, 1, 0, 0, 0, 0, time.UTC),
		Seller:      "x1",
		Currency:    domain.CurrencySEK,
		OpenBidders: openBidders,
	}
	a := domain.NewTimedAscending(base, domain.TimedAscendingOptions{MinRaise: 1})
	now := base.StartsAt.Add(time.Hour)
	_, ok := a.TryAddBid(now, domain.BidData{User: "x2", Amount: domain.NewAmount(50, domain.CurrencySEK), At: now})
	require.True(t, ok)
	return a
}

func TestToViewRedactsBiddersWhenNotOpen(t *testing.T) {
	a := newAuction(t, false)
	view := ToView(a, a.Base.StartsAt.Add(2*time.Hour))

	require.Len(t, view.Bids, 1)
	require.NotEqual(t, "x2", view.Bids[0].Bidder)
	require.Contains(t, view.Bids[0].Bidder, "bidder#")
}

func TestToViewRevealsBiddersWhenOpen(t *testing.T) {
	a := newAuction(t, true)
	view := ToView(a, a.Base.StartsAt.Add(2*time.Hour))

	require.Len(t, view.Bids, 1)
	require.Equal(t, "x2", view.Bids[0].Bidder)
}

func TestToViewRevealsBiddersAfterEndRegardlessOfOpenBidders(t *testing.T) {
	a := newAuction(t, false)
	view := ToView(a, a.Base.Expiry.Add(time.Hour))

	require.Len(t, view.Bids, 1)
	require.Equal(t, "x2", view.Bids[0].Bidder)
	require.True(t, view.HasEnded)
}

func TestToViewIncludesWinner(t *testing.T) {
	a := newAuction(t, true)
	view := ToView(a, a.Base.Expiry.Add(time.Hour))

	require.NotNil(t, view.Winner)
	require.Equal(t, "x2", *view.Winner)
	require.NotNil(t, view.Price)
	require.Equal(t, "SEK50", *view.Price)
}
