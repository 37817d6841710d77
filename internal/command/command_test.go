package command

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wallym/auctionhouse/internal/domain"
	"github.com/wallym/auctionhouse/internal/repository"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func TestCreateAuctionHandlerPersists(t *testing.T) {
	repo := repository.NewMemory()
	clock := fixedClock{now: time.Date(2016, 1, 1, 0, 0, 0, 0, time.UTC)}
	h := NewCreateAuctionHandler(repo, clock)

	cmd := domain.CreateAuctionCommand{
		Title:    "item",
		Currency: domain.CurrencySEK,
		StartsAt: clock.now,
		EndsAt:   clock.now.Add(30 * 24 * time.Hour),
	}

	a, err := h.Handle(context.Background(), "x1", cmd)
	require.NoError(t, err)
	require.NotZero(t, a.Base.AuctionID)
	require.Equal(t, domain.UserId("x1"), a.Base.Seller)
}

func TestCreateAuctionHandlerRejectsBadWindow(t *testing.T) {
	repo := repository.NewMemory()
	clock := fixedClock{now: time.Date(2016, 1, 1, 0, 0, 0, 0, time.UTC)}
	h := NewCreateAuctionHandler(repo, clock)

	cmd := domain.CreateAuctionCommand{
		Title:    "item",
		Currency: domain.CurrencySEK,
		StartsAt: clock.now,
		EndsAt:   clock.now,
	}

	_, err := h.Handle(context.Background(), "x1", cmd)
	require.Error(t, err)
}

func TestPlaceBidHandlerAdmitsAndPersists(t *testing.T) {
	repo := repository.NewMemory()
	startsAt := time.Date(2016, 1, 1, 0, 0, 0, 0, time.UTC)
	created, err := repo.Create(context.Background(), domain.NewTimedAscending(domain.AuctionBase{
		Title:    "item",
		StartsAt: startsAt,
		Expiry:   startsAt.Add(30 * 24 * time.Hour),
		Seller:   "x1",
		Currency: domain.CurrencySEK,
	}, domain.TimedAscendingOptions{MinRaise: 1}))
	require.NoError(t, err)

	clock := fixedClock{now: startsAt.Add(time.Hour)}
	h := NewPlaceBidHandler(repo, clock)

	updated, err := h.Handle(context.Background(), created.Base.AuctionID, "x2", domain.NewAmount(50, domain.CurrencySEK))
	require.NoError(t, err)
	require.Len(t, updated.Base.Bids, 1)
	require.Equal(t, domain.UserId("x2"), updated.Base.Bids[0].User)
}

func TestPlaceBidHandlerRejectsUnknownAuction(t *testing.T) {
	repo := repository.NewMemory()
	clock := fixedClock{now: time.Now().UTC()}
	h := NewPlaceBidHandler(repo, clock)

	_, err := h.Handle(context.Background(), 999, "x2", domain.NewAmount(50, domain.CurrencySEK))
	require.Error(t, err)
}

func TestPlaceBidHandlerSurfacesValidationError(t *testing.T) {
	repo := repository.NewMemory()
	startsAt := time.Date(2016, 1, 1, 0, 0, 0, 0, time.UTC)
	created, err := repo.Create(context.Background(), domain.NewTimedAscending(domain.AuctionBase{
		Title:    "item",
		StartsAt: startsAt,
		Expiry:   startsAt.Add(30 * 24 * time.Hour),
		Seller:   "x1",
		Currency: domain.CurrencySEK,
	}, domain.TimedAscendingOptions{MinRaise: 1}))
	require.NoError(t, err)

	clock := fixedClock{now: startsAt.Add(time.Hour)}
	h := NewPlaceBidHandler(repo, clock)

	_, err = h.Handle(context.Background(), created.Base.AuctionID, "x1", domain.NewAmount(50, domain.CurrencySEK))
	require.Error(t, err)

	errs, ok := domain.AsValidation(err)
	require.True(t, ok)
	require.True(t, errs.Has(domain.ErrSellerCannotPlaceBids))
}
