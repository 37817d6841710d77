package command

import (
	"context"

	"github.com/wallym/auctionhouse/internal/domain"
	"github.com/wallym/auctionhouse/internal/repository"
)

// PlaceBidHandler admits a bid against an existing auction.
type PlaceBidHandler struct {
	Repo  repository.Repository
	Clock domain.Clock
}

func NewPlaceBidHandler(repo repository.Repository, clock domain.Clock) *PlaceBidHandler {
	return &PlaceBidHandler{Repo: repo, Clock: clock}
}

// Handle loads the auction, attempts to admit the bid at the current
// time, and — on success — persists the updated auction. A rejected
// bid is reported via domain.ValidationError and never reaches the
// repository.
func (h *PlaceBidHandler) Handle(ctx context.Context, id domain.AuctionId, bidder domain.UserId, amount domain.Amount) (domain.Auction, error) {
	a, err := h.Repo.Get(ctx, id)
	if err != nil {
		return domain.Auction{}, err
	}
	if a == nil {
		return domain.Auction{}, &domain.NotFoundError{Message: "auction not found"}
	}

	now := h.Clock.Now()
	bid := domain.BidData{User: bidder, Amount: amount, At: now}

	errs, ok := a.TryAddBid(now, bid)
	if !ok {
		return domain.Auction{}, domain.NewValidationError(errs)
	}

	return h.Repo.Update(ctx, *a)
}
