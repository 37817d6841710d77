// Package command hosts the two write operations the system exposes:
// creating an auction and placing a bid. Both follow the same shape —
// query the clock once, build or mutate the domain entity, persist —
// grounded on original_source's CreateAuctionCommandHandler and
// CreateBidCommandHandler.
package command

import (
	"context"

	"github.com/wallym/auctionhouse/internal/domain"
	"github.com/wallym/auctionhouse/internal/repository"
)

// CreateAuctionHandler builds and persists a new auction on behalf of
// an authenticated seller.
type CreateAuctionHandler struct {
	Repo  repository.Repository
	Clock domain.Clock
}

func NewCreateAuctionHandler(repo repository.Repository, clock domain.Clock) *CreateAuctionHandler {
	return &CreateAuctionHandler{Repo: repo, Clock: clock}
}

// Handle validates the command, constructs the auction entity, and
// persists it. The clock is read once, but its value is not used:
// validation only checks that StartsAt is before EndsAt.
func (h *CreateAuctionHandler) Handle(ctx context.Context, seller domain.UserId, cmd domain.CreateAuctionCommand) (domain.Auction, error) {
	_ = h.Clock.Now()

	a, err := domain.NewAuction(cmd, seller)
	if err != nil {
		return domain.Auction{}, err
	}

	return h.Repo.Create(ctx, a)
}
