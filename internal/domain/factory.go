package domain

import "time"

// CreateAuctionCommand is the caller-supplied shape of a request to
// create a new auction.
type CreateAuctionCommand struct {
	Title                  string
	Currency               CurrencyCode
	StartsAt               time.Time
	EndsAt                 time.Time
	MinRaise               *int64
	ReservePrice           *int64
	TimeFrame              *time.Duration
	SingleSealedBidOptions *SealedBidOptions
	OpenBidders            bool
}

// NewAuction builds an Auction from a creation command plus the
// authenticated seller id. Bids start empty, EndsAt is unset for
// TimedAscending, and AuctionID is the pre-persist sentinel.
func NewAuction(cmd CreateAuctionCommand, seller UserId) (Auction, error) {
	if !cmd.StartsAt.Before(cmd.EndsAt) {
		return Auction{}, &DomainError{Message: "starts_at must be before expiry"}
	}

	base := AuctionBase{
		AuctionID:   0,
		Title:       cmd.Title,
		StartsAt:    cmd.StartsAt,
		Expiry:      cmd.EndsAt,
		Seller:      seller,
		Currency:    cmd.Currency,
		Bids:        nil,
		OpenBidders: cmd.OpenBidders,
	}

	if cmd.SingleSealedBidOptions != nil {
		return NewSingleSealedBid(base, *cmd.SingleSealedBidOptions), nil
	}

	options := TimedAscendingOptions{}
	if cmd.MinRaise != nil {
		options.MinRaise = *cmd.MinRaise
	}
	if cmd.ReservePrice != nil {
		options.ReservePrice = *cmd.ReservePrice
	}
	if cmd.TimeFrame != nil {
		options.TimeFrame = *cmd.TimeFrame
	}
	return NewTimedAscending(base, options), nil
}
