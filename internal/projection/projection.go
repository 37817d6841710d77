// Package projection maps domain auctions to the external model
// returned over HTTP and broadcast over the live auction feed,
// grounded on original_source's map_auction_to_model.
package projection

import (
	"time"

	"github.com/wallym/auctionhouse/internal/domain"
)

// BidView is a single bid as rendered to API callers. At is the
// offset from the auction's StartsAt, not an absolute timestamp,
// matching the original's `bid.at() - auction.starts_at()`.
type BidView struct {
	ID     int64         `json:"id"`
	Bidder string        `json:"bidder"`
	Amount string        `json:"amount"`
	At     time.Duration `json:"at"`
}

// AuctionView is the external representation of an auction: its
// static attributes plus the bid list and, once resolved, the
// winning amount and bidder.
type AuctionView struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Type        string    `json:"type"`
	StartsAt    time.Time `json:"startsAt"`
	Expiry      time.Time `json:"expiry"`
	Seller      string    `json:"seller"`
	Currency    string    `json:"currency"`
	OpenBidders bool      `json:"openBidders"`
	HasEnded    bool      `json:"hasEnded"`
	Bids        []BidView `json:"bids,omitempty"`
	BidsHidden  bool      `json:"bidsHidden"`
	Price       *string   `json:"price,omitempty"`
	Winner      *string   `json:"winner,omitempty"`
}

// ToView projects a to its external representation as of now.
//
// Bidder identity is redacted (replaced with "bidder#<hash>", a short
// hash of the user id) whenever
// the auction was created with OpenBidders false and has not yet
// ended — this resolves the open design question of how "auction
// with not-publicly-visible bidders" interacts with bid listing.
// Once the auction has ended, identities are always revealed, since
// settlement requires knowing who the winner is.
func ToView(a domain.Auction, now time.Time) AuctionView {
	hasEnded := a.HasEnded(now)
	redact := !a.Base.OpenBidders && !hasEnded

	view := AuctionView{
		ID:          int64(a.Base.AuctionID),
		Title:       a.Base.Title,
		Type:        a.Kind.String(),
		StartsAt:    a.Base.StartsAt,
		Expiry:      a.Base.Expiry,
		Seller:      string(a.Base.Seller),
		Currency:    string(a.Base.Currency),
		OpenBidders: a.Base.OpenBidders,
		HasEnded:    hasEnded,
	}

	bids, visible := a.GetBids(now)
	view.BidsHidden = !visible
	if visible {
		view.Bids = make([]BidView, len(bids))
		for i, b := range bids {
			bidder := string(b.User)
			if redact {
				bidder = redactedBidder(b.User)
			}
			view.Bids[i] = BidView{
				ID:     b.ID,
				Bidder: bidder,
				Amount: b.Amount.String(),
				At:     b.At.Sub(a.Base.StartsAt),
			}
		}
	}

	if amount, winner, ok := a.TryGetAmountAndWinner(now); ok {
		amountStr := amount.String()
		winnerStr := string(winner)
		view.Price = &amountStr
		view.Winner = &winnerStr
	}

	return view
}

func redactedBidder(u domain.UserId) string {
	return "bidder#" + shortHash(string(u))
}

// shortHash is a small non-cryptographic fold used only to give
// redacted bidders a stable, distinguishable label. It is not an
// identity protection mechanism: the label is a short, unsalted hash
// of the user id.
func shortHash(s string) string {
	var h uint32 = 2166136261
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= 16777619
	}
	const digits = "0123456789abcdef"
	buf := make([]byte, 6)
	for i := range buf {
		buf[i] = digits[h&0xf]
		h >>= 4
	}
	return string(buf)
}
