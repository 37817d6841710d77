package domain

import "time"

// AuctionId is assigned by the repository on first persist. Zero is
// the pre-persist sentinel.
type AuctionId int64

// Kind discriminates the two auction formats. Auction is a tagged
// variant over these, sharing AuctionBase — not an inheritance
// hierarchy; every operation below dispatches on Kind.
type Kind int

const (
	KindTimedAscending Kind = iota
	KindSingleSealedBid
)

func (k Kind) String() string {
	if k == KindSingleSealedBid {
		return "SingleSealedBid"
	}
	return "TimedAscending"
}

// SealedBidOptions selects first-price (Blind) or second-price
// (Vickrey) pricing for a SingleSealedBid auction.
type SealedBidOptions string

const (
	Blind   SealedBidOptions = "Blind"
	Vickrey SealedBidOptions = "Vickrey"
)

// TimedAscendingOptions configures an English auction.
type TimedAscendingOptions struct {
	ReservePrice int64
	MinRaise     int64
	TimeFrame    time.Duration
}

// AuctionBase holds the fields common to every auction format.
type AuctionBase struct {
	AuctionID   AuctionId
	Title       string
	StartsAt    time.Time
	Expiry      time.Time
	Seller      UserId
	Currency    CurrencyCode
	Bids        []Bid
	OpenBidders bool
}

// Auction is the polymorphic auction entity. Only the fields relevant
// to Kind are meaningful: TimedAscendingOptions/EndsAt for
// KindTimedAscending, SealedBid for KindSingleSealedBid.
type Auction struct {
	Kind           Kind
	Base           AuctionBase
	TimedAscending TimedAscendingOptions
	EndsAt         *time.Time
	SealedBid      SealedBidOptions
}

// NewTimedAscending constructs a TimedAscending auction with no bids
// and no recorded EndsAt.
func NewTimedAscending(base AuctionBase, options TimedAscendingOptions) Auction {
	return Auction{Kind: KindTimedAscending, Base: base, TimedAscending: options}
}

// NewSingleSealedBid constructs a SingleSealedBid auction with no bids.
func NewSingleSealedBid(base AuctionBase, options SealedBidOptions) Auction {
	return Auction{Kind: KindSingleSealedBid, Base: base, SealedBid: options}
}

func (a *Auction) validateBid(bid BidData) Errors {
	var errs Errors
	if bid.User == a.Base.Seller {
		errs |= ErrSellerCannotPlaceBids
	}
	if bid.Amount.Currency != a.Base.Currency {
		errs |= ErrBidCurrencyConversion
	}
	if bid.At.Before(a.Base.StartsAt) {
		errs |= ErrAuctionHasNotStarted
	}
	if bid.At.After(a.Base.Expiry) {
		errs |= ErrAuctionHasEnded
	}
	return errs
}

// TryAddBid attempts to admit bid at time now. now is the server's
// wall time when the bid was received; bid.At is the bid's logical
// time (equal to now in this implementation). On success the bid is
// appended and ok is true; on failure errs carries every applicable
// reason.
func (a *Auction) TryAddBid(now time.Time, bid BidData) (errs Errors, ok bool) {
	if errs = a.validateBid(bid); !errs.IsNone() {
		return errs, false
	}

	switch a.Kind {
	case KindSingleSealedBid:
		return a.tryAddSealedBid(now, bid)
	default:
		return a.tryAddTimedAscendingBid(now, bid)
	}
}

func (a *Auction) tryAddSealedBid(now time.Time, bid BidData) (Errors, bool) {
	if now.After(a.Base.Expiry) {
		return ErrAuctionHasEnded, false
	}
	if now.Before(a.Base.StartsAt) {
		return ErrAuctionHasNotStarted, false
	}
	for _, b := range a.Base.Bids {
		if b.User == bid.User {
			return ErrAlreadyPlacedBid, false
		}
	}
	a.appendBid(bid)
	return ErrNone, true
}

func (a *Auction) tryAddTimedAscendingBid(now time.Time, bid BidData) (Errors, bool) {
	if now.After(a.Base.Expiry) {
		return ErrAuctionHasEnded, false
	}
	if now.Before(a.Base.StartsAt) {
		return ErrAuctionHasNotStarted, false
	}

	if len(a.Base.Bids) > 0 {
		highest := a.highestBid()
		if cmp, _ := bid.Amount.Compare(highest.Amount); cmp <= 0 {
			return ErrMustPlaceBidOverHighestBid, false
		}
		minAcceptable, err := highest.Amount.Add(NewAmount(a.TimedAscending.MinRaise, a.Base.Currency))
		if err == nil {
			if cmp, _ := bid.Amount.Compare(minAcceptable); cmp < 0 {
				return ErrMustRaiseWithAtLeast, false
			}
		}
	}

	currentEnd := a.Base.Expiry
	if a.EndsAt != nil {
		currentEnd = *a.EndsAt
	}
	newEnd := currentEnd
	if extended := now.Add(a.TimedAscending.TimeFrame); extended.After(newEnd) {
		newEnd = extended
	}
	a.EndsAt = &newEnd

	a.appendBid(bid)
	return ErrNone, true
}

func (a *Auction) appendBid(bid BidData) {
	id := int64(len(a.Base.Bids)) + 1
	a.Base.Bids = append(a.Base.Bids, Bid{ID: id, User: bid.User, Amount: bid.Amount, At: bid.At})
}

// highestBid returns the earliest-inserted bid among those tied for
// the highest amount, so resolution is stable with respect to
// insertion order.
func (a *Auction) highestBid() Bid {
	best := a.Base.Bids[0]
	for _, b := range a.Base.Bids[1:] {
		if cmp, _ := b.Amount.Compare(best.Amount); cmp > 0 {
			best = b
		}
	}
	return best
}

// GetBids returns the bid list visible to a caller at time now, and
// whether the list is visible at all.
func (a *Auction) GetBids(now time.Time) ([]Bid, bool) {
	switch a.Kind {
	case KindSingleSealedBid:
		if now.Before(a.Base.StartsAt) || !now.After(a.Base.Expiry) {
			return nil, false
		}
		return a.Base.Bids, true
	default:
		if now.Before(a.Base.StartsAt) {
			return nil, false
		}
		return a.Base.Bids, true
	}
}

// TryGetAmountAndWinner resolves the winning amount and bidder, if
// any, at time now.
func (a *Auction) TryGetAmountAndWinner(now time.Time) (Amount, UserId, bool) {
	if now.Before(a.Base.Expiry) || now.Equal(a.Base.Expiry) || len(a.Base.Bids) == 0 {
		return Amount{}, "", false
	}

	switch a.Kind {
	case KindSingleSealedBid:
		return a.sealedBidWinner()
	default:
		return a.timedAscendingWinner()
	}
}

func (a *Auction) timedAscendingWinner() (Amount, UserId, bool) {
	highest := a.highestBid()
	if cmp, _ := highest.Amount.Compare(NewAmount(a.TimedAscending.ReservePrice, a.Base.Currency)); cmp >= 0 {
		return highest.Amount, highest.User, true
	}
	return Amount{}, "", false
}

func (a *Auction) sealedBidWinner() (Amount, UserId, bool) {
	sorted := append([]Bid(nil), a.Base.Bids...)
	sortBidsDescending(sorted)
	highest := sorted[0]

	if a.SealedBid == Vickrey {
		if len(sorted) == 1 {
			return highest.Amount, highest.User, true
		}
		return sorted[1].Amount, highest.User, true
	}
	return highest.Amount, highest.User, true
}

func sortBidsDescending(bids []Bid) {
	// Simple stable insertion sort: N is small (one bid per bidder) and
	// ties preserve insertion order, matching the tie-break rule used
	// throughout this package.
	for i := 1; i < len(bids); i++ {
		j := i
		for j > 0 {
			cmp, _ := bids[j].Amount.Compare(bids[j-1].Amount)
			if cmp <= 0 {
				break
			}
			bids[j], bids[j-1] = bids[j-1], bids[j]
			j--
		}
	}
}

// HasEnded reports whether the auction has concluded as of now.
func (a *Auction) HasEnded(now time.Time) bool {
	switch a.Kind {
	case KindSingleSealedBid:
		return now.After(a.Base.Expiry)
	default:
		end := a.Base.Expiry
		if a.EndsAt != nil {
			end = *a.EndsAt
		}
		return now.After(end)
	}
}
