package domain

import (
	"testing"
	"time"
)

var (
	startsAt = time.Date(2016, 1, 1, 0, 0, 0, 0, time.UTC)
	expiry   = time.Date(2016, 2, 1, 0, 0, 0, 0, time.UTC)
)

func baseFor(kind Kind) AuctionBase {
	return AuctionBase{
		AuctionID: 1,
		Title:     "item",
		StartsAt:  startsAt,
		Expiry:    expiry,
		Seller:    "x1",
		Currency:  CurrencySEK,
	}
}

func bidAt(user UserId, value int64, offset time.Duration) BidData {
	return BidData{User: user, Amount: NewAmount(value, CurrencySEK), At: startsAt.Add(offset)}
}

// Scenario 1: English, min_raise=10, reserve=150.
func TestTimedAscendingMinRaiseAndReserve(t *testing.T) {
	a := NewTimedAscending(baseFor(KindTimedAscending), TimedAscendingOptions{MinRaise: 10, ReservePrice: 150})

	if _, ok := a.TryAddBid(startsAt.Add(time.Hour), bidAt("x2", 50, time.Hour)); !ok {
		t.Fatal("expected first bid to be accepted")
	}

	errs, ok := a.TryAddBid(startsAt.Add(2*time.Hour), bidAt("x3", 51, 2*time.Hour))
	if ok || !errs.Has(ErrMustRaiseWithAtLeast) {
		t.Fatalf("expected MustRaiseWithAtLeast, got errs=%s ok=%v", errs, ok)
	}

	if _, ok := a.TryAddBid(startsAt.Add(2*time.Hour), bidAt("x3", 60, 2*time.Hour)); !ok {
		t.Fatal("expected 60 to be accepted")
	}

	if _, _, ok := a.TryGetAmountAndWinner(expiry.Add(time.Hour)); ok {
		t.Fatal("expected no winner: highest bid 60 below reserve 150")
	}
}

// Scenario 2: bid outside the auction's time window.
func TestTimedAscendingOutsideWindow(t *testing.T) {
	a := NewTimedAscending(baseFor(KindTimedAscending), TimedAscendingOptions{MinRaise: 10})

	errs, ok := a.TryAddBid(startsAt.Add(-time.Hour), BidData{User: "x2", Amount: NewAmount(50, CurrencySEK), At: startsAt.Add(-time.Hour)})
	if ok || !errs.Has(ErrAuctionHasNotStarted) {
		t.Fatalf("expected AuctionHasNotStarted, got errs=%s ok=%v", errs, ok)
	}

	errs, ok = a.TryAddBid(expiry.Add(time.Hour), BidData{User: "x2", Amount: NewAmount(50, CurrencySEK), At: expiry.Add(time.Hour)})
	if ok || !errs.Has(ErrAuctionHasEnded) {
		t.Fatalf("expected AuctionHasEnded, got errs=%s ok=%v", errs, ok)
	}
}

// Scenario 3: Blind sealed bid.
func TestSealedBidBlind(t *testing.T) {
	a := NewSingleSealedBid(baseFor(KindSingleSealedBid), Blind)

	mustAdd(t, &a, bidAt("x2", 150, time.Hour))
	mustAdd(t, &a, bidAt("x3", 200, 2*time.Hour))

	if _, visible := a.GetBids(expiry.Add(-time.Minute)); visible {
		t.Fatal("expected bids hidden before expiry")
	}
	if _, _, ok := a.TryGetAmountAndWinner(expiry.Add(-time.Minute)); ok {
		t.Fatal("expected no winner before expiry")
	}

	amount, winner, ok := a.TryGetAmountAndWinner(expiry.Add(time.Hour))
	if !ok || winner != "x3" || amount.Value != 200 {
		t.Fatalf("expected winner x3 at 200, got %v %v %v", amount, winner, ok)
	}
}

// Scenario 4: Vickrey sealed bid, two bidders.
func TestSealedBidVickreyTwoBidders(t *testing.T) {
	a := NewSingleSealedBid(baseFor(KindSingleSealedBid), Vickrey)

	mustAdd(t, &a, bidAt("x2", 150, time.Hour))
	mustAdd(t, &a, bidAt("x3", 200, 2*time.Hour))

	amount, winner, ok := a.TryGetAmountAndWinner(expiry.Add(time.Hour))
	if !ok || winner != "x3" || amount.Value != 150 {
		t.Fatalf("expected winner x3 paying second price 150, got %v %v %v", amount, winner, ok)
	}
}

// Scenario 5: Vickrey sealed bid, single bidder pays own bid.
func TestSealedBidVickreySingleBidder(t *testing.T) {
	a := NewSingleSealedBid(baseFor(KindSingleSealedBid), Vickrey)
	mustAdd(t, &a, bidAt("x2", 150, time.Hour))

	amount, winner, ok := a.TryGetAmountAndWinner(expiry.Add(time.Hour))
	if !ok || winner != "x2" || amount.Value != 150 {
		t.Fatalf("expected winner x2 at 150, got %v %v %v", amount, winner, ok)
	}
}

// Scenario 6: seller cannot bid on its own auction.
func TestSellerCannotBidOwnAuction(t *testing.T) {
	a := NewTimedAscending(baseFor(KindTimedAscending), TimedAscendingOptions{})
	errs, ok := a.TryAddBid(startsAt.Add(time.Hour), bidAt("x1", 50, time.Hour))
	if ok || !errs.Has(ErrSellerCannotPlaceBids) {
		t.Fatalf("expected SellerCannotPlaceBids, got errs=%s ok=%v", errs, ok)
	}
}

func TestSealedBidAlreadyPlaced(t *testing.T) {
	a := NewSingleSealedBid(baseFor(KindSingleSealedBid), Blind)
	mustAdd(t, &a, bidAt("x2", 150, time.Hour))

	errs, ok := a.TryAddBid(startsAt.Add(2*time.Hour), bidAt("x2", 160, 2*time.Hour))
	if ok || !errs.Has(ErrAlreadyPlacedBid) {
		t.Fatalf("expected AlreadyPlacedBid, got errs=%s ok=%v", errs, ok)
	}
}

func TestBidCurrencyMismatch(t *testing.T) {
	a := NewTimedAscending(baseFor(KindTimedAscending), TimedAscendingOptions{})
	bid := BidData{User: "x2", Amount: NewAmount(50, CurrencyDKK), At: startsAt.Add(time.Hour)}
	errs, ok := a.TryAddBid(startsAt.Add(time.Hour), bid)
	if ok || !errs.Has(ErrBidCurrencyConversion) {
		t.Fatalf("expected BidCurrencyConversion, got errs=%s ok=%v", errs, ok)
	}
}

func TestBidIdsAreContiguous(t *testing.T) {
	a := NewTimedAscending(baseFor(KindTimedAscending), TimedAscendingOptions{MinRaise: 1})
	mustAdd(t, &a, bidAt("x2", 50, time.Hour))
	mustAdd(t, &a, bidAt("x3", 60, 2*time.Hour))
	mustAdd(t, &a, bidAt("x4", 70, 3*time.Hour))

	for i, b := range a.Base.Bids {
		if b.ID != int64(i+1) {
			t.Fatalf("expected contiguous bid ids, got %+v", a.Base.Bids)
		}
	}
}

func TestEndsAtExtendsOnLateBid(t *testing.T) {
	a := NewTimedAscending(baseFor(KindTimedAscending), TimedAscendingOptions{MinRaise: 1, TimeFrame: time.Hour})
	near := expiry.Add(-10 * time.Minute)
	mustAddAt(t, &a, near, BidData{User: "x2", Amount: NewAmount(50, CurrencySEK), At: near})

	if a.EndsAt == nil || !a.EndsAt.Equal(near.Add(time.Hour)) {
		t.Fatalf("expected soft-close extension to %v, got %v", near.Add(time.Hour), a.EndsAt)
	}
}

func TestHasEndedMonotonic(t *testing.T) {
	a := NewTimedAscending(baseFor(KindTimedAscending), TimedAscendingOptions{})
	if a.HasEnded(startsAt) {
		t.Fatal("should not have ended at start")
	}
	if !a.HasEnded(expiry.Add(time.Second)) {
		t.Fatal("should have ended after expiry")
	}
}

func mustAdd(t *testing.T, a *Auction, bid BidData) {
	t.Helper()
	mustAddAt(t, a, bid.At, bid)
}

func mustAddAt(t *testing.T, a *Auction, now time.Time, bid BidData) {
	t.Helper()
	if errs, ok := a.TryAddBid(now, bid); !ok {
		t.Fatalf("expected bid to be accepted, got errs=%s", errs)
	}
}
