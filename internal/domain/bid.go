package domain

import "time"

// BidData is the caller-supplied shape of a bid before it is admitted
// and assigned an id.
type BidData struct {
	User   UserId
	Amount Amount
	At     time.Time
}

// Bid is an admitted, immutable bid.
type Bid struct {
	ID     int64
	User   UserId
	Amount Amount
	At     time.Time
}
