package domain

import (
	"fmt"
	"strings"
)

// Errors is a bitmask of admission/validation failures. Multiple flags
// can be set at once — a caller learns every reason a bid was rejected
// in a single response rather than only the first one encountered.
type Errors uint16

const (
	ErrNone                       Errors = 0
	ErrUnknownAuction             Errors = 1 << 0
	ErrAuctionAlreadyExists       Errors = 1 << 1
	ErrAuctionHasEnded            Errors = 1 << 2
	ErrAuctionHasNotStarted       Errors = 1 << 3
	ErrAuctionNotFound            Errors = 1 << 4
	ErrSellerCannotPlaceBids      Errors = 1 << 5
	ErrBidCurrencyConversion      Errors = 1 << 6
	ErrInvalidUserData            Errors = 1 << 7
	ErrMustPlaceBidOverHighestBid Errors = 1 << 8
	ErrAlreadyPlacedBid           Errors = 1 << 9
	ErrMustRaiseWithAtLeast       Errors = 1 << 10
	ErrMustSpecifyAmount          Errors = 1 << 11
)

var errorNames = []struct {
	flag Errors
	text string
}{
	{ErrUnknownAuction, "Unknown auction"},
	{ErrAuctionAlreadyExists, "Auction already exists"},
	{ErrAuctionHasEnded, "Auction has ended"},
	{ErrAuctionHasNotStarted, "Auction has not started"},
	{ErrAuctionNotFound, "Auction not found"},
	{ErrSellerCannotPlaceBids, "Seller cannot place bids"},
	{ErrBidCurrencyConversion, "Bid currency conversion error"},
	{ErrInvalidUserData, "Invalid user data"},
	{ErrMustPlaceBidOverHighestBid, "Must place bid over highest bid"},
	{ErrAlreadyPlacedBid, "Already placed bid"},
	{ErrMustRaiseWithAtLeast, "Must raise with at least minimum raise amount"},
	{ErrMustSpecifyAmount, "Must specify amount"},
}

// IsNone reports whether no error flags are set.
func (e Errors) IsNone() bool { return e == ErrNone }

// Has reports whether flag is set in e.
func (e Errors) Has(flag Errors) bool { return e&flag != 0 }

// String renders the set of error flags as a human-readable,
// comma-separated list, suitable for returning to a caller verbatim.
func (e Errors) String() string {
	if e == ErrNone {
		return "No error"
	}
	var parts []string
	for _, n := range errorNames {
		if e.Has(n.flag) {
			parts = append(parts, n.text)
		}
	}
	return strings.Join(parts, ", ")
}

// Error-type wrappers for the infrastructure-layer taxonomy (spec.md §7).

// ValidationError carries an Errors bitset produced by bid admission
// or command validation.
type ValidationError struct {
	Set Errors
}

func (e *ValidationError) Error() string { return e.Set.String() }

func NewValidationError(set Errors) error { return &ValidationError{Set: set} }

// AsValidation extracts the Errors bitset from err, if it is a
// ValidationError.
func AsValidation(err error) (Errors, bool) {
	ve, ok := err.(*ValidationError)
	if !ok {
		return ErrNone, false
	}
	return ve.Set, true
}

type InvalidAmountError struct{ Message string }

func (e *InvalidAmountError) Error() string { return fmt.Sprintf("Invalid amount: %s", e.Message) }

type CurrencyMismatchError struct{ A, B CurrencyCode }

func (e *CurrencyMismatchError) Error() string {
	return fmt.Sprintf("Currency mismatch: %s vs %s", e.A, e.B)
}

type InvalidUserError struct{ Message string }

func (e *InvalidUserError) Error() string { return fmt.Sprintf("Invalid user: %s", e.Message) }

type DomainError struct{ Message string }

func (e *DomainError) Error() string { return fmt.Sprintf("Domain error: %s", e.Message) }

type NotFoundError struct{ Message string }

func (e *NotFoundError) Error() string { return fmt.Sprintf("Not found: %s", e.Message) }

type RepositoryError struct{ Message string }

func (e *RepositoryError) Error() string { return fmt.Sprintf("Repository error: %s", e.Message) }

type UnauthorizedError struct{ Message string }

func (e *UnauthorizedError) Error() string { return fmt.Sprintf("Unauthorized: %s", e.Message) }

type InternalError struct{ Message string }

func (e *InternalError) Error() string { return fmt.Sprintf("Internal error: %s", e.Message) }
