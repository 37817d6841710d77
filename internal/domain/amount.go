package domain

import (
	"fmt"
	"regexp"
	"strconv"
)

// Amount is an integer quantity of a single currency. There are no
// fractional units.
type Amount struct {
	Value    int64
	Currency CurrencyCode
}

// NewAmount constructs an Amount.
func NewAmount(value int64, currency CurrencyCode) Amount {
	return Amount{Value: value, Currency: currency}
}

// ZeroAmount is the zero-valued amount in currency.
func ZeroAmount(currency CurrencyCode) Amount {
	return Amount{Value: 0, Currency: currency}
}

var amountPattern = regexp.MustCompile(`^([A-Z]+)([0-9]+)$`)

// ParseAmount parses strings of the form "<CURRENCY><digits>", e.g. "SEK100".
func ParseAmount(s string) (Amount, error) {
	m := amountPattern.FindStringSubmatch(s)
	if m == nil {
		return Amount{}, &InvalidAmountError{Message: fmt.Sprintf("Invalid amount value: %s", s)}
	}
	currency, err := ParseCurrencyCode(m[1])
	if err != nil {
		return Amount{}, &InvalidAmountError{Message: fmt.Sprintf("Invalid currency code: %s", s)}
	}
	value, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return Amount{}, &InvalidAmountError{Message: fmt.Sprintf("Invalid amount value: %s", s)}
	}
	return Amount{Value: value, Currency: currency}, nil
}

// String renders the amount symmetrically with ParseAmount.
func (a Amount) String() string {
	return fmt.Sprintf("%s%d", a.Currency, a.Value)
}

func (a Amount) assertSameCurrency(b Amount) error {
	if a.Currency != b.Currency {
		return &CurrencyMismatchError{A: a.Currency, B: b.Currency}
	}
	return nil
}

// Add returns a+b, failing with CurrencyMismatchError if the
// currencies differ.
func (a Amount) Add(b Amount) (Amount, error) {
	if err := a.assertSameCurrency(b); err != nil {
		return Amount{}, err
	}
	return Amount{Value: a.Value + b.Value, Currency: a.Currency}, nil
}

// Sub returns a-b, failing with CurrencyMismatchError if the
// currencies differ.
func (a Amount) Sub(b Amount) (Amount, error) {
	if err := a.assertSameCurrency(b); err != nil {
		return Amount{}, err
	}
	return Amount{Value: a.Value - b.Value, Currency: a.Currency}, nil
}

// Compare is a partial order: ok is false when the currencies differ,
// in which case cmp is meaningless and must not be used.
func (a Amount) Compare(b Amount) (cmp int, ok bool) {
	if a.Currency != b.Currency {
		return 0, false
	}
	switch {
	case a.Value < b.Value:
		return -1, true
	case a.Value > b.Value:
		return 1, true
	default:
		return 0, true
	}
}
