package domain

import "fmt"

// CurrencyCode is a closed enumeration of the currencies the auction
// house can settle in. NONE is the zero value and never appears on a
// persisted bid or auction.
type CurrencyCode string

const (
	CurrencyNone CurrencyCode = "NONE"
	CurrencyVAC  CurrencyCode = "VAC"
	CurrencySEK  CurrencyCode = "SEK"
	CurrencyDKK  CurrencyCode = "DKK"
)

// ParseCurrencyCode parses the three-letter symbol into a CurrencyCode.
func ParseCurrencyCode(s string) (CurrencyCode, error) {
	switch CurrencyCode(s) {
	case CurrencyVAC, CurrencySEK, CurrencyDKK:
		return CurrencyCode(s), nil
	default:
		return CurrencyNone, fmt.Errorf("unknown currency code: %s", s)
	}
}

func (c CurrencyCode) String() string {
	if c == "" {
		return string(CurrencyNone)
	}
	return string(c)
}
