package domain

import "testing"

func TestParseAmountRoundTrip(t *testing.T) {
	a, err := ParseAmount("SEK100")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Value != 100 || a.Currency != CurrencySEK {
		t.Fatalf("got %+v", a)
	}
	if a.String() != "SEK100" {
		t.Fatalf("round trip mismatch: %s", a.String())
	}
}

func TestParseAmountInvalid(t *testing.T) {
	cases := []string{"", "100", "sek100", "SEK", "SEK-1"}
	for _, c := range cases {
		if _, err := ParseAmount(c); err == nil {
			t.Fatalf("expected error for %q", c)
		}
	}
}

func TestAmountAddRequiresSameCurrency(t *testing.T) {
	a := NewAmount(100, CurrencySEK)
	b := NewAmount(50, CurrencyDKK)
	if _, err := a.Add(b); err == nil {
		t.Fatal("expected currency mismatch error")
	}
}

func TestAmountCompare(t *testing.T) {
	a := NewAmount(100, CurrencySEK)
	b := NewAmount(200, CurrencySEK)

	cmp, ok := a.Compare(b)
	if !ok || cmp >= 0 {
		t.Fatalf("expected a < b, got cmp=%d ok=%v", cmp, ok)
	}

	c := NewAmount(100, CurrencyDKK)
	if _, ok := a.Compare(c); ok {
		t.Fatal("expected Compare to report ok=false across currencies")
	}
}
