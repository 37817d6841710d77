package domain

import "testing"

func TestUserRoundTrip(t *testing.T) {
	name := "Alice"
	cases := []User{
		NewBuyerOrSeller("x1", nil),
		NewBuyerOrSeller("x1", &name),
		NewSupport("s1"),
	}
	for _, u := range cases {
		parsed, err := ParseUser(u.String())
		if err != nil {
			t.Fatalf("unexpected error parsing %q: %v", u.String(), err)
		}
		if parsed.Kind != u.Kind || parsed.ID != u.ID {
			t.Fatalf("round trip mismatch: %+v != %+v", parsed, u)
		}
	}
}

func TestParseUserInvalid(t *testing.T) {
	cases := []string{"", "Unknown|x1", "BuyerOrSeller|", "Support|"}
	for _, c := range cases {
		if _, err := ParseUser(c); err == nil {
			t.Fatalf("expected error for %q", c)
		}
	}
}

func TestNewUserIdRejectsEmpty(t *testing.T) {
	if _, err := NewUserId(""); err == nil {
		t.Fatal("expected error for empty user id")
	}
}
