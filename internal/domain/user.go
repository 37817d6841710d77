package domain

import (
	"fmt"
	"strings"
)

// UserId is an opaque, non-empty identifier for a buyer, seller, or
// support agent.
type UserId string

// NewUserId validates and constructs a UserId.
func NewUserId(id string) (UserId, error) {
	if id == "" {
		return "", &InvalidUserError{Message: "user id must not be empty"}
	}
	return UserId(id), nil
}

func (u UserId) String() string { return string(u) }

// UserKind distinguishes the two shapes a User can take.
type UserKind int

const (
	KindBuyerOrSeller UserKind = iota
	KindSupport
)

// User is a tagged variant: either a BuyerOrSeller (with an optional
// display name) or a Support agent.
type User struct {
	Kind UserKind
	ID   UserId
	Name *string
}

// NewBuyerOrSeller constructs a BuyerOrSeller user, optionally named.
func NewBuyerOrSeller(id UserId, name *string) User {
	return User{Kind: KindBuyerOrSeller, ID: id, Name: name}
}

// NewSupport constructs a Support user.
func NewSupport(id UserId) User {
	return User{Kind: KindSupport, ID: id}
}

// ParseUser parses the pipe-delimited wire form:
// "BuyerOrSeller|<id>[|<name>]" or "Support|<id>".
func ParseUser(s string) (User, error) {
	parts := strings.Split(s, "|")
	if len(parts) == 0 || parts[0] == "" {
		return User{}, &InvalidUserError{Message: "Invalid user string format"}
	}
	switch parts[0] {
	case "BuyerOrSeller":
		if len(parts) < 2 || parts[1] == "" {
			return User{}, &InvalidUserError{Message: "Missing BuyerOrSeller ID"}
		}
		var name *string
		if len(parts) > 2 {
			n := parts[2]
			name = &n
		}
		return NewBuyerOrSeller(UserId(parts[1]), name), nil
	case "Support":
		if len(parts) < 2 || parts[1] == "" {
			return User{}, &InvalidUserError{Message: "Missing Support ID"}
		}
		return NewSupport(UserId(parts[1])), nil
	default:
		return User{}, &InvalidUserError{Message: fmt.Sprintf("Unknown user type: %s", parts[0])}
	}
}

// String renders the wire form, round-trippable via ParseUser.
func (u User) String() string {
	switch u.Kind {
	case KindSupport:
		return fmt.Sprintf("Support|%s", u.ID)
	default:
		if u.Name != nil {
			return fmt.Sprintf("BuyerOrSeller|%s|%s", u.ID, *u.Name)
		}
		return fmt.Sprintf("BuyerOrSeller|%s", u.ID)
	}
}
