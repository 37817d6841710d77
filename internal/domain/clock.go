package domain

import "time"

// Clock is injected as a capability so admission logic stays
// deterministically testable; grounded on original_source's
// SystemClock trait.
type Clock interface {
	Now() time.Time
}

// SystemClock is the real wall-clock implementation.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }
