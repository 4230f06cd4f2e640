package booking

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidInterval = errors.New("interval start must be before end")
	ErrIntervalInPast  = errors.New("interval start cannot be in the past")
	ErrNegativePrice   = errors.New("price cannot be negative")
	ErrInvalidStatus   = errors.New("invalid booking status")
)

// Interval is the rental period. Overlap is boundary-inclusive: two bookings
// sharing an exact boundary instant conflict.
type Interval struct {
	start time.Time
	end   time.Time
}

func NewInterval(start, end time.Time) (Interval, error) {
	if !start.Before(end) {
		return Interval{}, ErrInvalidInterval
	}
	return Interval{start: start, end: end}, nil
}

func (iv Interval) Start() time.Time {
	return iv.start
}

func (iv Interval) End() time.Time {
	return iv.end
}

func (iv Interval) Duration() time.Duration {
	return iv.end.Sub(iv.start)
}

// ValidateNotInPast applies the creation-time rule that a booking cannot
// start before now. Updates to existing bookings are exempt.
func (iv Interval) ValidateNotInPast(now time.Time) error {
	if iv.start.Before(now) {
		return ErrIntervalInPast
	}
	return nil
}

func (iv Interval) Overlaps(other Interval) bool {
	return !iv.start.After(other.end) && !iv.end.Before(other.start)
}

// ToTstzrange renders the closed range literal used by the bookings
// exclusion constraint.
func (iv Interval) ToTstzrange() string {
	return fmt.Sprintf("[%s,%s]", iv.start.Format(time.RFC3339), iv.end.Format(time.RFC3339))
}

type Money struct {
	cents int64
}

func NewMoney(cents int64) (Money, error) {
	if cents < 0 {
		return Money{}, ErrNegativePrice
	}
	return Money{cents: cents}, nil
}

func (m Money) Cents() int64 {
	return m.cents
}
