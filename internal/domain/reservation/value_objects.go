package reservation

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidTimeSlot   = errors.New("start time must be before end time")
	ErrDescriptionTooLong = errors.New("description is too long (max 500 characters)")
)

const MaxDescriptionLength = 500

// TimeSlot is a half-open interval [start, end). End must be strictly after
// start; degenerate windows are rejected at construction.
type TimeSlot struct {
	start time.Time
	end   time.Time
}

func NewTimeSlot(start, end time.Time) (TimeSlot, error) {
	if !end.After(start) {
		return TimeSlot{}, ErrInvalidTimeSlot
	}
	return TimeSlot{start: start, end: end}, nil
}

func (ts TimeSlot) Start() time.Time {
	return ts.start
}

func (ts TimeSlot) End() time.Time {
	return ts.end
}

func (ts TimeSlot) Duration() time.Duration {
	return ts.end.Sub(ts.start)
}

// Overlaps reports whether two half-open intervals intersect. Touching
// boundaries (ts.end == other.start) do not overlap, so back-to-back
// bookings are allowed.
func (ts TimeSlot) Overlaps(other TimeSlot) bool {
	return ts.start.Before(other.end) && other.start.Before(ts.end)
}

func (ts TimeSlot) ToTstzrange() string {
	return fmt.Sprintf("[%s,%s)", ts.start.Format(time.RFC3339), ts.end.Format(time.RFC3339))
}

type Description struct {
	value string
}

func NewDescription(value string) (Description, error) {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) > MaxDescriptionLength {
		return Description{}, ErrDescriptionTooLong
	}
	return Description{value: trimmed}, nil
}

func (d Description) String() string {
	return d.value
}

func (d Description) IsEmpty() bool {
	return d.value == ""
}
