package model

import (
	"fmt"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Slot is the canonical calendar interval a booking or waiting entry
// occupies: one date plus a half-open [start, end) time range. Times are
// kept as zero-padded HH:MM strings, so lexicographic comparison matches
// chronological comparison once the boundary has validated the format.
type Slot struct {
	Date  string `json:"date" validate:"required,datetime=2006-01-02"`
	Start string `json:"start" validate:"required,datetime=15:04"`
	End   string `json:"end" validate:"required,datetime=15:04"`
}

// Overlaps reports whether two slots conflict. Only same-date slots are
// compared; touching endpoints do not overlap.
func (s Slot) Overlaps(o Slot) bool {
	return s.Date == o.Date && s.Start < o.End && o.Start < s.End
}

func (s Slot) Equal(o Slot) bool {
	return s.Date == o.Date && s.Start == o.Start && s.End == o.End
}

// Resolvable reports whether the slot parses into real calendar instants.
func (s Slot) Resolvable() bool {
	if _, err := time.Parse(DateLayout, s.Date); err != nil {
		return false
	}
	if _, err := time.Parse(TimeLayout, s.Start); err != nil {
		return false
	}
	_, err := time.Parse(TimeLayout, s.End)
	return err == nil
}

// EndInstant resolves the slot's end into a point in time in loc.
func (s Slot) EndInstant(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout+" "+TimeLayout, s.Date+" "+s.End, loc)
}

func (s Slot) String() string {
	return fmt.Sprintf("%s %s-%s", s.Date, s.Start, s.End)
}
