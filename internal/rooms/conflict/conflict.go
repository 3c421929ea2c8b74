// Package conflict decides whether a candidate interval collides with a
// room's confirmed bookings.
package conflict

import "roomly/pkg/model"

// Find returns the first confirmed booking, in insertion order, whose
// same-date half-open interval overlaps the candidate slot. Touching
// endpoints do not conflict. Returns nil when the slot is free.
//
// The caller is expected to hold the room's critical section.
func Find(room *model.Room, slot model.Slot) *model.Booking {
	for _, b := range room.Bookings {
		if b.Slot.Overlaps(slot) {
			return b
		}
	}
	return nil
}

// HasConflict reports whether the slot collides with any confirmed booking.
func HasConflict(room *model.Room, slot model.Slot) bool {
	return Find(room, slot) != nil
}
