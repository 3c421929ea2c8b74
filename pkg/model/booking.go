package model

import "time"

// Booking is a confirmed reservation. RoomID is a back-reference by
// identifier, never an ownership relation; the owning Room holds the
// booking in its Bookings collection.
type Booking struct {
	ID        string `json:"id"`
	RoomID    string `json:"room_id"`
	Requester string `json:"requester"`
	Slot
	BasePriority int       `json:"base_priority"`
	ConfirmedAt  time.Time `json:"confirmed_at"`
}

// WaitingEntry is a pending request that lost a conflict check or found no
// free room. CreatedAt drives priority aging; an entry and its resulting
// booking are never present at the same time.
type WaitingEntry struct {
	ID        string `json:"id"`
	RoomID    string `json:"room_id"`
	Requester string `json:"requester"`
	Slot
	BasePriority int       `json:"base_priority"`
	CreatedAt    time.Time `json:"created_at"`
}
