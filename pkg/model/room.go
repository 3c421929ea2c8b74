package model

// Room owns its confirmed bookings and waiting list. Both collections keep
// insertion order; ranking for promotion never reorders them. All mutation
// helpers assume the caller holds the room's critical section via the
// registry.
type Room struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Capacity int             `json:"capacity"`
	Bookings []*Booking      `json:"bookings"`
	Waiting  []*WaitingEntry `json:"waiting_list"`
}

func (r *Room) AppendBooking(b *Booking) {
	r.Bookings = append(r.Bookings, b)
}

// FindBooking returns the booking owned by requester for exactly this slot,
// or nil. All four fields must match.
func (r *Room) FindBooking(requester string, slot Slot) *Booking {
	for _, b := range r.Bookings {
		if b.Requester == requester && b.Slot.Equal(slot) {
			return b
		}
	}
	return nil
}

func (r *Room) RemoveBookingByID(id string) bool {
	for i, b := range r.Bookings {
		if b.ID == id {
			r.Bookings = append(r.Bookings[:i], r.Bookings[i+1:]...)
			return true
		}
	}
	return false
}

func (r *Room) AppendWaiting(e *WaitingEntry) {
	r.Waiting = append(r.Waiting, e)
}

func (r *Room) FindWaiting(requester string, slot Slot) *WaitingEntry {
	for _, e := range r.Waiting {
		if e.Requester == requester && e.Slot.Equal(slot) {
			return e
		}
	}
	return nil
}

// RemoveWaitingByID removes by identity rather than value so duplicate
// requests from the same requester stay unambiguous.
func (r *Room) RemoveWaitingByID(id string) bool {
	for i, e := range r.Waiting {
		if e.ID == id {
			r.Waiting = append(r.Waiting[:i], r.Waiting[i+1:]...)
			return true
		}
	}
	return false
}

// Clone returns a deep copy safe to hand out after the room's lock is
// released.
func (r *Room) Clone() *Room {
	cp := &Room{
		ID:       r.ID,
		Name:     r.Name,
		Capacity: r.Capacity,
		Bookings: make([]*Booking, len(r.Bookings)),
		Waiting:  make([]*WaitingEntry, len(r.Waiting)),
	}
	for i, b := range r.Bookings {
		bc := *b
		cp.Bookings[i] = &bc
	}
	for i, e := range r.Waiting {
		ec := *e
		cp.Waiting[i] = &ec
	}
	return cp
}
