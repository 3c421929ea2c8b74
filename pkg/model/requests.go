package model

// Canonical request shapes. Wire-field aliases (start_time, startTime,
// time, ...) are normalized into these at the HTTP boundary; the core only
// ever sees this form.

type ReservationRequest struct {
	RoomID    string `json:"room_id" validate:"omitempty,max=64"`
	Requester string `json:"requester" validate:"required,min=1,max=100"`
	Slot
	BasePriority int `json:"base_priority" validate:"omitempty,min=1,max=10"`
}

type CancelRequest struct {
	RoomID    string `json:"room_id" validate:"required,max=64"`
	Requester string `json:"requester" validate:"required,min=1,max=100"`
	Slot
}

// PromoteRequest optionally overrides the aging configuration for one
// manual promotion.
type PromoteRequest struct {
	MaxWaitHours *float64 `json:"max_wait_hours" validate:"omitempty,gt=0"`
	PriorityHigh *int     `json:"priority_high" validate:"omitempty,min=0"`
	PriorityLow  *int     `json:"priority_low" validate:"omitempty,min=0"`
}

type ReservationResult struct {
	Accepted      bool          `json:"accepted"`
	Message       string        `json:"message"`
	Room          *Room         `json:"room,omitempty"`
	Booking       *Booking      `json:"booking,omitempty"`
	WaitingEntry  *WaitingEntry `json:"waiting_entry,omitempty"`
	ConflictsWith *Booking      `json:"conflicts_with,omitempty"`
}

type CancelResult struct {
	Found    bool     `json:"found"`
	Message  string   `json:"message"`
	Promoted *Booking `json:"promoted,omitempty"`
}

type PromotionResult struct {
	Promoted bool     `json:"promoted"`
	Message  string   `json:"message"`
	Booking  *Booking `json:"booking,omitempty"`
}

type Summary struct {
	Total     int `json:"total"`
	Booked    int `json:"booked"`
	Available int `json:"available"`
}
