// Package promotion moves the best-ranked waiting entry of a room into a
// confirmed booking. One algorithm serves all three triggers: cancellation,
// manual promotion, and sweeper expiry.
package promotion

import (
	"fmt"
	"time"

	"roomly/internal/rooms/aging"
	roomserrors "roomly/internal/rooms/errors"
	"roomly/pkg/logger"
	"roomly/pkg/model"

	"github.com/google/uuid"
)

type Scheduler struct {
	log *logger.Logger
}

func NewScheduler(log *logger.Logger) *Scheduler {
	return &Scheduler{log: log}
}

// PromoteNext selects the waiting entry with the highest effective
// priority (ties broken by earliest creation), removes it from the waiting
// list by identity, and appends the resulting booking to the room's
// confirmed collection. Returns ErrNoCandidate when the waiting list is
// empty or the selected entry's slot cannot be resolved; in the latter
// case the entry is left in place for a future pass.
//
// The caller must hold the room's critical section. now is sampled once by
// the caller so every entry in the pass is scored against the same instant.
func (s *Scheduler) PromoteNext(room *model.Room, cfg aging.Config, now time.Time) (*model.Booking, error) {
	if len(room.Waiting) == 0 {
		return nil, roomserrors.ErrNoCandidate
	}

	best := room.Waiting[0]
	bestScore := cfg.Score(best, now)
	for _, e := range room.Waiting[1:] {
		score := cfg.Score(e, now)
		if score > bestScore || (score == bestScore && e.CreatedAt.Before(best.CreatedAt)) {
			best = e
			bestScore = score
		}
	}

	if !best.Slot.Resolvable() {
		s.log.Warn("Cannot promote waiting entry with unresolvable slot",
			"room_id", room.ID,
			"entry_id", best.ID,
			"requester", best.Requester,
			"date", best.Date,
			"start", best.Start,
			"end", best.End,
		)
		return nil, fmt.Errorf("%w: %w (entry %s)", roomserrors.ErrNoCandidate, roomserrors.ErrUnresolvableSlot, best.ID)
	}

	room.RemoveWaitingByID(best.ID)

	id := best.ID
	if id == "" {
		id = uuid.NewString()
	}
	booking := &model.Booking{
		ID:           id,
		RoomID:       room.ID,
		Requester:    best.Requester,
		Slot:         best.Slot,
		BasePriority: best.BasePriority,
		ConfirmedAt:  now,
	}
	room.AppendBooking(booking)

	s.log.Info("Waiting entry promoted",
		"room_id", room.ID,
		"booking_id", booking.ID,
		"requester", booking.Requester,
		"slot", booking.Slot.String(),
		"score", bestScore,
	)
	return booking, nil
}
