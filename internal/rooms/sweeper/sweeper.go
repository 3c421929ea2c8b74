// Package sweeper retires bookings whose end time has passed and cascades
// waiting-list promotions for the freed rooms on a fixed period.
package sweeper

import (
	"context"
	"errors"
	"time"

	"roomly/internal/rooms/aging"
	roomserrors "roomly/internal/rooms/errors"
	"roomly/internal/rooms/notify"
	"roomly/internal/rooms/promotion"
	"roomly/internal/rooms/registry"
	"roomly/pkg/config"
	"roomly/pkg/model"

	"github.com/samber/lo"
)

type Sweeper struct {
	registry  *registry.Registry
	scheduler *promotion.Scheduler
	publisher notify.Publisher
	cfg       *config.Config
}

func New(reg *registry.Registry, scheduler *promotion.Scheduler, publisher notify.Publisher, cfg *config.Config) *Sweeper {
	return &Sweeper{
		registry:  reg,
		scheduler: scheduler,
		publisher: publisher,
		cfg:       cfg,
	}
}

// Run ticks until ctx is cancelled. The sweep itself takes each room's
// critical section independently of the request path, so both converge on
// the same per-room mutation contract.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.SweepInterval)
	defer ticker.Stop()

	s.cfg.Log.Info("Lifecycle sweeper started",
		"interval", s.cfg.SweepInterval,
		"promote_per_slot", s.cfg.SweepPromotePerSlot,
	)

	for {
		select {
		case <-ctx.Done():
			s.cfg.Log.Info("Lifecycle sweeper stopped")
			return
		case <-ticker.C:
			s.Sweep(ctx, time.Now())
		}
	}
}

// Sweep processes every room once. A failure or panic in one room's sweep
// never aborts the others.
func (s *Sweeper) Sweep(ctx context.Context, now time.Time) {
	for _, id := range s.registry.IDs() {
		s.sweepRoom(ctx, id, now)
	}
}

func (s *Sweeper) sweepRoom(ctx context.Context, id string, now time.Time) {
	defer func() {
		if r := recover(); r != nil {
			s.cfg.Log.Error("Room sweep panicked", "room_id", id, "panic", r)
		}
	}()

	var expired, promoted []*model.Booking

	err := s.registry.Update(id, func(room *model.Room) error {
		active, ended := lo.FilterReject(room.Bookings, func(b *model.Booking, _ int) bool {
			endAt, err := b.Slot.EndInstant(s.cfg.Location)
			if err != nil {
				// unparseable slots are kept, never silently dropped
				s.cfg.Log.Warn("Booking slot cannot be resolved, keeping it",
					"room_id", room.ID,
					"booking_id", b.ID,
					"error", err,
				)
				return true
			}
			return endAt.After(now)
		})
		if len(ended) == 0 {
			return nil
		}

		room.Bookings = active
		expired = ended

		// All removals for this tick are applied before any promotion
		// runs. One promotion per tick by default; one per freed booking
		// when the room models multiple parallel slots.
		rounds := 1
		if s.cfg.SweepPromotePerSlot {
			rounds = len(ended)
		}
		for i := 0; i < rounds; i++ {
			agingCfg := aging.Config{
				MaxWaitHours: s.cfg.MaxWaitHours,
				PriorityHigh: s.cfg.PriorityHigh,
				PriorityLow:  s.cfg.PriorityLow,
			}
			booking, err := s.scheduler.PromoteNext(room, agingCfg, now)
			if err != nil {
				if !errors.Is(err, roomserrors.ErrNoCandidate) {
					return err
				}
				break
			}
			promoted = append(promoted, booking)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Room sweep failed", "room_id", id, "error", err)
		return
	}

	for _, b := range expired {
		s.cfg.Log.Info("Booking expired",
			"room_id", id,
			"booking_id", b.ID,
			"requester", b.Requester,
			"slot", b.Slot.String(),
		)
		s.publisher.Publish(ctx, notify.NewEvent(notify.EventBookingExpired, id, b.Requester, b.Slot))
	}
	for _, b := range promoted {
		s.publisher.Publish(ctx, notify.NewEvent(notify.EventWaitingPromoted, id, b.Requester, b.Slot))
	}
}
