package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"roomly/internal/rooms/aging"
	"roomly/internal/rooms/conflict"
	roomserrors "roomly/internal/rooms/errors"
	"roomly/internal/rooms/notify"
	"roomly/internal/rooms/promotion"
	"roomly/internal/rooms/registry"
	"roomly/internal/rooms/validator"
	"roomly/pkg/config"
	apperrors "roomly/pkg/errors"
	"roomly/pkg/model"
	"roomly/pkg/sanitizer"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type RoomService interface {
	ListRooms(ctx context.Context) ([]*model.Room, error)
	Summary(ctx context.Context) (*model.Summary, error)
	Reserve(ctx context.Context, req *model.ReservationRequest) (*model.ReservationResult, error)
	CancelBooking(ctx context.Context, req *model.CancelRequest) (*model.CancelResult, error)
	CancelWaiting(ctx context.Context, req *model.CancelRequest) (*model.CancelResult, error)
	Promote(ctx context.Context, roomID string, req *model.PromoteRequest) (*model.PromotionResult, error)
}

type roomService struct {
	registry  *registry.Registry
	scheduler *promotion.Scheduler
	validator *validator.RequestValidator
	publisher notify.Publisher
	cfg       *config.Config
}

func NewRoomService(
	reg *registry.Registry,
	scheduler *promotion.Scheduler,
	requestValidator *validator.RequestValidator,
	publisher notify.Publisher,
	cfg *config.Config,
) RoomService {
	return &roomService{
		registry:  reg,
		scheduler: scheduler,
		validator: requestValidator,
		publisher: publisher,
		cfg:       cfg,
	}
}

func (s *roomService) ListRooms(ctx context.Context) ([]*model.Room, error) {
	return s.registry.Snapshot(), nil
}

func (s *roomService) Summary(ctx context.Context) (*model.Summary, error) {
	snap := s.registry.Snapshot()
	booked := lo.CountBy(snap, func(r *model.Room) bool {
		return len(r.Bookings) > 0
	})
	return &model.Summary{
		Total:     len(snap),
		Booked:    booked,
		Available: len(snap) - booked,
	}, nil
}

func (s *roomService) Reserve(ctx context.Context, req *model.ReservationRequest) (*model.ReservationResult, error) {
	req.Requester = sanitizer.NormalizeRequester(req.Requester)
	req.RoomID = sanitizer.NormalizeRoomID(req.RoomID)
	if req.BasePriority == 0 {
		req.BasePriority = s.cfg.DefaultBasePriority
	}

	if err := s.validator.ValidateReservation(req); err != nil {
		s.cfg.Log.Warn("Reservation validation failed", "error", err)
		return nil, apperrors.Validation("Invalid reservation request", map[string]any{"error": err.Error()})
	}

	now := time.Now()
	if req.RoomID != "" {
		return s.reserveTargeted(ctx, req, now)
	}
	return s.reserveAny(ctx, req, now)
}

// reserveTargeted books the requested room, or enrolls the requester on its
// waiting list when the interval conflicts. Enrollment is a successful
// outcome, not an error.
func (s *roomService) reserveTargeted(ctx context.Context, req *model.ReservationRequest, now time.Time) (*model.ReservationResult, error) {
	var result *model.ReservationResult
	var events []notify.Event

	err := s.registry.Update(req.RoomID, func(room *model.Room) error {
		if conflicting := conflict.Find(room, req.Slot); conflicting != nil {
			entry := s.newWaitingEntry(req, room.ID, now)
			room.AppendWaiting(entry)

			conflictCopy := *conflicting
			entryCopy := *entry
			result = &model.ReservationResult{
				Accepted: true,
				Message: fmt.Sprintf("%s is already booked by %s on %s from %s to %s. %s was added to the waiting list.",
					room.Name, conflicting.Requester, conflicting.Date, conflicting.Start, conflicting.End, req.Requester),
				Room:          room.Clone(),
				WaitingEntry:  &entryCopy,
				ConflictsWith: &conflictCopy,
			}
			events = append(events, notify.NewEvent(notify.EventWaitingEnrolled, room.ID, entry.Requester, entry.Slot))
			return nil
		}

		booking := s.newBooking(req, room.ID, now)
		room.AppendBooking(booking)

		bookingCopy := *booking
		result = &model.ReservationResult{
			Accepted: true,
			Message: fmt.Sprintf("%s booked for %s from %s to %s by %s",
				room.Name, req.Date, req.Start, req.End, req.Requester),
			Room:    room.Clone(),
			Booking: &bookingCopy,
		}
		events = append(events, notify.NewEvent(notify.EventBookingConfirmed, room.ID, booking.Requester, booking.Slot))
		return nil
	})
	if err != nil {
		if errors.Is(err, roomserrors.ErrRoomNotFound) {
			return nil, apperrors.NotFoundWithID("Room", req.RoomID)
		}
		return nil, apperrors.Internal("Failed to reserve room", err)
	}

	s.publish(ctx, events)
	s.cfg.Log.Info("Reservation processed",
		"room_id", req.RoomID,
		"requester", req.Requester,
		"slot", req.Slot.String(),
		"booked", result.Booking != nil,
	)
	return result, nil
}

// reserveAny books the first room free for the interval in listing order;
// when every room conflicts the request queues on the fallback room's
// waiting list and the reservation is reported as not accepted.
func (s *roomService) reserveAny(ctx context.Context, req *model.ReservationRequest, now time.Time) (*model.ReservationResult, error) {
	var result *model.ReservationResult
	var events []notify.Event

	for _, id := range s.registry.IDs() {
		err := s.registry.Update(id, func(room *model.Room) error {
			if conflict.HasConflict(room, req.Slot) {
				return nil
			}

			booking := s.newBooking(req, room.ID, now)
			room.AppendBooking(booking)

			bookingCopy := *booking
			result = &model.ReservationResult{
				Accepted: true,
				Message: fmt.Sprintf("%s assigned automatically and booked for %s from %s to %s",
					room.Name, req.Date, req.Start, req.End),
				Room:    room.Clone(),
				Booking: &bookingCopy,
			}
			events = append(events, notify.NewEvent(notify.EventBookingConfirmed, room.ID, booking.Requester, booking.Slot))
			return nil
		})
		if err != nil {
			return nil, apperrors.Internal("Failed to reserve room", err)
		}
		if result != nil {
			s.publish(ctx, events)
			return result, nil
		}
	}

	err := s.registry.Update(s.cfg.FallbackRoomID, func(room *model.Room) error {
		entry := s.newWaitingEntry(req, room.ID, now)
		room.AppendWaiting(entry)

		entryCopy := *entry
		result = &model.ReservationResult{
			Accepted: false,
			Message: fmt.Sprintf("All rooms are booked for this time. %s was added to the waiting list of %s.",
				req.Requester, room.Name),
			Room:         room.Clone(),
			WaitingEntry: &entryCopy,
		}
		events = append(events, notify.NewEvent(notify.EventWaitingEnrolled, room.ID, entry.Requester, entry.Slot))
		return nil
	})
	if err != nil {
		return nil, apperrors.Internal("Failed to queue reservation on fallback room", err)
	}

	s.publish(ctx, events)
	s.cfg.Log.Info("All rooms busy, queued on fallback room",
		"fallback_room_id", s.cfg.FallbackRoomID,
		"requester", req.Requester,
		"slot", req.Slot.String(),
	)
	return result, nil
}

// CancelBooking removes the booking matching all four of requester, date,
// start, and end, then immediately attempts one promotion for the freed
// room.
func (s *roomService) CancelBooking(ctx context.Context, req *model.CancelRequest) (*model.CancelResult, error) {
	req.Requester = sanitizer.NormalizeRequester(req.Requester)
	req.RoomID = sanitizer.NormalizeRoomID(req.RoomID)
	if err := s.validator.ValidateCancel(req); err != nil {
		s.cfg.Log.Warn("Cancellation validation failed", "error", err)
		return nil, apperrors.Validation("Invalid cancellation request", map[string]any{"error": err.Error()})
	}

	now := time.Now()
	var result *model.CancelResult
	var events []notify.Event

	err := s.registry.Update(req.RoomID, func(room *model.Room) error {
		booking := room.FindBooking(req.Requester, req.Slot)
		if booking == nil {
			result = &model.CancelResult{Found: false, Message: "No matching booking to cancel."}
			return nil
		}

		room.RemoveBookingByID(booking.ID)
		events = append(events, notify.NewEvent(notify.EventBookingCancelled, room.ID, booking.Requester, booking.Slot))

		promoted, err := s.scheduler.PromoteNext(room, s.agingConfig(nil), now)
		if err != nil {
			if !errors.Is(err, roomserrors.ErrNoCandidate) {
				return err
			}
			result = &model.CancelResult{Found: true, Message: "Booking cancelled successfully. Nobody is waiting."}
			return nil
		}

		promotedCopy := *promoted
		result = &model.CancelResult{
			Found: true,
			Message: fmt.Sprintf("Booking cancelled. Waiting requester %s promoted automatically (%s-%s on %s).",
				promoted.Requester, promoted.Start, promoted.End, promoted.Date),
			Promoted: &promotedCopy,
		}
		events = append(events, notify.NewEvent(notify.EventWaitingPromoted, room.ID, promoted.Requester, promoted.Slot))
		return nil
	})
	if err != nil {
		if errors.Is(err, roomserrors.ErrRoomNotFound) {
			return nil, apperrors.NotFoundWithID("Room", req.RoomID)
		}
		return nil, apperrors.Internal("Failed to cancel booking", err)
	}

	s.publish(ctx, events)
	return result, nil
}

// CancelWaiting removes the exact-matching waiting entry. No slot is freed,
// so it never triggers promotion.
func (s *roomService) CancelWaiting(ctx context.Context, req *model.CancelRequest) (*model.CancelResult, error) {
	req.Requester = sanitizer.NormalizeRequester(req.Requester)
	req.RoomID = sanitizer.NormalizeRoomID(req.RoomID)
	if err := s.validator.ValidateCancel(req); err != nil {
		s.cfg.Log.Warn("Cancellation validation failed", "error", err)
		return nil, apperrors.Validation("Invalid cancellation request", map[string]any{"error": err.Error()})
	}

	var result *model.CancelResult
	var events []notify.Event

	err := s.registry.Update(req.RoomID, func(room *model.Room) error {
		entry := room.FindWaiting(req.Requester, req.Slot)
		if entry == nil {
			result = &model.CancelResult{Found: false, Message: "No matching waiting entry to cancel."}
			return nil
		}

		room.RemoveWaitingByID(entry.ID)
		result = &model.CancelResult{Found: true, Message: "Waiting list entry cancelled successfully."}
		events = append(events, notify.NewEvent(notify.EventWaitingCancelled, room.ID, entry.Requester, entry.Slot))
		return nil
	})
	if err != nil {
		if errors.Is(err, roomserrors.ErrRoomNotFound) {
			return nil, apperrors.NotFoundWithID("Room", req.RoomID)
		}
		return nil, apperrors.Internal("Failed to cancel waiting entry", err)
	}

	s.publish(ctx, events)
	return result, nil
}

// Promote runs one promotion pass for the room, optionally with a
// request-scoped aging configuration.
func (s *roomService) Promote(ctx context.Context, roomID string, req *model.PromoteRequest) (*model.PromotionResult, error) {
	roomID = sanitizer.NormalizeRoomID(roomID)
	if roomID == "" {
		return nil, apperrors.InvalidInput("Room ID cannot be empty")
	}
	if req != nil {
		if err := s.validator.ValidatePromotion(req); err != nil {
			return nil, apperrors.Validation("Invalid promotion request", map[string]any{"error": err.Error()})
		}
	}

	now := time.Now()
	var result *model.PromotionResult
	var events []notify.Event

	err := s.registry.Update(roomID, func(room *model.Room) error {
		booking, err := s.scheduler.PromoteNext(room, s.agingConfig(req), now)
		if err != nil {
			if !errors.Is(err, roomserrors.ErrNoCandidate) {
				return err
			}
			result = &model.PromotionResult{Promoted: false, Message: "No candidate found to promote."}
			return nil
		}

		bookingCopy := *booking
		result = &model.PromotionResult{
			Promoted: true,
			Message:  fmt.Sprintf("Promoted waiting requester %s to a confirmed booking.", booking.Requester),
			Booking:  &bookingCopy,
		}
		events = append(events, notify.NewEvent(notify.EventWaitingPromoted, room.ID, booking.Requester, booking.Slot))
		return nil
	})
	if err != nil {
		if errors.Is(err, roomserrors.ErrRoomNotFound) {
			return nil, apperrors.NotFoundWithID("Room", roomID)
		}
		return nil, apperrors.Internal("Failed to promote waiting entry", err)
	}

	s.publish(ctx, events)
	return result, nil
}

// --- Helpers ---

func (s *roomService) newBooking(req *model.ReservationRequest, roomID string, now time.Time) *model.Booking {
	return &model.Booking{
		ID:           uuid.NewString(),
		RoomID:       roomID,
		Requester:    req.Requester,
		Slot:         req.Slot,
		BasePriority: req.BasePriority,
		ConfirmedAt:  now,
	}
}

func (s *roomService) newWaitingEntry(req *model.ReservationRequest, roomID string, now time.Time) *model.WaitingEntry {
	return &model.WaitingEntry{
		ID:           uuid.NewString(),
		RoomID:       roomID,
		Requester:    req.Requester,
		Slot:         req.Slot,
		BasePriority: req.BasePriority,
		CreatedAt:    now,
	}
}

func (s *roomService) agingConfig(req *model.PromoteRequest) aging.Config {
	cfg := aging.Config{
		MaxWaitHours: s.cfg.MaxWaitHours,
		PriorityHigh: s.cfg.PriorityHigh,
		PriorityLow:  s.cfg.PriorityLow,
	}
	if req == nil {
		return cfg
	}
	if req.MaxWaitHours != nil {
		cfg.MaxWaitHours = *req.MaxWaitHours
	}
	if req.PriorityHigh != nil {
		cfg.PriorityHigh = *req.PriorityHigh
	}
	if req.PriorityLow != nil {
		cfg.PriorityLow = *req.PriorityLow
	}
	return cfg
}

func (s *roomService) publish(ctx context.Context, events []notify.Event) {
	for _, evt := range events {
		s.publisher.Publish(ctx, evt)
	}
}
