package sweeper

import (
	"context"
	"sync"
	"testing"
	"time"

	"roomly/internal/rooms/notify"
	"roomly/internal/rooms/promotion"
	"roomly/internal/rooms/registry"
	"roomly/pkg/config"
	"roomly/pkg/logger"
	"roomly/pkg/model"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Location:            time.UTC,
		SweepInterval:       time.Minute,
		MaxWaitHours:        48,
		PriorityHigh:        5,
		PriorityLow:         1,
		DefaultBasePriority: 1,
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.JSON,
			Service: "test",
		}),
	}
}

// recordingPublisher captures lifecycle events for assertions.
type recordingPublisher struct {
	mu     sync.Mutex
	events []notify.Event
}

func (p *recordingPublisher) Publish(_ context.Context, evt notify.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) byType(t notify.EventType) []notify.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []notify.Event
	for _, evt := range p.events {
		if evt.Type == t {
			out = append(out, evt)
		}
	}
	return out
}

func booking(id, requester, date, start, end string) *model.Booking {
	return &model.Booking{
		ID:        id,
		RoomID:    "room-a",
		Requester: requester,
		Slot:      model.Slot{Date: date, Start: start, End: end},
	}
}

func waiting(id, requester string, createdAt time.Time) *model.WaitingEntry {
	return &model.WaitingEntry{
		ID:           id,
		RoomID:       "room-a",
		Requester:    requester,
		Slot:         model.Slot{Date: "2025-01-11", Start: "09:00", End: "10:00"},
		BasePriority: 1,
		CreatedAt:    createdAt,
	}
}

func newSweeper(t *testing.T, cfg *config.Config, rooms []*model.Room) (*Sweeper, *registry.Registry, *recordingPublisher) {
	t.Helper()
	reg := registry.New(rooms, cfg.Log)
	pub := &recordingPublisher{}
	return New(reg, promotion.NewScheduler(cfg.Log), pub, cfg), reg, pub
}

func TestSweepExpiresEndedBookings(t *testing.T) {
	cfg := testConfig(t)
	now := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)

	sw, reg, pub := newSweeper(t, cfg, []*model.Room{{
		ID:   "room-a",
		Name: "Conference Room A",
		Bookings: []*model.Booking{
			booking("b-ended", "alice", "2025-01-10", "09:00", "10:00"),
			booking("b-active", "bob", "2025-01-10", "11:00", "13:00"),
		},
	}})

	sw.Sweep(context.Background(), now)

	snap, err := reg.SnapshotRoom("room-a")
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Bookings) != 1 || snap.Bookings[0].ID != "b-active" {
		t.Fatalf("expected only the active booking to remain, got %+v", snap.Bookings)
	}
	if got := pub.byType(notify.EventBookingExpired); len(got) != 1 || got[0].Requester != "alice" {
		t.Errorf("expected one expiry event for alice, got %+v", got)
	}
}

func TestSweepPromotesAfterExpiry(t *testing.T) {
	cfg := testConfig(t)
	now := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)

	sw, reg, pub := newSweeper(t, cfg, []*model.Room{{
		ID:   "room-a",
		Name: "Conference Room A",
		Bookings: []*model.Booking{
			booking("b-ended", "alice", "2025-01-10", "09:00", "10:00"),
		},
		Waiting: []*model.WaitingEntry{
			waiting("w-1", "bob", now.Add(-time.Hour)),
		},
	}})

	sw.Sweep(context.Background(), now)

	snap, err := reg.SnapshotRoom("room-a")
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Waiting) != 0 {
		t.Errorf("waiting list should be drained, got %d entries", len(snap.Waiting))
	}
	if len(snap.Bookings) != 1 || snap.Bookings[0].Requester != "bob" {
		t.Fatalf("bob should hold the freed slot, got %+v", snap.Bookings)
	}
	if got := pub.byType(notify.EventWaitingPromoted); len(got) != 1 {
		t.Errorf("expected one promotion event, got %+v", got)
	}
}

func TestSweepPromotesOncePerTickByDefault(t *testing.T) {
	cfg := testConfig(t)
	now := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)

	sw, reg, _ := newSweeper(t, cfg, []*model.Room{{
		ID:   "room-a",
		Name: "Conference Room A",
		Bookings: []*model.Booking{
			booking("b-1", "alice", "2025-01-10", "08:00", "09:00"),
			booking("b-2", "carol", "2025-01-10", "09:00", "10:00"),
		},
		Waiting: []*model.WaitingEntry{
			waiting("w-1", "bob", now.Add(-2*time.Hour)),
			waiting("w-2", "dave", now.Add(-time.Hour)),
		},
	}})

	sw.Sweep(context.Background(), now)

	snap, err := reg.SnapshotRoom("room-a")
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Bookings) != 1 {
		t.Errorf("expected exactly one promotion this tick, bookings = %+v", snap.Bookings)
	}
	if len(snap.Waiting) != 1 || snap.Waiting[0].Requester != "dave" {
		t.Errorf("dave should still be waiting, got %+v", snap.Waiting)
	}
}

func TestSweepPromotesPerFreedSlotWhenConfigured(t *testing.T) {
	cfg := testConfig(t)
	cfg.SweepPromotePerSlot = true
	now := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)

	sw, reg, _ := newSweeper(t, cfg, []*model.Room{{
		ID:   "room-a",
		Name: "Conference Room A",
		Bookings: []*model.Booking{
			booking("b-1", "alice", "2025-01-10", "08:00", "09:00"),
			booking("b-2", "carol", "2025-01-10", "09:00", "10:00"),
		},
		Waiting: []*model.WaitingEntry{
			waiting("w-1", "bob", now.Add(-2*time.Hour)),
			waiting("w-2", "dave", now.Add(-time.Hour)),
		},
	}})

	sw.Sweep(context.Background(), now)

	snap, err := reg.SnapshotRoom("room-a")
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Bookings) != 2 {
		t.Errorf("both freed slots should be refilled, bookings = %+v", snap.Bookings)
	}
	if len(snap.Waiting) != 0 {
		t.Errorf("waiting list should be empty, got %+v", snap.Waiting)
	}
}

func TestSweepKeepsUnparseableBooking(t *testing.T) {
	cfg := testConfig(t)
	now := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)

	sw, reg, pub := newSweeper(t, cfg, []*model.Room{{
		ID:   "room-a",
		Name: "Conference Room A",
		Bookings: []*model.Booking{
			booking("b-broken", "ghost", "not-a-date", "09:00", "10:00"),
		},
	}})

	sw.Sweep(context.Background(), now)

	snap, err := reg.SnapshotRoom("room-a")
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Bookings) != 1 || snap.Bookings[0].ID != "b-broken" {
		t.Fatalf("unparseable booking must never be dropped, got %+v", snap.Bookings)
	}
	if got := pub.byType(notify.EventBookingExpired); len(got) != 0 {
		t.Errorf("no expiry event expected, got %+v", got)
	}
}

func TestSweepRoomsAreIndependent(t *testing.T) {
	cfg := testConfig(t)
	now := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)

	sw, reg, _ := newSweeper(t, cfg, []*model.Room{
		{
			ID:   "room-a",
			Name: "Conference Room A",
			Bookings: []*model.Booking{
				booking("b-broken", "ghost", "not-a-date", "09:00", "10:00"),
			},
		},
		{
			ID:   "room-b",
			Name: "Meeting Room B",
			Bookings: []*model.Booking{
				{ID: "b-ended", RoomID: "room-b", Requester: "alice", Slot: model.Slot{Date: "2025-01-10", Start: "09:00", End: "10:00"}},
			},
		},
	})

	sw.Sweep(context.Background(), now)

	snap, err := reg.SnapshotRoom("room-b")
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Bookings) != 0 {
		t.Errorf("room-b should still be swept, got %+v", snap.Bookings)
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	cfg := testConfig(t)
	cfg.SweepInterval = 5 * time.Millisecond

	sw, _, _ := newSweeper(t, cfg, []*model.Room{{ID: "room-a", Name: "Conference Room A"}})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sw.Run(ctx)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after context cancellation")
	}
}
