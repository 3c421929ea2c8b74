// Package registry owns the process-wide room set. Every mutation of a
// room's bookings or waiting list happens inside Update, which holds that
// room's lock for the whole read-decide-write sequence, so concurrent
// requests against one room are linearizable while different rooms never
// serialize against each other.
package registry

import (
	"sync"

	roomserrors "roomly/internal/rooms/errors"
	"roomly/pkg/logger"
	"roomly/pkg/model"
)

type Registry struct {
	rooms map[string]*room
	ids   []string
	log   *logger.Logger
}

type room struct {
	mu   sync.Mutex
	data *model.Room
}

// New seeds the registry. The room set is fixed for the process lifetime;
// there is no dynamic creation or deletion.
func New(seed []*model.Room, log *logger.Logger) *Registry {
	r := &Registry{
		rooms: make(map[string]*room, len(seed)),
		ids:   make([]string, 0, len(seed)),
		log:   log,
	}
	for _, m := range seed {
		if _, exists := r.rooms[m.ID]; exists {
			log.Warn("Duplicate seed room ignored", "room_id", m.ID)
			continue
		}
		r.rooms[m.ID] = &room{data: m}
		r.ids = append(r.ids, m.ID)
	}
	log.Info("Room registry initialized", "rooms", len(r.ids))
	return r
}

// IDs returns room identifiers in stable listing order.
func (r *Registry) IDs() []string {
	out := make([]string, len(r.ids))
	copy(out, r.ids)
	return out
}

// Update runs fn under the room's exclusive critical section. fn receives
// the live room and may mutate it; anything it needs to expose after the
// lock is released must be cloned first.
func (r *Registry) Update(id string, fn func(*model.Room) error) error {
	rm, ok := r.rooms[id]
	if !ok {
		return roomserrors.ErrRoomNotFound
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()
	return fn(rm.data)
}

// SnapshotRoom returns a deep copy of one room.
func (r *Registry) SnapshotRoom(id string) (*model.Room, error) {
	var snap *model.Room
	err := r.Update(id, func(room *model.Room) error {
		snap = room.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// Snapshot returns deep copies of all rooms in listing order. Each room is
// locked only while it is being copied.
func (r *Registry) Snapshot() []*model.Room {
	out := make([]*model.Room, 0, len(r.ids))
	for _, id := range r.ids {
		if snap, err := r.SnapshotRoom(id); err == nil {
			out = append(out, snap)
		}
	}
	return out
}
