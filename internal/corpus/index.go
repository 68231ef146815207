// Package corpus keeps the in-memory, insertion-ordered collection of rooms.
package corpus

import (
	"sync"

	"github.com/mohammad-safakhou/roomfinder/models"
)

// Index is an ordered collection of rooms shared between requests. Writers are
// serialised by the mutex; readers get copies and never observe a half-written room.
type Index struct {
	mu    sync.RWMutex
	rooms []models.Room
}

// NewIndex returns an index holding rooms in the given order.
func NewIndex(rooms ...models.Room) *Index {
	return &Index{rooms: append([]models.Room(nil), rooms...)}
}

// Append adds room at the end without checking for duplicate ids.
func (idx *Index) Append(room models.Room) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.rooms = append(idx.rooms, room)
}

// AppendUnique adds room unless a room with the same id already exists.
// The check and the append happen under one lock.
func (idx *Index) AppendUnique(room models.Room) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	for _, r := range idx.rooms {
		if r.ID == room.ID {
			return models.ErrDuplicateRoom
		}
	}
	idx.rooms = append(idx.rooms, room)
	return nil
}

// Remove deletes the first room with id and reports whether one was found.
func (idx *Index) Remove(id string) bool {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	for i, r := range idx.rooms {
		if r.ID == id {
			idx.rooms = append(idx.rooms[:i:i], idx.rooms[i+1:]...)
			return true
		}
	}
	return false
}

// All returns a copy of every room in insertion order.
func (idx *Index) All() []models.Room {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return append([]models.Room(nil), idx.rooms...)
}

// FindByID returns the first room with id.
func (idx *Index) FindByID(id string) (models.Room, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	for _, r := range idx.rooms {
		if r.ID == id {
			return r, true
		}
	}
	return models.Room{}, false
}

// Len returns the number of rooms.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.rooms)
}

// Snapshot captures the corpus as of now. Later writes to the index are not visible in it.
func (idx *Index) Snapshot() *Snapshot {
	return NewSnapshot(idx.All())
}

// Snapshot is a read-only view of the corpus at one point in time.
type Snapshot struct {
	rooms []models.Room
	byID  map[string]int
}

// NewSnapshot wraps rooms; the slice is owned by the snapshot afterwards.
func NewSnapshot(rooms []models.Room) *Snapshot {
	byID := make(map[string]int, len(rooms))
	for i := len(rooms) - 1; i >= 0; i-- {
		byID[rooms[i].ID] = i
	}
	return &Snapshot{rooms: rooms, byID: byID}
}

// Rooms returns the rooms in insertion order. Callers must not modify the slice.
func (s *Snapshot) Rooms() []models.Room { return s.rooms }

// Len returns the number of rooms in the snapshot.
func (s *Snapshot) Len() int { return len(s.rooms) }

// FindByID returns the first room with id.
func (s *Snapshot) FindByID(id string) (models.Room, bool) {
	i, ok := s.byID[id]
	if !ok {
		return models.Room{}, false
	}
	return s.rooms[i], true
}
