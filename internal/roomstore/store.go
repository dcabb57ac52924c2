package roomstore

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
)

// ErrNotFound is returned by Get when no room has the given ID.
var ErrNotFound = errors.New("roomstore: room not found")

// ErrUniqueFieldDuplicated is returned by AddOrUpdate/AssignIDAndAdd when a
// unique field of the given room collides with a different room's value.
var ErrUniqueFieldDuplicated = errors.New("roomstore: unique field duplicated")

// uniqueIndex maintains a secondary key -> room_id map for one field that
// must be unique across the live set. This is the Go-idiomatic stand-in
// for the original's compile-time member-pointer index packs: a plain
// function from Room to a comparable key, paired with a map.
type uniqueIndex struct {
	name string
	key  func(Room) string
	vals map[string]uint32
}

// Store is the thread-safe room_id -> Room container with secondary
// uniqueness indexes. Readers take a shared lock; mutators take an
// exclusive lock.
type Store struct {
	mu      sync.RWMutex
	rooms   map[uint32]Room
	indexes []*uniqueIndex
}

// NewStore returns an empty store with the host_player_full_name
// uniqueness index installed (room_id uniqueness is implicit in the map
// key itself).
func NewStore() *Store {
	return &Store{
		rooms: make(map[uint32]Room),
		indexes: []*uniqueIndex{
			{
				name: "host_player_full_name",
				key:  func(r Room) string { return r.HostPlayerFullName.String() },
				vals: make(map[string]uint32),
			},
		},
	}
}

// AddOrUpdate inserts room if room.RoomID is new, or replaces the existing
// room with that ID otherwise. It fails if any unique field would collide
// with a different room; updating a room with its own unchanged unique
// value is allowed.
func (s *Store) AddOrUpdate(room Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addOrUpdateLocked(room)
}

func (s *Store) addOrUpdateLocked(room Room) error {
	for _, idx := range s.indexes {
		key := idx.key(room)
		if owner, ok := idx.vals[key]; ok && owner != room.RoomID {
			return fmt.Errorf("%w: %s", ErrUniqueFieldDuplicated, idx.name)
		}
	}
	if old, exists := s.rooms[room.RoomID]; exists {
		for _, idx := range s.indexes {
			if oldKey := idx.key(old); oldKey != idx.key(room) {
				delete(idx.vals, oldKey)
			}
		}
	}
	for _, idx := range s.indexes {
		idx.vals[idx.key(room)] = room.RoomID
	}
	s.rooms[room.RoomID] = room
	return nil
}

// AssignIDAndAdd draws random room IDs until one is unused, writes it into
// room.RoomID, and adds the room under the same uniqueness rules as
// AddOrUpdate.
func (s *Store) AssignIDAndAdd(room Room) (uint32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for {
		id := rand.Uint32()
		if _, exists := s.rooms[id]; exists {
			continue
		}
		room.RoomID = id
		if err := s.addOrUpdateLocked(room); err != nil {
			return 0, err
		}
		return id, nil
	}
}

// TryRemove deletes the room and its index entries, reporting whether it
// existed.
func (s *Store) TryRemove(id uint32) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, exists := s.rooms[id]
	if !exists {
		return false
	}
	delete(s.rooms, id)
	for _, idx := range s.indexes {
		delete(idx.vals, idx.key(room))
	}
	return true
}

// Get returns a snapshot copy of the room with the given ID.
func (s *Store) Get(id uint32) (Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	room, exists := s.rooms[id]
	if !exists {
		return Room{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return room, nil
}

// Contains reports whether a room with the given ID exists.
func (s *Store) Contains(id uint32) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.rooms[id]
	return exists
}

// Size returns the number of live rooms.
func (s *Store) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rooms)
}

// Search returns snapshot copies of rooms satisfying pred, sorted by less.
func (s *Store) Search(less func(a, b Room) bool, pred func(Room) bool) []Room {
	s.mu.RLock()
	out := make([]Room, 0, len(s.rooms))
	for _, room := range s.rooms {
		if pred == nil || pred(room) {
			out = append(out, room)
		}
	}
	s.mu.RUnlock()

	sortRooms(out, less)
	return out
}

// SearchRange is Search followed by taking the window [start, start+count),
// clamped to the sorted result's length.
func (s *Store) SearchRange(start, count int, less func(a, b Room) bool, pred func(Room) bool) []Room {
	all := s.Search(less, pred)
	if start < 0 || start >= len(all) {
		return []Room{}
	}
	end := start + count
	if end > len(all) || end < start {
		end = len(all)
	}
	return all[start:end]
}
