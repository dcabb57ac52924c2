package roomstore

import (
	"errors"
	"testing"
	"time"

	"github.com/cdecpgl/pmms-go/internal/playername"
	"github.com/cdecpgl/pmms-go/internal/protocol"
)

func newTestRoom(name string, tag uint16) Room {
	return Room{
		HostPlayerFullName: playername.FullName{Name: name, Tag: tag},
		SettingFlags:       protocol.RoomSettingOpen | protocol.RoomSettingPublic,
		MaxPlayerCount:     4,
		CurrentPlayerCount: 1,
		CreateDatetime:     time.Unix(1700000000, 0).UTC(),
	}
}

func TestAssignIDAndAddThenGet(t *testing.T) {
	s := NewStore()
	room := newTestRoom("alice", 1)
	id, err := s.AssignIDAndAdd(room)
	if err != nil {
		t.Fatalf("AssignIDAndAdd: %v", err)
	}
	got, err := s.Get(id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.RoomID != id || got.HostPlayerFullName != room.HostPlayerFullName {
		t.Fatalf("got %+v, want room id %d with name %+v", got, id, room.HostPlayerFullName)
	}
}

func TestAddOrUpdateRejectsDuplicateHostName(t *testing.T) {
	s := NewStore()
	id1, err := s.AssignIDAndAdd(newTestRoom("alice", 1))
	if err != nil {
		t.Fatalf("AssignIDAndAdd: %v", err)
	}
	_, err = s.AssignIDAndAdd(newTestRoom("alice", 1))
	if !errors.Is(err, ErrUniqueFieldDuplicated) {
		t.Fatalf("expected ErrUniqueFieldDuplicated, got %v", err)
	}
	if s.Size() != 1 {
		t.Fatalf("Size() = %d, want 1", s.Size())
	}

	room, _ := s.Get(id1)
	room.CurrentPlayerCount = 2
	if err := s.AddOrUpdate(room); err != nil {
		t.Fatalf("updating a room with its own unique value should succeed: %v", err)
	}
}

func TestAddOrUpdateIdempotent(t *testing.T) {
	s := NewStore()
	room := newTestRoom("alice", 1)
	room.RoomID = 42
	if err := s.AddOrUpdate(room); err != nil {
		t.Fatalf("AddOrUpdate: %v", err)
	}
	if err := s.AddOrUpdate(room); err != nil {
		t.Fatalf("second AddOrUpdate: %v", err)
	}
	if s.Size() != 1 {
		t.Fatalf("Size() = %d, want 1", s.Size())
	}
}

func TestAddThenRemoveRestoresState(t *testing.T) {
	s := NewStore()
	room := newTestRoom("alice", 1)
	room.RoomID = 7
	if err := s.AddOrUpdate(room); err != nil {
		t.Fatalf("AddOrUpdate: %v", err)
	}
	if !s.TryRemove(7) {
		t.Fatal("expected TryRemove to report existing room")
	}
	if s.Size() != 0 {
		t.Fatalf("Size() = %d, want 0", s.Size())
	}
	if s.Contains(7) {
		t.Fatal("room should no longer exist")
	}
	// index should be released too: re-adding the same host name must succeed.
	if err := s.AddOrUpdate(room); err != nil {
		t.Fatalf("re-adding after remove should succeed: %v", err)
	}
}

func TestTryRemoveNonexistent(t *testing.T) {
	s := NewStore()
	if s.TryRemove(1) {
		t.Fatal("expected false removing a nonexistent room")
	}
}

func TestGetNotFound(t *testing.T) {
	s := NewStore()
	if _, err := s.Get(1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSearchRangeBoundary(t *testing.T) {
	s := NewStore()
	for i, name := range []string{"a", "b", "c"} {
		room := newTestRoom(name, 1)
		room.RoomID = uint32(i + 1)
		if err := s.AddOrUpdate(room); err != nil {
			t.Fatalf("AddOrUpdate: %v", err)
		}
	}
	less := BuildComparator(protocol.SortKindNameAscending, "")
	pred := BuildPredicate(protocol.RoomTargetPublic|protocol.RoomTargetOpen, "")

	all := s.SearchRange(0, 10, less, pred)
	if len(all) != 3 {
		t.Fatalf("len(all) = %d, want 3", len(all))
	}
	if all[0].HostPlayerFullName.Name != "a" || all[2].HostPlayerFullName.Name != "c" {
		t.Fatalf("unexpected order: %+v", all)
	}

	empty := s.SearchRange(10, 5, less, pred)
	if len(empty) != 0 {
		t.Fatalf("expected empty window when start >= matched, got %d", len(empty))
	}

	truncated := s.SearchRange(1, 100, less, pred)
	if len(truncated) != 2 {
		t.Fatalf("expected count truncated to remaining size, got %d", len(truncated))
	}
}

func TestBuildPredicateFiltersPublicPrivateOpenClosed(t *testing.T) {
	open := newTestRoom("open-pub", 1)
	closedPrivate := newTestRoom("closed-priv", 1)
	closedPrivate.SettingFlags = 0

	predPublicOpen := BuildPredicate(protocol.RoomTargetPublic|protocol.RoomTargetOpen, "")
	if !predPublicOpen(open) {
		t.Fatal("expected public+open room to match public+open target")
	}
	if predPublicOpen(closedPrivate) {
		t.Fatal("expected closed+private room to be excluded from public+open target")
	}

	predPrivateClosed := BuildPredicate(protocol.RoomTargetPrivate|protocol.RoomTargetClosed, "")
	if !predPrivateClosed(closedPrivate) {
		t.Fatal("expected closed+private room to match private+closed target")
	}
}

func TestBuildComparatorExactSearchNameSortsFirst(t *testing.T) {
	less := BuildComparator(protocol.SortKindNameAscending, "bob")
	rooms := []Room{newTestRoom("zoe", 1), newTestRoom("bob", 1), newTestRoom("amy", 1)}
	sortRooms(rooms, less)
	if rooms[0].HostPlayerFullName.Name != "bob" {
		t.Fatalf("expected exact search-name match first, got order %+v", rooms)
	}
}
