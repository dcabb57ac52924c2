package roomstore

import (
	"sort"
	"strings"

	"github.com/cdecpgl/pmms-go/internal/protocol"
)

func sortRooms(rooms []Room, less func(a, b Room) bool) {
	sort.SliceStable(rooms, func(i, j int) bool { return less(rooms[i], rooms[j]) })
}

// BuildPredicate returns the list_room_request filter: a room passes if its
// public/private and open/closed status appear in targetFlags, and (when
// searchName is non-empty) its host name contains searchName as a
// substring.
func BuildPredicate(targetFlags protocol.RoomTargetFlag, searchName string) func(Room) bool {
	return func(r Room) bool {
		publicMatch := (r.IsPublic() && targetFlags&protocol.RoomTargetPublic != 0) ||
			(!r.IsPublic() && targetFlags&protocol.RoomTargetPrivate != 0)
		openMatch := (r.IsOpen() && targetFlags&protocol.RoomTargetOpen != 0) ||
			(!r.IsOpen() && targetFlags&protocol.RoomTargetClosed != 0)
		if !publicMatch || !openMatch {
			return false
		}
		if searchName == "" {
			return true
		}
		return strings.Contains(r.HostPlayerFullName.Name, searchName)
	}
}

// BuildComparator returns the list_room_request ordering: sortKind governs
// name/create-datetime ascending/descending, except that when searchName
// is non-empty, rooms whose host name exactly equals searchName sort
// before all others.
func BuildComparator(sortKind protocol.SortKind, searchName string) func(a, b Room) bool {
	base := func(a, b Room) bool {
		switch sortKind {
		case protocol.SortKindNameAscending:
			return a.HostPlayerFullName.Name < b.HostPlayerFullName.Name
		case protocol.SortKindNameDescending:
			return a.HostPlayerFullName.Name > b.HostPlayerFullName.Name
		case protocol.SortKindCreateDatetimeAscending:
			return a.CreateDatetime.Before(b.CreateDatetime)
		case protocol.SortKindCreateDatetimeDescending:
			return a.CreateDatetime.After(b.CreateDatetime)
		default:
			return a.HostPlayerFullName.Name < b.HostPlayerFullName.Name
		}
	}
	if searchName == "" {
		return base
	}
	return func(a, b Room) bool {
		aExact := a.HostPlayerFullName.Name == searchName
		bExact := b.HostPlayerFullName.Name == searchName
		if aExact != bExact {
			return aExact
		}
		return base(a, b)
	}
}
