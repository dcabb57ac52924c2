// Package roomstore is the thread-safe keyed container of live rooms: a
// room_id -> Room map plus secondary indexes enforcing per-field
// uniqueness, with sorted/filtered range queries for list_room_request.
package roomstore

import (
	"time"

	"github.com/cdecpgl/pmms-go/internal/netaddr"
	"github.com/cdecpgl/pmms-go/internal/playername"
	"github.com/cdecpgl/pmms-go/internal/protocol"
)

// Room is one hosted game room.
type Room struct {
	RoomID               uint32
	HostPlayerFullName   playername.FullName
	SettingFlags         protocol.RoomSettingFlag
	Password             [protocol.RoomPasswordSize]byte
	MaxPlayerCount       uint8
	CurrentPlayerCount   uint8
	CreateDatetime       time.Time
	HostEndpoint         netaddr.Endpoint
	GameHostEndpoint     netaddr.Endpoint
}

// IsPublic reports whether the public_room flag is set.
func (r Room) IsPublic() bool {
	return r.SettingFlags&protocol.RoomSettingPublic != 0
}

// IsOpen reports whether the open_room flag is set.
func (r Room) IsOpen() bool {
	return r.SettingFlags&protocol.RoomSettingOpen != 0
}

// PasswordMatches compares candidate against the room's stored password,
// byte for byte, after null-padding candidate to the same fixed width.
func (r Room) PasswordMatches(candidate []byte) bool {
	var padded [protocol.RoomPasswordSize]byte
	copy(padded[:], candidate)
	return padded == r.Password
}

// ToRoomInfo projects a Room onto the wire's fixed room_info slot shape.
func (r Room) ToRoomInfo() protocol.RoomInfo {
	return protocol.RoomInfo{
		RoomID:             r.RoomID,
		Name:               r.HostPlayerFullName.Name,
		Tag:                r.HostPlayerFullName.Tag,
		Flags:              r.SettingFlags,
		MaxPlayerCount:     r.MaxPlayerCount,
		CurrentPlayerCount: r.CurrentPlayerCount,
		CreateDatetime:     uint64(r.CreateDatetime.Unix()),
	}
}
