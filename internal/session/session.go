// Package session holds per-connection mutable state: a plain struct with
// no internal locking, since it is only ever touched by the one goroutine
// driving that connection's dispatcher loop.
package session

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/cdecpgl/pmms-go/internal/netaddr"
	"github.com/cdecpgl/pmms-go/internal/playername"
)

// ErrHostingRoomAlreadySet is returned by SetHostingRoomID when the
// session already hosts a room.
var ErrHostingRoomAlreadySet = errors.New("session: hosting room id already set")

// ErrHostingRoomMismatch is returned by ClearHostingRoomID when the given
// id does not match the currently hosted room.
var ErrHostingRoomMismatch = errors.New("session: hosting room id mismatch")

// State is the mutable record driving one connection through
// authentication, the steady-state message loop, and teardown.
type State struct {
	// ConnID is a per-connection correlation id for log lines, not part of
	// the wire protocol.
	ConnID uuid.UUID

	RemoteEndpoint netaddr.Endpoint

	authenticated      bool
	playerFullName     playername.FullName
	isHostingRoom      bool
	hostingRoomID      uint32
}

// New returns a fresh, unauthenticated session for a just-accepted
// connection at remoteEndpoint.
func New(remoteEndpoint netaddr.Endpoint) *State {
	return &State{
		ConnID:         uuid.New(),
		RemoteEndpoint: remoteEndpoint,
	}
}

// Authenticated reports whether authentication_request has already
// succeeded on this session.
func (s *State) Authenticated() bool { return s.authenticated }

// PlayerFullName returns the name assigned at authentication. Only valid
// when Authenticated() is true.
func (s *State) PlayerFullName() playername.FullName { return s.playerFullName }

// SetAuthenticated records a successful authentication_request.
func (s *State) SetAuthenticated(full playername.FullName) {
	s.authenticated = true
	s.playerFullName = full
}

// IsHostingRoom reports whether this session currently owns a room.
func (s *State) IsHostingRoom() bool { return s.isHostingRoom }

// HostingRoomID returns the hosted room's id. Only valid when
// IsHostingRoom() is true.
func (s *State) HostingRoomID() uint32 { return s.hostingRoomID }

// SetHostingRoomID records the room this session just created. Fails if
// the session already hosts a room — a session hosts at most one room at
// a time.
func (s *State) SetHostingRoomID(id uint32) error {
	if s.isHostingRoom {
		return fmt.Errorf("%w: already hosting room %d", ErrHostingRoomAlreadySet, s.hostingRoomID)
	}
	s.isHostingRoom = true
	s.hostingRoomID = id
	return nil
}

// ClearHostingRoomID releases the hosted room, e.g. on a "remove" status
// notice or session teardown. Fails if id does not match the currently
// hosted room, which would indicate a caller bug.
func (s *State) ClearHostingRoomID(id uint32) error {
	if !s.isHostingRoom || s.hostingRoomID != id {
		return fmt.Errorf("%w: have %d, got %d", ErrHostingRoomMismatch, s.hostingRoomID, id)
	}
	s.isHostingRoom = false
	s.hostingRoomID = 0
	return nil
}
