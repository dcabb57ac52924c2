package session

import (
	"errors"
	"net"
	"testing"

	"github.com/cdecpgl/pmms-go/internal/netaddr"
	"github.com/cdecpgl/pmms-go/internal/playername"
)

func newTestSession(t *testing.T) *State {
	t.Helper()
	ep, err := netaddr.FromIPPort(net.ParseIP("127.0.0.1"), 9000)
	if err != nil {
		t.Fatalf("FromIPPort: %v", err)
	}
	return New(ep)
}

func TestFreshSessionIsUnauthenticatedAndNotHosting(t *testing.T) {
	s := newTestSession(t)
	if s.Authenticated() {
		t.Fatal("expected fresh session to be unauthenticated")
	}
	if s.IsHostingRoom() {
		t.Fatal("expected fresh session to not be hosting a room")
	}
	if s.ConnID.String() == "" {
		t.Fatal("expected a non-empty correlation id")
	}
}

func TestSetAuthenticated(t *testing.T) {
	s := newTestSession(t)
	full := playername.FullName{Name: "alice", Tag: 1}
	s.SetAuthenticated(full)
	if !s.Authenticated() {
		t.Fatal("expected session to be authenticated")
	}
	if s.PlayerFullName() != full {
		t.Fatalf("PlayerFullName() = %+v, want %+v", s.PlayerFullName(), full)
	}
}

func TestSetHostingRoomIDFailsWhenAlreadySet(t *testing.T) {
	s := newTestSession(t)
	if err := s.SetHostingRoomID(1); err != nil {
		t.Fatalf("SetHostingRoomID: %v", err)
	}
	if err := s.SetHostingRoomID(2); !errors.Is(err, ErrHostingRoomAlreadySet) {
		t.Fatalf("expected ErrHostingRoomAlreadySet, got %v", err)
	}
}

func TestClearHostingRoomIDMismatch(t *testing.T) {
	s := newTestSession(t)
	s.SetHostingRoomID(5)
	if err := s.ClearHostingRoomID(6); !errors.Is(err, ErrHostingRoomMismatch) {
		t.Fatalf("expected ErrHostingRoomMismatch, got %v", err)
	}
	if err := s.ClearHostingRoomID(5); err != nil {
		t.Fatalf("ClearHostingRoomID: %v", err)
	}
	if s.IsHostingRoom() {
		t.Fatal("expected session to no longer be hosting after clear")
	}
}
