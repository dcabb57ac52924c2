package dispatch

import (
	"context"
	"io"
	"net"
	"testing"
	"time"

	"github.com/cdecpgl/pmms-go/internal/config"
	"github.com/cdecpgl/pmms-go/internal/playername"
	"github.com/cdecpgl/pmms-go/internal/protocol"
	"github.com/cdecpgl/pmms-go/internal/roomstore"
)

// pipeConn lets net.Pipe's connections (whose RemoteAddr is nil) stand in for
// a real TCP peer, since netaddr.FromNetAddr only understands *net.TCPAddr
// and *net.UDPAddr.
type pipeConn struct {
	net.Conn
	remote net.Addr
}

func (c pipeConn) RemoteAddr() net.Addr { return c.remote }

func newPipe(port int) (net.Conn, net.Conn) {
	client, server := net.Pipe()
	addr := &net.TCPAddr{IP: net.ParseIP("203.0.113.5"), Port: port}
	return client, pipeConn{Conn: server, remote: addr}
}

func newTestDispatcher(t *testing.T) (*Dispatcher, *ServerContext) {
	t.Helper()
	cfg := config.Default()
	cfg.Authentication.GameID = "demo"
	cfg.Common.TimeOutSeconds = 5
	server := &ServerContext{
		Config: &cfg,
		Rooms:  roomstore.NewStore(),
		Names:  playername.NewRegistry(),
		Logger: newTestContext(t).Logger,
	}
	return NewDispatcher(server), server
}

func readReply(t *testing.T, conn net.Conn) protocol.ReplyHeader {
	t.Helper()
	header := make([]byte, protocol.ReplyHeaderSize)
	if _, err := io.ReadFull(conn, header); err != nil {
		t.Fatalf("read reply header: %v", err)
	}
	h, err := protocol.UnmarshalReplyHeader(header)
	if err != nil {
		t.Fatalf("UnmarshalReplyHeader: %v", err)
	}
	return h
}

func readBody(t *testing.T, conn net.Conn, size int) []byte {
	t.Helper()
	if size == 0 {
		return nil
	}
	body := make([]byte, size)
	if _, err := io.ReadFull(conn, body); err != nil {
		t.Fatalf("read reply body: %v", err)
	}
	return body
}

func TestDispatcherRejectsNonAuthenticationFirstMessage(t *testing.T) {
	d, _ := newTestDispatcher(t)
	client, server := newPipe(10001)

	done := make(chan struct{})
	go func() {
		d.Serve(context.Background(), server)
		close(done)
	}()

	req := protocol.KeepAliveNotice{}
	// Serve stops reading once it rejects the header, and a zero-length
	// write on a net.Pipe waits for a reader, so the writes run in their own
	// goroutine; client.Close below releases it.
	go func() {
		client.Write([]byte{byte(protocol.MessageTypeKeepAliveNotice)})
		client.Write(req.Marshal())
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("expected the session to end after a non-authentication first message")
	}

	client.Close()
}

func TestDispatcherFullSessionLifecycle(t *testing.T) {
	d, server := newTestDispatcher(t)
	hostClient, hostServer := newPipe(20001)

	hostDone := make(chan struct{})
	go func() {
		d.Serve(context.Background(), hostServer)
		close(hostDone)
	}()

	authReq := protocol.AuthenticationRequest{
		APIVersion: protocol.APIVersion,
		GameID:     "demo",
		PlayerName: "alice",
	}
	hostClient.Write([]byte{byte(protocol.MessageTypeAuthenticationRequest)})
	hostClient.Write(authReq.Marshal())

	hdr := readReply(t, hostClient)
	if hdr.ErrorCode != protocol.MessageErrorCodeOK {
		t.Fatalf("authentication_reply error_code = %v, want OK", hdr.ErrorCode)
	}
	authReplyBody := readBody(t, hostClient, mustBodySize(t, protocol.MessageTypeAuthenticationReply))
	authReply, err := protocol.UnmarshalAuthenticationReply(authReplyBody)
	if err != nil {
		t.Fatalf("UnmarshalAuthenticationReply: %v", err)
	}
	if authReply.Result != protocol.AuthenticationResultSuccess {
		t.Fatalf("authentication result = %v, want success", authReply.Result)
	}

	createReq := protocol.CreateRoomRequest{
		MaxPlayerCount:          4,
		ConnectionEstablishMode: protocol.ConnectionEstablishModeBuiltin,
		PortNumber:              9000,
	}
	hostClient.Write([]byte{byte(protocol.MessageTypeCreateRoomRequest)})
	hostClient.Write(createReq.Marshal())

	hdr = readReply(t, hostClient)
	if hdr.ErrorCode != protocol.MessageErrorCodeOK {
		t.Fatalf("create_room_reply error_code = %v, want OK", hdr.ErrorCode)
	}
	createReplyBody := readBody(t, hostClient, mustBodySize(t, protocol.MessageTypeCreateRoomReply))
	createReply, err := protocol.UnmarshalCreateRoomReply(createReplyBody)
	if err != nil {
		t.Fatalf("UnmarshalCreateRoomReply: %v", err)
	}
	if !server.Rooms.Contains(createReply.RoomID) {
		t.Fatal("expected room to be present in the store right after creation")
	}

	listReq := protocol.ListRoomRequest{Count: 10, TargetFlags: protocol.RoomTargetPublic | protocol.RoomTargetOpen}
	hostClient.Write([]byte{byte(protocol.MessageTypeListRoomRequest)})
	hostClient.Write(listReq.Marshal())

	hdr = readReply(t, hostClient)
	if hdr.ErrorCode != protocol.MessageErrorCodeOK {
		t.Fatalf("list_room_reply error_code = %v, want OK", hdr.ErrorCode)
	}
	listReplyBody := readBody(t, hostClient, mustBodySize(t, protocol.MessageTypeListRoomReply))
	listReply, err := protocol.UnmarshalListRoomReply(listReplyBody)
	if err != nil {
		t.Fatalf("UnmarshalListRoomReply: %v", err)
	}
	if listReply.Returned != 1 || listReply.RoomInfoList[0].RoomID != createReply.RoomID {
		t.Fatalf("expected the newly created room to be returned, got %+v", listReply)
	}

	keepAlive := protocol.KeepAliveNotice{}
	hostClient.Write([]byte{byte(protocol.MessageTypeKeepAliveNotice)})
	hostClient.Write(keepAlive.Marshal())

	notice := protocol.UpdateRoomStatusNotice{RoomID: createReply.RoomID, Status: protocol.RoomStatusRemove}
	hostClient.Write([]byte{byte(protocol.MessageTypeUpdateRoomStatusNotice)})
	hostClient.Write(notice.Marshal())

	hostClient.Close()
	<-hostDone

	if server.Rooms.Contains(createReply.RoomID) {
		t.Fatal("expected room to be removed once its update_room_status_notice(remove) was processed")
	}
}

func TestDispatcherContinuesAfterContinuableSessionError(t *testing.T) {
	d, _ := newTestDispatcher(t)
	client, server := newPipe(30001)

	done := make(chan struct{})
	go func() {
		d.Serve(context.Background(), server)
		close(done)
	}()

	authReq := protocol.AuthenticationRequest{
		APIVersion: protocol.APIVersion,
		GameID:     "demo",
		PlayerName: "bob",
	}
	client.Write([]byte{byte(protocol.MessageTypeAuthenticationRequest)})
	client.Write(authReq.Marshal())
	readReply(t, client)
	readBody(t, client, mustBodySize(t, protocol.MessageTypeAuthenticationReply))

	// This session never created a room, so removing one is a continuable
	// error (room not found): the session must survive it since it's a
	// notice with no wire reply to observe.
	notice := protocol.UpdateRoomStatusNotice{RoomID: 12345, Status: protocol.RoomStatusRemove}
	client.Write([]byte{byte(protocol.MessageTypeUpdateRoomStatusNotice)})
	client.Write(notice.Marshal())

	listReq := protocol.ListRoomRequest{Count: 10, TargetFlags: protocol.RoomTargetPublic | protocol.RoomTargetOpen}
	client.Write([]byte{byte(protocol.MessageTypeListRoomRequest)})
	client.Write(listReq.Marshal())

	hdr := readReply(t, client)
	if hdr.ErrorCode != protocol.MessageErrorCodeOK {
		t.Fatalf("list_room_reply error_code = %v, want OK; session did not survive the continuable error", hdr.ErrorCode)
	}
	readBody(t, client, mustBodySize(t, protocol.MessageTypeListRoomReply))

	client.Close()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("expected session to end after client closed its connection")
	}
}

func mustBodySize(t *testing.T, mt protocol.MessageType) int {
	t.Helper()
	size, ok := protocol.BodySize(mt)
	if !ok {
		t.Fatalf("no known body size for %s", mt)
	}
	return size
}
