// Package dispatch drives one connection through the fixed-size framing
// protocol: read a 1-byte message_type header, read the statically-sized
// body for that type, invoke the matching handler, and write the 2-byte
// reply header plus its fixed body. A header read has no deadline — idle
// waits between messages are unbounded, reset client-side by keep-alive
// notices — while every body read and reply write is bounded by the
// configured timeout.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/cdecpgl/pmms-go/internal/netaddr"
	"github.com/cdecpgl/pmms-go/internal/protocol"
	"github.com/cdecpgl/pmms-go/internal/session"
)

// replyTypeForRequest maps a request's message_type to the message_type of
// its reply. Request types absent from this table are notices: they are
// fully processed but never produce a reply on the wire.
var replyTypeForRequest = map[protocol.MessageType]protocol.MessageType{
	protocol.MessageTypeAuthenticationRequest: protocol.MessageTypeAuthenticationReply,
	protocol.MessageTypeCreateRoomRequest:     protocol.MessageTypeCreateRoomReply,
	protocol.MessageTypeListRoomRequest:       protocol.MessageTypeListRoomReply,
	protocol.MessageTypeJoinRoomRequest:       protocol.MessageTypeJoinRoomReply,
	protocol.MessageTypeConnectionTestRequest: protocol.MessageTypeConnectionTestReply,
}

// handlerFunc decodes body for one request type, mutates session/shared
// state as needed, and returns the reply body to marshal (nil for
// notices), whether the session should disconnect after this exchange,
// and an error from the §7 taxonomy on any fault.
type handlerFunc func(ctx context.Context, hc *handlerContext, body []byte) (replyBody []byte, disconnect bool, err error)

var handlers = map[protocol.MessageType]handlerFunc{
	protocol.MessageTypeAuthenticationRequest:   handleAuthenticationRequest,
	protocol.MessageTypeCreateRoomRequest:       handleCreateRoomRequest,
	protocol.MessageTypeListRoomRequest:         handleListRoomRequest,
	protocol.MessageTypeJoinRoomRequest:         handleJoinRoomRequest,
	protocol.MessageTypeUpdateRoomStatusNotice:  handleUpdateRoomStatusNotice,
	protocol.MessageTypeConnectionTestRequest:   handleConnectionTestRequest,
	protocol.MessageTypeKeepAliveNotice:         handleKeepAliveNotice,
}

// Dispatcher drives sessions against one ServerContext.
type Dispatcher struct {
	server *ServerContext
}

// NewDispatcher returns a Dispatcher bound to server.
func NewDispatcher(server *ServerContext) *Dispatcher {
	return &Dispatcher{server: server}
}

// Serve drives conn until the session ends, then releases everything it
// owned (a hosted room, an allocated player name). It never returns an
// error — every fault is logged and treated as session teardown, since the
// acceptor pool decides independently whether to restart the slot.
func (d *Dispatcher) Serve(ctx context.Context, conn net.Conn) {
	remoteEndpoint, err := netaddr.FromNetAddr(conn.RemoteAddr())
	if err != nil {
		d.server.Logger.Error("dispatch: cannot normalize remote endpoint", "err", err)
		return
	}

	sess := session.New(remoteEndpoint)
	hc := &handlerContext{
		server:  d.server,
		session: sess,
		logger:  d.server.Logger.With("conn", sess.ConnID.String(), "remote", remoteEndpoint.String()),
	}
	defer d.cleanup(hc)

	hc.logger.Debug("session started")

	timeout := time.Duration(d.server.Config.Common.TimeOutSeconds) * time.Second

	authType := protocol.MessageTypeAuthenticationRequest
	if err := d.dispatchOne(ctx, conn, hc, timeout, &authType); err != nil {
		d.logSessionEnd(hc, err)
		return
	}

	for {
		if err := d.dispatchOne(ctx, conn, hc, timeout, nil); err != nil {
			d.logSessionEnd(hc, err)
			return
		}
	}
}

// dispatchOne performs exactly one header-read/body-read/handle/reply
// cycle. expect, when non-nil, puts the dispatcher in specific-type mode:
// any other message_type is a fatal protocol fault. Used only for the
// session's first read, which must be authentication_request.
func (d *Dispatcher) dispatchOne(ctx context.Context, conn net.Conn, hc *handlerContext, timeout time.Duration, expect *protocol.MessageType) error {
	_ = conn.SetReadDeadline(time.Time{})
	header := make([]byte, 1)
	if n, err := io.ReadFull(conn, header); err != nil {
		if n == 0 && errors.Is(err, io.EOF) {
			return protocol.NewSessionError(protocol.SessionErrorExpectedDisconnection, err)
		}
		return protocol.NewSessionError(protocol.SessionErrorUnexpectedDisconnection, err)
	}

	reqType := protocol.MessageType(header[0])
	handler, known := handlers[reqType]
	if !known || !reqType.Valid() {
		return protocol.NewSessionError(protocol.SessionErrorNotContinuable,
			fmt.Errorf("dispatch: unknown message_type %d", header[0]))
	}
	if expect != nil && reqType != *expect {
		return protocol.NewSessionError(protocol.SessionErrorNotContinuable,
			fmt.Errorf("dispatch: expected %s, got %s", expect.String(), reqType.String()))
	}

	bodySize, _ := protocol.BodySize(reqType)
	body := make([]byte, bodySize)
	if bodySize > 0 {
		_ = conn.SetReadDeadline(time.Now().Add(timeout))
		if _, err := io.ReadFull(conn, body); err != nil {
			return protocol.NewSessionError(protocol.SessionErrorNotContinuable,
				fmt.Errorf("dispatch: body read for %s: %w", reqType, err))
		}
	}

	replyBody, disconnect, handlerErr := handler(ctx, hc, body)

	replyType, expectsReply := replyTypeForRequest[reqType]
	var deferredErr error

	if expectsReply {
		replyHeader := protocol.ReplyHeader{MessageType: replyType, ErrorCode: protocol.MessageErrorCodeOK}
		bodyOut := replyBody

		var clientErr *protocol.ClientError
		var serverErr *protocol.ServerError
		switch {
		case errors.As(handlerErr, &clientErr):
			replyHeader.ErrorCode = clientErr.Code.WireCode()
			size, _ := protocol.BodySize(replyType)
			bodyOut = make([]byte, size)
			disconnect = clientErr.Disconnect
		case errors.As(handlerErr, &serverErr):
			hc.logger.Error("server error", "message_type", reqType.String(), "err", serverErr.Err)
			replyHeader.ErrorCode = protocol.MessageErrorCodeUnknown
			size, _ := protocol.BodySize(replyType)
			bodyOut = make([]byte, size)
			disconnect = true
			deferredErr = serverErr
		case handlerErr != nil:
			return handlerErr
		}

		out := append(replyHeader.Marshal(), bodyOut...)
		_ = conn.SetWriteDeadline(time.Now().Add(timeout))
		if _, err := conn.Write(out); err != nil {
			return protocol.NewSessionError(protocol.SessionErrorNotContinuable,
				fmt.Errorf("dispatch: write reply for %s: %w", replyType, err))
		}
	} else if handlerErr != nil {
		var serverErr *protocol.ServerError
		var sessErr *protocol.SessionError
		switch {
		case errors.As(handlerErr, &serverErr):
			hc.logger.Error("server error", "message_type", reqType.String(), "err", serverErr.Err)
			return handlerErr
		case errors.As(handlerErr, &sessErr) && sessErr.Kind == protocol.SessionErrorContinuable:
			hc.logger.Warn("continuable session error", "message_type", reqType.String(), "err", sessErr.Err)
		default:
			return handlerErr
		}
	}

	if deferredErr != nil {
		return deferredErr
	}
	if disconnect {
		return protocol.NewSessionError(protocol.SessionErrorExpectedDisconnection,
			fmt.Errorf("dispatch: %s requested disconnect", reqType))
	}
	return nil
}

// cleanup releases everything the session owned: a hosted room and an
// allocated player full name. It runs regardless of why the session ended.
func (d *Dispatcher) cleanup(hc *handlerContext) {
	if hc.session.IsHostingRoom() {
		id := hc.session.HostingRoomID()
		d.server.Rooms.TryRemove(id)
		hc.logger.Info("hosted room removed on session teardown", "room_id", id)
	}
	if hc.session.Authenticated() {
		full := hc.session.PlayerFullName()
		if err := d.server.Names.Release(full); err != nil {
			hc.logger.Error("release player name on teardown", "player", full.String(), "err", err)
		}
	}
	hc.logger.Debug("session ended")
}

func (d *Dispatcher) logSessionEnd(hc *handlerContext, err error) {
	var sessErr *protocol.SessionError
	if errors.As(err, &sessErr) {
		switch sessErr.Kind {
		case protocol.SessionErrorExpectedDisconnection:
			hc.logger.Info("session disconnected", "err", sessErr.Err)
		case protocol.SessionErrorUnexpectedDisconnection:
			hc.logger.Warn("session disconnected unexpectedly", "err", sessErr.Err)
		default:
			hc.logger.Error("session faulted", "kind", sessErr.Kind.String(), "err", sessErr.Err)
		}
		return
	}
	hc.logger.Error("session ended with error", "err", err)
}
