package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/cdecpgl/pmms-go/internal/dispatch"
)

// Server owns the game TCP listener and its fixed pool of acceptor slots.
type Server struct {
	listener   net.Listener
	dispatcher *dispatch.Dispatcher
	logger     *slog.Logger
	slots      int
}

// NewServer returns a Server that will run slots concurrent accept loops
// against ln, each handing accepted connections to dispatcher.
func NewServer(ln net.Listener, dispatcher *dispatch.Dispatcher, logger *slog.Logger, slots int) *Server {
	return &Server{listener: ln, dispatcher: dispatcher, logger: logger, slots: slots}
}

// Run starts every acceptor slot and blocks until ctx is canceled and every
// slot has unwound. Closing the listener on cancellation is what unblocks
// the slots' Accept calls.
func (s *Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.logger.Info("closing game listener")
		_ = s.listener.Close()
	}()

	var wg sync.WaitGroup
	wg.Add(s.slots)
	for i := 0; i < s.slots; i++ {
		go func(slot int) {
			defer wg.Done()
			s.acceptLoop(ctx, slot)
		}(i)
	}
	wg.Wait()
	return nil
}

// acceptLoop is one session slot per spec.md §4.8: accept a connection,
// drive it to completion, release it, and accept again. A fatal error (the
// listener closing) ends the slot; anything else is logged and retried
// after a short backoff so a flapping listener cannot spin a slot at 100%
// CPU.
func (s *Server) acceptLoop(ctx context.Context, slot int) {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) || ctx.Err() != nil {
				return
			}
			s.logger.Warn("accept failed, retrying", "slot", slot, "err", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(acceptRetryDelay):
			}
			continue
		}

		s.dispatcher.Serve(ctx, conn)
		_ = conn.Close()
	}
}
