package dispatch

import (
	"log/slog"

	"github.com/cdecpgl/pmms-go/internal/config"
	"github.com/cdecpgl/pmms-go/internal/playername"
	"github.com/cdecpgl/pmms-go/internal/roomstore"
	"github.com/cdecpgl/pmms-go/internal/session"
)

// ServerContext holds everything shared across every session on this
// process: configuration and the two shared stores, each already
// thread-safe on its own.
type ServerContext struct {
	Config *config.Config
	Rooms  *roomstore.Store
	Names  *playername.Registry
	Logger *slog.Logger
}

// handlerContext is the per-session handle passed to every message
// handler: the shared server state, this connection's session record, and
// a logger already carrying the connection's correlation id.
type handlerContext struct {
	server  *ServerContext
	session *session.State
	logger  *slog.Logger
}
