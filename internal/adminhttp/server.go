// Package adminhttp is the read-only operator HTTP surface: health, a
// counters snapshot, and a room dump. It never touches the game wire
// protocol and carries no persistence of its own, so it is bound to a
// separate address from the match-making TCP listener.
package adminhttp

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/cdecpgl/pmms-go/internal/playername"
	"github.com/cdecpgl/pmms-go/internal/roomstore"
)

// shutdownTimeout bounds how long the admin HTTP server is given to drain
// in-flight requests on shutdown.
const shutdownTimeout = 5 * time.Second

// Server is the Echo application backing the admin HTTP surface.
type Server struct {
	echo      *echo.Echo
	rooms     *roomstore.Store
	names     *playername.Registry
	startedAt time.Time
}

// New constructs an Echo app reading snapshots from rooms and names. It
// never mutates either store.
func New(rooms *roomstore.Store, names *playername.Registry) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(requestLogger())

	s := &Server{echo: e, rooms: rooms, names: names, startedAt: time.Now()}
	s.registerRoutes()
	return s
}

func requestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			slog.Debug("admin http request",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", c.Response().Status,
				"duration_ms", time.Since(start).Milliseconds(),
			)
			return nil
		}
	}
}

// Echo exposes the underlying Echo instance for tests.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

func (s *Server) registerRoutes() {
	s.echo.GET("/healthz", s.handleHealthz)
	s.echo.GET("/metrics", s.handleMetrics)
	s.echo.GET("/debug/rooms", s.handleDebugRooms)
}

// Run starts Echo and blocks until ctx cancellation or a startup failure.
func (s *Server) Run(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		err := s.echo.Start(addr)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		slog.Info("shutting down admin http server")
		shutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = s.echo.Shutdown(shutCtx)
		slog.Info("admin http server stopped")
		return nil
	}
}

type healthzResponse struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

func (s *Server) handleHealthz(c echo.Context) error {
	return c.JSON(http.StatusOK, healthzResponse{
		Status:        "ok",
		UptimeSeconds: int64(time.Since(s.startedAt).Seconds()),
	})
}

type metricsResponse struct {
	RoomCount     int   `json:"room_count"`
	UptimeSeconds int64 `json:"uptime_seconds"`
}

func (s *Server) handleMetrics(c echo.Context) error {
	return c.JSON(http.StatusOK, metricsResponse{
		RoomCount:     s.rooms.Size(),
		UptimeSeconds: int64(time.Since(s.startedAt).Seconds()),
	})
}

// roomSnapshot is the debug projection of a room: every field but the
// password, which stays internal even on the operator surface.
type roomSnapshot struct {
	RoomID             uint32 `json:"room_id"`
	HostPlayer         string `json:"host_player"`
	Public             bool   `json:"public"`
	Open               bool   `json:"open"`
	MaxPlayerCount     uint8  `json:"max_player_count"`
	CurrentPlayerCount uint8  `json:"current_player_count"`
	CreateDatetime     int64  `json:"create_datetime"`
	HostEndpoint       string `json:"host_endpoint"`
	GameHostEndpoint   string `json:"game_host_endpoint"`
}

type debugRoomsResponse struct {
	Rooms []roomSnapshot `json:"rooms"`
}

func roomIDAscending(a, b roomstore.Room) bool { return a.RoomID < b.RoomID }

func (s *Server) handleDebugRooms(c echo.Context) error {
	rooms := s.rooms.Search(roomIDAscending, nil)
	out := make([]roomSnapshot, len(rooms))
	for i, r := range rooms {
		out[i] = roomSnapshot{
			RoomID:             r.RoomID,
			HostPlayer:         r.HostPlayerFullName.String(),
			Public:             r.IsPublic(),
			Open:               r.IsOpen(),
			MaxPlayerCount:     r.MaxPlayerCount,
			CurrentPlayerCount: r.CurrentPlayerCount,
			CreateDatetime:     r.CreateDatetime.Unix(),
			HostEndpoint:       r.HostEndpoint.String(),
			GameHostEndpoint:   r.GameHostEndpoint.String(),
		}
	}
	return c.JSON(http.StatusOK, debugRoomsResponse{Rooms: out})
}
