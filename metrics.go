package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/cdecpgl/pmms-go/internal/dispatch"
)

// RunMetrics logs a room/player stats line every interval until ctx is
// canceled.
func RunMetrics(ctx context.Context, server *dispatch.ServerContext, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rooms := server.Rooms.Size()
			players := server.Names.Count()
			server.Logger.Info("stats",
				"rooms", humanize.Comma(int64(rooms)),
				"players", humanize.Comma(int64(players)),
			)
		}
	}
}
