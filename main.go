package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net"
	"os"
	"os/signal"

	"github.com/cdecpgl/pmms-go/internal/adminhttp"
	"github.com/cdecpgl/pmms-go/internal/config"
	"github.com/cdecpgl/pmms-go/internal/dispatch"
	"github.com/cdecpgl/pmms-go/internal/logging"
	"github.com/cdecpgl/pmms-go/internal/playername"
	"github.com/cdecpgl/pmms-go/internal/roomstore"
)

func main() {
	// Check for CLI subcommands before parsing flags.
	if len(os.Args) > 1 && RunCLI(os.Args[1:]) {
		return
	}

	configPath := flag.String("config", "", "path to a pmms JSON config file (env PMMS_* variables always win)")
	flag.Parse()

	config.LoadDotEnv()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("[config] %v", err)
	}

	logger, logCloser, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("[logging] %v", err)
	}
	defer logCloser.Close()
	slog.SetDefault(logger)

	server := &dispatch.ServerContext{
		Config: cfg,
		Rooms:  roomstore.NewStore(),
		Names:  playername.NewRegistry(),
		Logger: logger,
	}

	network := "tcp4"
	if cfg.Common.IPVersion == "v6" {
		network = "tcp6"
	}
	ln, err := net.Listen(network, fmt.Sprintf(":%d", cfg.Common.Port))
	if err != nil {
		logger.Error("listen failed", "network", network, "port", cfg.Common.Port, "err", err)
		os.Exit(1)
	}
	logger.Info("game listener bound", "network", network, "addr", ln.Addr().String())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	go func() {
		<-sigCh
		logger.Info("shutting down")
		cancel()
	}()

	go RunMetrics(ctx, server, metricsInterval)

	if cfg.AdminHTTP.Enabled {
		admin := adminhttp.New(server.Rooms, server.Names)
		go func() {
			if err := admin.Run(ctx, cfg.AdminHTTP.Addr); err != nil {
				logger.Error("admin http server failed", "err", err)
			}
		}()
		logger.Info("admin http listening", "addr", cfg.AdminHTTP.Addr)
	}

	slots := cfg.Common.Thread * cfg.Common.MaxConnectionPerThread
	srv := NewServer(ln, dispatch.NewDispatcher(server), logger, slots)
	if err := srv.Run(ctx); err != nil {
		logger.Error("server stopped with error", "err", err)
		os.Exit(1)
	}
}
