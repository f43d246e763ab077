package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"ws-arcade/internal/arena"
	"ws-arcade/internal/config"
	"ws-arcade/internal/games/asteroids"
	"ws-arcade/internal/games/tanks"
	"ws-arcade/internal/games/tictactoe"
	"ws-arcade/internal/games/tron"
	"ws-arcade/internal/hub"
	"ws-arcade/internal/server"
	"ws-arcade/internal/storage"
)

// Tic-tac-toe has no physics; its scheduler exists only to run the
// housekeeping sweeps that evict stale and finished matches.
const tickTicTacToe = 500 * time.Millisecond

var flagListen string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the arcade HTTP/websocket server",
	Long: `Start the server that hosts matches for all four games.

Each game type runs its own tick loop at its native rate; tic-tac-toe is
move-driven and only swept for cleanup. Match results are written to the
SQLite database; if the database cannot be opened the server runs without
persistence.

Examples:
  arcade-server serve
  arcade-server serve --listen :9000
  arcade-server serve --config config.yaml`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagListen, "listen", "", "Listen address (overrides config)")
}

func runServe(_ *cobra.Command, _ []string) error {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "arcade",
	})

	cfg := config.Default()
	if flagConfig != "" {
		loaded, err := config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}
	if flagListen != "" {
		cfg.Server.ListenAddr = flagListen
	}

	store, err := storage.Open(cfg.Database.Path)
	if err != nil {
		logger.Warn("could not open match database, continuing without persistence", "error", err)
		store = nil
	} else {
		defer store.Close()
	}
	var summaries arena.SummaryStore
	if store != nil {
		summaries = store
	}

	h := hub.New(logger)
	hubDone := make(chan struct{})
	go h.Run(hubDone)
	defer close(hubDone)

	reg := server.Registries{
		TicTacToe: arena.NewRegistry("tictactoe", tictactoe.New, logger),
		Tron:      arena.NewRegistry("tron", tron.New, logger),
		Asteroids: arena.NewRegistry("asteroids", asteroids.New, logger),
		Tanks:     arena.NewRegistry("tanks", tanks.New, logger),
	}
	srv := server.New(logger, h, store, reg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	schedCfg := func(period time.Duration) arena.SchedulerConfig {
		c := arena.DefaultSchedulerConfig(period)
		c.StaleAfter = cfg.Matches.StaleAfter
		c.RemoveAfter = cfg.Matches.RemoveAfter
		return c
	}
	go arena.NewScheduler(schedCfg(tickTicTacToe), reg.TicTacToe, h, summaries, logger).Run(ctx)
	go arena.NewScheduler(schedCfg(tron.TickPeriod), reg.Tron, h, summaries, logger).Run(ctx)
	go arena.NewScheduler(schedCfg(asteroids.TickPeriod), reg.Asteroids, h, summaries, logger).Run(ctx)
	go arena.NewScheduler(schedCfg(tanks.TickPeriod), reg.Tanks, h, summaries, logger).Run(ctx)

	httpServer := &http.Server{
		Addr:    cfg.Server.ListenAddr,
		Handler: srv.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Server.ListenAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
