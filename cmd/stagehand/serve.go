package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/radiofm/stagehand"
	httpAdapter "github.com/radiofm/stagehand/internal/adapters/http"
	"github.com/radiofm/stagehand/internal/adapters/memory"
	redisAdapter "github.com/radiofm/stagehand/internal/adapters/redis"
	"github.com/radiofm/stagehand/internal/config"
	"github.com/radiofm/stagehand/internal/launch"
	"github.com/radiofm/stagehand/internal/observability"
	"github.com/radiofm/stagehand/internal/prepare"
	"github.com/radiofm/stagehand/internal/presentation/tui"
	"github.com/radiofm/stagehand/internal/status"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Prepare the environment and run the serving process",
	Long: `Runs the preparation sequence, then starts the network-serving side
of the deployment on 0.0.0.0:$PORT.

With server.command configured, control transfers to that process.
Without it, stagehand itself serves the deployment dashboard and spawns
the worker as a child, mirroring the combined web-plus-bot layout.`,
	Run: func(cmd *cobra.Command, args []string) {
		dir, _ := cmd.Flags().GetString("dir")
		logger := newLogger(cmd)
		metrics := observability.New()

		opts := append(bootOptions(cmd, logger), stagehand.WithMetrics(metrics))
		boot, err := stagehand.New(dir, opts...)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		report := boot.Prepare(cmd.Context())
		logReport(logger, report)

		// External serving process configured: hand off and be done.
		if len(boot.Config().Server.Command) > 0 {
			code, err := boot.Launch(cmd.Context(), stagehand.ModeServer)
			if err != nil {
				logger.Error("launch failed", "error", err)
				os.Exit(1)
			}
			os.Exit(code)
		}

		// Embedded dashboard mode.
		port, err := config.Port()
		if err != nil {
			logger.Error("server mode needs a port", "error", err)
			os.Exit(1)
		}

		tui.PrintBanner()

		store, err := newStore(cmd.Context(), boot.Config(), report)
		if err != nil {
			logger.Error("failed to initialize status store", "error", err)
			os.Exit(1)
		}

		handler := httpAdapter.NewHandler(store, metrics, httpAdapter.WithLogger(logger))
		srv := &http.Server{
			Addr:    fmt.Sprintf("0.0.0.0:%d", port),
			Handler: handler,
		}

		workerCtx, stopWorker := context.WithCancel(cmd.Context())
		defer stopWorker()
		if argv := boot.Config().Worker.Command; len(argv) > 0 {
			go superviseWorker(workerCtx, logger, store, dir, argv)
		} else {
			logger.Warn("no worker command configured, dashboard only")
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			logger.Info("starting dashboard server", "addr", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			// Error when starting HTTP server.
			logger.Error("server error", "error", err)
			os.Exit(1)

		case sig := <-shutdown:
			logger.Info("starting shutdown", "signal", sig.String())
			stopWorker()

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				logger.Warn("graceful shutdown did not complete", "error", err)
				if err := srv.Close(); err != nil {
					logger.Error("error killing server", "error", err)
				}
			}
			logger.Info("dashboard server stopped")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// newStore picks the status backend: Redis when configured (shared
// across replicas), in-memory otherwise. The initial snapshot carries
// the ffmpeg outcome of the preparation run.
func newStore(ctx context.Context, cfg config.Config, report prepare.Report) (status.Store, error) {
	snap := status.NewSnapshot(time.Now())
	if report.FFmpegPath != "" {
		snap.FFmpeg = status.FFmpegAvailable
	} else if report.Dependency == prepare.DepMissing {
		snap.FFmpeg = status.FFmpegNotFound
	}

	if cfg.Redis.Address != "" {
		store := redisAdapter.New(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB,
			redisAdapter.WithErrorHistory(int64(cfg.ErrorHistory)))
		if err := store.Seed(ctx, snap); err != nil {
			return nil, err
		}
		return store, nil
	}

	store := memory.New(time.Now(), memory.WithErrorHistory(cfg.ErrorHistory))
	ffmpeg := snap.FFmpeg
	_ = store.Update(ctx, func(s *status.Snapshot) { s.FFmpeg = ffmpeg })
	return store, nil
}

// superviseWorker runs the bot as a child of the dashboard process.
// A dead bot does not take the dashboard down; its exit is recorded so
// the dashboard can show it.
func superviseWorker(ctx context.Context, logger *slog.Logger, store status.Store, dir string, argv []string) {
	launcher := launch.New(launch.WithLogger(logger))
	_ = store.Update(ctx, func(s *status.Snapshot) { s.State = status.StateOnline })

	code, err := launcher.Run(ctx, dir, argv)
	if ctx.Err() != nil {
		return
	}

	msg := fmt.Sprintf("worker exited with code %d", code)
	if err != nil {
		msg = fmt.Sprintf("worker failed: %v", err)
	}
	logger.Error("worker process ended", "detail", msg)
	_ = store.RecordError(context.Background(), time.Now(), msg)
	_ = store.Update(context.Background(), func(s *status.Snapshot) {
		s.State = status.StateError
		s.Connection = "disconnected"
	})
}
