package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"certhub/internal/platform/config"
	"certhub/internal/platform/httpserver"
	"certhub/internal/platform/logger"
)

// main loads configuration, wires the application and runs the HTTP server
// alongside the background workers until SIGINT or SIGTERM.
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("certhub exited with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	if cfg.UsesDevSigningKey() {
		log.Warn("using development JWT signing key; set JWT_SIGNING_KEY outside local development")
	}

	app, err := build(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer app.close(log)

	srv := httpserver.New(cfg.Addr, app.router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := app.auditWorker.Run(gctx); !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	if app.relay != nil {
		scheduler, err := app.relay.Schedule(gctx, cfg.OutboxSchedule)
		if err != nil {
			return err
		}
		scheduler.Start()
		g.Go(func() error {
			<-gctx.Done()
			<-scheduler.Stop().Done()
			return nil
		})
	}
	g.Go(func() error {
		log.Info("starting certhub", "addr", cfg.Addr, "strict_completeness", cfg.StrictCompleteness)
		return httpserver.Run(gctx, srv, 10*time.Second)
	})
	return g.Wait()
}
