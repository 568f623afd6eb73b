package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"homekeep/internal/cli"
	"homekeep/internal/config"
	"homekeep/internal/core"
	"homekeep/internal/log"
	"homekeep/internal/services"
)

func main() {
	if err := cli.LoadEnvFile(""); err != nil {
		fmt.Fprintln(os.Stderr, "load env file:", err)
		os.Exit(1)
	}

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger, err := cli.SetupLogger(cfg, log.ComponentWorker)
	if err != nil {
		fmt.Fprintln(os.Stderr, "setup logger:", err)
		os.Exit(1)
	}
	defer logger.Close()

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required to publish digests")
		os.Exit(1)
	}

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	logger.Info("Starting digest-worker",
		log.FieldOperation, log.OpStartup,
		"interval", cfg.DigestInterval,
		"backend", cfg.DataBackend)

	ticker := time.NewTicker(cfg.DigestInterval)
	defer ticker.Stop()

	logger.Info("Publishing initial digest...")
	publishDigest(ctx, cfg, logger, time.Now())

	for {
		select {
		case <-ctx.Done():
			logger.Info("Digest-worker shutdown complete", log.FieldOperation, log.OpShutdown)
			return
		case now := <-ticker.C:
			publishDigest(ctx, cfg, logger, now)
			logger.Info("Next digest scheduled", "at", now.Add(cfg.DigestInterval).Format(time.DateTime))
		}
	}
}

// publishDigest opens the store for the duration of one run so the digest
// reflects changes made by other processes since the last tick.
func publishDigest(ctx context.Context, cfg *config.Config, logger *log.Logger, now time.Time) {
	session, err := cli.OpenSession(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to open store", log.FieldError, err)
		return
	}
	defer func() {
		if err := session.Close(); err != nil {
			logger.Warn("Failed to close store", log.FieldError, err)
		}
	}()

	if session.Publisher == nil {
		logger.Warn("AMQP unavailable, digest skipped")
		return
	}

	svc := services.NewDigestService(session.Store, session.Publisher, services.DefaultDigestHorizon)
	digest, err := svc.Publish(ctx, core.DateOf(now))
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		logger.Error("Digest publish failed", log.FieldError, err)
		return
	}
	logger.Info("Digest published",
		"overdue", len(digest.Overdue),
		"upcoming", len(digest.Upcoming))
}
