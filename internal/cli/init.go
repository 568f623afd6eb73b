// Package cli provides the bootstrap shared by every homekeep command:
// environment file, configuration, logging and opening the store.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"homekeep/internal/amqp"
	"homekeep/internal/backend"
	"homekeep/internal/config"
	"homekeep/internal/log"
	"homekeep/internal/store"
)

// LoadEnvFile loads the .env file for local development.
// A missing file is ignored; path defaults to ".env".
func LoadEnvFile(path string) error {
	if path == "" {
		path = ".env"
	}
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// LoadAndValidateConfig loads configuration from the environment and validates it.
func LoadAndValidateConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SetupLogger builds the process logger from configuration and installs it
// as the slog default. Logs go to stderr so command output stays clean.
func SetupLogger(cfg *config.Config, component string) (*log.Logger, error) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	lc := log.DefaultConfig()
	lc.Level = level
	lc.Component = component
	lc.JSON = cfg.LogJSON
	lc.Dir = cfg.LogDir
	lc.Output = os.Stderr
	logger, err := log.New(lc)
	if err != nil {
		return nil, err
	}
	log.SetDefault(logger)
	return logger, nil
}

// Session is an open store together with the resources backing it.
type Session struct {
	Store     *store.Store
	Publisher *amqp.Client
	Logger    *log.Logger

	cleanup   backend.CleanupFunc
	closeWait time.Duration
}

// OpenSession creates the configured backend and loads the store from it.
func OpenSession(ctx context.Context, cfg *config.Config, logger *log.Logger) (*Session, error) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	result, err := backend.NewFactory(logger.Logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, err
	}

	opts := []store.Option{
		store.WithLogger(logger.WithComponent(log.ComponentStore)),
		store.WithWriteTimeout(cfg.PersistTimeout),
	}
	if result.Publisher != nil {
		opts = append(opts, store.WithNotifier(result.Publisher))
	}
	s, err := store.Open(ctx, result.Store, opts...)
	if err != nil {
		if cerr := result.Cleanup(); cerr != nil {
			logger.Warn("Cleanup after failed open", log.FieldError, cerr)
		}
		return nil, fmt.Errorf("open store: %w", err)
	}

	return &Session{
		Store:     s,
		Publisher: result.Publisher,
		Logger:    logger,
		cleanup:   result.Cleanup,
		closeWait: 2 * cfg.PersistTimeout,
	}, nil
}

// Close flushes the store and releases the backend. Write errors are
// returned so a command can report data that did not reach disk.
func (s *Session) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.closeWait)
	defer cancel()

	var errs []error
	if err := s.Store.Close(ctx); err != nil {
		errs = append(errs, fmt.Errorf("persist: %w", err))
	}
	if s.cleanup != nil {
		if err := s.cleanup(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}
