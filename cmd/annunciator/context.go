package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"annunciator/internal/backend"
	"annunciator/internal/config"
	"annunciator/internal/ledger"
	"annunciator/internal/logging"
	"annunciator/internal/media"
	"annunciator/internal/preflight"
	"annunciator/internal/session"
)

const sessionCloseTimeout = time.Minute

type commandContext struct {
	configFlag *string
	verbose    *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string, verbose *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		verbose:    verbose,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.verbose != nil && *c.verbose {
			cfg.Logging.Level = "debug"
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

// withLedger opens the asset ledger for the duration of fn.
func (c *commandContext) withLedger(fn func(*ledger.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := ledger.Open(cfg)
	if err != nil {
		return fmt.Errorf("open asset ledger: %w", err)
	}
	defer store.Close()
	return fn(store)
}

func (c *commandContext) backendClient() (*backend.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return backend.NewFromConfig(cfg)
}

type sessionSettings struct {
	station      stationFlags
	offline      bool
	checks       bool
	sweepOnClose *bool
	observer     media.Observer
}

// withSession opens a composition session backed by the configured backend
// and ledger, runs fn, and closes the session even when fn fails.
func (c *commandContext) withSession(ctx context.Context, settings sessionSettings, fn func(*session.Session) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return err
	}
	if settings.checks {
		if blocking := preflight.Blocking(preflight.RunAll(ctx, cfg)); len(blocking) > 0 {
			return preflightError(blocking)
		}
	}
	client, err := backend.NewFromConfig(cfg)
	if err != nil {
		return err
	}
	store, err := ledger.Open(cfg)
	if err != nil {
		return fmt.Errorf("open asset ledger: %w", err)
	}
	defer store.Close()

	opts := append(session.ConfigOptions(cfg, logger), session.WithLedger(store))
	if settings.offline {
		opts = append(opts, session.WithoutTranslation())
	}
	if settings.observer != nil {
		opts = append(opts, session.WithObserver(settings.observer))
	}
	if settings.sweepOnClose != nil {
		opts = append(opts, session.WithSweepOnClose(*settings.sweepOnClose))
	}
	plan := settings.station.plan(cfg)
	s, err := session.Open(ctx, plan, client, opts...)
	if err != nil {
		return err
	}

	runErr := fn(s)
	closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sessionCloseTimeout)
	defer cancel()
	if closeErr := s.Close(closeCtx); closeErr != nil && runErr == nil {
		runErr = closeErr
	}
	return runErr
}

func preflightError(blocking []preflight.Result) error {
	parts := make([]string, 0, len(blocking))
	for _, r := range blocking {
		parts = append(parts, fmt.Sprintf("%s: %s", r.Name, r.Detail))
	}
	return fmt.Errorf("readiness checks failed (run `annunciator status` for details): %s", strings.Join(parts, "; "))
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
