package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"scribe/internal/config"
	"scribe/internal/logging"
	"scribe/internal/retrieval"
	"scribe/internal/versionstore"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
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

func (c *commandContext) loggerValue() *slog.Logger {
	c.loggerOnce.Do(func() {
		logger, err := logging.NewFromConfig(c.configValue())
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		c.logger = logger
	})
	return c.logger
}

// withStore opens the version database for the duration of fn.
func (c *commandContext) withStore(fn func(*versionstore.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := versionstore.Open(cfg)
	if err != nil {
		return fmt.Errorf("open version store: %w", err)
	}
	defer store.Close()
	return fn(store)
}

// withRetriever is withStore for read-only lookups.
func (c *commandContext) withRetriever(fn func(*versionstore.Store, *retrieval.Retriever) error) error {
	return c.withStore(func(store *versionstore.Store) error {
		return fn(store, retrieval.New(store))
	})
}

// withSession holds the advisory lock guarding writing commands while fn
// runs against an open store.
func (c *commandContext) withSession(fn func(*versionstore.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	lock := flock.New(cfg.LockPath())
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire session lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("another scribe session is writing to %s; finish it before starting a new one", cfg.Paths.DataDir)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logging.WarnWithContext(c.loggerValue(), "failed to release session lock", "lock_release_failed",
				logging.String("lock", cfg.LockPath()),
				logging.Error(err),
			)
		}
	}()
	return c.withStore(fn)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
