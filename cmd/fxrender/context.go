package main

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/cwbudde/algo-vfx/internal/config"
	"github.com/cwbudde/algo-vfx/internal/logging"
)

type commandContext struct {
	configFlag *string
	levelFlag  *string

	once      sync.Once
	config    *config.Config
	logger    *slog.Logger
	configErr error
}

func newCommandContext(configFlag, levelFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag, levelFlag: levelFlag}
}

// ensureConfig loads the configuration and builds the logger once.
func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.once.Do(func() {
		cfg, _, err := config.Load(strings.TrimSpace(*c.configFlag))
		if err != nil {
			c.configErr = err
			return
		}

		if lvl := strings.TrimSpace(*c.levelFlag); lvl != "" {
			cfg.Logging.Level = lvl
		}

		logger, err := logging.New(logging.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
		if err != nil {
			c.configErr = err
			return
		}

		c.config = cfg
		c.logger = logger
	})
	return c.config, c.configErr
}
