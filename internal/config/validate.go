package config

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-vfx/fx/window"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateRender(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.WorkspaceDir == "" {
		return errors.New("paths.workspace_dir must be set")
	}
	if c.Paths.OutputDir == "" {
		return errors.New("paths.output_dir must be set")
	}
	return nil
}

func (c *Config) validateRender() error {
	if c.Render.FrameDigits < 1 || c.Render.FrameDigits > 12 {
		return fmt.Errorf("render.frame_digits must be between 1 and 12, got %d", c.Render.FrameDigits)
	}
	if c.Render.SmoothingWindow < 0 {
		return fmt.Errorf("render.smoothing_window must be non-negative, got %d", c.Render.SmoothingWindow)
	}
	if _, err := window.ParseType(c.Render.SmoothingKernel); err != nil {
		return fmt.Errorf("render.smoothing_kernel: %w", err)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}

// SmoothingKernel returns the parsed smoothing window shape.
func (c *Config) SmoothingKernel() window.Type {
	t, _ := window.ParseType(c.Render.SmoothingKernel)
	return t
}
