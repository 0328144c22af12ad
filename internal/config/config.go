package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// FileName is the config file looked up in the working directory when no
// path is given.
const FileName = "fxrender.toml"

// Paths holds the workspace and output locations.
type Paths struct {
	WorkspaceDir string `toml:"workspace_dir"`
	OutputDir    string `toml:"output_dir"`
}

// Render holds frame loop settings.
type Render struct {
	FrameDigits     int    `toml:"frame_digits"`
	SmoothingWindow int    `toml:"smoothing_window"`
	SmoothingKernel string `toml:"smoothing_kernel"`
	Seed            int64  `toml:"seed"`
	Overwrite       bool   `toml:"overwrite"`
}

// Logging holds log output settings.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Config is the full fxrender configuration.
type Config struct {
	Paths   Paths   `toml:"paths"`
	Render  Render  `toml:"render"`
	Logging Logging `toml:"logging"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkspaceDir: ".",
			OutputDir:    "frames",
		},
		Render: Render{
			FrameDigits:     8,
			SmoothingWindow: 0,
			SmoothingKernel: "rectangular",
		},
		Logging: Logging{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads path, or FileName in the working directory when path is
// empty, over the defaults. It reports whether a file was found. The result
// is normalized and validated.
func Load(path string) (*Config, bool, error) {
	if path == "" {
		path = FileName
	}

	cfg := Default()

	file, err := os.Open(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if err := cfg.finish(filepath.Dir(path)); err != nil {
			return nil, false, err
		}
		return &cfg, false, nil
	case err != nil:
		return nil, false, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	if err := Decode(file, &cfg); err != nil {
		return nil, true, err
	}

	if err := cfg.finish(filepath.Dir(path)); err != nil {
		return nil, true, err
	}

	return &cfg, true, nil
}

// Decode parses TOML from r into cfg, rejecting unknown keys.
func Decode(r io.Reader, cfg *Config) error {
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()

	if err := dec.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return fmt.Errorf("parse config: unknown keys:\n%s", strict.String())
		}
		return fmt.Errorf("parse config: %w", err)
	}

	return nil
}

// Encode writes cfg as TOML.
func Encode(w io.Writer, cfg Config) error {
	enc := toml.NewEncoder(w)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}

func (c *Config) finish(base string) error {
	c.normalize(base)
	return c.Validate()
}

// normalize trims string settings and resolves relative directories
// against base, the directory holding the config file.
func (c *Config) normalize(base string) {
	c.Paths.WorkspaceDir = resolveDir(base, c.Paths.WorkspaceDir)
	c.Paths.OutputDir = resolveDir(base, c.Paths.OutputDir)
	c.Render.SmoothingKernel = strings.ToLower(strings.TrimSpace(c.Render.SmoothingKernel))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
}

func resolveDir(base, dir string) string {
	dir = strings.TrimSpace(dir)
	if dir == "" || filepath.IsAbs(dir) {
		return dir
	}
	if strings.HasPrefix(dir, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, dir[2:])
		}
	}
	return filepath.Join(base, dir)
}
