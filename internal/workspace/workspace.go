// Package workspace manages the directory a render session works in: the
// fxworkspace.toml manifest describing the session and a lock file that
// keeps two renders out of the same workspace.
package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/pelletier/go-toml/v2"
)

const (
	// ManifestName is the manifest file inside a workspace.
	ManifestName = "fxworkspace.toml"
	// LockName is the session lock file inside a workspace.
	LockName = ".fxworkspace.lock"
	// Version is the manifest format written by this package.
	Version = 1
)

var (
	// ErrLocked reports a workspace held by another session.
	ErrLocked = errors.New("workspace: locked by another session")
	// ErrNameMismatch reports a workspace created under another name.
	ErrNameMismatch = errors.New("workspace: name mismatch")
)

// Input types recorded in the manifest.
const (
	InputImageDir    = "image_dir"
	InputPhotostream = "photostream"
	InputScene       = "scene"
)

// Manifest describes a workspace.
type Manifest struct {
	Version    int       `toml:"version"`
	Name       string    `toml:"name"`
	Session    string    `toml:"session"`
	Source     string    `toml:"source"`
	InputType  string    `toml:"input_type"`
	Background string    `toml:"background,omitempty"`
	Created    time.Time `toml:"created"`
}

// Workspace is an open, locked workspace directory.
type Workspace struct {
	dir      string
	manifest Manifest
	lock     *flock.Flock
	logger   *slog.Logger
}

// Option configures [Open].
type Option func(*openConfig)

type openConfig struct {
	logger     *slog.Logger
	source     string
	inputType  string
	background string
	now        func() time.Time
}

// WithLogger sets the logger used for version warnings.
func WithLogger(l *slog.Logger) Option {
	return func(c *openConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithSource records the frame source and its kind in a new manifest.
func WithSource(source, inputType string) Option {
	return func(c *openConfig) {
		c.source = source
		c.inputType = inputType
	}
}

// WithBackground records the background frame in a new manifest.
func WithBackground(path string) Option {
	return func(c *openConfig) { c.background = path }
}

// Open creates or reopens the workspace in dir and takes its session lock.
// A new workspace gets a manifest with a fresh session id. An existing
// manifest must carry the same name; a different format version is logged
// and accepted.
func Open(dir, name string, opts ...Option) (*Workspace, error) {
	cfg := openConfig{logger: slog.New(slog.DiscardHandler), now: time.Now}
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("workspace: create %s: %w", dir, err)
	}

	lock := flock.New(filepath.Join(dir, LockName))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("workspace: lock %s: %w", dir, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, dir)
	}

	ws := &Workspace{dir: dir, lock: lock, logger: cfg.logger}

	m, err := ReadManifest(ws.ManifestPath())
	switch {
	case errors.Is(err, fs.ErrNotExist):
		ws.manifest = Manifest{
			Version:    Version,
			Name:       name,
			Session:    uuid.NewString(),
			Source:     cfg.source,
			InputType:  cfg.inputType,
			Background: cfg.background,
			Created:    cfg.now().UTC().Truncate(time.Second),
		}
		if err := ws.Save(); err != nil {
			_ = lock.Unlock()
			return nil, err
		}
	case err != nil:
		_ = lock.Unlock()
		return nil, err
	default:
		if m.Name != name {
			_ = lock.Unlock()
			return nil, fmt.Errorf("%w: %s holds %q, not %q", ErrNameMismatch, dir, m.Name, name)
		}
		if m.Version != Version {
			cfg.logger.Warn("workspace: manifest version differs",
				"dir", dir, "found", m.Version, "expected", Version)
		}
		ws.manifest = m
	}

	return ws, nil
}

// ReadManifest decodes the manifest at path.
func ReadManifest(path string) (Manifest, error) {
	var m Manifest

	data, err := os.ReadFile(path)
	if err != nil {
		return m, fmt.Errorf("workspace: read manifest: %w", err)
	}

	if err := toml.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("workspace: parse %s: %w", path, err)
	}

	return m, nil
}

// Dir returns the workspace directory.
func (w *Workspace) Dir() string { return w.dir }

// Manifest returns a copy of the manifest.
func (w *Workspace) Manifest() Manifest { return w.manifest }

// ManifestPath returns the manifest file path.
func (w *Workspace) ManifestPath() string { return filepath.Join(w.dir, ManifestName) }

// Path joins elem onto the workspace directory.
func (w *Workspace) Path(elem ...string) string {
	return filepath.Join(append([]string{w.dir}, elem...)...)
}

// Save writes the manifest atomically.
func (w *Workspace) Save() error {
	data, err := toml.Marshal(w.manifest)
	if err != nil {
		return fmt.Errorf("workspace: encode manifest: %w", err)
	}

	tmp := w.ManifestPath() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("workspace: write manifest: %w", err)
	}

	if err := os.Rename(tmp, w.ManifestPath()); err != nil {
		return fmt.Errorf("workspace: write manifest: %w", err)
	}

	return nil
}

// Close releases the session lock.
func (w *Workspace) Close() error {
	if err := w.lock.Unlock(); err != nil {
		return fmt.Errorf("workspace: unlock: %w", err)
	}
	return nil
}
