// Package scene reads YAML scene files: the clips to stack, their timing
// and opacity, and the keyframed effects applied to the composite.
package scene

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Version is the scene format this package reads.
const Version = "1"

// Scene is the top-level scene file.
type Scene struct {
	Version    string   `yaml:"version"`
	Name       string   `yaml:"name"`
	Domain     string   `yaml:"domain,omitempty"`
	Background string   `yaml:"background,omitempty"`
	Clips      []Clip   `yaml:"clips"`
	Effects    []Effect `yaml:"effects,omitempty"`

	// base is the directory relative paths are resolved against.
	base string
}

// Clip is one layer. Exactly one of Dir, Photostream and Image is set.
type Clip struct {
	Name        string   `yaml:"name"`
	Dir         string   `yaml:"dir,omitempty"`
	Photostream string   `yaml:"photostream,omitempty"`
	Image       string   `yaml:"image,omitempty"`
	Duration    int      `yaml:"duration,omitempty"` // frames an Image is held
	Start       int      `yaml:"start,omitempty"`
	Alpha       *float64 `yaml:"alpha,omitempty"`
	Layer       *int     `yaml:"layer,omitempty"`
}

// Effect is one entry of the effect chain, applied in file order.
type Effect struct {
	Type         string         `yaml:"type"`
	Smoothing    *int           `yaml:"smoothing,omitempty"`
	Kernel       string         `yaml:"kernel,omitempty"`
	Seed         *int64         `yaml:"seed,omitempty"`
	Target       string         `yaml:"target,omitempty"` // clip name, for transitions
	Args         map[string]any `yaml:"args,omitempty"`
	WaypointsCSV string         `yaml:"waypoints_csv,omitempty"`
	Waypoints    []Waypoint     `yaml:"waypoints,omitempty"`
}

// Waypoint pins parameter values at frame T. A string protect_mask value is
// read as the path of a grayscale mask image.
type Waypoint struct {
	T      int            `yaml:"t"`
	Values map[string]any `yaml:"values"`
}

// Load reads and validates the scene file at path. Relative paths inside
// the scene are resolved against the file's directory.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scene: read %s: %w", path, err)
	}

	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("scene: %s: %w", path, err)
	}

	abs, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	s.base = abs

	return s, nil
}

// Parse decodes and validates a scene document. Unknown keys are errors.
func Parse(data []byte) (*Scene, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var s Scene
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	return &s, nil
}

// Validate performs structural checks. Semantic checks (shapes, parameter
// names, value ranges) happen in Build.
func (s *Scene) Validate() error {
	if s.Version != Version {
		return fmt.Errorf("unsupported version %q (expected %q)", s.Version, Version)
	}
	if s.Name == "" {
		return errors.New("name is required")
	}
	switch s.Domain {
	case "", "uint8", "float":
	default:
		return fmt.Errorf("domain must be uint8 or float, got %q", s.Domain)
	}
	if len(s.Clips) == 0 {
		return errors.New("no clips defined")
	}

	seen := map[string]bool{}
	for i, c := range s.Clips {
		if c.Name == "" {
			return fmt.Errorf("clip %d: name is required", i)
		}
		if seen[c.Name] {
			return fmt.Errorf("clip %q defined twice", c.Name)
		}
		seen[c.Name] = true

		if err := c.validate(); err != nil {
			return fmt.Errorf("clip %q: %w", c.Name, err)
		}
	}

	for i, e := range s.Effects {
		if e.Type == "" {
			return fmt.Errorf("effect %d: type is required", i)
		}
		if e.Target != "" && !seen[e.Target] {
			return fmt.Errorf("effect %d (%s): unknown target clip %q", i, e.Type, e.Target)
		}
		if e.Smoothing != nil && *e.Smoothing < 0 {
			return fmt.Errorf("effect %d (%s): smoothing must be non-negative", i, e.Type)
		}
	}

	return nil
}

func (c Clip) validate() error {
	kinds := 0
	for _, v := range []string{c.Dir, c.Photostream, c.Image} {
		if v != "" {
			kinds++
		}
	}
	if kinds != 1 {
		return errors.New("exactly one of dir, photostream or image is required")
	}
	if c.Image != "" && c.Duration <= 0 {
		return errors.New("image clips need a positive duration")
	}
	return nil
}

// Path resolves p against the scene directory.
func (s *Scene) Path(p string) string {
	if p == "" || filepath.IsAbs(p) || s.base == "" {
		return p
	}
	return filepath.Join(s.base, p)
}
