package source

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/cwbudde/algo-vfx/fx"
	"github.com/cwbudde/algo-vfx/fx/raster"
)

// Dir is a clip backed by the image files of one directory, shown one per
// frame in lexical file name order. Files are decoded on demand; the most
// recently decoded frame is kept so repeated reads of the same t are cheap.
type Dir struct {
	name   string
	paths  []string
	domain raster.Domain
	shape  raster.Shape

	cachedT int
	cached  *raster.Raster
}

// DirOption configures [OpenDir].
type DirOption func(*Dir)

// WithDomain selects the sample domain of decoded frames. The default is
// raster.Uint8.
func WithDomain(d raster.Domain) DirOption {
	return func(s *Dir) { s.domain = d }
}

// OpenDir lists the images in dir and decodes the first to fix the clip
// shape. Later frames must match it.
func OpenDir(name, dir string, opts ...DirOption) (*Dir, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("source: dir %s: %w", dir, err)
	}

	s := &Dir{name: name, domain: raster.Uint8, cachedT: -1}
	for _, opt := range opts {
		opt(s)
	}

	for _, e := range entries {
		if e.IsDir() || !IsImage(e.Name()) {
			continue
		}
		s.paths = append(s.paths, filepath.Join(dir, e.Name()))
	}

	if len(s.paths) == 0 {
		return nil, fmt.Errorf("source: dir %s: no images: %w", dir, fx.ErrValidation)
	}

	sort.Strings(s.paths)

	first, err := LoadImage(s.paths[0], s.domain)
	if err != nil {
		return nil, err
	}

	s.shape = first.Shape()
	s.cachedT, s.cached = 0, first

	return s, nil
}

func (s *Dir) Name() string        { return s.name }
func (s *Dir) Shape() raster.Shape { return s.shape }
func (s *Dir) Duration() int       { return len(s.paths) }

// Paths returns the image files in frame order.
func (s *Dir) Paths() []string { return append([]string(nil), s.paths...) }

// Frame decodes image t.
func (s *Dir) Frame(t int) (*raster.Raster, error) {
	if err := checkTime(s.name, t, len(s.paths)); err != nil {
		return nil, err
	}

	if t == s.cachedT {
		return s.cached, nil
	}

	r, err := LoadImage(s.paths[t], s.domain)
	if err != nil {
		return nil, err
	}

	if r.Shape() != s.shape {
		return nil, fmt.Errorf("source: dir %s: %s is %v, clip is %v: %w",
			s.name, s.paths[t], r.Shape(), s.shape, fx.ErrDimensionMismatch)
	}

	s.cachedT, s.cached = t, r

	return r, nil
}
