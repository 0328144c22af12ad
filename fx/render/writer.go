package render

import (
	"errors"
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/cwbudde/algo-vfx/fx/raster"
)

// DefaultDigits is the zero-padded width of frame numbers in file names.
const DefaultDigits = 8

// ErrOutputExists reports an output directory that already exists while
// overwriting is off.
var ErrOutputExists = errors.New("render: output directory exists")

// Writer receives rendered frames.
type Writer interface {
	Write(t int, frame *raster.Raster) error
}

// PNGWriter writes each frame to dir/frame%0Nd.png.
type PNGWriter struct {
	dir       string
	digits    int
	overwrite bool
	encoder   png.Encoder
}

// PNGOption configures a [PNGWriter].
type PNGOption func(*PNGWriter)

// WithDigits sets the zero-padded width of the frame number.
func WithDigits(n int) PNGOption {
	return func(w *PNGWriter) { w.digits = n }
}

// WithOverwrite allows writing into an existing directory.
func WithOverwrite(ok bool) PNGOption {
	return func(w *PNGWriter) { w.overwrite = ok }
}

// WithCompression sets the PNG compression level.
func WithCompression(level png.CompressionLevel) PNGOption {
	return func(w *PNGWriter) { w.encoder.CompressionLevel = level }
}

// NewPNGWriter creates dir. An existing dir is an error unless overwriting
// is enabled.
func NewPNGWriter(dir string, opts ...PNGOption) (*PNGWriter, error) {
	w := &PNGWriter{dir: dir, digits: DefaultDigits}
	for _, opt := range opts {
		opt(w)
	}

	if w.digits < 1 {
		return nil, fmt.Errorf("render: png writer: %d digits", w.digits)
	}

	if _, err := os.Stat(dir); err == nil {
		if !w.overwrite {
			return nil, fmt.Errorf("%w: %s", ErrOutputExists, dir)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("render: png writer: %w", err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("render: png writer: %w", err)
	}

	return w, nil
}

// Dir returns the output directory.
func (w *PNGWriter) Dir() string { return w.dir }

// Path returns the file frame t is written to.
func (w *PNGWriter) Path(t int) string {
	return filepath.Join(w.dir, fmt.Sprintf("frame%0*d.png", w.digits, t))
}

// Write encodes frame as 8-bit RGBA.
func (w *PNGWriter) Write(t int, frame *raster.Raster) error {
	path := w.Path(t)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("render: write frame %d: %w", t, err)
	}

	if err := w.encoder.Encode(f, frame.Image()); err != nil {
		f.Close()
		return fmt.Errorf("render: encode frame %d: %w", t, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("render: close frame %d: %w", t, err)
	}

	return nil
}
