package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-vfx/fx"
	"github.com/cwbudde/algo-vfx/fx/core"
	"github.com/cwbudde/algo-vfx/fx/raster"
)

// Photostream is a slideshow: each listed image is held for a number of
// frames, in table order.
type Photostream struct {
	name   string
	images []*raster.Raster
	holds  []int
	index  []int // frame -> image
}

// Shot is one photostream row.
type Shot struct {
	Image  string
	Frames int
}

// LoadPhotostream reads a CSV table with "image" and "time" columns. Image
// paths are relative to the directory holding the table; time is the
// number of frames to show the image for, rounded to the nearest integer.
// Every image is decoded up front and all must share one shape.
func LoadPhotostream(name, path string, d raster.Domain) (*Photostream, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("source: photostream %s: %w", name, err)
	}
	defer f.Close()

	shots, err := ReadShots(f)
	if err != nil {
		return nil, fmt.Errorf("source: photostream %s: %w", name, err)
	}

	base := filepath.Dir(path)
	for i := range shots {
		if !filepath.IsAbs(shots[i].Image) {
			shots[i].Image = filepath.Join(base, shots[i].Image)
		}
	}

	return NewPhotostream(name, shots, d)
}

// NewPhotostream decodes the images named by shots.
func NewPhotostream(name string, shots []Shot, d raster.Domain) (*Photostream, error) {
	p := &Photostream{name: name}

	for _, s := range shots {
		img, err := LoadImage(s.Image, d)
		if err != nil {
			return nil, err
		}

		if len(p.images) > 0 && img.Shape() != p.images[0].Shape() {
			return nil, fmt.Errorf("source: photostream %s: %s is %v, stream is %v: %w",
				name, s.Image, img.Shape(), p.images[0].Shape(), fx.ErrDimensionMismatch)
		}

		p.add(img, s.Frames)
	}

	if len(p.index) == 0 {
		return nil, fmt.Errorf("source: photostream %s: no frames: %w", name, fx.ErrValidation)
	}

	return p, nil
}

func (p *Photostream) add(img *raster.Raster, frames int) {
	i := len(p.images)
	p.images = append(p.images, img)
	p.holds = append(p.holds, frames)
	for range frames {
		p.index = append(p.index, i)
	}
}

func (p *Photostream) Name() string        { return p.name }
func (p *Photostream) Shape() raster.Shape { return p.images[0].Shape() }
func (p *Photostream) Duration() int       { return len(p.index) }

// Holds returns the per-image frame counts in table order.
func (p *Photostream) Holds() []int { return append([]int(nil), p.holds...) }

// Frame returns the image shown at t.
func (p *Photostream) Frame(t int) (*raster.Raster, error) {
	if err := checkTime(p.name, t, len(p.index)); err != nil {
		return nil, err
	}
	return p.images[p.index[t]], nil
}

// ReadShots parses a photostream table. Extra columns are ignored. A time
// that rounds below zero is rejected; zero hides the image.
func ReadShots(r io.Reader) ([]Shot, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("empty table: %w", fx.ErrValidation)
	}
	if err != nil {
		return nil, fmt.Errorf("header: %w: %w", fx.ErrValidation, err)
	}

	imgCol, timeCol := -1, -1
	for i, h := range header {
		switch strings.TrimSpace(h) {
		case "image":
			imgCol = i
		case "time":
			timeCol = i
		}
	}
	if imgCol < 0 {
		return nil, fmt.Errorf("table must contain an image column: %w", fx.ErrValidation)
	}
	if timeCol < 0 {
		return nil, fmt.Errorf("table must contain a time column: %w", fx.ErrValidation)
	}

	var shots []Shot
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w: %w", line, fx.ErrValidation, err)
		}

		img := strings.TrimSpace(rec[imgCol])
		if img == "" {
			return nil, fmt.Errorf("line %d: empty image: %w", line, fx.ErrValidation)
		}

		tf, err := strconv.ParseFloat(strings.TrimSpace(rec[timeCol]), 64)
		if err != nil || !core.IsFinite(tf) {
			return nil, fmt.Errorf("line %d: time %q is not a number: %w", line, rec[timeCol], fx.ErrValidation)
		}

		frames := core.RoundTime(tf)
		if frames < 0 {
			return nil, fmt.Errorf("line %d: negative time %v: %w", line, tf, fx.ErrValidation)
		}

		shots = append(shots, Shot{Image: img, Frames: frames})
	}

	return shots, nil
}
