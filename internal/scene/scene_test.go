package scene

import (
	"image/png"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/cwbudde/algo-vfx/fx/effects"
	"github.com/cwbudde/algo-vfx/fx/raster"
	"github.com/cwbudde/algo-vfx/internal/testutil"
)

var sceneShape = raster.Shape{Width: 4, Height: 3, Channels: 4, Domain: raster.Float}

func writePNG(t *testing.T, path string, r *raster.Raster) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, r.Image()); err != nil {
		t.Fatal(err)
	}
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

const sceneYAML = `
version: "1"
name: demo
domain: float
background: bg.png
clips:
  - name: base
    dir: frames
  - name: slides
    photostream: slides.csv
    start: 2
    alpha: 0.5
  - name: logo
    image: logo.png
    duration: 3
    layer: 0
effects:
  - type: hsv_shift
    smoothing: 0
    waypoints_csv: hsv.csv
    waypoints:
      - t: 4
        values:
          protect_mask: mask.png
  - type: crossfade
    target: logo
    args:
      start: 1
      duration: 2
      curve: in_out_quad
`

func writeScene(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	for i := 0; i < 5; i++ {
		writePNG(t, filepath.Join(dir, "frames", "f"+string(rune('0'+i))+".png"), testutil.SolidRaster(sceneShape, 0.2, 0.4, 0.6, 1))
	}
	writePNG(t, filepath.Join(dir, "slide.png"), testutil.SolidRaster(sceneShape, 1, 1, 1, 1))
	writePNG(t, filepath.Join(dir, "logo.png"), testutil.SolidRaster(sceneShape, 0, 0, 0, 1))
	writePNG(t, filepath.Join(dir, "bg.png"), testutil.SolidRaster(sceneShape, 0.5, 0.5, 0.5, 1))
	writePNG(t, filepath.Join(dir, "mask.png"), testutil.SolidRaster(sceneShape, 1, 1, 1, 1))
	writeFile(t, filepath.Join(dir, "slides.csv"), "image,time\nslide.png,2\n")
	writeFile(t, filepath.Join(dir, "hsv.csv"), "t,value\n0,1\n4,0.5\n")

	path := filepath.Join(dir, "scene.yaml")
	writeFile(t, path, sceneYAML)
	return path
}

func TestLoadAndBuild(t *testing.T) {
	t.Parallel()

	s, err := Load(writeScene(t))
	if err != nil {
		t.Fatal(err)
	}

	b, err := Build(s)
	if err != nil {
		t.Fatal(err)
	}

	if got, want := b.Compositor.Names(), []string{"logo", "base", "slides"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("layers = %v, want %v", got, want)
	}
	if got, want := b.Compositor.Starts(), []int{0, 0, 2}; !reflect.DeepEqual(got, want) {
		t.Fatalf("starts = %v, want %v", got, want)
	}
	if got := b.Clock.MaxTime(); got != 4 {
		t.Fatalf("max time = %d, want 4", got)
	}
	if b.Background == nil || b.Background.Shape() != sceneShape {
		t.Fatalf("background = %v", b.Background)
	}

	if len(b.Effects) != 2 {
		t.Fatalf("effects = %d, want 2", len(b.Effects))
	}
	for _, e := range b.Effects {
		if !e.Baked() {
			t.Fatalf("effect %s not baked", e.Name())
		}
	}

	hsv := b.Effects[0]
	if got, err := hsv.Resolved().Float("value", 2); err != nil || got < 0.74 || got > 0.76 {
		t.Fatalf("value at t=2 = %v, %v; want 0.75", got, err)
	}
	if mask, _ := hsv.Resolved().ValueOf("protect_mask", 4); mask == nil {
		t.Fatal("protect mask not set at t=4")
	}

	r, err := b.Renderer()
	if err != nil {
		t.Fatal(err)
	}

	frame, err := r.Frame(0)
	if err != nil {
		t.Fatal(err)
	}
	if frame.Shape() != sceneShape {
		t.Fatalf("frame shape = %v, want %v", frame.Shape(), sceneShape)
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	base := "version: \"1\"\nname: x\n"
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"version", "version: \"2\"\nname: x\nclips: [{name: a, dir: d}]\n", "version"},
		{"no name", "version: \"1\"\nclips: [{name: a, dir: d}]\n", "name is required"},
		{"no clips", base, "no clips"},
		{"two kinds", base + "clips: [{name: a, dir: d, image: i.png, duration: 2}]\n", "exactly one"},
		{"still without duration", base + "clips: [{name: a, image: i.png}]\n", "positive duration"},
		{"duplicate clip", base + "clips: [{name: a, dir: d}, {name: a, dir: e}]\n", "defined twice"},
		{"unknown target", base + "clips: [{name: a, dir: d}]\neffects: [{type: crossfade, target: b}]\n", "unknown target"},
		{"unknown key", base + "clips: [{name: a, dir: d, speed: 2}]\n", "speed"},
		{"bad domain", base + "domain: int16\nclips: [{name: a, dir: d}]\n", "domain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse([]byte(tt.doc))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestBuildRejectsUnknownParameter(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "still.png"), testutil.SolidRaster(sceneShape, 0, 0, 0, 1))

	doc := `
version: "1"
name: bad
clips:
  - name: still
    image: still.png
    duration: 2
effects:
  - type: hsv_shift
    waypoints:
      - t: 1
        values: {brightness: 2}
`
	path := filepath.Join(dir, "scene.yaml")
	writeFile(t, path, doc)

	s, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := Build(s); err == nil || !strings.Contains(err.Error(), effects.HSVShiftName) {
		t.Fatalf("err = %v, want a hsv_shift error", err)
	}
}
