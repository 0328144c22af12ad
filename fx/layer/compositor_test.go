package layer

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"

	"github.com/cwbudde/algo-vfx/fx"
	"github.com/cwbudde/algo-vfx/fx/raster"
	"github.com/cwbudde/algo-vfx/internal/testutil"
)

var testShape = raster.Shape{Width: 4, Height: 3, Channels: 4, Domain: raster.Float}

type solidClip struct {
	name     string
	shape    raster.Shape
	duration int
	px       []float64
	calls    []int
}

func newSolid(name string, duration int, px ...float64) *solidClip {
	shape := testShape
	shape.Channels = len(px)
	return &solidClip{name: name, shape: shape, duration: duration, px: px}
}

func (s *solidClip) Name() string        { return s.name }
func (s *solidClip) Shape() raster.Shape { return s.shape }
func (s *solidClip) Duration() int       { return s.duration }

func (s *solidClip) Frame(t int) (*raster.Raster, error) {
	s.calls = append(s.calls, t)
	return testutil.SolidRaster(s.shape, s.px...), nil
}

func mustAdd(t *testing.T, c *Compositor, clip Clip, opts ...AddOption) {
	t.Helper()
	if err := c.Add(clip, opts...); err != nil {
		t.Fatalf("Add(%s): %v", clip.Name(), err)
	}
}

func requireNames(t *testing.T, c *Compositor, want ...string) {
	t.Helper()
	if got := c.Names(); !reflect.DeepEqual(got, want) {
		t.Fatalf("names = %v, want %v", got, want)
	}
	if err := c.order.check(); err != nil {
		t.Fatalf("order check: %v", err)
	}
}

func TestLayerReordering(t *testing.T) {
	t.Parallel()

	c := New("stack")
	mustAdd(t, c, newSolid("A", 50, 1, 0, 0, 1), AtLayer(0))
	mustAdd(t, c, newSolid("B", 50, 0, 1, 0, 1), StartAt(10), AtLayer(1))
	mustAdd(t, c, newSolid("C", 50, 0, 0, 1, 1), WithAlpha(0.1), AtLayer(2))
	requireNames(t, c, "A", "B", "C")

	if err := c.Raise(ByName("A"), true); err != nil {
		t.Fatal(err)
	}
	requireNames(t, c, "B", "C", "A")

	// B is already the bottom layer.
	if err := c.Lower(ByName("B"), false); err != nil {
		t.Fatal(err)
	}
	requireNames(t, c, "B", "C", "A")

	// Lowering C, the layer above B, gives [C, B, A].
	if err := c.Lower(ByLayer(1), false); err != nil {
		t.Fatal(err)
	}
	requireNames(t, c, "C", "B", "A")

	if err := c.SetLayer(ByName("A"), 0); err != nil {
		t.Fatal(err)
	}
	requireNames(t, c, "A", "C", "B")

	if err := c.SetAlpha(ByName("B"), 20); !errors.Is(err, fx.ErrValidation) {
		t.Fatalf("SetAlpha(20) err = %v, want ErrValidation", err)
	}

	if got, _ := c.Alpha(ByName("B")); got != 1 {
		t.Fatalf("alpha after rejected set = %v, want 1", got)
	}

	if got, want := c.Starts(), []int{0, 0, 10}; !reflect.DeepEqual(got, want) {
		t.Fatalf("starts = %v, want %v", got, want)
	}

	if got, want := c.Alphas(), []float64{1, 0.1, 1}; !reflect.DeepEqual(got, want) {
		t.Fatalf("alphas = %v, want %v", got, want)
	}
}

func TestBoundaryMovesAreNoOps(t *testing.T) {
	t.Parallel()

	c := New("stack")
	mustAdd(t, c, newSolid("A", 5, 0, 0, 0, 1))
	mustAdd(t, c, newSolid("B", 5, 0, 0, 0, 1))

	for _, step := range []struct {
		name string
		fn   func() error
	}{
		{"raise top", func() error { return c.Raise(ByName("B"), false) }},
		{"raise top to top", func() error { return c.Raise(ByName("B"), true) }},
		{"lower bottom", func() error { return c.Lower(ByName("A"), false) }},
		{"lower bottom to bottom", func() error { return c.Lower(ByLayer(0), true) }},
		{"set same layer", func() error { return c.SetLayer(ByName("A"), 0) }},
	} {
		if err := step.fn(); err != nil {
			t.Fatalf("%s: %v", step.name, err)
		}
		requireNames(t, c, "A", "B")
	}
}

func TestAddInsertsAndShifts(t *testing.T) {
	t.Parallel()

	c := New("stack")
	mustAdd(t, c, newSolid("A", 5, 0, 0, 0, 1))
	mustAdd(t, c, newSolid("B", 5, 0, 0, 0, 1))
	mustAdd(t, c, newSolid("C", 5, 0, 0, 0, 1), AtLayer(0))
	mustAdd(t, c, newSolid("D", 5, 0, 0, 0, 1), AtLayer(2))
	requireNames(t, c, "C", "A", "D", "B")

	if got, err := c.Layer(ByName("B")); err != nil || got != 3 {
		t.Fatalf("Layer(B) = %d, %v; want 3", got, err)
	}
}

func TestAddValidation(t *testing.T) {
	t.Parallel()

	small := newSolid("small", 5, 0, 0, 0, 1)
	small.shape.Width = 2

	tests := []struct {
		name string
		clip Clip
		opts []AddOption
		want error
	}{
		{"duplicate name", newSolid("A", 5, 0, 0, 0, 1), nil, fx.ErrDuplicateName},
		{"shape mismatch", small, nil, fx.ErrDimensionMismatch},
		{"zero alpha", newSolid("Z", 5, 0, 0, 0, 1), []AddOption{WithAlpha(0)}, fx.ErrValidation},
		{"alpha above one", newSolid("Z", 5, 0, 0, 0, 1), []AddOption{WithAlpha(1.5)}, fx.ErrValidation},
		{"negative layer", newSolid("Z", 5, 0, 0, 0, 1), []AddOption{AtLayer(-1)}, fx.ErrLayerRange},
		{"layer past end", newSolid("Z", 5, 0, 0, 0, 1), []AddOption{AtLayer(3)}, fx.ErrLayerRange},
		{"nil clip", nil, nil, fx.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := New("stack")
			mustAdd(t, c, newSolid("A", 5, 0, 0, 0, 1))
			mustAdd(t, c, newSolid("B", 5, 0, 0, 0, 1))

			var err error
			if tt.clip == nil {
				err = c.Add(nil)
			} else {
				err = c.Add(tt.clip, tt.opts...)
			}

			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			requireNames(t, c, "A", "B")
		})
	}
}

func TestLookupErrorsAreDistinct(t *testing.T) {
	t.Parallel()

	c := New("stack")
	mustAdd(t, c, newSolid("A", 5, 0, 0, 0, 1))

	_, err := c.Layer(ByName("missing"))
	if !errors.Is(err, fx.ErrNotFound) || errors.Is(err, fx.ErrLayerRange) {
		t.Fatalf("name miss err = %v, want ErrNotFound only", err)
	}

	_, err = c.Layer(ByLayer(1))
	if !errors.Is(err, fx.ErrLayerRange) || errors.Is(err, fx.ErrNotFound) {
		t.Fatalf("layer miss err = %v, want ErrLayerRange only", err)
	}

	if err := c.SetLayer(ByName("A"), 4); !errors.Is(err, fx.ErrLayerRange) {
		t.Fatalf("SetLayer(4) err = %v, want ErrLayerRange", err)
	}
}

func TestRandomOperationsKeepOrderConsistent(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(7))
	c := New("stack")
	names := []string{"a", "b", "c", "d", "e", "f"}
	next := 0

	for i := 0; i < 500; i++ {
		n := c.Len()
		var err error

		switch op := rng.Intn(6); {
		case op == 0 && next < len(names):
			err = c.Add(newSolid(names[next], 5, 0, 0, 0, 1), AtLayer(rng.Intn(n+1)))
			next++
		case n == 0:
			continue
		case op == 1:
			err = c.Raise(ByLayer(rng.Intn(n)), rng.Intn(2) == 0)
		case op == 2:
			err = c.Lower(ByLayer(rng.Intn(n)), rng.Intn(2) == 0)
		case op == 3:
			err = c.SetLayer(ByLayer(rng.Intn(n)), rng.Intn(n))
		case op == 4 && n > 3:
			err = c.Remove(ByLayer(rng.Intn(n)))
		default:
			err = c.ShiftStart(ByLayer(rng.Intn(n)), rng.Intn(3)-1)
		}

		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}

		if err := c.order.check(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}

		for l, name := range c.Names() {
			if got, err := c.Layer(ByName(name)); err != nil || got != l {
				t.Fatalf("step %d: Layer(%s) = %d, %v; want %d", i, name, got, err, l)
			}
		}
	}
}

func TestRemove(t *testing.T) {
	t.Parallel()

	c := New("stack")
	mustAdd(t, c, newSolid("A", 5, 0, 0, 0, 1))
	mustAdd(t, c, newSolid("B", 5, 0, 0, 0, 1))
	mustAdd(t, c, newSolid("C", 5, 0, 0, 0, 1))

	if err := c.Remove(ByName("B")); err != nil {
		t.Fatal(err)
	}
	requireNames(t, c, "A", "C")

	if _, err := c.Layer(ByName("B")); !errors.Is(err, fx.ErrNotFound) {
		t.Fatalf("removed clip err = %v, want ErrNotFound", err)
	}

	mustAdd(t, c, newSolid("B", 5, 0, 0, 0, 1), AtLayer(0))
	requireNames(t, c, "B", "A", "C")
}

func TestFrameNothingActiveIsOpaqueBlack(t *testing.T) {
	t.Parallel()

	c := New("stack")
	mustAdd(t, c, newSolid("A", 5, 1, 1, 1, 1), StartAt(10))

	got, err := c.Frame(3)
	if err != nil {
		t.Fatal(err)
	}

	testutil.RequireRasterNearlyEqual(t, got, testutil.SolidRaster(testShape, 0, 0, 0, 1), 0)

	if _, err := New("empty").Frame(0); !errors.Is(err, fx.ErrNotFound) {
		t.Fatalf("empty stack err = %v, want ErrNotFound", err)
	}
}

func TestFrameCompositesActiveClips(t *testing.T) {
	t.Parallel()

	red := newSolid("red", 20, 1, 0, 0, 1)
	blue := newSolid("blue", 5, 0, 0, 1, 1)

	c := New("stack")
	mustAdd(t, c, red)
	mustAdd(t, c, blue, StartAt(4), WithAlpha(0.25))

	tests := []struct {
		t    int
		want []float64
	}{
		{0, []float64{1, 0, 0, 1}},
		{4, []float64{0.75, 0, 0.25, 1}},
		{8, []float64{0.75, 0, 0.25, 1}},
		{9, []float64{1, 0, 0, 1}},
	}

	for _, tt := range tests {
		got, err := c.Frame(tt.t)
		if err != nil {
			t.Fatalf("Frame(%d): %v", tt.t, err)
		}
		testutil.RequireRasterNearlyEqual(t, got, testutil.SolidRaster(testShape, tt.want...), 1e-12)
	}

	if got, want := blue.calls, []int{0, 4}; !reflect.DeepEqual(got, want) {
		t.Fatalf("blue local times = %v, want %v", got, want)
	}

	if got := c.Duration(); got != 20 {
		t.Fatalf("duration = %d, want 20", got)
	}
}

func TestFrameDoesNotMutateClipFrames(t *testing.T) {
	t.Parallel()

	src := testutil.RandomRaster(3, testShape, 0.2)
	clip := &fixedClip{name: "fixed", frame: src.Clone()}

	c := New("stack")
	mustAdd(t, c, newSolid("base", 5, 0.5, 0.5, 0.5, 1))
	mustAdd(t, c, clip, WithAlpha(0.5))

	if _, err := c.Frame(0); err != nil {
		t.Fatal(err)
	}

	if !clip.frame.Equal(src) {
		t.Fatal("clip frame was modified by compositing")
	}
}

func TestNestedCompositor(t *testing.T) {
	t.Parallel()

	inner := New("inner")
	mustAdd(t, inner, newSolid("green", 10, 0, 1, 0))

	outer := New("outer")
	mustAdd(t, outer, newSolid("red", 10, 1, 0, 0, 1))
	mustAdd(t, outer, inner, StartAt(2), WithAlpha(0.5))

	got, err := outer.Frame(2)
	if err != nil {
		t.Fatal(err)
	}

	testutil.RequireRasterNearlyEqual(t, got, testutil.SolidRaster(testShape, 0.5, 0.5, 0, 1), 1e-12)
}

type fixedClip struct {
	name  string
	frame *raster.Raster
}

func (f *fixedClip) Name() string                      { return f.name }
func (f *fixedClip) Shape() raster.Shape               { return f.frame.Shape() }
func (f *fixedClip) Duration() int                     { return 1 }
func (f *fixedClip) Frame(int) (*raster.Raster, error) { return f.frame, nil }
