package effects

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fogleman/ease"
	gease "github.com/tanema/gween/ease"
)

var curves = map[string]func(float64) float64{
	"linear":       ease.Linear,
	"in_quad":      ease.InQuad,
	"out_quad":     ease.OutQuad,
	"in_out_quad":  ease.InOutQuad,
	"in_cubic":     ease.InCubic,
	"out_cubic":    ease.OutCubic,
	"in_out_cubic": ease.InOutCubic,
	"in_sine":      ease.InSine,
	"out_sine":     ease.OutSine,
	"in_out_sine":  ease.InOutSine,
}

// CurveNames lists the easing curves accepted by Crossfade.
func CurveNames() []string {
	out := make([]string, 0, len(curves))
	for name := range curves {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Curve returns the easing function registered under name.
func Curve(name string) (func(float64) float64, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = "linear"
	}
	f, ok := curves[key]
	if !ok {
		return nil, fmt.Errorf("effects: unknown curve %q", name)
	}
	return f, nil
}

// tweenFunc lifts a normalized easing curve to the tween signature
// (elapsed, begin, change, duration).
func tweenFunc(f func(float64) float64) gease.TweenFunc {
	return func(t, b, c, d float32) float32 {
		if d <= 0 {
			return b + c
		}
		return b + c*float32(f(float64(t/d)))
	}
}
