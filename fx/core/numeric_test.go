package core

import (
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		min      float64
		max      float64
		expected float64
	}{
		{name: "inside", value: 0.5, min: 0, max: 1, expected: 0.5},
		{name: "below", value: -1, min: 0, max: 1, expected: 0},
		{name: "above", value: 2, min: 0, max: 1, expected: 1},
		{name: "swapped", value: 2, min: 1, max: 0, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clamp(tt.value, tt.min, tt.max)
			if got != tt.expected {
				t.Fatalf("Clamp() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestToUint8(t *testing.T) {
	tests := []struct {
		in   float64
		want uint8
	}{
		{in: -3, want: 0},
		{in: 0.49, want: 0},
		{in: 0.5, want: 1},
		{in: 127.5, want: 128},
		{in: 254.6, want: 255},
		{in: 300, want: 255},
		{in: math.NaN(), want: 0},
	}

	for _, tt := range tests {
		if got := ToUint8(tt.in); got != tt.want {
			t.Errorf("ToUint8(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestRoundTime(t *testing.T) {
	if got := RoundTime(2.5); got != 3 {
		t.Fatalf("RoundTime(2.5) = %d, want 3", got)
	}
	if got := RoundTime(2.49); got != 2 {
		t.Fatalf("RoundTime(2.49) = %d, want 2", got)
	}
}

func TestEnsureLenReuse(t *testing.T) {
	buf := make([]float64, 4, 8)

	out := EnsureLen(buf, 6)
	if len(out) != 6 {
		t.Fatalf("len = %d, want 6", len(out))
	}

	if cap(out) != cap(buf) {
		t.Fatalf("cap = %d, want %d", cap(out), cap(buf))
	}
}
