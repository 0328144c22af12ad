package waypoint

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/cwbudde/algo-vfx/fx"
)

func TestLoadCSV(t *testing.T) {
	tr := testTrack(t, 100)
	table := `t,x,on,label
10.4,2.5,true,
3,1,,intro
-1,,false,end
`
	if err := LoadCSV(strings.NewReader(table), tr); err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}
	if got, want := tr.Times(), []int{0, 3, 10, 100}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Times: got %v want %v", got, want)
	}
	tests := []struct {
		t    int
		want Snapshot
	}{
		{t: 3, want: Snapshot{"x": 1.0, "y": 1.5, "on": false, "label": "intro"}},
		// Empty step cell keeps "intro" from t=3.
		{t: 10, want: Snapshot{"x": 2.5, "y": 1.5, "on": true, "label": "intro"}},
		// Empty numeric cell keeps the seeded value from t=10.
		{t: 100, want: Snapshot{"x": 2.5, "y": 1.5, "on": false, "label": "end"}},
	}
	for _, tc := range tests {
		got, err := tr.Get(tc.t)
		if err != nil {
			t.Fatalf("Get(%d): %v", tc.t, err)
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("t=%d: got %v want %v", tc.t, got, tc.want)
		}
	}
}

func TestLoadCSVEmptyStepCellHolds(t *testing.T) {
	tr := testTrack(t, 20)
	if err := tr.Set(0, map[string]any{"on": true}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := LoadCSV(strings.NewReader("t,x,on\n5,1,\n"), tr); err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}
	got, err := tr.Get(5)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got["on"] != true {
		t.Fatalf("on = %v, want true carried from t=0", got["on"])
	}

	res, err := tr.Resolve(20, 0)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	on, err := res.Bool("on", 7)
	if err != nil || !on {
		t.Fatalf("Bool(on, 7) = %v, %v; want true", on, err)
	}
}

func TestLoadCSVRejects(t *testing.T) {
	tests := []struct {
		name  string
		table string
	}{
		{name: "empty", table: ""},
		{name: "missing t", table: "x\n1\n"},
		{name: "unknown column", table: "t,z\n1,2\n"},
		{name: "duplicate rounded t", table: "t,x\n4.6,1\n5.2,2\n"},
		{name: "bad time", table: "t,x\nsoon,1\n"},
		{name: "time out of range", table: "t,x\n500,1\n"},
		{name: "bad number", table: "t,x\n1,2\n2,lots\n"},
		{name: "ragged row", table: "t,x\n1,2,3\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			tr := testTrack(t, 100)
			before := tr.Waypoints()
			err := LoadCSV(strings.NewReader(tc.table), tr)
			if !errors.Is(err, fx.ErrValidation) {
				t.Fatalf("got %v want ErrValidation", err)
			}
			if !reflect.DeepEqual(tr.Waypoints(), before) {
				t.Fatal("failed load mutated the track")
			}
		})
	}
}
