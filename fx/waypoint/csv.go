package waypoint

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-vfx/fx"
	"github.com/cwbudde/algo-vfx/fx/core"
)

// LoadCSV reads a waypoint table and applies it to track. The header must
// contain a "t" column; every other column must name a declared parameter.
// Times are rounded to the nearest frame. An empty cell leaves the parameter
// at the value seeded from the preceding waypoint. Step cells parse
// "true"/"false" as bool; anything else is kept as a string.
//
// The whole table is validated before the first waypoint is written.
func LoadCSV(r io.Reader, track *Track) error {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return fmt.Errorf("waypoint: csv: empty table: %w", fx.ErrValidation)
	}
	if err != nil {
		return fmt.Errorf("waypoint: csv header: %w: %w", fx.ErrValidation, err)
	}

	tCol := -1
	for i, name := range header {
		name = strings.TrimSpace(name)
		header[i] = name
		if name == "t" {
			if tCol >= 0 {
				return fmt.Errorf("waypoint: csv: column t repeated: %w", fx.ErrValidation)
			}
			tCol = i
			continue
		}
		if _, ok := track.schema.Lookup(name); !ok {
			return fmt.Errorf("waypoint: csv: unknown column %q: %w", name, fx.ErrValidation)
		}
	}
	if tCol < 0 {
		return fmt.Errorf("waypoint: csv: missing t column: %w", fx.ErrValidation)
	}

	type row struct {
		t      int
		values Snapshot
	}
	var rows []row
	seen := make(map[int]int)
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("waypoint: csv line %d: %w: %w", line, fx.ErrValidation, err)
		}

		tf, err := strconv.ParseFloat(strings.TrimSpace(rec[tCol]), 64)
		if err != nil || !core.IsFinite(tf) {
			return fmt.Errorf("waypoint: csv line %d: bad time %q: %w", line, rec[tCol], fx.ErrValidation)
		}
		t, err := track.checkTime(core.RoundTime(tf))
		if err != nil {
			return fmt.Errorf("waypoint: csv line %d: %w", line, err)
		}
		if prev, dup := seen[t]; dup {
			return fmt.Errorf("waypoint: csv line %d: time %d already set on line %d: %w", line, t, prev, fx.ErrValidation)
		}
		seen[t] = line

		raw := make(map[string]any, len(header)-1)
		for i, cell := range rec {
			if i == tCol {
				continue
			}
			v, skip, err := parseCell(track.schema, header[i], cell)
			if err != nil {
				return fmt.Errorf("waypoint: csv line %d: %w", line, err)
			}
			if !skip {
				raw[header[i]] = v
			}
		}
		values, err := track.schema.normalizeAll(raw)
		if err != nil {
			return fmt.Errorf("waypoint: csv line %d: %w", line, err)
		}
		rows = append(rows, row{t: t, values: values})
	}

	// Earlier rows seed later ones.
	sort.Slice(rows, func(i, j int) bool { return rows[i].t < rows[j].t })
	for _, r := range rows {
		track.apply(r.t, r.values)
	}
	if len(rows) > 0 {
		track.changed()
	}
	return nil
}

func parseCell(schema *Schema, name, cell string) (v any, skip bool, err error) {
	p, _ := schema.Lookup(name)
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return nil, true, nil
	}
	if p.Kind == Numeric {
		f, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, false, fmt.Errorf("%q: cannot parse %q as number: %w", name, cell, fx.ErrValidation)
		}
		return f, false, nil
	}
	switch strings.ToLower(cell) {
	case "true":
		return true, false, nil
	case "false":
		return false, false, nil
	default:
		return cell, false, nil
	}
}
