package waypoint

import (
	"fmt"
	"math"
	"sort"

	"github.com/cwbudde/algo-vfx/fx"
)

// Kind selects how a parameter is resolved across time.
type Kind int

const (
	// Numeric parameters are stored as float64 and interpolated.
	Numeric Kind = iota
	// Step parameters are opaque values held until the next waypoint.
	Step
)

func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Step:
		return "step"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Param declares one parameter.
type Param struct {
	Name    string
	Kind    Kind
	Default any
	// Validate, when set, is called with the normalized value before it is
	// stored. Numeric values arrive as float64.
	Validate func(v any) error
}

// Schema is the immutable set of declared parameters.
type Schema struct {
	params []Param
	index  map[string]int
}

// NewSchema validates and freezes a parameter declaration. Names must be
// unique and non-empty, numeric defaults must be numbers.
func NewSchema(params ...Param) (*Schema, error) {
	s := &Schema{
		params: make([]Param, 0, len(params)),
		index:  make(map[string]int, len(params)),
	}
	for _, p := range params {
		if p.Name == "" {
			return nil, fmt.Errorf("waypoint: empty parameter name: %w", fx.ErrValidation)
		}
		if _, dup := s.index[p.Name]; dup {
			return nil, fmt.Errorf("waypoint: parameter %q declared twice: %w", p.Name, fx.ErrValidation)
		}
		switch p.Kind {
		case Numeric:
			f, ok := toFloat(p.Default)
			if !ok {
				return nil, fmt.Errorf("waypoint: default of %q is not numeric (%T): %w", p.Name, p.Default, fx.ErrValidation)
			}
			p.Default = f
		case Step:
		default:
			return nil, fmt.Errorf("waypoint: parameter %q has unknown kind %v: %w", p.Name, p.Kind, fx.ErrValidation)
		}
		s.index[p.Name] = len(s.params)
		s.params = append(s.params, p)
	}
	return s, nil
}

// Extend returns a new schema with extra parameters appended.
func (s *Schema) Extend(params ...Param) (*Schema, error) {
	all := make([]Param, 0, len(s.params)+len(params))
	all = append(all, s.params...)
	all = append(all, params...)
	return NewSchema(all...)
}

// Params returns the declared parameters in declaration order.
func (s *Schema) Params() []Param {
	out := make([]Param, len(s.params))
	copy(out, s.params)
	return out
}

// Names returns the parameter names in declaration order.
func (s *Schema) Names() []string {
	out := make([]string, len(s.params))
	for i, p := range s.params {
		out[i] = p.Name
	}
	return out
}

// Lookup returns the declaration for name.
func (s *Schema) Lookup(name string) (Param, bool) {
	i, ok := s.index[name]
	if !ok {
		return Param{}, false
	}
	return s.params[i], true
}

// Defaults returns a snapshot holding every default value.
func (s *Schema) Defaults() Snapshot {
	out := make(Snapshot, len(s.params))
	for _, p := range s.params {
		out[p.Name] = p.Default
	}
	return out
}

// Normalize checks v against the declaration of name and returns the value
// as it will be stored.
func (s *Schema) Normalize(name string, v any) (any, error) {
	p, ok := s.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("waypoint: unknown parameter %q: %w", name, fx.ErrValidation)
	}
	if p.Kind == Numeric {
		f, ok := toFloat(v)
		if !ok {
			return nil, fmt.Errorf("waypoint: %q needs a number, got %T: %w", name, v, fx.ErrValidation)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("waypoint: %q must be finite, got %v: %w", name, f, fx.ErrValidation)
		}
		v = f
	}
	if p.Validate != nil {
		if err := p.Validate(v); err != nil {
			return nil, fmt.Errorf("waypoint: %q: %w: %w", name, fx.ErrValidation, err)
		}
	}
	return v, nil
}

// normalizeAll validates every key before returning anything.
func (s *Schema) normalizeAll(values map[string]any) (Snapshot, error) {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(Snapshot, len(values))
	for _, k := range keys {
		v, err := s.Normalize(k, values[k])
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}

// toFloat accepts any Go integer or float. Bools are not numbers.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

// Snapshot maps every declared parameter to its value at one waypoint.
type Snapshot map[string]any

// Clone returns a shallow copy.
func (s Snapshot) Clone() Snapshot {
	out := make(Snapshot, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}
