package effect

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-vfx/fx/raster"
	"github.com/cwbudde/algo-vfx/fx/waypoint"
)

// Reserved parameter names present in every schema.
const (
	ParamProtectMask = "protect_mask"
	ParamAlpha       = "alpha"
)

// Schema is the immutable parameter declaration of one effect type.
type Schema struct {
	name   string
	params *waypoint.Schema
}

// NewSchema declares an effect. The reserved parameters are appended and
// may not be redeclared.
func NewSchema(name string, params ...waypoint.Param) (*Schema, error) {
	if name == "" {
		return nil, errors.New("effect: empty effect name")
	}
	base, err := waypoint.NewSchema(params...)
	if err != nil {
		return nil, fmt.Errorf("effect: %s: %w", name, err)
	}
	full, err := base.Extend(
		waypoint.Param{Name: ParamProtectMask, Kind: waypoint.Step, Default: nil, Validate: validateMask},
		waypoint.Param{Name: ParamAlpha, Kind: waypoint.Numeric, Default: 1.0, Validate: validateAlpha},
	)
	if err != nil {
		return nil, fmt.Errorf("effect: %s: %w", name, err)
	}
	return &Schema{name: name, params: full}, nil
}

// Name returns the effect type name.
func (s *Schema) Name() string { return s.name }

// Params returns the waypoint schema including the reserved parameters.
func (s *Schema) Params() *waypoint.Schema { return s.params }

func validateMask(v any) error {
	if v == nil {
		return nil
	}
	r, ok := v.(*raster.Raster)
	if !ok {
		return fmt.Errorf("protect mask must be a raster, got %T", v)
	}
	if r == nil {
		return nil
	}
	if c := r.Channels(); c != 1 && c != 4 {
		return fmt.Errorf("protect mask needs 1 or 4 channels, got %d", c)
	}
	return nil
}

func validateAlpha(v any) error {
	if f := v.(float64); f < 0 || f > 1 {
		return fmt.Errorf("alpha %v outside [0,1]", f)
	}
	return nil
}
