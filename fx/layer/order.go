package layer

import (
	"fmt"

	"github.com/cwbudde/algo-vfx/fx"
)

// order is a permutation between layer positions and clip indices.
// layerToClip[l] is the clip drawn at layer l (0 = bottom) and
// clipToLayer[c] is the layer of clip c.
type order struct {
	layerToClip []int
	clipToLayer []int
}

func (o *order) len() int { return len(o.layerToClip) }

// insert registers clip index len() at layer, shifting layers at and above
// it up by one.
func (o *order) insert(layer int) error {
	clip := o.len()
	o.layerToClip = append(o.layerToClip, 0)
	copy(o.layerToClip[layer+1:], o.layerToClip[layer:])
	o.layerToClip[layer] = clip
	return o.rebuild()
}

// remove drops the clip at layer and renumbers the clip indices above it
// down by one, so clip indices stay dense.
func (o *order) remove(layer int) error {
	clip := o.layerToClip[layer]
	o.layerToClip = append(o.layerToClip[:layer], o.layerToClip[layer+1:]...)
	for l, c := range o.layerToClip {
		if c > clip {
			o.layerToClip[l] = c - 1
		}
	}
	return o.rebuild()
}

// move takes the clip at layer from out of the stack and reinserts it at
// layer to.
func (o *order) move(from, to int) error {
	if from == to {
		return nil
	}
	clip := o.layerToClip[from]
	if from < to {
		copy(o.layerToClip[from:to], o.layerToClip[from+1:to+1])
	} else {
		copy(o.layerToClip[to+1:from+1], o.layerToClip[to:from])
	}
	o.layerToClip[to] = clip
	return o.rebuild()
}

// swap exchanges the clips at layers a and b.
func (o *order) swap(a, b int) error {
	o.layerToClip[a], o.layerToClip[b] = o.layerToClip[b], o.layerToClip[a]
	return o.rebuild()
}

// rebuild re-derives clipToLayer in one pass and checks that the two slices
// are mutual inverses over {0..n-1}.
func (o *order) rebuild() error {
	n := o.len()
	if cap(o.clipToLayer) < n {
		o.clipToLayer = make([]int, n)
	}
	o.clipToLayer = o.clipToLayer[:n]
	for i := range o.clipToLayer {
		o.clipToLayer[i] = -1
	}
	for layer, clip := range o.layerToClip {
		if clip < 0 || clip >= n || o.clipToLayer[clip] != -1 {
			return fmt.Errorf("layer: clip %d at layer %d breaks the permutation: %w", clip, layer, fx.ErrStateConsistency)
		}
		o.clipToLayer[clip] = layer
	}
	return o.check()
}

func (o *order) check() error {
	if len(o.clipToLayer) != len(o.layerToClip) {
		return fmt.Errorf("layer: %d layers for %d clips: %w", len(o.layerToClip), len(o.clipToLayer), fx.ErrStateConsistency)
	}
	for clip, layer := range o.clipToLayer {
		if layer < 0 || layer >= len(o.layerToClip) || o.layerToClip[layer] != clip {
			return fmt.Errorf("layer: clip %d maps to layer %d: %w", clip, layer, fx.ErrStateConsistency)
		}
	}
	return nil
}
