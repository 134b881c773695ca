package space

import (
	"fmt"

	"github.com/san-kum/molsim/internal/vec"
)

// Boundaries maps positions and separations back into the canonical cell.
type Boundaries[V vec.Vector] interface {
	Wrap(p V) V
	Size() V
}

// Region is a periodic box centred on the origin. Axis i spans
// [-size[i]/2, size[i]/2).
type Region[V vec.Vector] struct {
	size V
}

// NewRegion panics unless every extent is positive.
func NewRegion[V vec.Vector](size V) Region[V] {
	for i := 0; i < len(size); i++ {
		if !(size[i] > 0) {
			panic(fmt.Sprintf("space: region extent %d must be positive, got %v", i, size[i]))
		}
	}
	return Region[V]{size: size}
}

// Cube returns a region with the same extent on every axis.
func Cube[V vec.Vector](side float64) Region[V] {
	return NewRegion(vec.Splat[V](side))
}

func (r Region[V]) Size() V { return r.size }

// Volume is the product of the extents.
func (r Region[V]) Volume() float64 {
	v := 1.0
	for i := 0; i < len(r.size); i++ {
		v *= r.size[i]
	}
	return v
}

// Wrap re-images p by at most one box length per axis. Applied to a
// separation vector it yields the minimum image.
func (r Region[V]) Wrap(p V) V {
	for i := 0; i < len(p); i++ {
		half := 0.5 * r.size[i]
		if p[i] >= half {
			p[i] -= r.size[i]
		} else if p[i] < -half {
			p[i] += r.size[i]
		}
	}
	return p
}

// Contains reports whether p lies inside the canonical cell.
func (r Region[V]) Contains(p V) bool {
	for i := 0; i < len(p); i++ {
		half := 0.5 * r.size[i]
		if p[i] < -half || p[i] >= half {
			return false
		}
	}
	return true
}
