package potential

import (
	"fmt"

	"github.com/san-kum/molsim/internal/space"
	"github.com/san-kum/molsim/internal/vec"
)

type Potential[V vec.Vector] interface {
	ComputeForces(pos, acc []V, b space.Boundaries[V])
	USum() float64
	VirialSum() float64
}

func checkLengths[V vec.Vector](pos, acc []V) {
	if len(pos) == 0 {
		panic("potential: no particles")
	}
	if len(pos) != len(acc) {
		panic(fmt.Sprintf("potential: %d positions but %d accelerations", len(pos), len(acc)))
	}
}

func zero[V vec.Vector](acc []V) {
	var z V
	for i := range acc {
		acc[i] = z
	}
}

// Free applies no forces.
type Free[V vec.Vector] struct{}

func NewFree[V vec.Vector]() *Free[V] {
	return &Free[V]{}
}

func (f *Free[V]) ComputeForces(pos, acc []V, b space.Boundaries[V]) {
	checkLengths(pos, acc)
	zero(acc)
}

func (f *Free[V]) USum() float64      { return 0 }
func (f *Free[V]) VirialSum() float64 { return 0 }
