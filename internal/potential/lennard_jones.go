package potential

import (
	"github.com/san-kum/molsim/internal/space"
	"github.com/san-kum/molsim/internal/vec"
)

const DefaultRCut = 2.5

// LennardJones is the 12-6 potential truncated at RCut. Energies carry a
// constant +1 per interacting pair.
type LennardJones[V vec.Vector] struct {
	RCut float64

	uSum float64
	vSum float64
}

func NewLennardJones[V vec.Vector](rCut float64) *LennardJones[V] {
	return &LennardJones[V]{RCut: rCut}
}

// ComputeForces visits pairs in (j1 ascending, j2 > j1 ascending) order so
// the sums are reproducible.
func (lj *LennardJones[V]) ComputeForces(pos, acc []V, b space.Boundaries[V]) {
	checkLengths(pos, acc)
	zero(acc)

	rrCut := lj.RCut * lj.RCut
	uSum, vSum := 0.0, 0.0

	n := len(pos)
	for j1 := 0; j1 < n-1; j1++ {
		for j2 := j1 + 1; j2 < n; j2++ {
			dr := b.Wrap(vec.Sub(pos[j1], pos[j2]))
			rr := vec.SquareLength(dr)
			if rr >= rrCut {
				continue
			}

			rri := 1 / rr
			rri3 := rri * rri * rri
			fcVal := 48 * rri3 * (rri3 - 0.5) * rri
			f := vec.Scale(fcVal, dr)

			acc[j1] = vec.Add(acc[j1], f)
			acc[j2] = vec.Sub(acc[j2], f)

			uSum += 4*rri3*(rri3-1) + 1
			vSum += fcVal * rr
		}
	}

	lj.uSum = uSum
	lj.vSum = vSum
}

func (lj *LennardJones[V]) USum() float64      { return lj.uSum }
func (lj *LennardJones[V]) VirialSum() float64 { return lj.vSum }
