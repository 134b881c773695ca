// Package lattice builds initial configurations: particles on a cubic
// lattice with thermalised velocities and zero total momentum.
package lattice

import (
	"math"
	"math/rand"

	"github.com/san-kum/molsim/internal/space"
	"github.com/san-kum/molsim/internal/vec"
)

// CubicLattice places particles at the cell centres of a simple cubic
// lattice inside a cube of volume nMol/density, centred on the origin.
//
// With dim = floor(nMol^(1/D)) cells per axis only dim^D sites are filled,
// which is fewer than nMol unless nMol is a perfect D-th power.
func CubicLattice[V vec.Vector](nMol int, density float64) (space.Region[V], []V) {
	if nMol < 1 {
		panic("lattice: nMol must be positive")
	}
	if !(density > 0) {
		panic("lattice: density must be positive")
	}

	d := vec.Dim[V]()
	side := math.Pow(float64(nMol)/density, 1/float64(d))
	region := space.Cube[V](side)

	dim := CellsPerAxis(nMol, d)
	gap := side / float64(dim)
	shift := vec.Splat[V](-0.5 * side)

	pos := make([]V, 0, pow(dim, d))
	idx := make([]int, d)
	for {
		var p V
		for k := 0; k < d; k++ {
			p[k] = (0.5 + float64(idx[k])) * gap
		}
		pos = append(pos, vec.Add(p, shift))

		// Row-major: the last axis varies fastest.
		k := d - 1
		for ; k >= 0; k-- {
			idx[k]++
			if idx[k] < dim {
				break
			}
			idx[k] = 0
		}
		if k < 0 {
			break
		}
	}

	return region, pos
}

// CellsPerAxis is the largest integer c with c^d <= nMol.
func CellsPerAxis(nMol, d int) int {
	c := int(math.Floor(math.Pow(float64(nMol), 1/float64(d))))
	for c > 1 && pow(c, d) > nMol {
		c--
	}
	for pow(c+1, d) <= nMol {
		c++
	}
	return c
}

func pow(base, exp int) int {
	r := 1
	for i := 0; i < exp; i++ {
		r *= base
	}
	return r
}

// RandomVelocities assigns every particle a speed of
// sqrt(temperature * D * (1 - 1/n)) in a random direction, then removes the
// mean so that the total momentum is zero.
func RandomVelocities[V vec.Vector](vel []V, temperature float64, rng *rand.Rand) {
	n := len(vel)
	if n == 0 {
		panic("lattice: no particles")
	}

	d := float64(vec.Dim[V]())
	velMag := math.Sqrt(temperature * d * (1 - 1/float64(n)))

	var sum V
	for i := range vel {
		vel[i] = vec.Scale(velMag, RandomDirection[V](rng))
		sum = vec.Add(sum, vel[i])
	}

	drift := vec.Scale(-1/float64(n), sum)
	for i := range vel {
		vel[i] = vec.Add(vel[i], drift)
	}
}

// RandomDirection returns an isotropically distributed unit vector.
func RandomDirection[V vec.Vector](rng *rand.Rand) V {
	for {
		var v V
		for k := 0; k < len(v); k++ {
			v[k] = rng.NormFloat64()
		}
		if l := vec.Length(v); l > 1e-12 {
			return vec.Scale(1/l, v)
		}
	}
}

// Pair returns two particles at -offset and +offset on every axis moving
// towards each other with the given speed per axis.
func Pair[V vec.Vector](offset, speed float64) (pos, vel []V) {
	p := vec.Splat[V](offset)
	v := vec.Splat[V](speed)
	return []V{vec.Neg(p), p}, []V{v, vec.Neg(v)}
}
