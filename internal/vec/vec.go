// Package vec provides the fixed-dimension real vector used by every
// simulation component.
//
// Vectors are plain arrays with value semantics. The dimension is part of
// the type, so a whole run shares one D chosen at compile time:
//
//	var p vec.Vec3
//	p = vec.Add(p, vec.Scale(0.5, v))
package vec

import "math"

type Vec1 [1]float64
type Vec2 [2]float64
type Vec3 [3]float64

// Vector is the set of supported vector types.
type Vector interface {
	~[1]float64 | ~[2]float64 | ~[3]float64
}

// Dim returns the number of components of V.
func Dim[V Vector]() int {
	var v V
	return len(v)
}

// Splat returns a vector with every component set to x.
func Splat[V Vector](x float64) V {
	var v V
	for i := 0; i < len(v); i++ {
		v[i] = x
	}
	return v
}

func Add[V Vector](a, b V) V {
	for i := 0; i < len(a); i++ {
		a[i] += b[i]
	}
	return a
}

func Sub[V Vector](a, b V) V {
	for i := 0; i < len(a); i++ {
		a[i] -= b[i]
	}
	return a
}

// Scale multiplies every component of v by s.
func Scale[V Vector](s float64, v V) V {
	for i := 0; i < len(v); i++ {
		v[i] *= s
	}
	return v
}

func Neg[V Vector](v V) V {
	for i := 0; i < len(v); i++ {
		v[i] = -v[i]
	}
	return v
}

func Dot[V Vector](a, b V) float64 {
	sum := 0.0
	for i := 0; i < len(a); i++ {
		sum += a[i] * b[i]
	}
	return sum
}

func SquareLength[V Vector](v V) float64 {
	return Dot(v, v)
}

func Length[V Vector](v V) float64 {
	return math.Sqrt(SquareLength(v))
}

// Sum adds up all vectors in vs.
func Sum[V Vector](vs []V) V {
	var total V
	for _, v := range vs {
		total = Add(total, v)
	}
	return total
}

// IsValid reports whether every component is finite.
func IsValid[V Vector](v V) bool {
	for i := 0; i < len(v); i++ {
		if math.IsNaN(v[i]) || math.IsInf(v[i], 0) {
			return false
		}
	}
	return true
}

// Components returns the vector as a freshly allocated slice.
func Components[V Vector](v V) []float64 {
	out := make([]float64, len(v))
	for i := 0; i < len(v); i++ {
		out[i] = v[i]
	}
	return out
}

// FromComponents builds a vector from the leading len(V) entries of c.
// It panics if c is too short.
func FromComponents[V Vector](c []float64) V {
	var v V
	if len(c) < len(v) {
		panic("vec: not enough components")
	}
	for i := 0; i < len(v); i++ {
		v[i] = c[i]
	}
	return v
}
