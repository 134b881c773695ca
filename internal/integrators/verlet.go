package integrators

import (
	"fmt"

	"github.com/san-kum/molsim/internal/potential"
	"github.com/san-kum/molsim/internal/space"
	"github.com/san-kum/molsim/internal/state"
	"github.com/san-kum/molsim/internal/vec"
)

// Leapfrog is the velocity-Verlet scheme split into half kicks:
//
//	v += dt/2 * a      (old accelerations)
//	x += dt * v
//	x  = wrap(x)
//	a  = F(x)
//	v += dt/2 * a      (new accelerations)
type Leapfrog[V vec.Vector] struct{}

func NewLeapfrog[V vec.Vector]() *Leapfrog[V] {
	return &Leapfrog[V]{}
}

func (l *Leapfrog[V]) Step(dt float64, st state.Molecular[V], b space.Boundaries[V], u potential.Potential[V]) {
	l.begin(dt, st)
	applyBoundaries(st, b)
	computeForces(st, b, u)
	l.end(dt, st)
}

func (l *Leapfrog[V]) begin(dt float64, st state.Molecular[V]) {
	pos := st.Pos().BorrowMut()
	defer pos.Release()
	vel := st.Vel().BorrowMut()
	defer vel.Release()
	acc := st.Acc().Borrow()
	defer acc.Release()

	if len(pos.Data) != len(vel.Data) {
		panic(fmt.Sprintf("integrators: %d positions but %d velocities", len(pos.Data), len(vel.Data)))
	}
	halfKick(dt, vel.Data, acc.Data)
	for i := range pos.Data {
		pos.Data[i] = vec.Add(pos.Data[i], vec.Scale(dt, vel.Data[i]))
	}
}

func (l *Leapfrog[V]) end(dt float64, st state.Molecular[V]) {
	vel := st.Vel().BorrowMut()
	defer vel.Release()
	acc := st.Acc().Borrow()
	defer acc.Release()

	halfKick(dt, vel.Data, acc.Data)
}

func halfKick[V vec.Vector](dt float64, vel, acc []V) {
	if len(vel) != len(acc) {
		panic(fmt.Sprintf("integrators: %d velocities but %d accelerations", len(vel), len(acc)))
	}
	halfDt := 0.5 * dt
	for i := range vel {
		vel[i] = vec.Add(vel[i], vec.Scale(halfDt, acc[i]))
	}
}

func applyBoundaries[V vec.Vector](st state.Molecular[V], b space.Boundaries[V]) {
	pos := st.Pos().BorrowMut()
	defer pos.Release()
	for i := range pos.Data {
		pos.Data[i] = b.Wrap(pos.Data[i])
	}
}

func computeForces[V vec.Vector](st state.Molecular[V], b space.Boundaries[V], u potential.Potential[V]) {
	pos := st.Pos().Borrow()
	defer pos.Release()
	acc := st.Acc().BorrowMut()
	defer acc.Release()
	u.ComputeForces(pos.Data, acc.Data, b)
}
