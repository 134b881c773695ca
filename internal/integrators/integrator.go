package integrators

import (
	"github.com/san-kum/molsim/internal/potential"
	"github.com/san-kum/molsim/internal/space"
	"github.com/san-kum/molsim/internal/state"
	"github.com/san-kum/molsim/internal/vec"
)

// Integrator advances a state by one time step.
type Integrator[V vec.Vector] interface {
	Step(dt float64, st state.Molecular[V], b space.Boundaries[V], u potential.Potential[V])
}
