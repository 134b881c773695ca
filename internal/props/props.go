package props

import (
	"github.com/san-kum/molsim/internal/potential"
	"github.com/san-kum/molsim/internal/vec"
)

// Props turns per-step quantities into averaged properties. After every
// step the driver calls EvalProps then AccumProps; every averaging period
// it calls AvgProps, Summarize and Reset, in that order.
type Props[V vec.Vector] interface {
	Reset()
	EvalProps(u potential.Potential[V], pos, vel []V)
	AccumProps()
	AvgProps()
	Summarize()
}

// Clock is implemented by Props that want the step number and simulated
// time of the sample about to be evaluated.
type Clock interface {
	Tick(step int, timeNow float64)
}

// Trivial does nothing.
type Trivial[V vec.Vector] struct{}

func (Trivial[V]) Reset()                                      {}
func (Trivial[V]) EvalProps(potential.Potential[V], []V, []V) {}
func (Trivial[V]) AccumProps()                                 {}
func (Trivial[V]) AvgProps()                                   {}
func (Trivial[V]) Summarize()                                  {}
