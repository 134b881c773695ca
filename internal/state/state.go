package state

import (
	"fmt"

	"github.com/san-kum/molsim/internal/vec"
)

// Molecular is the particle state seen by the driver. Sync is called once
// after every completed step.
type Molecular[V vec.Vector] interface {
	Pos() *Cell[V]
	Vel() *Cell[V]
	Acc() *Cell[V]
	Sync(timeNow float64) error
}

// State is the in-memory arena. Index i is particle i for the whole run.
type State[V vec.Vector] struct {
	pos *Cell[V]
	vel *Cell[V]
	acc *Cell[V]
}

func New[V vec.Vector](pos, vel, acc []V) *State[V] {
	return &State[V]{
		pos: NewCell("positions", pos),
		vel: NewCell("velocities", vel),
		acc: NewCell("accelerations", acc),
	}
}

// FromPositions starts every particle at rest with zero acceleration.
func FromPositions[V vec.Vector](pos []V) *State[V] {
	return New(pos, make([]V, len(pos)), make([]V, len(pos)))
}

func (s *State[V]) Pos() *Cell[V] { return s.pos }
func (s *State[V]) Vel() *Cell[V] { return s.vel }
func (s *State[V]) Acc() *Cell[V] { return s.acc }

func (s *State[V]) Sync(float64) error { return nil }

// NMol returns the particle count, or panics when the arrays disagree.
func NMol[V vec.Vector](m Molecular[V]) int {
	n := m.Pos().Len()
	if m.Vel().Len() != n || m.Acc().Len() != n {
		panic(fmt.Sprintf("state: length mismatch pos=%d vel=%d acc=%d",
			n, m.Vel().Len(), m.Acc().Len()))
	}
	return n
}

// Equal compares the three arrays component for component.
func Equal[V vec.Vector](a, b Molecular[V]) bool {
	return equalSlices(a.Pos().Snapshot(), b.Pos().Snapshot()) &&
		equalSlices(a.Vel().Snapshot(), b.Vel().Snapshot()) &&
		equalSlices(a.Acc().Snapshot(), b.Acc().Snapshot())
}

func equalSlices[V vec.Vector](a, b []V) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
