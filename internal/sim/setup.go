package sim

import (
	"fmt"
	"log/slog"

	"github.com/san-kum/molsim/internal/integrators"
	"github.com/san-kum/molsim/internal/potential"
	"github.com/san-kum/molsim/internal/props"
	"github.com/san-kum/molsim/internal/space"
	"github.com/san-kum/molsim/internal/state"
	"github.com/san-kum/molsim/internal/vec"
)

const (
	DefaultDeltaT     = 5e-3
	DefaultStepLimit  = 100
	DefaultStepAvg    = 10
	DefaultRegionSide = 50.0
)

// Setup assembles a Job. Zero fields take their defaults; State is
// required.
type Setup[V vec.Vector] struct {
	DeltaT     float64
	StepLimit  int
	StepAvg    int
	StartTime  float64
	Boundaries space.Boundaries[V]
	Potential  potential.Potential[V]
	Props      props.Props[V]
	Integrator integrators.Integrator[V]
	State      state.Molecular[V]
	Observers  []Observer[V]
	Logger     *slog.Logger
}

func (s Setup[V]) withDefaults() Setup[V] {
	if s.DeltaT == 0 {
		s.DeltaT = DefaultDeltaT
	}
	if s.StepLimit == 0 {
		s.StepLimit = DefaultStepLimit
	}
	if s.StepAvg == 0 {
		s.StepAvg = DefaultStepAvg
	}
	if s.Boundaries == nil {
		s.Boundaries = space.Cube[V](DefaultRegionSide)
	}
	if s.Potential == nil {
		s.Potential = potential.NewLennardJones[V](potential.DefaultRCut)
	}
	if s.Props == nil {
		s.Props = props.Trivial[V]{}
	}
	if s.Integrator == nil {
		s.Integrator = integrators.NewLeapfrog[V]()
	}
	if s.Logger == nil {
		s.Logger = slog.Default()
	}
	return s
}

// Validate checks the setup after defaults are applied.
func (s Setup[V]) Validate() error {
	s = s.withDefaults()
	if !(s.DeltaT > 0) {
		return fmt.Errorf("%w: delta_t must be positive, got %v", ErrInvalidSetup, s.DeltaT)
	}
	if s.StepLimit < 0 {
		return fmt.Errorf("%w: step limit must not be negative, got %d", ErrInvalidSetup, s.StepLimit)
	}
	if s.StepAvg < 1 {
		return fmt.Errorf("%w: averaging period must be positive, got %d", ErrInvalidSetup, s.StepAvg)
	}
	if s.State == nil {
		return ErrNoState
	}
	n := s.State.Pos().Len()
	if n == 0 {
		return ErrNoState
	}
	if s.State.Vel().Len() != n || s.State.Acc().Len() != n {
		return fmt.Errorf("%w: length mismatch pos=%d vel=%d acc=%d",
			ErrInvalidSetup, n, s.State.Vel().Len(), s.State.Acc().Len())
	}
	return nil
}

// Build validates the setup and returns the Job.
func (s Setup[V]) Build() (*Job[V], error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	s = s.withDefaults()
	return &Job[V]{
		deltaT:     s.DeltaT,
		stepLimit:  s.StepLimit,
		stepAvg:    s.StepAvg,
		startTime:  s.StartTime,
		timeNow:    s.StartTime,
		boundaries: s.Boundaries,
		potential:  s.Potential,
		props:      s.Props,
		integrator: s.Integrator,
		state:      s.State,
		observers:  s.Observers,
		logger:     s.Logger,
	}, nil
}

// Job is Build for setups known to be valid. It panics otherwise.
func (s Setup[V]) Job() *Job[V] {
	j, err := s.Build()
	if err != nil {
		panic(err)
	}
	return j
}
