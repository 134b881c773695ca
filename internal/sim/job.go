package sim

import (
	"log/slog"

	"github.com/san-kum/molsim/internal/integrators"
	"github.com/san-kum/molsim/internal/potential"
	"github.com/san-kum/molsim/internal/props"
	"github.com/san-kum/molsim/internal/space"
	"github.com/san-kum/molsim/internal/state"
	"github.com/san-kum/molsim/internal/vec"
)

// Observer is notified after every completed step.
type Observer[V vec.Vector] interface {
	OnStep(step int, timeNow float64, u potential.Potential[V])
}

// Job owns one particle state and advances it step by step.
type Job[V vec.Vector] struct {
	deltaT    float64
	stepLimit int
	stepAvg   int
	stepCount int
	startTime float64
	timeNow   float64

	boundaries space.Boundaries[V]
	potential  potential.Potential[V]
	props      props.Props[V]
	integrator integrators.Integrator[V]
	state      state.Molecular[V]
	observers  []Observer[V]
	logger     *slog.Logger
}

// Run performs exactly steps steps and returns the number of steps left
// before the step limit, negative once the limit has been overrun.
func (j *Job[V]) Run(steps int) (int, error) {
	n := state.NMol(j.state)
	j.logger.Debug("run", "steps", steps, "n_mol", n, "step_count", j.stepCount, "time", j.timeNow)

	if j.stepCount == 0 {
		j.props.Reset()
	}
	for i := 0; i < steps; i++ {
		if err := j.singleStep(); err != nil {
			return j.Remaining(), err
		}
	}
	return j.Remaining(), nil
}

// RunToLimit runs the steps remaining before the step limit.
func (j *Job[V]) RunToLimit() error {
	if r := j.Remaining(); r > 0 {
		_, err := j.Run(r)
		return err
	}
	return nil
}

func (j *Job[V]) singleStep() error {
	j.integrator.Step(j.deltaT, j.state, j.boundaries, j.potential)
	j.stepCount++
	j.timeNow = j.startTime + float64(j.stepCount)*j.deltaT

	j.evalProps()
	for _, obs := range j.observers {
		obs.OnStep(j.stepCount, j.timeNow, j.potential)
	}

	if err := j.state.Sync(j.timeNow); err != nil {
		return &StepError{Step: j.stepCount, Time: j.timeNow, Err: err}
	}
	return nil
}

func (j *Job[V]) evalProps() {
	if c, ok := j.props.(props.Clock); ok {
		c.Tick(j.stepCount, j.timeNow)
	}

	pos := j.state.Pos().Borrow()
	vel := j.state.Vel().Borrow()
	j.props.EvalProps(j.potential, pos.Data, vel.Data)
	vel.Release()
	pos.Release()

	j.props.AccumProps()
	if j.stepCount%j.stepAvg == 0 {
		j.props.AvgProps()
		j.props.Summarize()
		j.props.Reset()
	}
}

func (j *Job[V]) TimeNow() float64 { return j.timeNow }
func (j *Job[V]) DeltaT() float64  { return j.deltaT }
func (j *Job[V]) StepCount() int   { return j.stepCount }
func (j *Job[V]) StepLimit() int   { return j.stepLimit }
func (j *Job[V]) Remaining() int   { return j.stepLimit - j.stepCount }
func (j *Job[V]) NMol() int        { return state.NMol(j.state) }

func (j *Job[V]) State() state.Molecular[V]      { return j.state }
func (j *Job[V]) Boundaries() space.Boundaries[V] { return j.boundaries }
func (j *Job[V]) Potential() potential.Potential[V] {
	return j.potential
}

// VelocitySum is the total momentum of the unit-mass particles.
func (j *Job[V]) VelocitySum() V {
	vel := j.state.Vel().Borrow()
	defer vel.Release()
	return vec.Sum(vel.Data)
}

func (j *Job[V]) Position(i int) V     { return j.at(j.state.Pos(), i) }
func (j *Job[V]) Velocity(i int) V     { return j.at(j.state.Vel(), i) }
func (j *Job[V]) Acceleration(i int) V { return j.at(j.state.Acc(), i) }

func (j *Job[V]) at(c *state.Cell[V], i int) V {
	r := c.Borrow()
	defer r.Release()
	return r.Data[i]
}
