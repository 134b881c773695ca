package props

import (
	"errors"
	"log/slog"

	"github.com/san-kum/molsim/internal/potential"
	"github.com/san-kum/molsim/internal/vec"
)

// Summary is one averaged record.
type Summary struct {
	Step         int       `json:"step"`
	Time         float64   `json:"time"`
	VSum         []float64 `json:"v_sum"`
	KinEnergy    float64   `json:"kin_energy"`
	KinEnergyStd float64   `json:"kin_energy_std"`
	TotEnergy    float64   `json:"tot_energy"`
	TotEnergyStd float64   `json:"tot_energy_std"`
	Pressure     float64   `json:"pressure"`
	PressureStd  float64   `json:"pressure_std"`
}

// Sink receives every Summary produced by Thermo.
type Sink interface {
	Record(s Summary) error
}

// Thermo computes momentum, kinetic and total energy per particle and the
// virial pressure.
type Thermo[V vec.Vector] struct {
	volume float64
	logger *slog.Logger
	sinks  []Sink

	step    int
	timeNow float64
	samples int

	vSum      V
	kinEnergy Prop
	totEnergy Prop
	pressure  Prop

	err error
}

// NewThermo panics unless volume is positive.
func NewThermo[V vec.Vector](volume float64, logger *slog.Logger, sinks ...Sink) *Thermo[V] {
	if !(volume > 0) {
		panic("props: volume must be positive")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Thermo[V]{volume: volume, logger: logger, sinks: sinks}
}

func (th *Thermo[V]) AddSink(s Sink) { th.sinks = append(th.sinks, s) }

func (th *Thermo[V]) Tick(step int, timeNow float64) {
	th.step = step
	th.timeNow = timeNow
}

func (th *Thermo[V]) Reset() {
	th.samples = 0
	th.kinEnergy.Zero()
	th.totEnergy.Zero()
	th.pressure.Zero()
}

func (th *Thermo[V]) EvalProps(u potential.Potential[V], pos, vel []V) {
	n := len(vel)
	if n == 0 {
		panic("props: no particles")
	}

	var vSum V
	vvSum := 0.0
	for _, v := range vel {
		vSum = vec.Add(vSum, v)
		vvSum += vec.SquareLength(v)
	}

	nf := float64(n)
	density := nf / th.volume
	th.vSum = vSum
	th.kinEnergy.Val = 0.5 * vvSum / nf
	th.totEnergy.Val = th.kinEnergy.Val + u.USum()/nf
	th.pressure.Val = density * (vvSum + u.VirialSum()) / (nf * float64(vec.Dim[V]()))
}

func (th *Thermo[V]) AccumProps() {
	th.kinEnergy.Accum()
	th.totEnergy.Accum()
	th.pressure.Accum()
	th.samples++
}

func (th *Thermo[V]) AvgProps() {
	th.kinEnergy.Avg(th.samples)
	th.totEnergy.Avg(th.samples)
	th.pressure.Avg(th.samples)
}

// Summarize logs the averaged window and forwards it to the sinks. The
// first sink error is kept and reported by Err.
func (th *Thermo[V]) Summarize() {
	s := th.Last()

	th.logger.Info("props",
		"step", s.Step,
		"time", s.Time,
		"v_sum", vec.Length(th.vSum),
		"kin_energy", s.KinEnergy,
		"tot_energy", s.TotEnergy,
		"tot_energy_std", s.TotEnergyStd,
		"pressure", s.Pressure,
	)

	for _, sink := range th.sinks {
		if err := sink.Record(s); err != nil {
			th.logger.Warn("props sink failed", "error", err)
			th.err = errors.Join(th.err, err)
		}
	}
}

// Last returns the current averaged values.
func (th *Thermo[V]) Last() Summary {
	return Summary{
		Step:         th.step,
		Time:         th.timeNow,
		VSum:         vec.Components(th.vSum),
		KinEnergy:    th.kinEnergy.Mean(),
		KinEnergyStd: th.kinEnergy.Std(),
		TotEnergy:    th.totEnergy.Mean(),
		TotEnergyStd: th.totEnergy.Std(),
		Pressure:     th.pressure.Mean(),
		PressureStd:  th.pressure.Std(),
	}
}

func (th *Thermo[V]) Err() error { return th.err }
