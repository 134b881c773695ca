// Package telemetry exports simulation progress as Prometheus metrics.
package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/san-kum/molsim/internal/potential"
	"github.com/san-kum/molsim/internal/props"
	"github.com/san-kum/molsim/internal/vec"
)

const namespace = "molsim"

type Metrics struct {
	registry *prometheus.Registry

	Steps     prometheus.Counter
	SimTime   prometheus.Gauge
	USum      prometheus.Gauge
	VirialSum prometheus.Gauge

	Summaries prometheus.Counter
	KinEnergy prometheus.Gauge
	TotEnergy prometheus.Gauge
	Pressure  prometheus.Gauge
	Momentum  *prometheus.GaugeVec
}

// New registers all metrics on a fresh registry so that several runs in one
// process do not collide.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		Steps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "steps_total",
			Help: "Integration steps completed.",
		}),
		SimTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "sim_time",
			Help: "Current simulation time.",
		}),
		USum: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "potential_energy_sum",
			Help: "Total potential energy from the last force evaluation.",
		}),
		VirialSum: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "virial_sum",
			Help: "Virial sum from the last force evaluation.",
		}),
		Summaries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "props", Name: "summaries_total",
			Help: "Averaged property summaries produced.",
		}),
		KinEnergy: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "props", Name: "kin_energy",
			Help: "Mean kinetic energy per particle over the last window.",
		}),
		TotEnergy: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "props", Name: "tot_energy",
			Help: "Mean total energy per particle over the last window.",
		}),
		Pressure: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "props", Name: "pressure",
			Help: "Mean pressure over the last window.",
		}),
		Momentum: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "props", Name: "momentum",
			Help: "Velocity sum per axis at the last summary.",
		}, []string{"axis"}),
	}

	reg.MustRegister(m.Steps, m.SimTime, m.USum, m.VirialSum,
		m.Summaries, m.KinEnergy, m.TotEnergy, m.Pressure, m.Momentum)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveStep(timeNow, uSum, virSum float64) {
	m.Steps.Inc()
	m.SimTime.Set(timeNow)
	m.USum.Set(uSum)
	m.VirialSum.Set(virSum)
}

// Record satisfies props.Sink.
func (m *Metrics) Record(s props.Summary) error {
	m.Summaries.Inc()
	m.KinEnergy.Set(s.KinEnergy)
	m.TotEnergy.Set(s.TotEnergy)
	m.Pressure.Set(s.Pressure)
	for i, v := range s.VSum {
		m.Momentum.WithLabelValues(axisName(i)).Set(v)
	}
	return nil
}

func axisName(i int) string {
	if i < 3 {
		return string("xyz"[i])
	}
	return "other"
}

// Observer adapts Metrics to a step observer for one vector type.
type Observer[V vec.Vector] struct {
	M *Metrics
}

func (o Observer[V]) OnStep(_ int, timeNow float64, u potential.Potential[V]) {
	o.M.ObserveStep(timeNow, u.USum(), u.VirialSum())
}
