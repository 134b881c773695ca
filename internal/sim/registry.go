package sim

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/san-kum/molsim/internal/potential"
	"github.com/san-kum/molsim/internal/props"
	"github.com/san-kum/molsim/internal/vec"
)

// Registry resolves potentials and property accumulators by name.
type Registry[V vec.Vector] struct {
	potentials map[string]func(map[string]float64) potential.Potential[V]
	props      map[string]func(volume float64, logger *slog.Logger, sinks []props.Sink) props.Props[V]
}

func NewRegistry[V vec.Vector]() *Registry[V] {
	r := &Registry[V]{
		potentials: make(map[string]func(map[string]float64) potential.Potential[V]),
		props:      make(map[string]func(float64, *slog.Logger, []props.Sink) props.Props[V]),
	}

	r.potentials["lj"] = func(params map[string]float64) potential.Potential[V] {
		rCut := params["r_cut"]
		if rCut == 0 {
			rCut = potential.DefaultRCut
		}
		return potential.NewLennardJones[V](rCut)
	}
	r.potentials["free"] = func(map[string]float64) potential.Potential[V] {
		return potential.NewFree[V]()
	}

	r.props["none"] = func(float64, *slog.Logger, []props.Sink) props.Props[V] {
		return props.Trivial[V]{}
	}
	r.props["thermo"] = func(volume float64, logger *slog.Logger, sinks []props.Sink) props.Props[V] {
		return props.NewThermo[V](volume, logger, sinks...)
	}

	return r
}

func (r *Registry[V]) GetPotential(name string, params map[string]float64) (potential.Potential[V], error) {
	fn, ok := r.potentials[name]
	if !ok {
		return nil, fmt.Errorf("unknown potential: %s", name)
	}
	return fn(params), nil
}

func (r *Registry[V]) GetProps(name string, volume float64, logger *slog.Logger, sinks ...props.Sink) (props.Props[V], error) {
	fn, ok := r.props[name]
	if !ok {
		return nil, fmt.Errorf("unknown props: %s", name)
	}
	return fn(volume, logger, sinks), nil
}

func (r *Registry[V]) ListPotentials() []string {
	names := make([]string, 0, len(r.potentials))
	for name := range r.potentials {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry[V]) ListProps() []string {
	names := make([]string, 0, len(r.props))
	for name := range r.props {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
