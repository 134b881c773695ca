package telemetry

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/molsim/internal/potential"
	"github.com/san-kum/molsim/internal/props"
	"github.com/san-kum/molsim/internal/space"
	"github.com/san-kum/molsim/internal/vec"
)

func TestObserverTracksSteps(t *testing.T) {
	m := New()
	obs := Observer[vec.Vec2]{M: m}

	lj := potential.NewLennardJones[vec.Vec2](potential.DefaultRCut)
	pos := []vec.Vec2{{-0.6, 0}, {0.6, 0}}
	acc := make([]vec.Vec2, 2)
	lj.ComputeForces(pos, acc, space.Cube[vec.Vec2](10))

	obs.OnStep(1, 0.01, lj)
	obs.OnStep(2, 0.02, lj)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Steps))
	assert.Equal(t, 0.02, testutil.ToFloat64(m.SimTime))
	assert.Equal(t, lj.USum(), testutil.ToFloat64(m.USum))
	assert.Equal(t, lj.VirialSum(), testutil.ToFloat64(m.VirialSum))
}

func TestRecordSummary(t *testing.T) {
	m := New()

	var sink props.Sink = m
	require.NoError(t, sink.Record(props.Summary{
		Step: 10, KinEnergy: 1.5, TotEnergy: -2, Pressure: 0.7, VSum: []float64{0.1, -0.2, 0},
	}))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Summaries))
	assert.Equal(t, 1.5, testutil.ToFloat64(m.KinEnergy))
	assert.Equal(t, -2.0, testutil.ToFloat64(m.TotEnergy))
	assert.Equal(t, 0.7, testutil.ToFloat64(m.Pressure))
	assert.Equal(t, -0.2, testutil.ToFloat64(m.Momentum.WithLabelValues("y")))
}

func TestSeparateRegistries(t *testing.T) {
	a, b := New(), New()
	a.ObserveStep(1, 0, 0)

	assert.Equal(t, 1.0, testutil.ToFloat64(a.Steps))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.Steps))
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveStep(0.5, -3, 4)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "molsim_steps_total 1"), string(body))
	assert.True(t, strings.Contains(string(body), "molsim_sim_time 0.5"), string(body))
}
