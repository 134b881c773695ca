package sim_test

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/molsim/internal/checkpoint"
	"github.com/san-kum/molsim/internal/lattice"
	"github.com/san-kum/molsim/internal/potential"
	"github.com/san-kum/molsim/internal/props"
	"github.com/san-kum/molsim/internal/sim"
	"github.com/san-kum/molsim/internal/space"
	"github.com/san-kum/molsim/internal/state"
	"github.com/san-kum/molsim/internal/vec"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

// twoState checks the mirror symmetry of a two-particle system on every
// sync.
type twoState struct {
	*state.State[vec.Vec2]
	times []float64
}

func newTwoState() *twoState {
	pos, vel := lattice.Pair[vec.Vec2](1, 1)
	return &twoState{State: state.New(pos, vel, make([]vec.Vec2, 2))}
}

func (s *twoState) Sync(timeNow float64) error {
	pos, vel, acc := s.Pos().Snapshot(), s.Vel().Snapshot(), s.Acc().Snapshot()
	if pos[0] != vec.Neg(pos[1]) || vel[0] != vec.Neg(vel[1]) || acc[0] != vec.Neg(acc[1]) {
		return fmt.Errorf("symmetry broken at t=%v: pos=%v vel=%v acc=%v", timeNow, pos, vel, acc)
	}
	s.times = append(s.times, timeNow)
	return nil
}

// callLog records the order of Props calls.
type callLog struct {
	calls []string
}

func (c *callLog) Reset() { c.calls = append(c.calls, "reset") }

func (c *callLog) EvalProps(potential.Potential[vec.Vec2], []vec.Vec2, []vec.Vec2) {
	c.calls = append(c.calls, "eval")
}

func (c *callLog) AccumProps() { c.calls = append(c.calls, "accum") }
func (c *callLog) AvgProps()   { c.calls = append(c.calls, "avg") }
func (c *callLog) Summarize()  { c.calls = append(c.calls, "summarize") }

type summaries struct {
	got []props.Summary
}

func (s *summaries) Record(sum props.Summary) error {
	s.got = append(s.got, sum)
	return nil
}

var _ = Describe("Job", func() {
	Context("with a single particle at rest", func() {
		It("advances time without moving the particle", func() {
			st := state.FromPositions([]vec.Vec3{{0.25, -1, 3}})
			job := sim.Setup[vec.Vec3]{
				DeltaT:    0.01,
				Potential: potential.NewLennardJones[vec.Vec3](2.5),
				State:     st,
				Logger:    quiet,
			}.Job()

			for _, k := range []int{1, 7, 42} {
				job.Run(k - job.StepCount())
				Expect(job.TimeNow()).To(Equal(float64(k) * 0.01))
				Expect(job.Position(0)).To(Equal(vec.Vec3{0.25, -1, 3}))
			}
		})

		It("reports the steps left before the limit", func() {
			job := sim.Setup[vec.Vec3]{
				StepLimit: 100,
				StepAvg:   10,
				State:     state.FromPositions([]vec.Vec3{{0, 0, 0}}),
				Logger:    quiet,
			}.Job()

			left, err := job.Run(30)
			Expect(err).NotTo(HaveOccurred())
			Expect(left).To(Equal(70))

			Expect(job.RunToLimit()).To(Succeed())
			Expect(job.StepCount()).To(Equal(100))
			Expect(job.TimeNow()).To(BeNumerically("~", 0.5, 1e-12))

			left, err = job.Run(5)
			Expect(err).NotTo(HaveOccurred())
			Expect(left).To(Equal(-5))
		})
	})

	Context("with two mirrored Lennard-Jones particles", func() {
		It("keeps positions, velocities and accelerations antisymmetric", func() {
			st := newTwoState()
			job := sim.Setup[vec.Vec2]{
				DeltaT:     0.01,
				Boundaries: space.NewRegion(vec.Vec2{10, 10}),
				Potential:  potential.NewLennardJones[vec.Vec2](5),
				State:      st,
				Logger:     quiet,
			}.Job()

			_, err := job.Run(100)
			Expect(err).NotTo(HaveOccurred())
			Expect(st.times).To(HaveLen(100))
			for i, tm := range st.times {
				Expect(tm).To(Equal(float64(i+1) * 0.01))
			}
			Expect(job.TimeNow()).To(BeNumerically("~", 1.0, 1e-12))
			Expect(job.VelocitySum()).To(Equal(vec.Vec2{}))
		})
	})

	Context("with a thermalised 1000-particle lattice", func() {
		var job *sim.Job[vec.Vec3]

		BeforeEach(func() {
			region, pos := lattice.CubicLattice[vec.Vec3](1000, 0.8)
			Expect(pos).To(HaveLen(1000))

			st := state.FromPositions(pos)
			vel := st.Vel().BorrowMut()
			lattice.RandomVelocities(vel.Data, 1.0, rand.New(rand.NewSource(17)))
			vel.Release()

			job = sim.Setup[vec.Vec3]{
				Boundaries: region,
				Potential:  potential.NewLennardJones[vec.Vec3](potential.DefaultRCut),
				State:      st,
				Logger:     quiet,
			}.Job()
		})

		It("starts with zero total momentum", func() {
			Expect(vec.Length(job.VelocitySum())).To(BeNumerically("<", 1e-9))
		})

		It("conserves total momentum while stepping", func() {
			_, err := job.Run(3)
			Expect(err).NotTo(HaveOccurred())
			Expect(vec.Length(job.VelocitySum())).To(BeNumerically("<", 1e-9))
		})
	})

	Describe("property cadence", func() {
		It("evaluates every step and summarises each period before resetting", func() {
			log := &callLog{}
			job := sim.Setup[vec.Vec2]{
				StepAvg: 2,
				Props:   log,
				State:   state.FromPositions([]vec.Vec2{{0, 0}}),
				Logger:  quiet,
			}.Job()

			_, err := job.Run(4)
			Expect(err).NotTo(HaveOccurred())
			Expect(log.calls).To(Equal([]string{
				"reset",
				"eval", "accum",
				"eval", "accum", "avg", "summarize", "reset",
				"eval", "accum",
				"eval", "accum", "avg", "summarize", "reset",
			}))
		})

		It("feeds averaged thermodynamic summaries to the sinks", func() {
			region, pos := lattice.CubicLattice[vec.Vec3](27, 0.5)
			st := state.FromPositions(pos)
			vel := st.Vel().BorrowMut()
			lattice.RandomVelocities(vel.Data, 1.0, rand.New(rand.NewSource(5)))
			vel.Release()

			sink := &summaries{}
			job := sim.Setup[vec.Vec3]{
				StepAvg:    5,
				Boundaries: region,
				Props:      props.NewThermo[vec.Vec3](region.Volume(), quiet, sink),
				State:      st,
				Logger:     quiet,
			}.Job()

			_, err := job.Run(20)
			Expect(err).NotTo(HaveOccurred())
			Expect(sink.got).To(HaveLen(4))
			Expect(sink.got[3].Step).To(Equal(20))
			Expect(sink.got[3].Time).To(BeNumerically("~", 20*sim.DefaultDeltaT, 1e-12))
			Expect(sink.got[0].KinEnergy).To(BeNumerically(">", 0))
		})
	})

	Describe("checkpointing", func() {
		It("resumes from the last synced snapshot", func() {
			path := filepath.Join(GinkgoT().TempDir(), "track.txt")
			fresh := func() *state.State[vec.Vec2] {
				pos, vel := lattice.Pair[vec.Vec2](1, 1)
				return state.New(pos, vel, make([]vec.Vec2, 2))
			}
			region := space.NewRegion(vec.Vec2{10, 10})

			track, start, err := checkpoint.Resume(path, fresh, quiet)
			Expect(err).NotTo(HaveOccurred())
			Expect(start).To(BeZero())

			first := sim.Setup[vec.Vec2]{
				DeltaT: 0.01, Boundaries: region, StartTime: start, State: track, Logger: quiet,
			}.Job()
			_, err = first.Run(10)
			Expect(err).NotTo(HaveOccurred())
			Expect(track.Close()).To(Succeed())

			track, start, err = checkpoint.Resume(path, fresh, quiet)
			Expect(err).NotTo(HaveOccurred())
			defer track.Close()
			Expect(start).To(BeNumerically("~", 0.1, 1e-12))
			Expect(state.Equal[vec.Vec2](track, first.State())).To(BeTrue())

			second := sim.Setup[vec.Vec2]{
				DeltaT: 0.01, Boundaries: region, StartTime: start, State: track, Logger: quiet,
			}.Job()
			_, err = second.Run(5)
			Expect(err).NotTo(HaveOccurred())
			Expect(second.TimeNow()).To(BeNumerically("~", 0.15, 1e-12))
		})

		It("surfaces sync failures as step errors", func() {
			path := filepath.Join(GinkgoT().TempDir(), "track.txt")
			track, err := checkpoint.NewTrack(path, state.FromPositions([]vec.Vec2{{0, 0}}), quiet)
			Expect(err).NotTo(HaveOccurred())
			Expect(track.Close()).To(Succeed())

			job := sim.Setup[vec.Vec2]{State: track, Logger: quiet}.Job()
			_, err = job.Run(1)

			var stepErr *sim.StepError
			Expect(errors.As(err, &stepErr)).To(BeTrue())
			Expect(stepErr.Step).To(Equal(1))
		})
	})

	Describe("guarded state", func() {
		It("panics when a step runs while an array is borrowed", func() {
			st := state.FromPositions([]vec.Vec2{{0, 0}})
			job := sim.Setup[vec.Vec2]{State: st, Logger: quiet}.Job()

			held := st.Pos().Borrow()
			defer held.Release()
			Expect(func() { job.Run(1) }).To(Panic())
		})
	})
})
