package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/molsim/internal/checkpoint"
	"github.com/san-kum/molsim/internal/config"
	"github.com/san-kum/molsim/internal/integrators"
	"github.com/san-kum/molsim/internal/lattice"
	"github.com/san-kum/molsim/internal/report"
	"github.com/san-kum/molsim/internal/sim"
	"github.com/san-kum/molsim/internal/space"
	"github.com/san-kum/molsim/internal/state"
	"github.com/san-kum/molsim/internal/storage"
	"github.com/san-kum/molsim/internal/telemetry"
	"github.com/san-kum/molsim/internal/vec"
)

func runSimulation(cmd *cobra.Command, args []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	metrics := telemetry.New()
	if metricsAddr != "" {
		srv := &http.Server{Addr: metricsAddr, Handler: metrics.Handler()}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server", "addr", metricsAddr, "err", err)
			}
		}()
		defer srv.Close()
		logger.Info("serving metrics", "addr", metricsAddr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	r := &runner{cfg: cfg, logger: logger, metrics: metrics, store: st}
	switch cfg.Dim {
	case 1:
		return run[vec.Vec1](ctx, r)
	case 2:
		return run[vec.Vec2](ctx, r)
	default:
		return run[vec.Vec3](ctx, r)
	}
}

// resolveConfig layers defaults, preset, config file, MOLSIM_* environment
// and explicitly set flags, in that order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		model, name, ok := strings.Cut(preset, "/")
		if !ok {
			return nil, fmt.Errorf("preset must be model/name, got %q", preset)
		}
		p := config.GetPreset(model, name)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(model))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("dim") {
		cfg.Dim = dim
	}
	if flags.Changed("n-mol") {
		cfg.InitState.NMol = nMol
	}
	if flags.Changed("density") {
		cfg.InitState.Density = density
	}
	if flags.Changed("temperature") {
		cfg.InitState.Temperature = temperature
	}
	if flags.Changed("init") {
		cfg.InitState.Kind = initKind
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("step-avg") {
		cfg.StepAvg = stepAvg
	}
	if flags.Changed("r-cut") {
		cfg.RCut = rCut
	}
	if flags.Changed("potential") {
		cfg.Potential = potName
	}
	if flags.Changed("props") {
		cfg.Props = propsName
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("checkpoint") {
		cfg.Checkpoint = ckptPath
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

type runner struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *telemetry.Metrics
	store   *storage.Store
}

// initialState builds the configured starting configuration and the region
// it lives in.
func initialState[V vec.Vector](cfg *config.Config, rng *rand.Rand) (space.Region[V], *state.State[V]) {
	if cfg.InitState.Kind == config.InitPair {
		pos, vel := lattice.Pair[V](cfg.PairInit.Offset, cfg.PairInit.Speed)
		return space.Cube[V](cfg.PairInit.RegionSide), state.New(pos, vel, make([]V, len(pos)))
	}

	region, pos := lattice.CubicLattice[V](cfg.InitState.NMol, cfg.InitState.Density)
	st := state.FromPositions(pos)
	vel := st.Vel().BorrowMut()
	lattice.RandomVelocities(vel.Data, cfg.InitState.Temperature, rng)
	vel.Release()
	return region, st
}

func run[V vec.Vector](ctx context.Context, r *runner) error {
	cfg := r.cfg
	rng := rand.New(rand.NewSource(cfg.Seed))

	region, fresh := initialState[V](cfg, rng)

	var (
		molecular state.Molecular[V] = fresh
		startTime float64
		track     *checkpoint.Track[V]
	)
	if cfg.Checkpoint != "" {
		var err error
		track, startTime, err = checkpoint.Resume(cfg.Checkpoint, func() *state.State[V] { return fresh }, r.logger)
		if err != nil {
			return err
		}
		defer track.Close()
		molecular = track
	}

	reg := sim.NewRegistry[V]()
	pot, err := reg.GetPotential(cfg.Potential, cfg.PotentialParams())
	if err != nil {
		return err
	}

	rec := &storage.Recorder{}
	pr, err := reg.GetProps(cfg.Props, region.Volume(), r.logger, rec, r.metrics)
	if err != nil {
		return err
	}

	job, err := sim.Setup[V]{
		DeltaT:     cfg.Dt,
		StepLimit:  cfg.Steps,
		StepAvg:    cfg.StepAvg,
		StartTime:  startTime,
		Boundaries: region,
		Potential:  pot,
		Props:      pr,
		Integrator: integrators.NewLeapfrog[V](),
		State:      molecular,
		Observers:  []sim.Observer[V]{telemetry.Observer[V]{M: r.metrics}},
		Logger:     r.logger,
	}.Build()
	if err != nil {
		return err
	}

	if cfg.InitState.Kind == config.InitLattice && job.NMol() < cfg.InitState.NMol {
		r.logger.Warn("lattice placed fewer molecules than requested",
			"requested", cfg.InitState.NMol, "placed", job.NMol())
	}
	r.logger.Info("running simulation",
		"dim", vec.Dim[V](), "n_mol", job.NMol(), "steps", cfg.Steps, "dt", cfg.Dt,
		"start_time", startTime, "seed", cfg.Seed)
	start := time.Now()

	runErr := runUntilDone(ctx, job, cfg.StepAvg)
	elapsed := time.Since(start)

	meta := storage.RunMetadata{
		Preset:     preset,
		Seed:       cfg.Seed,
		Dim:        vec.Dim[V](),
		NMol:       job.NMol(),
		Dt:         cfg.Dt,
		Steps:      job.StepCount(),
		StartTime:  startTime,
		EndTime:    job.TimeNow(),
		Potential:  cfg.Potential,
		Props:      cfg.Props,
		Checkpoint: cfg.Checkpoint,
	}
	runID, err := r.store.Save(meta, rec.Summaries())
	if err != nil {
		return errors.Join(runErr, err)
	}

	fmt.Printf("completed %d steps in %v\n", job.StepCount(), elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("time: %.4f\n", meta.EndTime)
	fmt.Printf("velocity sum: %v\n", vec.Components(job.VelocitySum()))
	if s := rec.Summaries(); len(s) > 0 {
		fmt.Println(report.RenderSummary(s[len(s)-1]))
	}
	return runErr
}

// runUntilDone advances the job in chunks of one averaging window so that an
// interrupt stops it on a summary boundary.
func runUntilDone[V vec.Vector](ctx context.Context, job *sim.Job[V], chunk int) error {
	for job.Remaining() > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := job.Run(min(chunk, job.Remaining())); err != nil {
			return err
		}
	}
	return nil
}
