package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/molsim/internal/config"
	"github.com/san-kum/molsim/internal/props"
	"github.com/san-kum/molsim/internal/report"
	"github.com/san-kum/molsim/internal/sim"
	"github.com/san-kum/molsim/internal/storage"
	"github.com/san-kum/molsim/internal/vec"
)

var (
	dataDir   string
	logLevel  string
	logFormat string

	configFile  string
	preset      string
	dim         int
	nMol        int
	density     float64
	temperature float64
	dt          float64
	steps       int
	stepAvg     int
	rCut        float64
	potName     string
	propsName   string
	seed        int64
	ckptPath    string
	initKind    string
	metricsAddr string

	plotField  string
	plotWidth  int
	plotHeight int
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "molsim",
		Short:         "molecular dynamics with periodic boundaries",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".molsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")

	runCmd := newRunCmd()

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show run metadata and final summary",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot averaged properties of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&plotField, "field", "", "field to plot (default all)")
	plotCmd.Flags().IntVar(&plotWidth, "width", 80, "plot width")
	plotCmd.Flags().IntVar(&plotHeight, "height", 10, "plot height")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id] [file]",
		Short: "export run metadata and summaries to JSON",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  exportJSON,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [model]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			models := config.ListModels()
			if len(args) == 1 {
				models = args
			}
			for _, m := range models {
				presets := config.ListPresets(m)
				if len(presets) == 0 {
					fmt.Printf("no presets for model: %s\n", m)
					continue
				}
				fmt.Printf("presets for %s:\n", m)
				for _, p := range presets {
					fmt.Printf("  %s/%s\n", m, p)
				}
			}
			return nil
		},
	}

	componentsCmd := &cobra.Command{
		Use:   "components",
		Short: "list potentials and property accumulators",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			reg := sim.NewRegistry[vec.Vec3]()
			fmt.Printf("potentials: %s\n", strings.Join(reg.ListPotentials(), ", "))
			fmt.Printf("props:      %s\n", strings.Join(reg.ListProps(), ", "))
		},
	}

	rootCmd.AddCommand(runCmd, listCmd, showCmd, plotCmd, exportCmd, exportJSONCmd, presetsCmd, componentsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newLogger() (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", logLevel, err)
	}
	opts := &slog.HandlerOptions{Level: level}

	switch logFormat {
	case "text":
		return slog.New(slog.NewTextHandler(os.Stderr, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(os.Stderr, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q", logFormat)
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tDIM\tN\tDT\tSTEPS\tTOT_ENERGY")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%.4f\t%d\t%.4f\n",
			run.ID,
			orDash(run.Preset),
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Dim,
			run.NMol,
			run.Dt,
			run.Steps,
			run.Final["tot_energy"],
		)
	}

	return w.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func showRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	summaries, err := st.LoadSummaries(args[0])
	if err != nil {
		return err
	}

	var last *props.Summary
	if len(summaries) > 0 {
		last = &summaries[len(summaries)-1]
	}
	fmt.Println(report.RenderRun(*meta, last))
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	summaries, err := st.LoadSummaries(runID)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("samples: %d\n\n", len(summaries))

	fields := report.Fields()
	if plotField != "" {
		fields = []string{plotField}
	}
	for _, f := range fields {
		graph, err := report.Plot(summaries, f, plotWidth, plotHeight)
		if err != nil {
			return err
		}
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	if len(args) == 2 {
		if err := st.ExportJSONFile(args[1], args[0]); err != nil {
			return err
		}
		fmt.Printf("exported to %s\n", args[1])
		return nil
	}
	return st.ExportJSON(os.Stdout, args[0])
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "run simulation",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration (model/name)")
	cmd.Flags().IntVar(&dim, "dim", config.DefaultDim, "spatial dimension")
	cmd.Flags().IntVar(&nMol, "n-mol", config.DefaultNMol, "requested number of molecules")
	cmd.Flags().Float64Var(&density, "density", config.DefaultDensity, "number density")
	cmd.Flags().Float64Var(&temperature, "temperature", config.DefaultTemperature, "initial temperature")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "step limit")
	cmd.Flags().IntVar(&stepAvg, "step-avg", config.DefaultStepAvg, "steps per averaged summary")
	cmd.Flags().Float64Var(&rCut, "r-cut", config.DefaultRCut, "potential cutoff radius")
	cmd.Flags().StringVar(&potName, "potential", "lj", "potential")
	cmd.Flags().StringVar(&propsName, "props", "thermo", "property accumulator")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 picks one from the clock)")
	cmd.Flags().StringVar(&ckptPath, "checkpoint", "", "append-only checkpoint log to resume from and write to")
	cmd.Flags().StringVar(&initKind, "init", config.InitLattice, "initial state (lattice, pair)")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address while running")
	return cmd
}
