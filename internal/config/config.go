package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDim         = 3
	DefaultNMol        = 125
	DefaultDensity     = 0.8
	DefaultTemperature = 1.0
	DefaultDt          = 0.005
	DefaultSteps       = 1000
	DefaultStepAvg     = 100
	DefaultRCut        = 2.5
	DefaultRegionSide  = 10.0
)

// Init kinds.
const (
	InitLattice = "lattice"
	InitPair    = "pair"
)

var ErrInvalid = errors.New("config: invalid configuration")

type Config struct {
	Dim        int        `yaml:"dim" env:"DIM"`
	Potential  string     `yaml:"potential" env:"POTENTIAL"`
	Props      string     `yaml:"props" env:"PROPS"`
	Dt         float64    `yaml:"dt" env:"DT"`
	Steps      int        `yaml:"steps" env:"STEPS"`
	StepAvg    int        `yaml:"step_avg" env:"STEP_AVG"`
	RCut       float64    `yaml:"r_cut" env:"R_CUT"`
	Seed       int64      `yaml:"seed" env:"SEED"`
	Checkpoint string     `yaml:"checkpoint" env:"CHECKPOINT"`
	InitState  InitConfig `yaml:"init_state" envPrefix:"INIT_"`
	PairInit   PairConfig `yaml:"pair" envPrefix:"PAIR_"`
}

type InitConfig struct {
	Kind        string  `yaml:"kind" env:"KIND"`
	NMol        int     `yaml:"n_mol" env:"N_MOL"`
	Density     float64 `yaml:"density" env:"DENSITY"`
	Temperature float64 `yaml:"temperature" env:"TEMPERATURE"`
}

// PairConfig describes two particles at -Offset and +Offset on every axis
// approaching with Speed per axis, in a cube of side RegionSide.
type PairConfig struct {
	Offset     float64 `yaml:"offset" env:"OFFSET"`
	Speed      float64 `yaml:"speed" env:"SPEED"`
	RegionSide float64 `yaml:"region_side" env:"REGION_SIDE"`
}

func DefaultConfig() *Config {
	return &Config{
		Dim:       DefaultDim,
		Potential: "lj",
		Props:     "thermo",
		Dt:        DefaultDt,
		Steps:     DefaultSteps,
		StepAvg:   DefaultStepAvg,
		RCut:      DefaultRCut,
		InitState: InitConfig{
			Kind:        InitLattice,
			NMol:        DefaultNMol,
			Density:     DefaultDensity,
			Temperature: DefaultTemperature,
		},
		PairInit: PairConfig{
			Offset:     1,
			Speed:      1,
			RegionSide: DefaultRegionSide,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overrides fields from MOLSIM_* environment variables.
func (c *Config) ApplyEnv() error {
	if err := env.ParseWithOptions(c, env.Options{Prefix: "MOLSIM_"}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	switch {
	case c.Dim < 1 || c.Dim > 3:
		return fmt.Errorf("%w: dim must be 1, 2 or 3, got %d", ErrInvalid, c.Dim)
	case !(c.Dt > 0):
		return fmt.Errorf("%w: dt must be positive, got %v", ErrInvalid, c.Dt)
	case c.Steps < 0:
		return fmt.Errorf("%w: steps must not be negative, got %d", ErrInvalid, c.Steps)
	case c.StepAvg < 1:
		return fmt.Errorf("%w: step_avg must be positive, got %d", ErrInvalid, c.StepAvg)
	case !(c.RCut > 0):
		return fmt.Errorf("%w: r_cut must be positive, got %v", ErrInvalid, c.RCut)
	}

	switch c.InitState.Kind {
	case InitLattice:
		if c.InitState.NMol < 1 {
			return fmt.Errorf("%w: n_mol must be positive, got %d", ErrInvalid, c.InitState.NMol)
		}
		if !(c.InitState.Density > 0) {
			return fmt.Errorf("%w: density must be positive, got %v", ErrInvalid, c.InitState.Density)
		}
		if c.InitState.Temperature < 0 {
			return fmt.Errorf("%w: temperature must not be negative, got %v", ErrInvalid, c.InitState.Temperature)
		}
	case InitPair:
		if !(c.PairInit.RegionSide > 0) {
			return fmt.Errorf("%w: pair region_side must be positive, got %v", ErrInvalid, c.PairInit.RegionSide)
		}
		if 2*c.PairInit.Offset >= c.PairInit.RegionSide {
			return fmt.Errorf("%w: pair offset %v does not fit in region side %v", ErrInvalid, c.PairInit.Offset, c.PairInit.RegionSide)
		}
	default:
		return fmt.Errorf("%w: unknown init kind %q", ErrInvalid, c.InitState.Kind)
	}
	return nil
}

// PlacedMolecules is the number of particles the configured initial state
// actually holds. For a lattice it is the largest perfect D-th power not
// above n_mol.
func (c *Config) PlacedMolecules() int {
	if c.InitState.Kind == InitPair {
		return 2
	}
	cells := 1
	for cells+1 <= c.InitState.NMol && pow(cells+1, c.Dim) <= c.InitState.NMol {
		cells++
	}
	return pow(cells, c.Dim)
}

func pow(base, exp int) int {
	r := 1
	for i := 0; i < exp; i++ {
		r *= base
	}
	return r
}

func (c *Config) PotentialParams() map[string]float64 {
	return map[string]float64{
		"r_cut": c.RCut,
	}
}
