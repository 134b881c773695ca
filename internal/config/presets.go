package config

import "sort"

var Presets = map[string]map[string]*Config{
	"lj3d": {
		"liquid": {
			Dim: 3, Potential: "lj", Props: "thermo", Dt: 0.005, Steps: 2000, StepAvg: 100, RCut: 2.5,
			InitState: InitConfig{Kind: InitLattice, NMol: 1000, Density: 0.8, Temperature: 1.0},
		},
		"gas": {
			Dim: 3, Potential: "lj", Props: "thermo", Dt: 0.005, Steps: 2000, StepAvg: 100, RCut: 2.5,
			InitState: InitConfig{Kind: InitLattice, NMol: 216, Density: 0.05, Temperature: 2.0},
		},
	},
	"lj2d": {
		"pair": {
			Dim: 2, Potential: "lj", Props: "thermo", Dt: 0.01, Steps: 100, StepAvg: 10, RCut: 5,
			InitState: InitConfig{Kind: InitPair},
			PairInit:  PairConfig{Offset: 1, Speed: 1, RegionSide: 10},
		},
		"liquid": {
			Dim: 2, Potential: "lj", Props: "thermo", Dt: 0.005, Steps: 5000, StepAvg: 100, RCut: 2.5,
			InitState: InitConfig{Kind: InitLattice, NMol: 400, Density: 0.8, Temperature: 1.0},
		},
	},
	"free": {
		"single": {
			Dim: 3, Potential: "free", Props: "none", Dt: 0.01, Steps: 10, StepAvg: 10, RCut: 2.5,
			InitState: InitConfig{Kind: InitLattice, NMol: 1, Density: 0.001, Temperature: 0},
		},
	},
}

func GetPreset(model, preset string) *Config {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	cfg, ok := modelPresets[preset]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets(model string) []string {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modelPresets))
	for name := range modelPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func ListModels() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
