package config

import "sort"

var Presets = map[string]map[string]*Config{
	"solar": {
		"short": {
			Generator: "solar", Dt: 0.001, LenTime: 1.0, Epsilon: DefaultEpsilon,
			SampleEvery: 100,
		},
		"century": {
			Generator: "solar", Dt: 0.01, LenTime: 100.0, Epsilon: DefaultEpsilon,
			SampleEvery: 1000,
		},
	},
	"random": {
		"small": {
			Generator: "random", Dt: 0.001, LenTime: 0.5, Epsilon: DefaultEpsilon,
			NumParticles: 50, Seed: 1, SampleEvery: 100,
		},
		"scaling": {
			Generator: "random", Dt: 0.001, LenTime: 0.1, Epsilon: DefaultEpsilon,
			NumParticles: 2000, Seed: 1, Parallel: true, SampleEvery: 0,
		},
	},
}

// GetPreset returns a copy of the named preset, or nil if it does not exist.
func GetPreset(generator, preset string) *Config {
	genPresets, ok := Presets[generator]
	if !ok {
		return nil
	}
	cfg, ok := genPresets[preset]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets(generator string) []string {
	genPresets, ok := Presets[generator]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(genPresets))
	for name := range genPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
