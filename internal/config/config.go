package config

import (
	"fmt"
	"os"

	"github.com/san-kum/gravsim/internal/initcond"
	"github.com/san-kum/gravsim/internal/sim"
	"gopkg.in/yaml.v3"
)

const (
	DefaultGenerator   = "solar"
	DefaultDt          = 0.001
	DefaultLenTime     = 1.0
	DefaultEpsilon     = sim.DefaultSoftening
	DefaultParticles   = 200
	DefaultSampleEvery = 100
)

type Config struct {
	Generator    string  `yaml:"generator"`
	Dt           float64 `yaml:"dt"`
	LenTime      float64 `yaml:"len_time"`
	Epsilon      float64 `yaml:"epsilon"`
	NumParticles int     `yaml:"num_particles"`
	Seed         int64   `yaml:"seed"`
	Parallel     bool    `yaml:"parallel"`
	Workers      int     `yaml:"workers"`
	SampleEvery  int     `yaml:"sample_every"`
}

func DefaultConfig() *Config {
	return &Config{
		Generator:    DefaultGenerator,
		Dt:           DefaultDt,
		LenTime:      DefaultLenTime,
		Epsilon:      DefaultEpsilon,
		NumParticles: DefaultParticles,
		SampleEvery:  DefaultSampleEvery,
	}
}

// Load reads a YAML file on top of the defaults, so omitted keys keep their
// default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
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

func (c *Config) Validate() error {
	if _, err := initcond.ParseKind(c.Generator); err != nil {
		return err
	}
	if c.NumParticles < 0 {
		return fmt.Errorf("%w: got %d", initcond.ErrInvalidCount, c.NumParticles)
	}
	return c.SimConfig().Validate()
}

func (c *Config) SimConfig() sim.Config {
	return sim.Config{
		Dt:            c.Dt,
		LenTime:       c.LenTime,
		Softening:     c.Epsilon,
		Parallel:      c.Parallel,
		Workers:       c.Workers,
		SampleEvery:   c.SampleEvery,
		ValidateState: true,
	}
}

func (c *Config) InitOptions() (initcond.Options, error) {
	kind, err := initcond.ParseKind(c.Generator)
	if err != nil {
		return initcond.Options{}, err
	}
	return initcond.Options{Kind: kind, Seed: c.Seed, Count: c.NumParticles}, nil
}
