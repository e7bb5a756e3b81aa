package cmd

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RateConfig groups the scalar parameters the CLI accepts for the rate
// and probability shapes a scenario's variant needs. Only the fields
// relevant to the named variant are read; the rest stay zero.
type RateConfig struct {
	RecoveryBase         float64 `yaml:"recovery_base"`
	RecoveryPerInfected  float64 `yaml:"recovery_per_infected"`
	InfectionBase        float64 `yaml:"infection_base"`
	InfectionPerInfected float64 `yaml:"infection_per_infected"`

	PowerlawA float64 `yaml:"powerlaw_a"`
	PowerlawB float64 `yaml:"powerlaw_b"`

	Transmission float64 `yaml:"transmission"`

	RecoveryProb             float64 `yaml:"recovery_prob"`
	InfectionProbBase        float64 `yaml:"infection_prob_base"`
	InfectionProbPerInfected float64 `yaml:"infection_prob_per_infected"`

	Alpha      float64 `yaml:"alpha"`
	Truncation float64 `yaml:"truncation"`
	Beta       float64 `yaml:"beta"`
	Threshold  float64 `yaml:"threshold"`

	Wmin float64 `yaml:"wmin"`
	Wmax float64 `yaml:"wmax"`
}

// ScenarioConfig is the top-level YAML document `hocsim run --scenario`
// loads: which variant to build, where its edge list lives, how long to
// run it, and which measurement hooks to attach.
type ScenarioConfig struct {
	Variant                 string     `yaml:"variant"`
	EdgeListPath            string     `yaml:"edge_list"`
	Seed                    uint32     `yaml:"seed"`
	InitialInfectedFraction float64    `yaml:"initial_infected_fraction"`
	Horizon                 float64    `yaml:"horizon"`
	DecorrelationTime       float64    `yaml:"decorrelation_time"`
	Measure                 bool       `yaml:"measure"`
	QuasiStationary         bool       `yaml:"quasi_stationary"`
	HistoryK                int        `yaml:"history_k"`
	Hooks                   []string   `yaml:"hooks"`
	Rates                   RateConfig `yaml:"rates"`
}

// LoadScenarioConfig reads and parses a ScenarioConfig from path.
func LoadScenarioConfig(path string) (*ScenarioConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario file: %w", err)
	}
	var cfg ScenarioConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing scenario file: %w", err)
	}
	if cfg.HistoryK == 0 {
		cfg.HistoryK = 100
	}
	if cfg.DecorrelationTime == 0 {
		cfg.DecorrelationTime = 1
	}
	return &cfg, nil
}
