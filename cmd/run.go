package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/onge-labs/hocsim/network"
)

// runScenario builds the scenario described by cfg over the given edges,
// seeds it, infects the configured initial fraction, evolves it across
// its full horizon, and prints a short summary line per attached hook.
func runScenario(cfg *ScenarioConfig, edges []network.Edge) error {
	net, err := network.New(edges)
	if err != nil {
		return fmt.Errorf("building network: %w", err)
	}

	v, err := buildVariant(cfg, net)
	if err != nil {
		return fmt.Errorf("building variant: %w", err)
	}

	hooks, err := buildHooks(cfg, net.Size())
	if err != nil {
		return fmt.Errorf("building hooks: %w", err)
	}
	for _, h := range hooks {
		v.AddMeasure(h)
	}

	v.Seed(cfg.Seed)
	if err := v.InfectFraction(cfg.InitialInfectedFraction); err != nil {
		return fmt.Errorf("seeding initial infections: %w", err)
	}
	v.InitializeHistory(cfg.HistoryK)

	if err := v.Evolve(cfg.Horizon, cfg.DecorrelationTime, cfg.Measure, cfg.QuasiStationary); err != nil {
		return fmt.Errorf("evolving scenario: %w", err)
	}

	for _, h := range hooks {
		logrus.Infof("hook=%s result=%v", h.Name(), h.Result())
		fmt.Printf("%s: %v\n", h.Name(), h.Result())
	}
	logrus.Info("scenario complete")
	return nil
}
