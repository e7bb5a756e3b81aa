package cmd

import (
	"fmt"

	"github.com/onge-labs/hocsim/engine"
	"github.com/onge-labs/hocsim/network"
)

// runnable is the subset of engine.Engine's promoted methods the CLI
// needs once a variant has been constructed; every concrete variant
// type satisfies it by embedding *engine.Engine.
type runnable interface {
	Seed(uint32)
	InfectFraction(f float64) error
	InitializeHistory(k int)
	AddMeasure(h engine.MeasurementHook)
	GetMeasureVector() []engine.MeasurementHook
	Evolve(period, decorrelationTime float64, measure, quasistationary bool) error
}

// buildVariant constructs the variant named by cfg.Variant over net
// using the scalar rate parameters in cfg.Rates.
func buildVariant(cfg *ScenarioConfig, net *network.BipartiteNetwork) (runnable, error) {
	r := cfg.Rates
	switch cfg.Variant {
	case "continuous_sis":
		recovery := engine.LinearInfectedRate(r.RecoveryBase, r.RecoveryPerInfected)
		infection := engine.LinearInfectedRate(r.InfectionBase, r.InfectionPerInfected)
		return engine.NewContinuousSIS(net, recovery, infection, r.Wmin, r.Wmax)

	case "group_sis":
		infection := engine.LinearInfectedRate(r.InfectionBase, r.InfectionPerInfected)
		return engine.NewGroupSIS(net, r.RecoveryBase, infection, r.Wmin, r.Wmax)

	case "powerlaw_group_sis":
		return engine.NewPowerlawGroupSIS(net, r.RecoveryBase, r.PowerlawA, r.PowerlawB, r.Wmin, r.Wmax)

	case "continuous_sir":
		transmission := engine.ConstantTransmission(net.NumberOfGroups(), r.Transmission)
		kernel := engine.LinearInfectedRate(r.InfectionBase, r.InfectionPerInfected)
		return engine.NewContinuousSIR(net, r.RecoveryBase, transmission, kernel, r.Wmin, r.Wmax)

	case "discrete_sis":
		infectionProb := engine.LinearInfectedProbability(r.InfectionProbBase, r.InfectionProbPerInfected)
		return engine.NewDiscreteSIS(net, r.RecoveryProb, infectionProb, r.Wmin, r.Wmax)

	case "heterogeneous_exposure":
		return engine.NewHeterogeneousExposure(net, r.Alpha, r.Truncation, r.Beta, r.Threshold, r.RecoveryProb)

	default:
		return nil, fmt.Errorf("unknown variant %q", cfg.Variant)
	}
}

// buildHooks instantiates the measurement hooks named in cfg.Hooks.
func buildHooks(cfg *ScenarioConfig, numNodes int) ([]engine.MeasurementHook, error) {
	hooks := make([]engine.MeasurementHook, 0, len(cfg.Hooks))
	for _, name := range cfg.Hooks {
		switch name {
		case "prevalence":
			hooks = append(hooks, engine.NewPrevalence())
		case "marginal":
			hooks = append(hooks, engine.NewMarginalInfectionProbability(numNodes))
		case "infectious-set":
			hooks = append(hooks, engine.NewInfectiousSet())
		case "time":
			hooks = append(hooks, engine.NewTime())
		default:
			return nil, fmt.Errorf("unknown measurement hook %q", name)
		}
	}
	return hooks, nil
}
