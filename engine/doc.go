// Package engine provides the core event-driven simulation engine for
// higher-order contagion processes.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - engine.go: the shared state, evolve/measure/QS loop, and the
//     Variant capability set every process implements
//   - event.go: the tagged (scope, kind, id) Event key used by the
//     variants whose schedulers mix group- and node-level events
//   - rng.go: the engine-owned RNG and its uniform/Poisson draws
//
// # Variants
//
// Each variant is a small file implementing the Variant interface over
// an embedded *Engine:
//   - continuous_sis.go: group-weighted infection + group-weighted recovery
//   - group_sis.go: node-level recovery + group-level infection, and its
//     power-law kernel specialisation
//   - continuous_sir.go: group-weighted infection + node-weighted
//     recovery into an absorbing Recovered state
//   - discrete_sis.go: per-unit-time Poisson-batched recoveries and
//     infections
//   - heterogeneous_exposure.go: per-unit-time dose-threshold infections
//
// # Measurement
//
// hooks.go defines the MeasurementHook capability set and the four
// standard hooks (Prevalence, MarginalInfectionProbability,
// InfectiousSet, Time). Hooks are registered with Engine.AddMeasure and
// invoked by Evolve between events; they must never mutate engine state.
package engine
