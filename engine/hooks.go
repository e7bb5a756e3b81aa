package engine

import "github.com/onge-labs/hocsim/network"

// MeasurementHook is the accumulator protocol invoked by evolve between
// events. A hook must not mutate engine state from within Measure; doing
// so leaves the engine in an undefined condition per the public contract.
type MeasurementHook interface {
	Measure(e *Engine)
	Clear()
	Name() string
	Result() any
}

// Prevalence accumulates the mean fraction of infected nodes sampled at
// each measurement point.
type Prevalence struct {
	sum   float64
	count int
}

func NewPrevalence() *Prevalence { return &Prevalence{} }

func (p *Prevalence) Measure(e *Engine) {
	p.sum += float64(len(e.infected)) / float64(e.net.Size())
	p.count++
}

func (p *Prevalence) Clear() { p.sum, p.count = 0, 0 }

func (p *Prevalence) Name() string { return "prevalence" }

func (p *Prevalence) Result() any {
	if p.count == 0 {
		return 0.0
	}
	return p.sum / float64(p.count)
}

// MarginalInfectionProbability accumulates, per node, the empirical
// fraction of measurement points at which it was infected.
type MarginalInfectionProbability struct {
	counts []int
	total  int
}

func NewMarginalInfectionProbability(n int) *MarginalInfectionProbability {
	return &MarginalInfectionProbability{counts: make([]int, n)}
}

func (m *MarginalInfectionProbability) Measure(e *Engine) {
	for n := range e.infected {
		m.counts[n]++
	}
	m.total++
}

func (m *MarginalInfectionProbability) Clear() {
	for i := range m.counts {
		m.counts[i] = 0
	}
	m.total = 0
}

func (m *MarginalInfectionProbability) Name() string { return "marginal_infection_probability" }

func (m *MarginalInfectionProbability) Result() any {
	result := make([]float64, len(m.counts))
	if m.total == 0 {
		return result
	}
	for i, c := range m.counts {
		result[i] = float64(c) / float64(m.total)
	}
	return result
}

// InfectiousSet snapshots the infected set at every measurement point.
type InfectiousSet struct {
	snapshots [][]network.Node
}

func NewInfectiousSet() *InfectiousSet { return &InfectiousSet{} }

func (i *InfectiousSet) Measure(e *Engine) {
	snap := make([]network.Node, 0, len(e.infected))
	for n := range e.infected {
		snap = append(snap, n)
	}
	i.snapshots = append(i.snapshots, snap)
}

func (i *InfectiousSet) Clear() { i.snapshots = nil }

func (i *InfectiousSet) Name() string { return "infectious_set" }

func (i *InfectiousSet) Result() any { return i.snapshots }

// Time records the simulated-time instant of every measurement point.
type Time struct {
	instants []float64
}

func NewTime() *Time { return &Time{} }

func (t *Time) Measure(e *Engine) { t.instants = append(t.instants, e.currentTime) }

func (t *Time) Clear() { t.instants = nil }

func (t *Time) Name() string { return "time" }

func (t *Time) Result() any { return t.instants }
