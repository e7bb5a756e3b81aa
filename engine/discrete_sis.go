package engine

import (
	"math"

	"github.com/onge-labs/hocsim/network"
	"github.com/onge-labs/hocsim/samplableset"
)

// discreteRecoveryWmin and discreteRecoveryWmax bound the recovery
// scheduler's weights. Every
// infected node carries the same unit weight there, so a small fixed
// envelope around 1 is all the scheduler ever needs.
const (
	discreteRecoveryWmin = 0.5
	discreteRecoveryWmax = 2.0
)

// ProbabilityFunc computes a per-node-per-step infection probability
// from a group's size and its current infected count.
type ProbabilityFunc func(size, infected int) float64

// DiscreteSIS advances in unit time steps. Each step draws a
// Poisson-distributed number of recoveries and a Poisson-distributed
// number of infections, both sampled with replacement and deduplicated,
// then applies all recoveries before all infections.
type DiscreteSIS struct {
	*Engine
	recoveryPropensity float64 // π_rec, already converted via -log(1-p)
	infectionProb      ProbabilityFunc
	recoveryScheduler  *samplableset.Set[network.Node]
	infectionScheduler *samplableset.Set[network.Group]
}

// NewDiscreteSIS builds a DiscreteSIS engine over net. recoveryProb is
// the per-step recovery probability of an infected node; infectionProb
// is the per-node-per-step infection probability π(|g|, i_g). wmin/wmax
// bound the group-level infection propensities p(g) = α(|g|,i_g)·s_g.
func NewDiscreteSIS(net *network.BipartiteNetwork, recoveryProb float64, infectionProb ProbabilityFunc, wmin, wmax float64) (*DiscreteSIS, error) {
	recSched, err := samplableset.New[network.Node](discreteRecoveryWmin, discreteRecoveryWmax)
	if err != nil {
		return nil, err
	}
	infSched, err := samplableset.New[network.Group](wmin, wmax)
	if err != nil {
		return nil, err
	}
	d := &DiscreteSIS{
		Engine:             newEngine(net, 2),
		recoveryPropensity: propensity(recoveryProb),
		infectionProb:      infectionProb,
		recoveryScheduler:  recSched,
		infectionScheduler: infSched,
	}
	d.Engine.variant = d
	for g := 0; g < net.NumberOfGroups(); g++ {
		if err := d.reweighInfection(network.Group(g)); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// propensity converts a per-step probability into an additive intensity:
// α = −log(1 − p).
func propensity(p float64) float64 { return -math.Log(1 - p) }

func (d *DiscreteSIS) reweighInfection(g network.Group) error {
	size := d.Network().GroupSize(g)
	inf := d.Roster().Count(g, int(Infected))
	susceptible := d.Roster().Count(g, int(Susceptible))
	alpha := propensity(d.infectionProb(size, inf))
	p := alpha * float64(susceptible)
	return setRate(d.infectionScheduler, g, p, "DiscreteSIS group infection propensity")
}

// Lifetime is 1 while any node is infected, +Inf otherwise: a step is
// only meaningful if there is something left to recover or transmit.
func (d *DiscreteSIS) Lifetime() float64 {
	if len(d.infected) == 0 {
		return math.Inf(1)
	}
	return 1
}

// NextEvent applies one full discrete step: draw recoveries, draw
// infections, apply recoveries then infections.
func (d *DiscreteSIS) NextEvent() {
	nRec := d.poissonDraw(d.recoveryPropensity * float64(len(d.infected)))
	recoveries := make(map[network.Node]struct{})
	for i := 0; i < nRec && d.recoveryScheduler.Size() > 0; i++ {
		n, _, err := d.recoveryScheduler.Sample(d.RNG())
		if err != nil {
			break
		}
		recoveries[n] = struct{}{}
	}

	totalInfectionWeight := d.infectionScheduler.TotalWeight()
	nInf := d.poissonDraw(totalInfectionWeight)
	infections := make(map[network.Node]struct{})
	for i := 0; i < nInf && d.infectionScheduler.Size() > 0; i++ {
		g, _, err := d.infectionScheduler.Sample(d.RNG())
		if err != nil {
			break
		}
		members := d.Roster().Members(g, int(Susceptible))
		if len(members) == 0 {
			continue
		}
		infections[members[d.uniformInt(len(members))]] = struct{}{}
	}

	for n := range recoveries {
		if err := d.Recover(n); err != nil {
			d.log.WithError(err).Error("recover failed in DiscreteSIS.NextEvent")
		}
	}
	for n := range infections {
		if d.state[n] != Susceptible {
			continue
		}
		if err := d.Infect(n); err != nil {
			d.log.WithError(err).Error("infect failed in DiscreteSIS.NextEvent")
		}
	}
	d.log.Debugf("step recoveries=%d infections=%d t=%g", len(recoveries), len(infections), d.currentTime)
}

// Infect transitions n to Infected, registers it in the recovery
// scheduler, and reweighs every adjacent group's infection propensity.
func (d *DiscreteSIS) Infect(n network.Node) error {
	if d.state[n] != Susceptible {
		return &InvariantViolationError{Node: int(n), Op: "infect", From: d.state[n].String()}
	}
	d.state[n] = Infected
	d.infected[n] = struct{}{}
	if err := d.recoveryScheduler.Insert(n, 1); err != nil {
		return err
	}
	for _, g := range d.Network().AdjacentGroups(n) {
		d.Roster().Move(g, n, int(Susceptible), int(Infected))
		if err := d.reweighInfection(g); err != nil {
			return err
		}
	}
	return nil
}

// Recover transitions n to Susceptible, removes it from the recovery
// scheduler, and reweighs every adjacent group's infection propensity.
func (d *DiscreteSIS) Recover(n network.Node) error {
	if d.state[n] != Infected {
		return &InvariantViolationError{Node: int(n), Op: "recover", From: d.state[n].String()}
	}
	d.state[n] = Susceptible
	delete(d.infected, n)
	if err := d.recoveryScheduler.Erase(n); err != nil {
		return err
	}
	for _, g := range d.Network().AdjacentGroups(n) {
		d.Roster().Move(g, n, int(Infected), int(Susceptible))
		if err := d.reweighInfection(g); err != nil {
			return err
		}
	}
	return nil
}

// ClearScheduler empties both the recovery and infection schedulers.
func (d *DiscreteSIS) ClearScheduler() {
	d.recoveryScheduler.Clear()
	d.infectionScheduler.Clear()
}
