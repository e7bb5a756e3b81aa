package engine

import (
	"math"

	"github.com/onge-labs/hocsim/network"
	"github.com/onge-labs/hocsim/samplableset"
)

// HeterogeneousExposure is the dose-threshold variant: infection is not
// rate-based. Each step, every susceptible node in every group it
// belongs to draws a random participation time and accumulates a random
// dose proportional to its group's current infected fraction; crossing
// the dose threshold K marks it for infection. Recovery follows the
// same discrete Poisson recipe as DiscreteSIS.
type HeterogeneousExposure struct {
	*Engine
	alpha              float64 // power-law exponent of the participation-time distribution
	truncation         float64 // T, the upper truncation of participation time
	beta               float64 // dose scale
	threshold          float64 // K, the infection dose threshold
	recoveryPropensity float64
	recoveryScheduler  *samplableset.Set[network.Node]
}

// NewHeterogeneousExposure builds a HeterogeneousExposure engine over
// net with participation-time power-law exponent alpha truncated at T,
// dose scale beta, dose threshold threshold, and constant per-step
// recovery probability recoveryProb.
func NewHeterogeneousExposure(net *network.BipartiteNetwork, alpha, truncation, beta, threshold, recoveryProb float64) (*HeterogeneousExposure, error) {
	recSched, err := samplableset.New[network.Node](discreteRecoveryWmin, discreteRecoveryWmax)
	if err != nil {
		return nil, err
	}
	h := &HeterogeneousExposure{
		Engine:             newEngine(net, 2),
		alpha:              alpha,
		truncation:         truncation,
		beta:               beta,
		threshold:          threshold,
		recoveryPropensity: propensity(recoveryProb),
		recoveryScheduler:  recSched,
	}
	h.Engine.variant = h
	return h, nil
}

// Lifetime is 1 while any node is infected, +Inf otherwise.
func (h *HeterogeneousExposure) Lifetime() float64 {
	if len(h.infected) == 0 {
		return math.Inf(1)
	}
	return 1
}

// participationTime draws τ from the truncated power-law via inverse
// transform sampling: τ = (1 − r(1 − T^(−α)))^(−1/α).
func (h *HeterogeneousExposure) participationTime() float64 {
	r := h.uniform01()
	return math.Pow(1-r*(1-math.Pow(h.truncation, -h.alpha)), -1/h.alpha)
}

// dose draws κ = −β·τ·ρ·ln(1 − r') given the group's current infected
// fraction ρ, with r' a fresh uniform draw.
func (h *HeterogeneousExposure) dose(rho float64) float64 {
	tau := h.participationTime()
	r := h.uniform01()
	return -h.beta * tau * rho * math.Log(1-r)
}

// NextEvent applies one full discrete step: draw recoveries via the
// DiscreteSIS Poisson recipe, then scan every susceptible node's
// group memberships for a dose exceeding threshold.
func (h *HeterogeneousExposure) NextEvent() {
	nRec := h.poissonDraw(h.recoveryPropensity * float64(len(h.infected)))
	recoveries := make(map[network.Node]struct{})
	for i := 0; i < nRec && h.recoveryScheduler.Size() > 0; i++ {
		n, _, err := h.recoveryScheduler.Sample(h.RNG())
		if err != nil {
			break
		}
		recoveries[n] = struct{}{}
	}

	infections := make(map[network.Node]struct{})
	for g := 0; g < h.Network().NumberOfGroups(); g++ {
		group := network.Group(g)
		size := h.Network().GroupSize(group)
		if size <= 1 {
			continue
		}
		inf := h.Roster().Count(group, int(Infected))
		rho := float64(inf) / float64(size-1)
		if rho == 0 {
			continue
		}
		for _, n := range h.Roster().Members(group, int(Susceptible)) {
			if h.dose(rho) > h.threshold {
				infections[n] = struct{}{}
			}
		}
	}

	for n := range recoveries {
		if err := h.Recover(n); err != nil {
			h.log.WithError(err).Error("recover failed in HeterogeneousExposure.NextEvent")
		}
	}
	for n := range infections {
		if h.state[n] != Susceptible {
			continue
		}
		if err := h.Infect(n); err != nil {
			h.log.WithError(err).Error("infect failed in HeterogeneousExposure.NextEvent")
		}
	}
	h.log.Debugf("step recoveries=%d infections=%d t=%g", len(recoveries), len(infections), h.currentTime)
}

// Infect transitions n to Infected and registers it in the recovery
// scheduler. HeterogeneousExposure carries no per-group rate state to
// reweigh: group doses are recomputed fresh every step from the roster.
func (h *HeterogeneousExposure) Infect(n network.Node) error {
	if h.state[n] != Susceptible {
		return &InvariantViolationError{Node: int(n), Op: "infect", From: h.state[n].String()}
	}
	h.state[n] = Infected
	h.infected[n] = struct{}{}
	if err := h.recoveryScheduler.Insert(n, 1); err != nil {
		return err
	}
	for _, g := range h.Network().AdjacentGroups(n) {
		h.Roster().Move(g, n, int(Susceptible), int(Infected))
	}
	return nil
}

// Recover transitions n to Susceptible and removes it from the recovery
// scheduler.
func (h *HeterogeneousExposure) Recover(n network.Node) error {
	if h.state[n] != Infected {
		return &InvariantViolationError{Node: int(n), Op: "recover", From: h.state[n].String()}
	}
	h.state[n] = Susceptible
	delete(h.infected, n)
	if err := h.recoveryScheduler.Erase(n); err != nil {
		return err
	}
	for _, g := range h.Network().AdjacentGroups(n) {
		h.Roster().Move(g, n, int(Infected), int(Susceptible))
	}
	return nil
}

// ClearScheduler empties the recovery scheduler.
func (h *HeterogeneousExposure) ClearScheduler() { h.recoveryScheduler.Clear() }
