package engine

import (
	"math"

	"github.com/onge-labs/hocsim/network"
	"github.com/onge-labs/hocsim/samplableset"
)

// ContinuousSIR is the continuous-time SIR process: S→I is group-driven
// with rate λ(g) = τ_g·s_g·K(|g|, i_g); I→R is node-driven at a constant
// rate. Recovered is absorbing per node. There is no default QS: the
// process has a true absorbing state (no infected, or no susceptible
// neighbours left to infect), and evolve() ends early naturally when the
// scheduler empties.
type ContinuousSIR struct {
	*Engine
	recoveryRate     float64
	transmissionRate []float64 // per-group τ_g
	kernel           RateFunc
	scheduler        *samplableset.Set[Event]
}

// NewContinuousSIR builds a ContinuousSIR engine over net with constant
// per-node recovery rate, a per-group transmission rate vector τ, and an
// infection kernel K(|g|, i_g).
func NewContinuousSIR(net *network.BipartiteNetwork, recoveryRate float64, transmissionRate []float64, kernel RateFunc, wmin, wmax float64) (*ContinuousSIR, error) {
	if len(transmissionRate) != net.NumberOfGroups() {
		return nil, &OutOfRangeError{Context: "ContinuousSIR transmissionRate length mismatch"}
	}
	sched, err := samplableset.New[Event](wmin, wmax)
	if err != nil {
		return nil, err
	}
	sir := &ContinuousSIR{
		Engine:           newEngine(net, 3),
		recoveryRate:     recoveryRate,
		transmissionRate: transmissionRate,
		kernel:           kernel,
		scheduler:        sched,
	}
	sir.Engine.variant = sir
	for g := 0; g < net.NumberOfGroups(); g++ {
		if err := sir.reweighInfection(network.Group(g)); err != nil {
			return nil, err
		}
	}
	return sir, nil
}

// ComputeRateEnvelope scans kernel over every observed group size in
// sizes and every reachable infected count in [0, size] and returns a
// tight (wmin, wmax) envelope, per the rate-envelope-discovery helper
// suggested for power-law and general kernels.
func ComputeRateEnvelope(kernel RateFunc, sizes []int) (wmin, wmax float64) {
	wmin, wmax = math.Inf(1), 0
	for _, size := range sizes {
		for i := 0; i <= size; i++ {
			r := kernel(size, i)
			if r <= 0 {
				continue
			}
			if r < wmin {
				wmin = r
			}
			if r > wmax {
				wmax = r
			}
		}
	}
	if math.IsInf(wmin, 1) {
		wmin, wmax = 1, 1
	}
	return wmin, wmax
}

func (c *ContinuousSIR) reweighInfection(g network.Group) error {
	size := c.Network().GroupSize(g)
	inf := c.Roster().Count(g, int(Infected))
	susceptible := c.Roster().Count(g, int(Susceptible))
	lambda := c.transmissionRate[g] * float64(susceptible) * c.kernel(size, inf)
	key := Event{Scope: ScopeGroup, Kind: KindInfection, ID: int(g)}
	return setRate(c.scheduler, key, lambda, "ContinuousSIR infection rate")
}

// Lifetime returns 1/total scheduler weight, or +Inf when empty (no
// infected nodes, or no group can still transmit).
func (c *ContinuousSIR) Lifetime() float64 {
	total := c.scheduler.TotalWeight()
	if total == 0 {
		return math.Inf(1)
	}
	return 1 / total
}

// NextEvent samples an Event and dispatches on its (scope, kind).
func (c *ContinuousSIR) NextEvent() {
	ev, _, err := c.scheduler.Sample(c.RNG())
	if err != nil {
		c.log.WithError(err).Error("sample on empty ContinuousSIR scheduler")
		return
	}
	switch {
	case ev.Scope == ScopeNode && ev.Kind == KindRecovery:
		if err := c.Recover(network.Node(ev.ID)); err != nil {
			c.log.WithError(err).Error("recover failed in ContinuousSIR.NextEvent")
		}
	case ev.Scope == ScopeGroup && ev.Kind == KindInfection:
		members := c.Roster().Members(network.Group(ev.ID), int(Susceptible))
		n := members[c.uniformInt(len(members))]
		if err := c.Infect(n); err != nil {
			c.log.WithError(err).Error("infect failed in ContinuousSIR.NextEvent")
		}
	}
	c.log.Debugf("event %s %s id=%d t=%g", ev.Scope, ev.Kind, ev.ID, c.currentTime)
}

// Infect transitions n from Susceptible to Infected, inserts its
// recovery event, and reweighs every adjacent group's infection rate.
func (c *ContinuousSIR) Infect(n network.Node) error {
	if c.state[n] != Susceptible {
		return &InvariantViolationError{Node: int(n), Op: "infect", From: c.state[n].String()}
	}
	c.state[n] = Infected
	c.infected[n] = struct{}{}
	if err := c.scheduler.Insert(Event{Scope: ScopeNode, Kind: KindRecovery, ID: int(n)}, c.recoveryRate); err != nil {
		return err
	}
	for _, g := range c.Network().AdjacentGroups(n) {
		c.Roster().Move(g, n, int(Susceptible), int(Infected))
		if err := c.reweighInfection(g); err != nil {
			return err
		}
	}
	return nil
}

// Recover transitions n from Infected to Recovered, a per-node absorbing
// state: n never returns to the susceptible or infected rosters again.
func (c *ContinuousSIR) Recover(n network.Node) error {
	if c.state[n] != Infected {
		return &InvariantViolationError{Node: int(n), Op: "recover", From: c.state[n].String()}
	}
	c.state[n] = Recovered
	delete(c.infected, n)
	if err := c.scheduler.Erase(Event{Scope: ScopeNode, Kind: KindRecovery, ID: int(n)}); err != nil {
		return err
	}
	for _, g := range c.Network().AdjacentGroups(n) {
		c.Roster().Move(g, n, int(Infected), int(Recovered))
		if err := c.reweighInfection(g); err != nil {
			return err
		}
	}
	return nil
}

// ClearScheduler empties the event scheduler.
func (c *ContinuousSIR) ClearScheduler() { c.scheduler.Clear() }
