package engine

import (
	"math"

	"github.com/onge-labs/hocsim/network"
	"github.com/onge-labs/hocsim/samplableset"
)

// RateFunc computes a per-group rate from the group's size and its
// current count of infected members.
type RateFunc func(size, infected int) float64

// ContinuousSIS is the group-weighted continuous-time SIS process:
// events are drawn per-group with rate ρ(|g|,i_g) + λ(|g|,i_g); the
// event is then split into a recovery or an infection in proportion to
// ρ and λ.
type ContinuousSIS struct {
	*Engine
	recoveryRate  RateFunc
	infectionRate RateFunc
	scheduler     *samplableset.Set[network.Group]
}

// NewContinuousSIS builds a ContinuousSIS engine over net. recoveryRate
// and infectionRate must stay within [wmin, wmax] for every reachable
// (size, infected) pair; violating that fails evolve() with
// *OutOfRangeError the first time an affected group is reweighed.
func NewContinuousSIS(net *network.BipartiteNetwork, recoveryRate, infectionRate RateFunc, wmin, wmax float64) (*ContinuousSIS, error) {
	sched, err := samplableset.New[network.Group](wmin, wmax)
	if err != nil {
		return nil, err
	}
	sis := &ContinuousSIS{
		Engine:        newEngine(net, 2),
		recoveryRate:  recoveryRate,
		infectionRate: infectionRate,
		scheduler:     sched,
	}
	sis.Engine.variant = sis
	for g := 0; g < net.NumberOfGroups(); g++ {
		if err := sis.reweighGroup(network.Group(g)); err != nil {
			return nil, err
		}
	}
	return sis, nil
}

func (c *ContinuousSIS) reweighGroup(g network.Group) error {
	size := c.Network().GroupSize(g)
	inf := c.Roster().Count(g, int(Infected))
	rho := c.recoveryRate(size, inf)
	lambda := c.infectionRate(size, inf)
	return setRate(c.scheduler, g, rho+lambda, "ContinuousSIS group rate")
}

// Lifetime returns 1/total scheduler weight, or +Inf when the scheduler
// is empty (no group can currently produce an event).
func (c *ContinuousSIS) Lifetime() float64 {
	total := c.scheduler.TotalWeight()
	if total == 0 {
		return math.Inf(1)
	}
	return 1 / total
}

// NextEvent samples a group proportional to its rate, then splits the
// draw between recovery and infection in proportion to ρ and λ.
func (c *ContinuousSIS) NextEvent() {
	g, _, err := c.scheduler.Sample(c.RNG())
	if err != nil {
		c.log.WithError(err).Error("sample on empty ContinuousSIS scheduler")
		return
	}
	size := c.Network().GroupSize(g)
	inf := c.Roster().Count(g, int(Infected))
	rho := c.recoveryRate(size, inf)
	lambda := c.infectionRate(size, inf)
	total := rho + lambda

	draw := c.uniform01() * total
	if draw < rho {
		members := c.Roster().Members(g, int(Infected))
		n := members[c.uniformInt(len(members))]
		if err := c.Recover(n); err != nil {
			c.log.WithError(err).Error("recover failed in ContinuousSIS.NextEvent")
		}
	} else {
		members := c.Roster().Members(g, int(Susceptible))
		if len(members) == 0 {
			c.log.Errorf("infection drawn for group %d with no susceptible members; infection rate must vanish there", g)
			return
		}
		n := members[c.uniformInt(len(members))]
		if err := c.Infect(n); err != nil {
			c.log.WithError(err).Error("infect failed in ContinuousSIS.NextEvent")
		}
	}
	c.log.Debugf("event group=%d kind=sis-step t=%g", g, c.currentTime)
}

// Infect transitions n from Susceptible to Infected, moving it within
// every adjacent group's roster and reweighing each affected group.
func (c *ContinuousSIS) Infect(n network.Node) error {
	if c.state[n] != Susceptible {
		return &InvariantViolationError{Node: int(n), Op: "infect", From: c.state[n].String()}
	}
	c.state[n] = Infected
	c.infected[n] = struct{}{}
	for _, g := range c.Network().AdjacentGroups(n) {
		c.Roster().Move(g, n, int(Susceptible), int(Infected))
		if err := c.reweighGroup(g); err != nil {
			return err
		}
	}
	return nil
}

// Recover transitions n from Infected to Susceptible, moving it within
// every adjacent group's roster and reweighing each affected group.
func (c *ContinuousSIS) Recover(n network.Node) error {
	if c.state[n] != Infected {
		return &InvariantViolationError{Node: int(n), Op: "recover", From: c.state[n].String()}
	}
	c.state[n] = Susceptible
	delete(c.infected, n)
	for _, g := range c.Network().AdjacentGroups(n) {
		c.Roster().Move(g, n, int(Infected), int(Susceptible))
		if err := c.reweighGroup(g); err != nil {
			return err
		}
	}
	return nil
}

// ClearScheduler empties the group scheduler.
func (c *ContinuousSIS) ClearScheduler() { c.scheduler.Clear() }
