package engine

import (
	"math"

	"github.com/onge-labs/hocsim/network"
	"github.com/onge-labs/hocsim/samplableset"
)

// GroupSIS is the SIS process with node-level recovery at a constant
// rate and group-level infection at rate λ(|g|, i_g). Both live in one
// Event-keyed scheduler so a single sample drives either kind.
type GroupSIS struct {
	*Engine
	recoveryRate  float64
	infectionRate RateFunc
	scheduler     *samplableset.Set[Event]
}

// NewGroupSIS builds a GroupSIS engine over net with constant per-node
// recovery rate recoveryRate and group infection rate infectionRate.
func NewGroupSIS(net *network.BipartiteNetwork, recoveryRate float64, infectionRate RateFunc, wmin, wmax float64) (*GroupSIS, error) {
	sched, err := samplableset.New[Event](wmin, wmax)
	if err != nil {
		return nil, err
	}
	gs := &GroupSIS{
		Engine:        newEngine(net, 2),
		recoveryRate:  recoveryRate,
		infectionRate: infectionRate,
		scheduler:     sched,
	}
	gs.Engine.variant = gs
	for g := 0; g < net.NumberOfGroups(); g++ {
		if err := gs.reweighInfection(network.Group(g)); err != nil {
			return nil, err
		}
	}
	return gs, nil
}

// NewPowerlawGroupSIS is the power-law infection-kernel specialisation:
// λ(n, i) = a·(n−i)·i^b.
func NewPowerlawGroupSIS(net *network.BipartiteNetwork, recoveryRate, a, b, wmin, wmax float64) (*GroupSIS, error) {
	kernel := func(size, infected int) float64 {
		return a * float64(size-infected) * math.Pow(float64(infected), b)
	}
	return NewGroupSIS(net, recoveryRate, kernel, wmin, wmax)
}

func (g *GroupSIS) reweighInfection(group network.Group) error {
	size := g.Network().GroupSize(group)
	inf := g.Roster().Count(group, int(Infected))
	lambda := g.infectionRate(size, inf)
	key := Event{Scope: ScopeGroup, Kind: KindInfection, ID: int(group)}
	return setRate(g.scheduler, key, lambda, "GroupSIS infection rate")
}

// Lifetime returns 1/total scheduler weight, or +Inf when empty.
func (g *GroupSIS) Lifetime() float64 {
	total := g.scheduler.TotalWeight()
	if total == 0 {
		return math.Inf(1)
	}
	return 1 / total
}

// NextEvent samples an Event and dispatches on its (scope, kind).
func (g *GroupSIS) NextEvent() {
	ev, _, err := g.scheduler.Sample(g.RNG())
	if err != nil {
		g.log.WithError(err).Error("sample on empty GroupSIS scheduler")
		return
	}
	switch {
	case ev.Scope == ScopeNode && ev.Kind == KindRecovery:
		if err := g.Recover(network.Node(ev.ID)); err != nil {
			g.log.WithError(err).Error("recover failed in GroupSIS.NextEvent")
		}
	case ev.Scope == ScopeGroup && ev.Kind == KindInfection:
		members := g.Roster().Members(network.Group(ev.ID), int(Susceptible))
		if len(members) == 0 {
			g.log.Errorf("infection drawn for group %d with no susceptible members; infection rate must vanish there", ev.ID)
			return
		}
		n := members[g.uniformInt(len(members))]
		if err := g.Infect(n); err != nil {
			g.log.WithError(err).Error("infect failed in GroupSIS.NextEvent")
		}
	}
	g.log.Debugf("event %s %s id=%d t=%g", ev.Scope, ev.Kind, ev.ID, g.currentTime)
}

// Infect transitions n to Infected, inserts its recovery event, moves it
// in every adjacent group's roster, and reweighs each affected group's
// infection rate.
func (g *GroupSIS) Infect(n network.Node) error {
	if g.state[n] != Susceptible {
		return &InvariantViolationError{Node: int(n), Op: "infect", From: g.state[n].String()}
	}
	g.state[n] = Infected
	g.infected[n] = struct{}{}
	if err := g.scheduler.Insert(Event{Scope: ScopeNode, Kind: KindRecovery, ID: int(n)}, g.recoveryRate); err != nil {
		return err
	}
	for _, grp := range g.Network().AdjacentGroups(n) {
		g.Roster().Move(grp, n, int(Susceptible), int(Infected))
		if err := g.reweighInfection(grp); err != nil {
			return err
		}
	}
	return nil
}

// Recover transitions n to Susceptible, erases its recovery event, moves
// it in every adjacent group's roster, and reweighs each affected
// group's infection rate.
func (g *GroupSIS) Recover(n network.Node) error {
	if g.state[n] != Infected {
		return &InvariantViolationError{Node: int(n), Op: "recover", From: g.state[n].String()}
	}
	g.state[n] = Susceptible
	delete(g.infected, n)
	if err := g.scheduler.Erase(Event{Scope: ScopeNode, Kind: KindRecovery, ID: int(n)}); err != nil {
		return err
	}
	for _, grp := range g.Network().AdjacentGroups(n) {
		g.Roster().Move(grp, n, int(Infected), int(Susceptible))
		if err := g.reweighInfection(grp); err != nil {
			return err
		}
	}
	return nil
}

// ClearScheduler empties the event scheduler.
func (g *GroupSIS) ClearScheduler() { g.scheduler.Clear() }
