// Package engine implements the shared evolve/measure/quasi-stationary
// loop that every contagion process variant specializes, plus the
// variants themselves (ContinuousSIS, GroupSIS, ContinuousSIR,
// DiscreteSIS, HeterogeneousExposure).
package engine

import (
	"errors"
	"math"
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/onge-labs/hocsim/network"
	"github.com/onge-labs/hocsim/roster"
)

// NodeState is the epidemiological state of a node.
type NodeState int

const (
	Susceptible NodeState = iota
	Infected
	Recovered
)

func (s NodeState) String() string {
	switch s {
	case Susceptible:
		return "S"
	case Infected:
		return "I"
	case Recovered:
		return "R"
	default:
		return "?"
	}
}

// Variant is the capability set the shared evolve loop drives. Concrete
// process types (ContinuousSIS, GroupSIS, ContinuousSIR, DiscreteSIS,
// HeterogeneousExposure) embed *Engine and implement Variant by closing
// over it; there is no class hierarchy.
type Variant interface {
	// Lifetime returns the expected time to the next event: 1/total
	// weight for continuous-time variants, 1 for discrete-time
	// variants, +Inf when no event is currently possible.
	Lifetime() float64
	// NextEvent draws and applies exactly one event (or, for
	// discrete-time variants, one full step), advancing state. Evolve
	// sets lastEventTime and currentTime to the event instant before
	// calling it.
	NextEvent()
	// Infect transitions n from Susceptible to Infected, moving it in
	// every adjacent group's roster and recomputing affected rates.
	Infect(n network.Node) error
	// Recover transitions n out of Infected (to Susceptible or, for
	// SIR, to Recovered), moving it in every adjacent group's roster
	// and recomputing affected rates.
	Recover(n network.Node) error
	// ClearScheduler empties the variant's own samplable set(s),
	// bounding floating-point accumulation drift.
	ClearScheduler()
}

// Engine is the shared simulation state: the network, the per-group
// roster, the global state vector, the infected set, the QS history
// buffer, time bookkeeping, the owned RNG, and the registered
// measurement hooks. It is driven by a Variant supplied at construction.
type Engine struct {
	net     *network.BipartiteNetwork
	roster  *roster.Roster
	variant Variant

	numStates int
	state     []NodeState
	infected  map[network.Node]struct{}

	history []map[network.Node]struct{}

	currentTime          float64
	lastEventTime        float64
	timeSinceLastMeasure float64

	rng *rand.Rand

	hooks []MeasurementHook

	log *logrus.Entry
}

// newEngine builds the shared state common to every variant. numStates
// is 2 for SIS-family variants and 3 for SIR. Concrete variant
// constructors call this, build their own scheduler(s), then set e.variant.
func newEngine(net *network.BipartiteNetwork, numStates int) *Engine {
	e := &Engine{
		net:       net,
		numStates: numStates,
		state:     make([]NodeState, net.Size()),
		infected:  make(map[network.Node]struct{}),
		rng:       rand.New(rand.NewSource(1)),
		log:       logrus.WithField("component", "engine"),
	}
	e.roster = roster.New(net, numStates, func(n network.Node) int { return int(e.state[n]) })
	e.initializeHistory(100)
	return e
}

// Network returns the engine's bipartite network.
func (e *Engine) Network() *network.BipartiteNetwork { return e.net }

// Size returns N, the number of nodes in the underlying network.
func (e *Engine) Size() int { return e.net.Size() }

// NumberOfInfectedNodes returns the current size of the infected set.
func (e *Engine) NumberOfInfectedNodes() int { return len(e.infected) }

// GetInfectedNodeSet returns a snapshot slice of currently infected nodes.
func (e *Engine) GetInfectedNodeSet() []network.Node {
	out := make([]network.Node, 0, len(e.infected))
	for n := range e.infected {
		out = append(out, n)
	}
	return out
}

// GetNodeStateVector returns a copy of the per-node state vector.
func (e *Engine) GetNodeStateVector() []NodeState {
	out := make([]NodeState, len(e.state))
	copy(out, e.state)
	return out
}

// StateOf returns the current state of node n.
func (e *Engine) StateOf(n network.Node) NodeState { return e.state[n] }

// GetCurrentTime returns the engine's simulated-time cursor.
func (e *Engine) GetCurrentTime() float64 { return e.currentTime }

// GetLifetime returns the variant's current expected time to next event.
func (e *Engine) GetLifetime() float64 { return e.variant.Lifetime() }

// Roster exposes the engine's per-group roster to variant implementations
// in this package. Not part of the public external surface.
func (e *Engine) Roster() *roster.Roster { return e.roster }

// RNG exposes the engine's owned random source to variant implementations
// in this package, e.g. for passing into a samplableset.Set.Sample call.
func (e *Engine) RNG() *rand.Rand { return e.rng }

// Seed re-seeds the engine's RNG. It is the sole mutator of RNG state.
func (e *Engine) Seed(s uint32) { e.seed(s) }

// AddMeasure registers a measurement hook to be invoked by evolve.
func (e *Engine) AddMeasure(h MeasurementHook) { e.hooks = append(e.hooks, h) }

// GetMeasureVector returns the engine's registered measurement hooks.
func (e *Engine) GetMeasureVector() []MeasurementHook { return e.hooks }

// InfectFraction infects floor(f*N) distinct susceptible nodes chosen
// uniformly at random, re-drawing on collision with an already-chosen or
// already-infected node.
func (e *Engine) InfectFraction(f float64) error {
	target := int(f * float64(e.net.Size()))
	chosen := make(map[network.Node]struct{}, target)
	for len(chosen) < target {
		n := network.Node(e.uniformInt(e.net.Size()))
		if e.state[n] != Susceptible {
			continue
		}
		if _, already := chosen[n]; already {
			continue
		}
		chosen[n] = struct{}{}
		if err := e.variant.Infect(n); err != nil {
			return err
		}
	}
	return nil
}

// InfectNodeSet infects every node in set currently susceptible;
// non-susceptible entries are silently skipped.
func (e *Engine) InfectNodeSet(set []network.Node) error {
	for _, n := range set {
		if e.state[n] != Susceptible {
			continue
		}
		if err := e.variant.Infect(n); err != nil {
			return err
		}
	}
	return nil
}

// Clear recovers every currently infected node and clears the variant's
// scheduler(s) to bound floating-point drift.
func (e *Engine) Clear() error {
	for n := range copyInfectedSet(e.infected) {
		if err := e.variant.Recover(n); err != nil {
			return err
		}
	}
	e.variant.ClearScheduler()
	return nil
}

func copyInfectedSet(s map[network.Node]struct{}) map[network.Node]struct{} {
	out := make(map[network.Node]struct{}, len(s))
	for n := range s {
		out[n] = struct{}{}
	}
	return out
}

// Reset clears the engine, clears every measurement hook, empties the
// history buffer and zeroes all time counters.
func (e *Engine) Reset() error {
	if err := e.Clear(); err != nil {
		return err
	}
	for _, h := range e.hooks {
		h.Clear()
	}
	e.history = nil
	e.currentTime, e.lastEventTime, e.timeSinceLastMeasure = 0, 0, 0
	return nil
}

// initializeHistory replaces the history buffer with K copies of the
// current infected set. newEngine calls it with K=100, so the buffer
// exists from construction, but its snapshots are then empty; a QS
// restore only yields a non-absorbed configuration once it is called
// again after initial infections are seeded.
func (e *Engine) initializeHistory(k int) {
	e.history = make([]map[network.Node]struct{}, k)
	for i := range e.history {
		e.history[i] = copyInfectedSet(e.infected)
	}
}

// InitializeHistory is the public form of initializeHistory.
func (e *Engine) InitializeHistory(k int) { e.initializeHistory(k) }

// storeConfiguration replaces a uniformly chosen history slot with the
// current infected set. A no-op when the buffer was emptied by Reset and
// never re-initialized.
func (e *Engine) storeConfiguration() {
	if len(e.history) == 0 {
		return
	}
	i := e.uniformInt(len(e.history))
	e.history[i] = copyInfectedSet(e.infected)
}

// restoreFromHistory clears the engine then re-infects a uniformly
// chosen historical configuration.
func (e *Engine) restoreFromHistory() error {
	if len(e.history) == 0 {
		return errors.New("engine: quasi-stationary restore with an empty history buffer; call InitializeHistory first")
	}
	if err := e.Clear(); err != nil {
		return err
	}
	snap := e.history[e.uniformInt(len(e.history))]
	for n := range snap {
		if err := e.variant.Infect(n); err != nil {
			return err
		}
	}
	e.log.Warnf("quasi-stationary restore at t=%g", e.currentTime)
	return nil
}

// Evolve advances simulated time by exactly period, firing events drawn
// from the variant's scheduler, invoking measurement hooks between
// events when measure is true, and preventing absorption via the
// quasi-stationary machinery when quasistationary is true.
func (e *Engine) Evolve(period float64, decorrelationTime float64, measure bool, quasistationary bool) error {
	t0 := e.currentTime
	delta := e.variant.Lifetime()

	for e.lastEventTime+delta-t0 < period {
		dt := e.lastEventTime + delta - e.currentTime
		e.timeSinceLastMeasure += dt

		if e.timeSinceLastMeasure > decorrelationTime {
			e.timeSinceLastMeasure -= decorrelationTime
			if measure {
				for _, h := range e.hooks {
					h.Measure(e)
				}
			}
			if quasistationary {
				e.storeConfiguration()
			}
		}

		eventTime := e.lastEventTime + delta
		e.currentTime = eventTime
		e.lastEventTime = eventTime
		e.variant.NextEvent()
		delta = e.variant.Lifetime()

		if quasistationary && math.IsInf(delta, 1) {
			if err := e.restoreFromHistory(); err != nil {
				return err
			}
			delta = e.variant.Lifetime()
			if math.IsInf(delta, 1) {
				return errors.New("engine: quasi-stationary restore produced an absorbed configuration; initialize the history after seeding infections")
			}
		}
	}

	e.timeSinceLastMeasure += period - (e.lastEventTime - t0)
	if e.timeSinceLastMeasure > decorrelationTime {
		e.timeSinceLastMeasure -= decorrelationTime
		if measure {
			for _, h := range e.hooks {
				h.Measure(e)
			}
		}
		if quasistationary {
			e.storeConfiguration()
		}
	}
	e.currentTime = t0 + period
	return nil
}
