package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/onge-labs/hocsim/network"
)

// measurableSIS builds a small SIS engine with two of five nodes infected,
// ready for hooks to observe.
func measurableSIS(t *testing.T) *ContinuousSIS {
	t.Helper()
	net := fullyConnectedGroup(5)
	sis, err := NewContinuousSIS(net, LinearInfectedRate(0, 1), LinearInfectedRate(0, 1), 0.5, 20)
	assert.NoError(t, err)
	assert.NoError(t, sis.InfectNodeSet([]network.Node{0, 1}))
	return sis
}

func TestPrevalence_AveragesOverMeasurementPoints(t *testing.T) {
	sis := measurableSIS(t)
	p := NewPrevalence()

	p.Measure(sis.Engine)
	assert.NoError(t, sis.Recover(1))
	p.Measure(sis.Engine)

	// (2/5 + 1/5) / 2
	assert.InDelta(t, 0.3, p.Result().(float64), 1e-12)
}

func TestPrevalence_ResultIsZeroBeforeAnyMeasurement(t *testing.T) {
	p := NewPrevalence()
	assert.Equal(t, 0.0, p.Result())
}

func TestPrevalence_ClearResetsAccumulator(t *testing.T) {
	sis := measurableSIS(t)
	p := NewPrevalence()
	p.Measure(sis.Engine)

	p.Clear()
	assert.Equal(t, 0.0, p.Result())
}

func TestMarginalInfectionProbability_CountsPerNode(t *testing.T) {
	sis := measurableSIS(t)
	m := NewMarginalInfectionProbability(sis.Size())

	m.Measure(sis.Engine)
	assert.NoError(t, sis.Recover(1))
	m.Measure(sis.Engine)

	probs := m.Result().([]float64)
	assert.InDelta(t, 1.0, probs[0], 1e-12)
	assert.InDelta(t, 0.5, probs[1], 1e-12)
	assert.InDelta(t, 0.0, probs[2], 1e-12)
}

func TestInfectiousSet_SnapshotsAreIndependentOfLaterMutation(t *testing.T) {
	sis := measurableSIS(t)
	hook := NewInfectiousSet()

	hook.Measure(sis.Engine)
	assert.NoError(t, sis.Recover(0))
	assert.NoError(t, sis.Recover(1))
	hook.Measure(sis.Engine)

	snapshots := hook.Result().([][]network.Node)
	assert.Len(t, snapshots, 2)
	assert.Len(t, snapshots[0], 2)
	assert.Empty(t, snapshots[1])
}

func TestTimeHook_RecordsInstants(t *testing.T) {
	net := fullyConnectedGroup(5)
	infection := func(size, infected int) float64 {
		return 0.5 * float64(infected) * float64(size-infected)
	}
	sis, err := NewContinuousSIS(net, LinearInfectedRate(0, 1), infection, 0.5, 20)
	assert.NoError(t, err)
	sis.Seed(5)
	assert.NoError(t, sis.InfectNodeSet([]network.Node{0, 1}))
	timeHook := NewTime()
	sis.AddMeasure(timeHook)

	assert.NoError(t, sis.Evolve(10, 1, true, false))

	instants := timeHook.Result().([]float64)
	assert.NotEmpty(t, instants)
	prev := -1.0
	for _, instant := range instants {
		assert.GreaterOrEqual(t, instant, prev, "measurement instants must be non-decreasing")
		assert.LessOrEqual(t, instant, 10.0)
		prev = instant
	}
}

func TestHookNames(t *testing.T) {
	assert.Equal(t, "prevalence", NewPrevalence().Name())
	assert.Equal(t, "marginal_infection_probability", NewMarginalInfectionProbability(1).Name())
	assert.Equal(t, "infectious_set", NewInfectiousSet().Name())
	assert.Equal(t, "time", NewTime().Name())
}

func TestReset_ClearsRegisteredHooks(t *testing.T) {
	sis := measurableSIS(t)
	p := NewPrevalence()
	sis.AddMeasure(p)
	p.Measure(sis.Engine)

	assert.NoError(t, sis.Reset())

	assert.Equal(t, 0.0, p.Result())
	assert.Len(t, sis.GetMeasureVector(), 1, "reset clears accumulators but keeps the hook registered")
}
