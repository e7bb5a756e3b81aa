package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/onge-labs/hocsim/network"
)

func TestInfect_RejectsAlreadyInfectedNode(t *testing.T) {
	net := fullyConnectedGroup(4)
	sis, err := NewContinuousSIS(net, LinearInfectedRate(0, 1), LinearInfectedRate(0, 1), 0.5, 10)
	assert.NoError(t, err)

	assert.NoError(t, sis.Infect(0))
	err = sis.Infect(0)
	assert.Error(t, err)
	var violation *InvariantViolationError
	assert.ErrorAs(t, err, &violation)
}

func TestRecover_RejectsSusceptibleNode(t *testing.T) {
	net := fullyConnectedGroup(4)
	sis, err := NewContinuousSIS(net, LinearInfectedRate(0, 1), LinearInfectedRate(0, 1), 0.5, 10)
	assert.NoError(t, err)

	err = sis.Recover(0)
	assert.Error(t, err)
	var violation *InvariantViolationError
	assert.ErrorAs(t, err, &violation)
}

func TestReset_ThenInfectNobody_EvolveOnlyAdvancesTime(t *testing.T) {
	// GIVEN an engine that was previously infected and then reset
	net := fullyConnectedGroup(5)
	sis, err := NewContinuousSIS(net, LinearInfectedRate(0, 1), LinearInfectedRate(0, 2), 0.5, 20)
	assert.NoError(t, err)
	assert.NoError(t, sis.InfectFraction(1.0))
	assert.NoError(t, sis.Reset())

	// WHEN infect_fraction(0) then evolve(t)
	assert.NoError(t, sis.InfectFraction(0))
	assert.NoError(t, sis.Evolve(42, 1, false, false))

	// THEN nothing changed except current_time
	assert.Equal(t, 42.0, sis.GetCurrentTime())
	assert.Equal(t, 0, sis.NumberOfInfectedNodes())
}

func TestInfectFraction_InfectsExactCount(t *testing.T) {
	net := fullyConnectedGroup(20)
	sis, err := NewContinuousSIS(net, LinearInfectedRate(0, 1), LinearInfectedRate(0, 1), 0.5, 50)
	assert.NoError(t, err)

	assert.NoError(t, sis.InfectFraction(0.25))
	assert.Equal(t, 5, sis.NumberOfInfectedNodes())
}

func TestInfectNodeSet_SkipsAlreadyInfected(t *testing.T) {
	net := fullyConnectedGroup(5)
	sis, err := NewContinuousSIS(net, LinearInfectedRate(0, 1), LinearInfectedRate(0, 1), 0.5, 20)
	assert.NoError(t, err)

	assert.NoError(t, sis.Infect(1))
	assert.NoError(t, sis.InfectNodeSet([]network.Node{1, 2}))
	assert.Equal(t, 2, sis.NumberOfInfectedNodes())
}

func TestClear_ThenReinfectingRestoresEquivalentState(t *testing.T) {
	net := fullyConnectedGroup(6)
	sis, err := NewContinuousSIS(net, LinearInfectedRate(0, 1), LinearInfectedRate(0, 1), 0.5, 20)
	assert.NoError(t, err)

	seedSet := []network.Node{0, 2, 4}
	assert.NoError(t, sis.InfectNodeSet(seedSet))
	before := sis.GetNodeStateVector()
	totalBefore := sis.scheduler.TotalWeight()

	assert.NoError(t, sis.Clear())
	assert.Equal(t, 0, sis.NumberOfInfectedNodes())
	assert.Equal(t, 0.0, sis.scheduler.TotalWeight())

	assert.NoError(t, sis.InfectNodeSet(seedSet))
	assert.Equal(t, before, sis.GetNodeStateVector())
	assert.InDelta(t, totalBefore, sis.scheduler.TotalWeight(), 1e-9)
}

func TestInfect_SurfacesOutOfRangeRate(t *testing.T) {
	// the declared envelope does not cover the rate at one infected member
	net := fullyConnectedGroup(4)
	sis, err := NewContinuousSIS(net, ConstantRate(0), LinearInfectedRate(0, 100), 0.5, 20)
	assert.NoError(t, err)

	err = sis.Infect(0)
	assert.Error(t, err)
	var oor *OutOfRangeError
	assert.ErrorAs(t, err, &oor)
	assert.Equal(t, 100.0, oor.Value)
	assert.Equal(t, 0.5, oor.Wmin)
	assert.Equal(t, 20.0, oor.Wmax)
}

func TestEvolve_QuasiStationaryAfterResetNeedsHistory(t *testing.T) {
	net := fullyConnectedGroup(4)
	sis, err := NewContinuousSIS(net, LinearInfectedRate(0, 1), ConstantRate(0), 0.5, 20)
	assert.NoError(t, err)
	assert.NoError(t, sis.Reset())

	assert.NoError(t, sis.Infect(0))
	err = sis.Evolve(100, 1, false, true)
	assert.Error(t, err, "absorption with an emptied history buffer cannot restore")
}

func TestGetNodeStateVector_ReturnsACopy(t *testing.T) {
	net := fullyConnectedGroup(3)
	sis, err := NewContinuousSIS(net, LinearInfectedRate(0, 1), LinearInfectedRate(0, 1), 0.5, 20)
	assert.NoError(t, err)
	assert.NoError(t, sis.Infect(0))

	states := sis.GetNodeStateVector()
	states[0] = Susceptible

	assert.Equal(t, Infected, sis.StateOf(0))
}
