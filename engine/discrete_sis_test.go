package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiscreteSIS_LifetimeIsUnitWhileInfected(t *testing.T) {
	net := fullyConnectedGroup(10)
	d, err := NewDiscreteSIS(net, 0.1, ConstantProbability(0.05), 0.01, 10)
	assert.NoError(t, err)

	assert.True(t, math.IsInf(d.Lifetime(), 1))

	assert.NoError(t, d.Infect(0))
	assert.Equal(t, 1.0, d.Lifetime())
}

func TestPropensity_ConvertsProbabilityToIntensity(t *testing.T) {
	p := propensity(0.1)
	assert.InDelta(t, -math.Log(0.9), p, 1e-12)
}
