package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstantRate_IgnoresArguments(t *testing.T) {
	r := ConstantRate(3.5)
	assert.Equal(t, 3.5, r(10, 0))
	assert.Equal(t, 3.5, r(2, 2))
}

func TestLinearInfectedRate_ScalesWithInfectedCount(t *testing.T) {
	r := LinearInfectedRate(1, 0.5)
	assert.InDelta(t, 1.0, r(10, 0), 1e-12)
	assert.InDelta(t, 3.0, r(10, 4), 1e-12)
}

func TestLinearInfectedProbability_ClampsToValidRange(t *testing.T) {
	p := LinearInfectedProbability(-0.5, 0.2)
	assert.Equal(t, 0.0, p(10, 0), "negative probabilities clamp to zero")
	assert.Less(t, p(10, 100), 1.0, "probabilities stay below one so propensity() is finite")
}

func TestConstantTransmission_FillsEveryGroup(t *testing.T) {
	tau := ConstantTransmission(4, 0.25)
	assert.Len(t, tau, 4)
	for _, v := range tau {
		assert.Equal(t, 0.25, v)
	}
}

func TestComputeRateEnvelope_ScansKernelOverReachableStates(t *testing.T) {
	kernel := func(size, infected int) float64 {
		return float64(infected) * float64(size-infected)
	}

	wmin, wmax := ComputeRateEnvelope(kernel, []int{4, 10})

	// smallest positive value is i=1, n=4 -> 3; largest is i=5, n=10 -> 25
	assert.InDelta(t, 3.0, wmin, 1e-12)
	assert.InDelta(t, 25.0, wmax, 1e-12)
}

func TestComputeRateEnvelope_DegenerateKernelYieldsUnitEnvelope(t *testing.T) {
	wmin, wmax := ComputeRateEnvelope(ConstantRate(0), []int{5})
	assert.Equal(t, 1.0, wmin)
	assert.Equal(t, 1.0, wmax)
}
