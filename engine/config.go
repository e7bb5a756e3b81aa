package engine

// Rate and probability shape helpers let CLI and test callers build the
// RateFunc/ProbabilityFunc closures the variant constructors expect from
// a handful of scalar parameters, so raw callables are not the only
// entry point.

// ConstantRate returns a RateFunc that ignores (size, infected) and
// always returns v.
func ConstantRate(v float64) RateFunc {
	return func(size, infected int) float64 { return v }
}

// LinearInfectedRate returns a RateFunc shaped base + perInfected·i,
// a simple mean-field complex-contagion kernel.
func LinearInfectedRate(base, perInfected float64) RateFunc {
	return func(size, infected int) float64 { return base + perInfected*float64(infected) }
}

// ConstantProbability returns a ProbabilityFunc that ignores (size,
// infected) and always returns p, clamped to [0, 1).
func ConstantProbability(p float64) ProbabilityFunc {
	if p < 0 {
		p = 0
	}
	if p >= 1 {
		p = 0.999999
	}
	return func(size, infected int) float64 { return p }
}

// LinearInfectedProbability returns a ProbabilityFunc shaped
// base + perInfected·i, clamped to [0, 1) so propensity() never takes
// log(0) or log of a negative number.
func LinearInfectedProbability(base, perInfected float64) ProbabilityFunc {
	return func(size, infected int) float64 {
		p := base + perInfected*float64(infected)
		if p < 0 {
			p = 0
		}
		if p >= 1 {
			p = 0.999999
		}
		return p
	}
}

// ConstantTransmission builds a per-group transmission-rate vector with
// every entry equal to v, for callers without a reason to vary
// transmissibility by group.
func ConstantTransmission(numGroups int, v float64) []float64 {
	out := make([]float64, numGroups)
	for i := range out {
		out[i] = v
	}
	return out
}
