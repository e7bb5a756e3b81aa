package engine

import (
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// seed re-creates the engine's random source. The engine owns exactly
// one RNG: the scheduler and every derived distribution share it, passed
// explicitly on each call that needs randomness, so no package-level
// mutable RNG exists anywhere.
func (e *Engine) seed(s uint32) {
	e.rng = rand.New(rand.NewSource(int64(s)))
}

// uniform01 draws a float64 in [0, 1) from the engine's own RNG.
func (e *Engine) uniform01() float64 {
	u := distuv.Uniform{Min: 0, Max: 1, Src: e.rng}
	return u.Rand()
}

// poissonDraw samples a Poisson(lambda) count from the engine's own RNG.
// gonum's distuv.Poisson divides by Lambda internally and misbehaves at
// Lambda == 0, so the zero case is short-circuited here rather than left
// to the library.
func (e *Engine) poissonDraw(lambda float64) int {
	if lambda <= 0 {
		return 0
	}
	p := distuv.Poisson{Lambda: lambda, Src: e.rng}
	return int(p.Rand())
}

// uniformInt draws an integer in [0, n) from the engine's own RNG.
func (e *Engine) uniformInt(n int) int {
	return e.rng.Intn(n)
}
