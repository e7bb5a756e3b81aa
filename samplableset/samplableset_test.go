package samplableset

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInsertAndTotalWeight(t *testing.T) {
	s, err := New[string](1, 100)
	assert.NoError(t, err)

	assert.NoError(t, s.Insert("a", 5))
	assert.NoError(t, s.Insert("b", 10))
	assert.Equal(t, 2, s.Size())
	assert.InDelta(t, 15.0, s.TotalWeight(), 1e-9)
}

func TestInsert_RejectsDuplicateKey(t *testing.T) {
	s, _ := New[string](1, 100)
	assert.NoError(t, s.Insert("a", 5))

	err := s.Insert("a", 6)
	assert.Error(t, err)
	var invalid *InvalidOperationError
	assert.ErrorAs(t, err, &invalid)
}

func TestInsert_RejectsWeightOutsideEnvelope(t *testing.T) {
	s, _ := New[string](1, 100)
	err := s.Insert("a", 200)
	assert.Error(t, err)
}

func TestErase_RemovesKeyAndUpdatesTotal(t *testing.T) {
	s, _ := New[string](1, 100)
	_ = s.Insert("a", 5)
	_ = s.Insert("b", 10)

	assert.NoError(t, s.Erase("a"))
	assert.Equal(t, 1, s.Size())
	assert.InDelta(t, 10.0, s.TotalWeight(), 1e-9)
	assert.False(t, s.Contains("a"))
}

func TestErase_FailsOnAbsentKey(t *testing.T) {
	s, _ := New[string](1, 100)
	err := s.Erase("missing")
	assert.Error(t, err)
}

func TestSetWeight_MovesBetweenBins(t *testing.T) {
	s, _ := New[string](1, 1000)
	_ = s.Insert("a", 2)

	assert.NoError(t, s.SetWeight("a", 500))
	w, present := s.Weight("a")
	assert.True(t, present)
	assert.InDelta(t, 500.0, w, 1e-9)
	assert.InDelta(t, 500.0, s.TotalWeight(), 1e-9)
}

func TestSetWeight_FailsOnAbsentKey(t *testing.T) {
	s, _ := New[string](1, 100)
	err := s.SetWeight("missing", 5)
	assert.Error(t, err)
}

func TestSample_EmptySetFails(t *testing.T) {
	s, _ := New[string](1, 100)
	_, _, err := s.Sample(rand.New(rand.NewSource(1)))
	assert.Error(t, err)
	var empty *EmptySetError
	assert.ErrorAs(t, err, &empty)
}

func TestSample_OnlyReturnsInsertedKeys(t *testing.T) {
	s, _ := New[string](1, 100)
	_ = s.Insert("a", 1)
	_ = s.Insert("b", 50)
	_ = s.Insert("c", 99)

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		k, w, err := s.Sample(rng)
		assert.NoError(t, err)
		assert.Contains(t, []string{"a", "b", "c"}, k)
		assert.Greater(t, w, 0.0)
	}
}

func TestSample_WeightedFrequencyConvergesApproximately(t *testing.T) {
	// GIVEN one very heavy key and one very light key
	s, _ := New[string](1, 1000)
	_ = s.Insert("heavy", 900)
	_ = s.Insert("light", 1)

	rng := rand.New(rand.NewSource(42))
	heavyCount := 0
	const trials = 5000
	for i := 0; i < trials; i++ {
		k, _, err := s.Sample(rng)
		assert.NoError(t, err)
		if k == "heavy" {
			heavyCount++
		}
	}

	// THEN the heavy key dominates the draws, within a loose band —
	// this is a statistical property, not an exact one
	frac := float64(heavyCount) / float64(trials)
	assert.Greater(t, frac, 0.85)
}

func TestEnvelopeAccessors(t *testing.T) {
	s, err := New[int](0.25, 64)
	assert.NoError(t, err)
	assert.Equal(t, 0.25, s.Wmin())
	assert.Equal(t, 64.0, s.Wmax())
}

func TestNew_RejectsInvalidEnvelope(t *testing.T) {
	_, err := New[int](0, 10)
	assert.Error(t, err)
	_, err = New[int](5, 5)
	assert.Error(t, err)
}

func TestTotalWeight_StaysAccurateUnderManyUpdates(t *testing.T) {
	// GIVEN a set churned through thousands of inserts, updates and erases
	s, _ := New[int](1, 1000)
	rng := rand.New(rand.NewSource(9))
	weights := make(map[int]float64)
	for i := 0; i < 5000; i++ {
		k := rng.Intn(200)
		w := 1 + rng.Float64()*999
		if _, present := weights[k]; present {
			if rng.Float64() < 0.3 {
				assert.NoError(t, s.Erase(k))
				delete(weights, k)
			} else {
				assert.NoError(t, s.SetWeight(k, w))
				weights[k] = w
			}
		} else {
			assert.NoError(t, s.Insert(k, w))
			weights[k] = w
		}
	}

	// THEN the incrementally maintained total matches an exact re-sum
	exact := 0.0
	for _, w := range weights {
		exact += w
	}
	assert.InDelta(t, exact, s.TotalWeight(), 1e-9*5000)
	assert.Equal(t, len(weights), s.Size())
}

func TestClear_RemovesAllEntries(t *testing.T) {
	s, _ := New[string](1, 100)
	_ = s.Insert("a", 5)
	_ = s.Insert("b", 10)

	s.Clear()
	assert.Equal(t, 0, s.Size())
	assert.Equal(t, 0.0, s.TotalWeight())
	assert.False(t, s.Contains("a"))
}
