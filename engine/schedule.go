package engine

import "github.com/onge-labs/hocsim/samplableset"

// setRate reconciles one scheduler entry with a freshly computed rate:
// a zero rate erases the key, a positive rate inserts or updates it. A
// rate outside the scheduler's declared envelope surfaces as an
// *OutOfRangeError carrying context, since it means a user-supplied
// rate function escaped the (wmin, wmax) the caller promised.
func setRate[K comparable](sched *samplableset.Set[K], key K, w float64, context string) error {
	if w == 0 {
		if sched.Contains(key) {
			return sched.Erase(key)
		}
		return nil
	}
	if w < sched.Wmin() || w > sched.Wmax() {
		return &OutOfRangeError{Value: w, Wmin: sched.Wmin(), Wmax: sched.Wmax(), Context: context}
	}
	if sched.Contains(key) {
		return sched.SetWeight(key, w)
	}
	return sched.Insert(key, w)
}
