package qssa

import "math"

// Event is the outcome of one selection: which channel fired and after how
// long.
type Event struct {
	Reaction int
	Tau      float64
}

// WaitingTime draws the q-exponential waiting time for total propensity sum
// using the uniform variate r1:
//
//	r'  = (1 - (2-q) r1)^((1-q)/(2-q))
//	tau = (1 - r') / ((1-q) sum)
//
// It tends to the classical exponential waiting time as q -> 1.
func WaitingTime(r1, sum, q float64) (float64, error) {
	base := 1 - (2-q)*r1
	rq := math.Pow(base, (1-q)/(2-q))
	tau := (1 - rq) / ((1 - q) * sum)
	if !isFinite(tau) || tau <= 0 || !isFinite(1/tau) {
		return 0, domainErrorf("waiting time %g (r1=%g, q=%g, sum=%g)", tau, r1, q, sum)
	}
	return tau, nil
}

// ChooseReaction performs inverse-CDF selection: it returns the smallest
// channel whose normalized cumulative propensity is >= r2. Channels with zero
// propensity are never chosen; if round-off leaves the last cumulative value
// below r2 the last positive channel wins. Returns -1 only when no channel
// has positive propensity.
func ChooseReaction(r2 float64, props Propensities) int {
	cum := 0.0
	last := -1
	for k, p := range props.Values {
		if p <= 0 {
			continue
		}
		last = k
		cum += p
		if cum/props.Sum >= r2 {
			return k
		}
	}
	return last
}

// SelectReaction combines WaitingTime and ChooseReaction. A non-positive
// total propensity yields ErrNoReaction.
func SelectReaction(r1, r2 float64, props Propensities, q float64) (Event, error) {
	if !(props.Sum > 0) {
		return Event{Reaction: -1}, ErrNoReaction
	}
	tau, err := WaitingTime(r1, props.Sum, q)
	if err != nil {
		return Event{Reaction: -1}, err
	}
	k := ChooseReaction(r2, props)
	if k < 0 {
		return Event{Reaction: -1}, ErrNoReaction
	}
	return Event{Reaction: k, Tau: tau}, nil
}
