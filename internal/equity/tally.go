package equity

import "math"

// Tally accumulates trial outcomes. Tallies merge by addition, so shards can
// be combined in any order.
type Tally struct {
	Wins   int
	Ties   int
	Losses int
}

// Add records one outcome.
func (t Tally) Add(o Outcome) Tally {
	switch o {
	case Win:
		t.Wins++
	case Tie:
		t.Ties++
	default:
		t.Losses++
	}
	return t
}

// Merge sums two tallies.
func (t Tally) Merge(other Tally) Tally {
	return Tally{
		Wins:   t.Wins + other.Wins,
		Ties:   t.Ties + other.Ties,
		Losses: t.Losses + other.Losses,
	}
}

// Trials is the number of outcomes recorded.
func (t Tally) Trials() int {
	return t.Wins + t.Ties + t.Losses
}

// Weighted is the summed outcome weight (2 per win, 1 per tie).
func (t Tally) Weighted() int {
	return Win.Weight()*t.Wins + Tie.Weight()*t.Ties
}

// Equity returns Weighted / (2 * Trials), which always lies in [0, 1].
func (t Tally) Equity() float64 {
	n := t.Trials()
	if n == 0 {
		return 0
	}
	return float64(t.Weighted()) / float64(2*n)
}

// ConfidenceInterval returns the 95% confidence interval for equity
func (t Tally) ConfidenceInterval() (lower, upper float64) {
	n := float64(t.Trials())
	if n == 0 {
		return 0, 0
	}
	equity := t.Equity()
	margin := 1.96 * math.Sqrt(equity*(1-equity)/n)
	return math.Max(0, equity-margin), math.Min(1, equity+margin)
}
