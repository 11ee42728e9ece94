package statistics

import (
	"math"
	"sort"

	"github.com/pkg/errors"
)

// Seat is our blind position in a round.
type Seat int

const (
	SmallBlind Seat = iota
	BigBlind
)

func (s Seat) String() string {
	if s == BigBlind {
		return "big blind"
	}
	return "small blind"
}

// Round is the outcome of one round from our side of the table.
type Round struct {
	Delta    int  // chips won or lost
	BigBlind int  // big blind size, for normalising
	Seat     Seat // our position this round
	Showdown bool // opponent cards were revealed
	Street   int  // street the round ended on (0, 3, 4, 5)
	// Auction is nil when the round ended before the auction resolved.
	Auction *bool
}

// NetBB is Delta in big blinds.
func (r Round) NetBB() float64 {
	if r.BigBlind <= 0 {
		return float64(r.Delta)
	}
	return float64(r.Delta) / float64(r.BigBlind)
}

// Bucket accumulates results for one slice of the match.
type Bucket struct {
	Rounds int
	SumBB  float64
	SumBB2 float64
}

func (b *Bucket) add(bb float64) {
	b.Rounds++
	b.SumBB += bb
	b.SumBB2 += bb * bb
}

// Mean is the average result in big blinds per round.
func (b Bucket) Mean() float64 {
	if b.Rounds == 0 {
		return 0
	}
	return b.SumBB / float64(b.Rounds)
}

// Statistics tracks the results of one match.
type Statistics struct {
	Rounds int
	SumBB  float64
	SumBB2 float64   // sum of squares for variance
	Values []float64 // every result, for median and percentiles

	ShowdownWins    int
	NonShowdownWins int
	ShowdownBB      float64
	NonShowdownBB   float64
	AllBB           float64

	Seats    [2]Bucket // indexed by Seat
	Streets  [6]Bucket // indexed by street; only 0, 3, 4 and 5 are used
	Auctions struct {
		Won  Bucket
		Lost Bucket
	}

	BiggestWin  int
	BiggestLoss int
}

// Add incorporates one round.
func (s *Statistics) Add(r Round) {
	bb := r.NetBB()
	s.Rounds++
	s.SumBB += bb
	s.SumBB2 += bb * bb
	s.Values = append(s.Values, bb)

	if bb > 0 {
		if r.Showdown {
			s.ShowdownWins++
		} else {
			s.NonShowdownWins++
		}
	}
	if r.Showdown {
		s.ShowdownBB += bb
	} else {
		s.NonShowdownBB += bb
	}
	s.AllBB += bb

	if r.Seat == SmallBlind || r.Seat == BigBlind {
		s.Seats[r.Seat].add(bb)
	}
	if r.Street >= 0 && r.Street < len(s.Streets) {
		s.Streets[r.Street].add(bb)
	}
	if r.Auction != nil {
		if *r.Auction {
			s.Auctions.Won.add(bb)
		} else {
			s.Auctions.Lost.add(bb)
		}
	}

	s.BiggestWin = max(s.BiggestWin, r.Delta)
	s.BiggestLoss = min(s.BiggestLoss, r.Delta)
}

// Mean returns the average result in big blinds per round.
func (s *Statistics) Mean() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.SumBB / float64(s.Rounds)
}

// BBPer100 is the win rate in big blinds per hundred rounds.
func (s *Statistics) BBPer100() float64 {
	return s.Mean() * 100
}

// Variance returns the sample variance.
func (s *Statistics) Variance() float64 {
	if s.Rounds < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumBB2 - float64(s.Rounds)*mean*mean) / float64(s.Rounds-1)
}

func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean.
func (s *Statistics) StdError() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Rounds))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean.
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Median returns the median result.
func (s *Statistics) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the linearly interpolated value at p in [0, 1].
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// IsLedgerBalanced checks that showdown and non-showdown results add up.
func (s *Statistics) IsLedgerBalanced() bool {
	return math.Abs(s.AllBB-s.ShowdownBB-s.NonShowdownBB) <= 1e-6
}

// Validate checks the internal accounting.
func (s *Statistics) Validate() error {
	if !s.IsLedgerBalanced() {
		return errors.Errorf("ledger mismatch: all=%.6f showdown=%.6f non-showdown=%.6f",
			s.AllBB, s.ShowdownBB, s.NonShowdownBB)
	}
	if len(s.Values) != s.Rounds {
		return errors.Errorf("%d values for %d rounds", len(s.Values), s.Rounds)
	}
	if wins := s.ShowdownWins + s.NonShowdownWins; wins > s.Rounds {
		return errors.Errorf("%d wins in %d rounds", wins, s.Rounds)
	}
	if seated := s.Seats[SmallBlind].Rounds + s.Seats[BigBlind].Rounds; seated != s.Rounds {
		return errors.Errorf("seat rounds %d do not match %d rounds", seated, s.Rounds)
	}
	return nil
}

// Clone returns a deep copy.
func (s *Statistics) Clone() *Statistics {
	c := *s
	c.Values = append([]float64(nil), s.Values...)
	return &c
}
