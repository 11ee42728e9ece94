// Package equity estimates the probability of winning a hand of auction
// hold'em by Monte Carlo sampling of the unseen cards.
package equity

import (
	"context"
	"io"
	rand "math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/lox/auctionbot/internal/randutil"
	"github.com/lox/auctionbot/poker"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// DefaultIterations is the per-scenario trial budget.
const DefaultIterations = 200

// AuctionState is what we know about the extra card auction.
type AuctionState int

const (
	// AuctionPending means the auction has not been decided yet.
	AuctionPending AuctionState = iota
	// AuctionWon means we bid strictly more than the opponent.
	AuctionWon
	// AuctionLost covers losing and tied bids; the opponent holds a third card.
	AuctionLost
)

func (a AuctionState) String() string {
	switch a {
	case AuctionPending:
		return "pending"
	case AuctionWon:
		return "won"
	case AuctionLost:
		return "lost"
	default:
		return "unknown"
	}
}

// Situation is the card-level view of one decision.
type Situation struct {
	Hole    []poker.Card
	Board   []poker.Card
	Auction AuctionState
}

// Known returns every card we can see.
func (s Situation) Known() poker.Hand {
	return poker.NewHand(s.Hole...) | poker.NewHand(s.Board...)
}

// Validate checks card counts and duplicates.
func (s Situation) Validate() error {
	switch len(s.Board) {
	case 0, 3, 4, 5:
	default:
		return errors.Errorf("board has %d cards, want 0, 3, 4 or 5", len(s.Board))
	}
	if s.Auction == AuctionPending {
		if len(s.Hole) != 2 {
			return errors.Errorf("%d hole cards before the auction, want 2", len(s.Hole))
		}
		if len(s.Board) > 3 {
			return errors.Errorf("auction pending with %d board cards", len(s.Board))
		}
	} else if len(s.Hole) < 2 || len(s.Hole) > 3 {
		return errors.Errorf("%d hole cards after the auction, want 2 or 3", len(s.Hole))
	}
	all := make([]poker.Card, 0, len(s.Hole)+len(s.Board))
	all = append(all, s.Hole...)
	all = append(all, s.Board...)
	if _, err := poker.HandFromCards(all...); err != nil {
		return errors.Wrap(err, "known cards")
	}
	return nil
}

// Estimate is an equity estimate. Before the auction it is a pair (with and
// without the auction card); afterwards a single value.
type Estimate struct {
	Pending        bool
	WithAuction    float64
	WithoutAuction float64
	Value          float64
}

// Spread is how much winning the auction is worth in equity.
func (e Estimate) Spread() float64 {
	if !e.Pending {
		return 0
	}
	return e.WithAuction - e.WithoutAuction
}

// Combined collapses the estimate to one number: the mean of the pair
// before the auction, the resolved value after it.
func (e Estimate) Combined() float64 {
	if e.Pending {
		return (e.WithAuction + e.WithoutAuction) / 2
	}
	return e.Value
}

// Estimator runs Monte Carlo trials. It holds no per-decision state and is
// safe for concurrent use.
type Estimator struct {
	evaluator  Evaluator
	iterations int
	workers    int
	logger     *log.Logger
}

// Option configures an Estimator.
type Option func(*Estimator)

// WithIterations sets the per-scenario trial budget.
func WithIterations(n int) Option {
	return func(e *Estimator) { e.iterations = n }
}

// WithWorkers sets how many shards trials are split across.
func WithWorkers(n int) Option {
	return func(e *Estimator) { e.workers = n }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(e *Estimator) { e.logger = l.WithPrefix("equity") }
}

// NewEstimator builds an estimator over the given ranker.
func NewEstimator(r Ranker, opts ...Option) (*Estimator, error) {
	if r == nil {
		return nil, errors.New("nil ranker")
	}
	e := &Estimator{
		evaluator:  NewEvaluator(r),
		iterations: DefaultIterations,
		workers:    1,
		logger:     log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.iterations <= 0 {
		return nil, errors.Errorf("iterations must be positive, got %d", e.iterations)
	}
	if e.workers <= 0 {
		return nil, errors.Errorf("workers must be positive, got %d", e.workers)
	}
	return e, nil
}

// Iterations returns the per-scenario trial budget.
func (e *Estimator) Iterations() int {
	return e.iterations
}

// Estimate returns the equity of sit. Results depend only on sit and the
// state of rng, not on how shards are scheduled.
func (e *Estimator) Estimate(ctx context.Context, sit Situation, rng *rand.Rand) (Estimate, error) {
	if err := sit.Validate(); err != nil {
		return Estimate{}, err
	}

	if sit.Auction == AuctionPending {
		without, err := e.Run(ctx, sit, WithoutAuction, rng)
		if err != nil {
			return Estimate{}, err
		}
		with, err := e.Run(ctx, sit, WithAuction, rng)
		if err != nil {
			return Estimate{}, err
		}
		est := Estimate{Pending: true, WithAuction: with.Equity(), WithoutAuction: without.Equity()}
		e.logger.Debug("pre-auction equity",
			"hole", poker.NewHand(sit.Hole...),
			"board", poker.NewHand(sit.Board...),
			"with", est.WithAuction,
			"without", est.WithoutAuction)
		return est, nil
	}

	tally, err := e.Run(ctx, sit, Resolved, rng)
	if err != nil {
		return Estimate{}, err
	}
	lo, hi := tally.ConfidenceInterval()
	e.logger.Debug("resolved equity",
		"hole", poker.NewHand(sit.Hole...),
		"board", poker.NewHand(sit.Board...),
		"auction", sit.Auction,
		"equity", tally.Equity(),
		"ci_low", lo,
		"ci_high", hi)
	return Estimate{Value: tally.Equity()}, nil
}

// Run plays the trial budget for one scenario and returns the merged tally.
func (e *Estimator) Run(ctx context.Context, sit Situation, scenario Scenario, rng *rand.Rand) (Tally, error) {
	layout := LayoutFor(scenario, len(sit.Board), sit.Auction == AuctionWon)
	known := sit.Known()
	own := poker.NewHand(sit.Hole...)
	board := poker.NewHand(sit.Board...)

	if need, have := layout.Total(), 52-known.CountCards(); need > have {
		return Tally{}, errors.Wrapf(ErrNotEnoughCards, "%s needs %d cards, %d unseen", scenario, need, have)
	}

	shards := min(e.workers, e.iterations)
	per, extra := e.iterations/shards, e.iterations%shards

	// Shard generators are derived up front so results do not depend on scheduling.
	rngs := make([]*rand.Rand, shards)
	for i := range rngs {
		rngs[i] = randutil.Child(rng)
	}

	results := make([]Tally, shards)
	g, ctx := errgroup.WithContext(ctx)
	for i := range shards {
		trials := per
		if i < extra {
			trials++
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			sampler := NewSampler(known, rngs[i])
			var t Tally
			for range trials {
				draw, err := sampler.Draw(layout.Total())
				if err != nil {
					return err
				}
				outcome, err := e.evaluator.Evaluate(own, board, draw, layout)
				if err != nil {
					return err
				}
				t = t.Add(outcome)
			}
			results[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Tally{}, errors.Wrapf(err, "%s trials", scenario)
	}

	var total Tally
	for _, t := range results {
		total = total.Merge(t)
	}
	return total, nil
}
