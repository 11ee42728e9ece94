package equity

import (
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/auctionbot/internal/randutil"
	"github.com/lox/auctionbot/internal/ranker"
	"github.com/lox/auctionbot/poker"
)

func cards(s string) []poker.Card {
	if s == "" {
		return nil
	}
	return poker.MustParseCards(s)
}

func newTestEstimator(t *testing.T, opts ...Option) *Estimator {
	t.Helper()
	opts = append([]Option{WithLogger(log.NewWithOptions(io.Discard, log.Options{}))}, opts...)
	est, err := NewEstimator(ranker.Native{}, opts...)
	require.NoError(t, err)
	return est
}

func TestSamplerDrawsDistinctUnseenCards(t *testing.T) {
	t.Parallel()
	known := poker.NewHand(cards("AsKdQh")...)
	s := NewSampler(known, randutil.New(5))
	require.Equal(t, 49, s.Unseen())

	for range 100 {
		draw, err := s.Draw(10)
		require.NoError(t, err)
		h := poker.NewHand(draw...)
		require.Equal(t, 10, h.CountCards(), "draw repeated a card")
		require.Zero(t, h&known, "draw included a known card")
	}

	_, err := s.Draw(50)
	assert.ErrorIs(t, err, ErrNotEnoughCards)
}

func TestSamplerIsUniform(t *testing.T) {
	t.Parallel()
	known := poker.NewHand(cards("2c3c")...)
	s := NewSampler(known, randutil.New(11))
	counts := map[poker.Card]int{}
	const trials = 50000
	for range trials {
		draw, err := s.Draw(1)
		require.NoError(t, err)
		counts[draw[0]]++
	}
	require.Len(t, counts, 50)
	expected := float64(trials) / 50
	for c, n := range counts {
		assert.InDelta(t, expected, float64(n), expected*0.2, "card %s", c)
	}
}

func TestLayoutFor(t *testing.T) {
	t.Parallel()
	assert.Equal(t, Layout{Opponent: 3, Community: 5}, LayoutFor(WithoutAuction, 0, false))
	assert.Equal(t, Layout{Opponent: 2, Community: 5, Extra: 1}, LayoutFor(WithAuction, 0, false))
	assert.Equal(t, Layout{Opponent: 2, Community: 2, Extra: 1}, LayoutFor(WithAuction, 3, false))
	assert.Equal(t, Layout{Opponent: 2, Community: 1}, LayoutFor(Resolved, 4, true))
	assert.Equal(t, Layout{Opponent: 3, Community: 0}, LayoutFor(Resolved, 5, false))
}

func TestEvaluatorOutcomes(t *testing.T) {
	t.Parallel()
	ev := NewEvaluator(ranker.Native{})
	board := poker.NewHand(cards("Ks7d7c2h3s")...)
	layout := Layout{Opponent: 2}

	win, err := ev.Evaluate(poker.NewHand(cards("KdKh")...), board, cards("Ac9d"), layout)
	require.NoError(t, err)
	assert.Equal(t, Win, win)

	loss, err := ev.Evaluate(poker.NewHand(cards("4c5d")...), board, cards("Ac9d"), layout)
	require.NoError(t, err)
	assert.Equal(t, Loss, loss)

	tie, err := ev.Evaluate(poker.NewHand(cards("4c5d")...), board, cards("4h5h"), layout)
	require.NoError(t, err)
	assert.Equal(t, Tie, tie)

	_, err = ev.Evaluate(poker.NewHand(cards("4c5d")...), board, cards("4h"), layout)
	assert.Error(t, err)
}

func TestEvaluatorExtraCardGoesToUs(t *testing.T) {
	t.Parallel()
	ev := NewEvaluator(ranker.Native{})
	// Extra 9c makes our flush; opponent holds two queens.
	outcome, err := ev.Evaluate(
		poker.NewHand(cards("Ac2c")...),
		poker.NewHand(cards("5c7cKd3h")...),
		cards("QsQd"+"8h"+"9c"),
		Layout{Opponent: 2, Community: 1, Extra: 1},
	)
	require.NoError(t, err)
	assert.Equal(t, Win, outcome)
}

func TestTally(t *testing.T) {
	t.Parallel()
	var a Tally
	a = a.Add(Win).Add(Win).Add(Tie).Add(Loss)
	assert.Equal(t, 4, a.Trials())
	assert.Equal(t, 5, a.Weighted())
	assert.InDelta(t, 0.625, a.Equity(), 1e-12)

	b := Tally{Wins: 1, Losses: 3}
	merged := a.Merge(b)
	assert.Equal(t, merged, b.Merge(a))
	assert.Equal(t, 8, merged.Trials())

	assert.Zero(t, Tally{}.Equity())
	lo, hi := merged.ConfidenceInterval()
	assert.LessOrEqual(t, lo, merged.Equity())
	assert.GreaterOrEqual(t, hi, merged.Equity())
}

func TestSituationValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		sit  Situation
		ok   bool
	}{
		{"preflop", Situation{Hole: cards("AsKd")}, true},
		{"flop pending", Situation{Hole: cards("AsKd"), Board: cards("2c3c4c")}, true},
		{"turn pending", Situation{Hole: cards("AsKd"), Board: cards("2c3c4c5c")}, false},
		{"two board cards", Situation{Hole: cards("AsKd"), Board: cards("2c3c"), Auction: AuctionLost}, false},
		{"won with three", Situation{Hole: cards("AsKdQh"), Board: cards("2c3c4c"), Auction: AuctionWon}, true},
		{"pending with three", Situation{Hole: cards("AsKdQh")}, false},
		{"duplicate", Situation{Hole: cards("AsKd"), Board: cards("As3c4c"), Auction: AuctionLost}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.sit.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestNewEstimatorRejectsBadOptions(t *testing.T) {
	t.Parallel()
	_, err := NewEstimator(ranker.Native{}, WithIterations(0))
	assert.Error(t, err)
	_, err = NewEstimator(ranker.Native{}, WithWorkers(-1))
	assert.Error(t, err)
	_, err = NewEstimator(nil)
	assert.Error(t, err)
}

func TestEstimateBounds(t *testing.T) {
	t.Parallel()
	est := newTestEstimator(t, WithIterations(150), WithWorkers(3))
	sits := []Situation{
		{Hole: cards("7h2c")},
		{Hole: cards("AsAd"), Board: cards("Kc8d2h")},
		{Hole: cards("QhJh"), Board: cards("Th9h2c4d"), Auction: AuctionLost},
		{Hole: cards("QhJh5s"), Board: cards("Th9h2c4d3s"), Auction: AuctionWon},
	}
	for _, sit := range sits {
		e, err := est.Estimate(context.Background(), sit, randutil.New(1))
		require.NoError(t, err)
		for _, v := range []float64{e.WithAuction, e.WithoutAuction, e.Value, e.Combined()} {
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 1.0)
		}
	}
}

func TestEstimateDeterministicUnderSeed(t *testing.T) {
	t.Parallel()
	est := newTestEstimator(t, WithIterations(200), WithWorkers(4))
	sit := Situation{Hole: cards("9s9d"), Board: cards("Ah7c2d")}

	first, err := est.Estimate(context.Background(), sit, randutil.New(77))
	require.NoError(t, err)
	for range 5 {
		again, err := est.Estimate(context.Background(), sit, randutil.New(77))
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestEstimateDominantHandIsCertain(t *testing.T) {
	t.Parallel()
	est := newTestEstimator(t, WithIterations(100), WithWorkers(2))
	// Royal flush in spades with the whole board out.
	sit := Situation{Hole: cards("As3c"), Board: cards("KsQsJsTs2d"), Auction: AuctionLost}
	e, err := est.Estimate(context.Background(), sit, randutil.New(3))
	require.NoError(t, err)
	assert.False(t, e.Pending)
	assert.Equal(t, 1.0, e.Value)
}

func TestEstimateBoardPlaysIsHalf(t *testing.T) {
	t.Parallel()
	est := newTestEstimator(t, WithIterations(100))
	sit := Situation{Hole: cards("2c3d"), Board: cards("AsKsQsJsTs"), Auction: AuctionWon}
	e, err := est.Estimate(context.Background(), sit, randutil.New(9))
	require.NoError(t, err)
	assert.Equal(t, 0.5, e.Value)
}

func TestEstimatePreAuctionPair(t *testing.T) {
	t.Parallel()
	est := newTestEstimator(t, WithIterations(2000), WithWorkers(4))
	e, err := est.Estimate(context.Background(), Situation{Hole: cards("AsAd")}, randutil.New(21))
	require.NoError(t, err)

	require.True(t, e.Pending)
	assert.Greater(t, e.WithAuction, e.WithoutAuction, "an extra card must help")
	assert.InDelta(t, 0.8, e.WithAuction, 0.15)
	assert.Greater(t, e.Spread(), 0.0)
	assert.InDelta(t, (e.WithAuction+e.WithoutAuction)/2, e.Combined(), 1e-12)
}

func TestEstimateConverges(t *testing.T) {
	t.Parallel()
	est := newTestEstimator(t, WithIterations(4000), WithWorkers(4))
	// Top set against three random cards on a dry river-less board.
	sit := Situation{Hole: cards("KhKd"), Board: cards("Ks7c2d"), Auction: AuctionWon}
	e, err := est.Estimate(context.Background(), sit, randutil.New(8))
	require.NoError(t, err)
	assert.Greater(t, e.Value, 0.85)
}

func TestRunHonoursCancellation(t *testing.T) {
	t.Parallel()
	est := newTestEstimator(t)
	_, err := est.Run(context.Background(), Situation{Hole: cards("AsKd")}, WithAuction, randutil.New(1))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = est.Run(ctx, Situation{Hole: cards("AsKd")}, WithAuction, randutil.New(1))
	assert.ErrorIs(t, err, context.Canceled)
}
