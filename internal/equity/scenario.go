package equity

import (
	"fmt"

	"github.com/lox/auctionbot/poker"
	"github.com/pkg/errors"
)

// Ranker orders hands of five or more cards. A higher strength wins.
type Ranker interface {
	Strength(hand poker.Hand) (int32, error)
}

// Outcome is the showdown result of one sampled completion, from our side.
type Outcome int8

const (
	Loss Outcome = iota
	Tie
	Win
)

// Weight is the outcome's score out of 2: a tie is worth half a win.
func (o Outcome) Weight() int {
	return int(o)
}

func (o Outcome) String() string {
	switch o {
	case Win:
		return "win"
	case Tie:
		return "tie"
	default:
		return "loss"
	}
}

// Scenario selects how the unseen cards are dealt for one trial.
type Scenario int

const (
	// WithoutAuction assumes the opponent takes the auction card: they hold
	// three hidden cards and we keep two.
	WithoutAuction Scenario = iota
	// WithAuction assumes we take the auction card: one extra drawn card for
	// us, two hidden cards for the opponent.
	WithAuction
	// Resolved uses the real auction outcome.
	Resolved
)

func (s Scenario) String() string {
	switch s {
	case WithoutAuction:
		return "without-auction"
	case WithAuction:
		return "with-auction"
	case Resolved:
		return "resolved"
	default:
		return fmt.Sprintf("scenario(%d)", int(s))
	}
}

// Layout says how many unseen cards go where. Draws are laid out as
// [opponent | community | extra].
type Layout struct {
	Opponent  int
	Community int
	Extra     int
}

// Total is the number of cards a trial draws.
func (l Layout) Total() int {
	return l.Opponent + l.Community + l.Extra
}

// LayoutFor returns the card allocation of a scenario given the revealed
// board size and, for Resolved, whether we strictly won the auction.
func LayoutFor(s Scenario, boardShown int, wonAuction bool) Layout {
	community := 5 - boardShown
	switch s {
	case WithAuction:
		return Layout{Opponent: 2, Community: community, Extra: 1}
	case Resolved:
		if wonAuction {
			return Layout{Opponent: 2, Community: community}
		}
		return Layout{Opponent: 3, Community: community}
	default:
		return Layout{Opponent: 3, Community: community}
	}
}

// Evaluator assembles both showdown hands for a sampled completion and asks
// the ranker who wins.
type Evaluator struct {
	ranker Ranker
}

// NewEvaluator wraps a ranker.
func NewEvaluator(r Ranker) Evaluator {
	return Evaluator{ranker: r}
}

// Evaluate scores one completion. own holds our hole cards and board the
// revealed community cards; draw is laid out as described by layout.
func (e Evaluator) Evaluate(own, board poker.Hand, draw []poker.Card, layout Layout) (Outcome, error) {
	if len(draw) != layout.Total() {
		return Loss, errors.Errorf("draw has %d cards, layout needs %d", len(draw), layout.Total())
	}

	var opp, community, extra poker.Hand
	for _, c := range draw[:layout.Opponent] {
		opp.AddCard(c)
	}
	for _, c := range draw[layout.Opponent : layout.Opponent+layout.Community] {
		community.AddCard(c)
	}
	for _, c := range draw[layout.Opponent+layout.Community:] {
		extra.AddCard(c)
	}

	full := board | community
	ours, err := e.ranker.Strength(own | extra | full)
	if err != nil {
		return Loss, errors.Wrap(err, "rank own hand")
	}
	theirs, err := e.ranker.Strength(opp | full)
	if err != nil {
		return Loss, errors.Wrap(err, "rank opponent hand")
	}

	switch {
	case ours > theirs:
		return Win, nil
	case ours == theirs:
		return Tie, nil
	default:
		return Loss, nil
	}
}
