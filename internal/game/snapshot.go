package game

import (
	"time"

	"github.com/lox/auctionbot/internal/equity"
	"github.com/lox/auctionbot/poker"
	"github.com/pkg/errors"
)

// ErrMalformedSnapshot marks a snapshot whose card counts or figures
// contradict each other.
var ErrMalformedSnapshot = errors.New("malformed snapshot")

// Rules are the fixed parameters of a match.
type Rules struct {
	NumRounds     int `json:"num_rounds,omitempty"`
	StartingStack int `json:"starting_stack,omitempty"`
	SmallBlind    int `json:"small_blind,omitempty"`
	BigBlind      int `json:"big_blind,omitempty"`
}

// DefaultRules are the standard match settings.
func DefaultRules() Rules {
	return Rules{NumRounds: 1000, StartingStack: 400, SmallBlind: 1, BigBlind: 2}
}

// Merge fills zero fields of r from defaults.
func (r Rules) Merge(defaults Rules) Rules {
	if r.NumRounds == 0 {
		r.NumRounds = defaults.NumRounds
	}
	if r.StartingStack == 0 {
		r.StartingStack = defaults.StartingStack
	}
	if r.SmallBlind == 0 {
		r.SmallBlind = defaults.SmallBlind
	}
	if r.BigBlind == 0 {
		r.BigBlind = defaults.BigBlind
	}
	return r
}

// Validate checks that the rules describe a playable match.
func (r Rules) Validate() error {
	switch {
	case r.NumRounds <= 0:
		return errors.Errorf("rounds must be positive, got %d", r.NumRounds)
	case r.StartingStack <= 0:
		return errors.Errorf("starting stack must be positive, got %d", r.StartingStack)
	case r.SmallBlind < 0 || r.BigBlind < r.SmallBlind:
		return errors.Errorf("blinds %d/%d are not ordered", r.SmallBlind, r.BigBlind)
	case r.BigBlind > r.StartingStack:
		return errors.Errorf("big blind %d exceeds starting stack %d", r.BigBlind, r.StartingStack)
	}
	return nil
}

// Snapshot is the engine's view of one decision. The bot never mutates it.
type Snapshot struct {
	Legal  ActionSet    `json:"legal"`
	Street int          `json:"street"`
	Hole   []poker.Card `json:"hole"`
	Board  []poker.Card `json:"board"`

	MyPip    int `json:"my_pip"`
	OppPip   int `json:"opp_pip"`
	MyStack  int `json:"my_stack"`
	OppStack int `json:"opp_stack"`
	MinRaise int `json:"min_raise,omitempty"`
	MaxRaise int `json:"max_raise,omitempty"`

	// Bids are revealed once the auction resolves.
	MyBid  *int `json:"my_bid,omitempty"`
	OppBid *int `json:"opp_bid,omitempty"`

	RoundNum   int  `json:"round_num"`
	Bankroll   int  `json:"bankroll"`
	IsBigBlind bool `json:"big_blind"`
	// GameClock is the seconds left on our match clock; zero means not reported.
	GameClock float64 `json:"game_clock"`

	Rules Rules `json:"rules"`
}

// ContinueCost is the number of chips needed to stay in the pot.
func (s *Snapshot) ContinueCost() int {
	return s.OppPip - s.MyPip
}

// Pot is everything both players have put in this round.
func (s *Snapshot) Pot() int {
	return (s.Rules.StartingStack - s.MyStack) + (s.Rules.StartingStack - s.OppStack)
}

// PotOdds is the share of the resulting pot a call would pay for.
func (s *Snapshot) PotOdds() float64 {
	cost := s.ContinueCost()
	if cost <= 0 {
		return 0
	}
	return float64(cost) / float64(cost+s.Pot())
}

// AuctionPending reports whether the extra card is still undecided.
func (s *Snapshot) AuctionPending() bool {
	return s.Street == 0 || (s.Street == 3 && s.Legal.Has(Bid))
}

// WonAuction reports whether we hold the auction card. Ties go to the
// opponent side of the layout. Without revealed bids the hole count decides.
func (s *Snapshot) WonAuction() bool {
	if s.AuctionPending() {
		return false
	}
	if s.MyBid != nil && s.OppBid != nil {
		return *s.MyBid > *s.OppBid
	}
	return len(s.Hole) == 3
}

// RemainingRounds counts the rounds left including the current one.
func (s *Snapshot) RemainingRounds() int {
	return s.Rules.NumRounds - s.RoundNum + 1
}

// Clock returns the remaining match clock.
func (s *Snapshot) Clock() time.Duration {
	return time.Duration(s.GameClock * float64(time.Second))
}

// Situation is the card-level view handed to the equity estimator.
func (s *Snapshot) Situation() equity.Situation {
	sit := equity.Situation{Hole: s.Hole, Board: s.Board}
	switch {
	case s.AuctionPending():
		sit.Auction = equity.AuctionPending
	case s.WonAuction():
		sit.Auction = equity.AuctionWon
	default:
		sit.Auction = equity.AuctionLost
	}
	return sit
}

// Validate rejects snapshots the bot cannot reason about.
func (s *Snapshot) Validate() error {
	if err := s.Rules.Validate(); err != nil {
		return errors.Wrapf(ErrMalformedSnapshot, "rules: %v", err)
	}
	switch s.Street {
	case 0, 3, 4, 5:
	default:
		return errors.Wrapf(ErrMalformedSnapshot, "street %d", s.Street)
	}
	if len(s.Board) != s.Street {
		return errors.Wrapf(ErrMalformedSnapshot, "street %d with %d board cards", s.Street, len(s.Board))
	}
	if s.AuctionPending() && len(s.Hole) != 2 {
		return errors.Wrapf(ErrMalformedSnapshot, "%d hole cards before the auction", len(s.Hole))
	}
	if len(s.Hole) < 2 || len(s.Hole) > 3 {
		return errors.Wrapf(ErrMalformedSnapshot, "%d hole cards", len(s.Hole))
	}
	if s.Legal.Len() == 0 {
		return errors.Wrap(ErrMalformedSnapshot, "no legal actions")
	}
	if s.MyStack < 0 || s.OppStack < 0 || s.MyPip < 0 || s.OppPip < 0 {
		return errors.Wrap(ErrMalformedSnapshot, "negative pip or stack")
	}
	if s.Legal.Has(Raise) && s.MinRaise > s.MaxRaise {
		return errors.Wrapf(ErrMalformedSnapshot, "raise bounds [%d, %d]", s.MinRaise, s.MaxRaise)
	}
	if s.RoundNum < 1 || s.RoundNum > s.Rules.NumRounds {
		return errors.Wrapf(ErrMalformedSnapshot, "round %d of %d", s.RoundNum, s.Rules.NumRounds)
	}
	all := make([]poker.Card, 0, len(s.Hole)+len(s.Board))
	all = append(all, s.Hole...)
	all = append(all, s.Board...)
	if _, err := poker.HandFromCards(all...); err != nil {
		return errors.Wrapf(ErrMalformedSnapshot, "cards: %v", err)
	}
	return nil
}
