package policy

import (
	"github.com/charmbracelet/log"

	"github.com/lox/auctionbot/internal/equity"
	"github.com/lox/auctionbot/internal/game"
	"github.com/lox/auctionbot/internal/randutil"
	"github.com/lox/auctionbot/poker"
)

const (
	cautiousBidEquity   = 0.5
	cautiousCommit      = 0.7
	cautiousLeadOut     = 0.6
	intimidationRatio   = 0.33
	intimidationPenalty = 0.3
	bluffEquity         = 0.10
	bluffChance         = 0.05
	preflopPotFraction  = 0.3
	postflopPotFraction = 0.5
)

// Cautious only plays strong starting cards, sizes raises as a fixed share
// of the pot and discounts equity against large bets.
type Cautious struct {
	params Params
	rand   randutil.Source
	logger *log.Logger
}

// NewCautious builds the cautious profile. Only the top bid tier is used.
func NewCautious(params Params, src randutil.Source, logger *log.Logger) *Cautious {
	return &Cautious{params: params, rand: src, logger: logger.WithPrefix("cautious")}
}

// Reset is a no-op; the profile keeps no match state.
func (c *Cautious) Reset() {}

func (c *Cautious) Decide(snap *game.Snapshot, est equity.Estimate) (Decision, error) {
	locked := Locked(snap)
	if snap.Legal.Has(game.Bid) {
		top := c.params.BidTiers[0]
		w := est.WithAuction
		if locked || w <= cautiousBidEquity || est.Spread() <= top.MinSpread {
			return Decision{Action: game.BidAction(0), Reason: "no bid"}, nil
		}
		amount := int(float64(top.MaxBid) * w)
		return Decision{Action: game.BidAction(clampBid(amount, snap.MyStack)), Reason: "bid"}, nil
	}
	if locked {
		action, err := checkFold(snap.Legal)
		return Decision{Action: action, Reason: "lead is safe"}, err
	}
	if !poker.IsStrongHole(snap.Hole[0], snap.Hole[1]) {
		action, err := checkFold(snap.Legal)
		return Decision{Action: action, Reason: "weak hole"}, err
	}

	strength := est.Combined()
	frac := postflopPotFraction
	if snap.Street < 3 {
		frac = preflopPotFraction
	}
	commit, err := commitAction(snap, potFractionRaise(snap, frac))
	if err != nil {
		return Decision{}, err
	}

	cost := snap.ContinueCost()
	if cost > 0 {
		odds := snap.PotOdds()
		if pot := snap.Pot(); pot > 0 && float64(cost)/float64(pot) > intimidationRatio {
			strength -= intimidationPenalty
			c.logger.Debug("discounting against a large bet", "cost", cost, "pot", pot, "strength", strength)
		}
		if strength >= odds {
			if c.rand.Float64() < strength && strength > cautiousCommit {
				return Decision{Action: commit, Reason: "value"}, nil
			}
			action, err := callOrCheckFold(snap)
			return Decision{Action: action, Reason: "priced in"}, err
		}
		if strength < bluffEquity && c.rand.Float64() < bluffChance && snap.Legal.Has(game.Raise) {
			return Decision{Action: commit, Reason: "bluff"}, nil
		}
		action, err := checkFold(snap.Legal)
		return Decision{Action: action, Reason: "below pot odds"}, err
	}

	if strength > cautiousLeadOut && c.rand.Float64() < strength {
		return Decision{Action: commit, Reason: "lead out"}, nil
	}
	action, err := checkFold(snap.Legal)
	return Decision{Action: action, Reason: "check"}, err
}
