// Package policy maps equity estimates and pot geometry to a single legal
// action. Randomised choices draw from an injected source so tests can
// script them.
package policy

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"

	"github.com/lox/auctionbot/internal/equity"
	"github.com/lox/auctionbot/internal/game"
	"github.com/lox/auctionbot/internal/randutil"
)

// ErrNoSafeAction is returned when the passive fallback is needed but the
// engine offers neither Check nor Fold.
var ErrNoSafeAction = errors.New("neither check nor fold is legal")

// Profile names.
const (
	ProfileAdaptive = "adaptive"
	ProfileCautious = "cautious"
)

// Decision is an action plus a short human-readable reason.
type Decision struct {
	Action game.Action
	Reason string
}

// Policy chooses actions for one match. Implementations keep per-match
// state, which Reset clears.
type Policy interface {
	Decide(snap *game.Snapshot, est equity.Estimate) (Decision, error)
	Reset()
}

// BidTier caps the auction bid when the equity spread exceeds MinSpread.
type BidTier struct {
	MinSpread float64
	MaxBid    int
}

// Params tune the adaptive profile. The cautious profile only reads the
// bid tiers.
type Params struct {
	ConfidenceThreshold float64
	CommitBonus         float64
	BluffCatchRatio     float64
	RaiseFloor          int
	// BidTiers are ordered by descending MinSpread; the last tier is the fallback.
	BidTiers []BidTier
}

// DefaultParams returns the tuned defaults.
func DefaultParams() Params {
	return Params{
		ConfidenceThreshold: 0.6,
		CommitBonus:         0.2,
		BluffCatchRatio:     0.3,
		RaiseFloor:          20,
		BidTiers: []BidTier{
			{MinSpread: 0.2, MaxBid: 200},
			{MinSpread: 0, MaxBid: 100},
		},
	}
}

// Validate checks parameter ranges.
func (p Params) Validate() error {
	if p.ConfidenceThreshold < 0 || p.ConfidenceThreshold > 1 {
		return errors.Errorf("confidence threshold %v outside [0, 1]", p.ConfidenceThreshold)
	}
	if p.CommitBonus < 0 {
		return errors.Errorf("commit bonus %v is negative", p.CommitBonus)
	}
	if p.BluffCatchRatio < 0 {
		return errors.Errorf("bluff catch ratio %v is negative", p.BluffCatchRatio)
	}
	if p.RaiseFloor < 0 {
		return errors.Errorf("raise floor %d is negative", p.RaiseFloor)
	}
	if len(p.BidTiers) == 0 {
		return errors.New("at least one bid tier is required")
	}
	for i, tier := range p.BidTiers {
		if tier.MaxBid < 0 {
			return errors.Errorf("bid tier %d: max bid %d is negative", i, tier.MaxBid)
		}
		if i > 0 && tier.MinSpread > p.BidTiers[i-1].MinSpread {
			return errors.Errorf("bid tier %d: tiers must be ordered by descending min spread", i)
		}
	}
	return nil
}

// MaxBid returns the bid cap for an equity spread.
func (p Params) MaxBid(spread float64) int {
	for _, tier := range p.BidTiers {
		if spread > tier.MinSpread {
			return tier.MaxBid
		}
	}
	return p.BidTiers[len(p.BidTiers)-1].MaxBid
}

// New builds the policy for a profile name.
func New(profile string, params Params, src randutil.Source, logger *log.Logger) (Policy, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	switch strings.ToLower(profile) {
	case "", ProfileAdaptive:
		return NewAdaptive(params, src, logger), nil
	case ProfileCautious:
		return NewCautious(params, src, logger), nil
	default:
		return nil, errors.Errorf("unknown policy profile %q", profile)
	}
}

// Forfeit is the passive play: bid nothing while the auction is open,
// otherwise check if legal, else fold.
func Forfeit(snap *game.Snapshot) (Decision, error) {
	if snap.Legal.Has(game.Bid) {
		return Decision{Action: game.BidAction(0), Reason: "forfeit auction"}, nil
	}
	action, err := checkFold(snap.Legal)
	if err != nil {
		return Decision{}, err
	}
	return Decision{Action: action, Reason: "forfeit"}, nil
}

// Adaptive commits with probability rising in equity and catches bluffs
// once it has folded to raises often enough this match.
type Adaptive struct {
	params Params
	rand   randutil.Source
	logger *log.Logger

	foldsToRaise int
}

// NewAdaptive builds the adaptive profile.
func NewAdaptive(params Params, src randutil.Source, logger *log.Logger) *Adaptive {
	return &Adaptive{params: params, rand: src, logger: logger.WithPrefix("adaptive")}
}

// FoldsToRaise is how many times this match we folded facing a bet.
func (a *Adaptive) FoldsToRaise() int {
	return a.foldsToRaise
}

// Reset clears the fold counter for a new match.
func (a *Adaptive) Reset() {
	a.foldsToRaise = 0
}

func (a *Adaptive) Decide(snap *game.Snapshot, est equity.Estimate) (Decision, error) {
	locked := Locked(snap)
	if snap.Legal.Has(game.Bid) {
		return a.bid(snap, est, locked), nil
	}
	if locked {
		action, err := checkFold(snap.Legal)
		return Decision{Action: action, Reason: "lead is safe"}, err
	}

	p := a.params
	strength := est.Combined()
	commit, err := commitAction(snap, proportionalRaise(snap, strength, p.RaiseFloor))
	if err != nil {
		return Decision{}, err
	}

	if snap.ContinueCost() > 0 {
		if strength >= snap.PotOdds() {
			if strength > p.ConfidenceThreshold && a.rand.Float64() < strength+p.CommitBonus {
				return Decision{Action: commit, Reason: "value"}, nil
			}
			action, err := callOrCheckFold(snap)
			return Decision{Action: action, Reason: "priced in"}, err
		}

		ratio := float64(a.foldsToRaise) / float64(snap.RoundNum)
		if ratio >= p.BluffCatchRatio && strength > p.ConfidenceThreshold && a.rand.Float64() < strength {
			return Decision{Action: commit, Reason: "bluff catch"}, nil
		}
		action, err := checkFold(snap.Legal)
		if err != nil {
			return Decision{}, err
		}
		if action.Kind == game.Fold {
			a.foldsToRaise++
			a.logger.Debug("folded to raise", "count", a.foldsToRaise, "round", snap.RoundNum)
		}
		return Decision{Action: action, Reason: "below pot odds"}, nil
	}

	if strength > p.ConfidenceThreshold && a.rand.Float64() < strength+p.CommitBonus {
		return Decision{Action: commit, Reason: "lead out"}, nil
	}
	action, err := checkFold(snap.Legal)
	return Decision{Action: action, Reason: "check"}, err
}

func (a *Adaptive) bid(snap *game.Snapshot, est equity.Estimate, locked bool) Decision {
	w := est.WithAuction
	if locked || w <= a.params.ConfidenceThreshold {
		return Decision{Action: game.BidAction(0), Reason: "no bid"}
	}
	amount := int(float64(a.params.MaxBid(est.Spread())) * w)
	return Decision{Action: game.BidAction(clampBid(amount, snap.MyStack)), Reason: "bid"}
}
