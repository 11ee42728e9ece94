// Package bot drives one match: it tracks the round lifecycle, asks the
// estimator for equity and hands the result to the policy.
package bot

import (
	"context"
	"io"
	rand "math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/pkg/errors"

	"github.com/lox/auctionbot/internal/equity"
	"github.com/lox/auctionbot/internal/game"
	"github.com/lox/auctionbot/internal/policy"
	"github.com/lox/auctionbot/internal/randutil"
	"github.com/lox/auctionbot/internal/statistics"
	"github.com/lox/auctionbot/poker"
)

// DefaultClockReserve is the match clock below which the bot stops thinking.
const DefaultClockReserve = 2 * time.Second

const reasonClock = "clock reserve"

// Stats summarise the current match.
type Stats struct {
	Rounds       int
	Delta        int
	Decisions    int
	Forfeits     int
	FoldsToRaise int
	BidsWon      int
	BidsLost     int
	Showdowns    int
	ThinkTime    time.Duration
}

type roundState struct {
	num     int
	strong  bool
	seat    statistics.Seat
	preflop *equity.Estimate
}

// Bot plays one seat. It is not safe for concurrent use; the engine asks
// for one decision at a time.
type Bot struct {
	estimator *equity.Estimator
	policy    policy.Policy
	rules     game.Rules
	clock     quartz.Clock
	reserve   time.Duration
	rng       *rand.Rand
	logger    *log.Logger

	stats  Stats
	ledger statistics.Statistics
	round  *roundState
}

// Option configures a Bot.
type Option func(*Bot)

// WithClock sets the clock used to time decisions.
func WithClock(c quartz.Clock) Option {
	return func(b *Bot) { b.clock = c }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(b *Bot) { b.logger = l }
}

// WithRand sets the source for equity sampling.
func WithRand(r *rand.Rand) Option {
	return func(b *Bot) { b.rng = r }
}

// WithClockReserve sets the forfeit threshold for the match clock.
func WithClockReserve(d time.Duration) Option {
	return func(b *Bot) { b.reserve = d }
}

// WithRules sets the match rules used for snapshots that omit them.
func WithRules(r game.Rules) Option {
	return func(b *Bot) { b.rules = r }
}

// New builds a bot around an estimator and a policy.
func New(est *equity.Estimator, pol policy.Policy, opts ...Option) *Bot {
	b := &Bot{
		estimator: est,
		policy:    pol,
		rules:     game.DefaultRules(),
		clock:     quartz.NewReal(),
		reserve:   DefaultClockReserve,
		logger:    log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.rng == nil {
		var seed int64
		b.rng, seed = randutil.NewFromTime()
		b.logger.Debug("seeded from time", "seed", seed)
	}
	b.logger = b.logger.WithPrefix("bot")
	return b
}

// NewMatch clears per-match state.
func (b *Bot) NewMatch() {
	b.policy.Reset()
	b.stats = Stats{}
	b.ledger = statistics.Statistics{}
	b.round = nil
	b.logger.Info("new match", "rounds", b.rules.NumRounds, "stack", b.rules.StartingStack)
}

// Stats returns the running match statistics.
func (b *Bot) Stats() Stats {
	s := b.stats
	if c, ok := b.policy.(interface{ FoldsToRaise() int }); ok {
		s.FoldsToRaise = c.FoldsToRaise()
	}
	return s
}

// Ledger returns a copy of the per-round results of the current match.
func (b *Bot) Ledger() *statistics.Statistics {
	return b.ledger.Clone()
}

// RoundStart records the new hand and, pre-flop, estimates its equity once
// for the whole pre-flop betting round.
func (b *Bot) RoundStart(ctx context.Context, snap *game.Snapshot) error {
	s, err := b.prepare(snap)
	if err != nil {
		return err
	}
	return b.startRound(ctx, s)
}

func (b *Bot) startRound(ctx context.Context, s *game.Snapshot) error {
	c1, c2 := s.Hole[0], s.Hole[1]
	b.round = &roundState{num: s.RoundNum, strong: poker.IsStrongHole(c1, c2)}
	if s.IsBigBlind {
		b.round.seat = statistics.BigBlind
	}
	b.logger.Info("round start",
		"round", s.RoundNum,
		"hole", poker.NewHand(s.Hole...),
		"category", poker.CategorizeHoleCards(c1, c2),
		"strong", b.round.strong,
		"bankroll", s.Bankroll,
		"big_blind", s.IsBigBlind)

	if s.Street != 0 || b.shouldForfeit(s) != "" {
		return nil
	}
	est, err := b.estimator.Estimate(ctx, s.Situation(), b.rng)
	if err != nil {
		return errors.Wrap(err, "pre-flop equity")
	}
	b.round.preflop = &est
	return nil
}

// Decide returns exactly one legal action for snap.
func (b *Bot) Decide(ctx context.Context, snap *game.Snapshot) (game.Action, error) {
	start := b.clock.Now()
	s, err := b.prepare(snap)
	if err != nil {
		return game.Action{}, err
	}
	if b.round == nil || b.round.num != s.RoundNum {
		if err := b.startRound(ctx, s); err != nil {
			return game.Action{}, err
		}
	}

	var (
		d   policy.Decision
		est equity.Estimate
	)
	if why := b.shouldForfeit(s); why != "" {
		d, err = policy.Forfeit(s)
		if err != nil {
			return game.Action{}, err
		}
		d.Reason = why
		b.stats.Forfeits++
		if why == reasonClock {
			b.logger.Warn("game clock low, forfeiting", "clock", s.Clock(), "reserve", b.reserve)
		}
	} else {
		est, err = b.estimate(ctx, s)
		if err != nil {
			return game.Action{}, err
		}
		d, err = b.policy.Decide(s, est)
		if err != nil {
			return game.Action{}, errors.Wrapf(err, "round %d street %d", s.RoundNum, s.Street)
		}
	}
	if !s.Legal.Permits(d.Action) {
		return game.Action{}, errors.Errorf("policy chose %s, legal actions are %s", d.Action, s.Legal)
	}

	elapsed := b.clock.Since(start)
	b.stats.Decisions++
	b.stats.ThinkTime += elapsed
	b.logger.Debug("decision",
		"round", s.RoundNum,
		"street", s.Street,
		"legal", s.Legal,
		"equity", est.Combined(),
		"action", d.Action,
		"reason", d.Reason,
		"elapsed", elapsed)
	return d.Action, nil
}

// RoundOver folds the round result into the match statistics.
func (b *Bot) RoundOver(res game.RoundResult) {
	b.stats.Rounds++
	b.stats.Delta += res.Delta
	if res.MyBid != nil && res.OppBid != nil {
		if *res.MyBid > *res.OppBid {
			b.stats.BidsWon++
		} else {
			b.stats.BidsLost++
		}
	}
	if res.Showdown() {
		b.stats.Showdowns++
	}
	b.ledger.Add(b.ledgerRound(res))
	b.round = nil
	b.logger.Info("round over",
		"round", res.RoundNum,
		"delta", res.Delta,
		"street", res.Street,
		"total", b.stats.Delta)
}

func (b *Bot) ledgerRound(res game.RoundResult) statistics.Round {
	r := statistics.Round{
		Delta:    res.Delta,
		BigBlind: b.rules.BigBlind,
		Showdown: res.Showdown(),
		Street:   res.Street,
	}
	if b.round != nil && b.round.num == res.RoundNum {
		r.Seat = b.round.seat
	}
	if res.MyBid != nil && res.OppBid != nil {
		won := *res.MyBid > *res.OppBid
		r.Auction = &won
	}
	return r
}

// prepare copies snap, fills in match rules and validates it.
func (b *Bot) prepare(snap *game.Snapshot) (*game.Snapshot, error) {
	s := *snap
	s.Rules = s.Rules.Merge(b.rules)
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// shouldForfeit names the reason to skip estimation, or returns "".
// A zero game clock means the engine did not report one.
func (b *Bot) shouldForfeit(s *game.Snapshot) string {
	if s.GameClock > 0 && s.Clock() < b.reserve {
		return reasonClock
	}
	if policy.Locked(s) {
		return "lead is safe"
	}
	return ""
}

func (b *Bot) estimate(ctx context.Context, s *game.Snapshot) (equity.Estimate, error) {
	if s.Street == 0 && b.round.preflop != nil {
		return *b.round.preflop, nil
	}
	return b.estimator.Estimate(ctx, s.Situation(), b.rng)
}
