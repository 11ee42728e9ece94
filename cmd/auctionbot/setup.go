package main

import (
	"context"
	rand "math/rand/v2"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/pkg/errors"

	"github.com/lox/auctionbot/internal/bot"
	"github.com/lox/auctionbot/internal/config"
	"github.com/lox/auctionbot/internal/equity"
	"github.com/lox/auctionbot/internal/policy"
	"github.com/lox/auctionbot/internal/randutil"
	"github.com/lox/auctionbot/internal/ranker"
)

// load resolves configuration from the file, .env and the environment,
// then applies command line overrides.
func (g *Globals) load() (*config.Config, *log.Logger, error) {
	if err := config.LoadDotEnv(".env"); err != nil {
		return nil, nil, err
	}
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, nil, err
	}
	if g.LogLevel != "" {
		cfg.LogLevel = strings.ToLower(g.LogLevel)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, errors.Wrap(err, "invalid configuration")
	}
	return cfg, newLogger(cfg.Level()), nil
}

func newLogger(level log.Level) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: true,
	})
}

// rootRand returns the match random source. A nil or zero seed means the
// configured seed, falling back to the clock.
func rootRand(cfg *config.Config, seed *int64, logger *log.Logger) *rand.Rand {
	s := cfg.Seed
	if seed != nil {
		s = *seed
	}
	if s == 0 {
		rng, picked := randutil.NewFromTime()
		logger.Debug("seeded from time", "seed", picked)
		return rng
	}
	return randutil.New(s)
}

func newEstimator(cfg *config.Config, logger *log.Logger) (*equity.Estimator, error) {
	r, err := ranker.New(cfg.Equity.Ranker)
	if err != nil {
		return nil, err
	}
	return equity.NewEstimator(r,
		equity.WithIterations(cfg.Equity.Iterations),
		equity.WithWorkers(cfg.Equity.Workers),
		equity.WithLogger(logger))
}

// newBot wires estimator, policy and clock into one seat. Equity sampling
// and policy draws use separate children of the root source.
func newBot(cfg *config.Config, seed *int64, logger *log.Logger) (*bot.Bot, error) {
	root := rootRand(cfg, seed, logger)
	est, err := newEstimator(cfg, logger)
	if err != nil {
		return nil, err
	}
	pol, err := policy.New(cfg.Policy.Profile, cfg.Policy.Params, randutil.Child(root), logger)
	if err != nil {
		return nil, err
	}
	return bot.New(est, pol,
		bot.WithClock(quartz.NewReal()),
		bot.WithLogger(logger),
		bot.WithRand(randutil.Child(root)),
		bot.WithClockReserve(cfg.Policy.ClockReserve),
		bot.WithRules(cfg.Match)), nil
}

// signalContext is cancelled on interrupt so long estimates stop early.
func signalContext(logger *log.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("received signal, stopping", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()
	return ctx, cancel
}
