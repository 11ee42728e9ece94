// Package config loads bot settings from an HCL file with environment
// overrides.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"github.com/lox/auctionbot/internal/equity"
	"github.com/lox/auctionbot/internal/game"
	"github.com/lox/auctionbot/internal/policy"
	"github.com/lox/auctionbot/internal/ranker"
)

// Environment variable names.
const (
	// EnvSeed seeds the bot's random source (0 or unset means time based)
	EnvSeed = "AUCTIONBOT_SEED"

	// EnvIterations overrides the per-scenario trial budget
	EnvIterations = "AUCTIONBOT_ITERATIONS"

	// EnvLogLevel overrides log_level
	EnvLogLevel = "AUCTIONBOT_LOG_LEVEL"
)

// Config is the resolved bot configuration.
type Config struct {
	LogLevel string
	Match    game.Rules
	Equity   EquitySettings
	Policy   PolicySettings
	// Seed is the random seed (0 means not set)
	Seed int64
}

// EquitySettings configure the estimator.
type EquitySettings struct {
	Iterations int
	Workers    int
	Ranker     string
}

// PolicySettings configure the decision policy.
type PolicySettings struct {
	Profile string
	Params  policy.Params
	// ClockReserve is the match clock below which the bot stops estimating.
	ClockReserve time.Duration
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Match:    game.DefaultRules(),
		Equity: EquitySettings{
			Iterations: equity.DefaultIterations,
			Workers:    4,
			Ranker:     ranker.NameNative,
		},
		Policy: PolicySettings{
			Profile:      policy.ProfileAdaptive,
			Params:       policy.DefaultParams(),
			ClockReserve: 2 * time.Second,
		},
	}
}

type fileConfig struct {
	LogLevel *string      `hcl:"log_level,optional"`
	Match    *matchBlock  `hcl:"match,block"`
	Equity   *equityBlock `hcl:"equity,block"`
	Policy   *policyBlock `hcl:"policy,block"`
}

type matchBlock struct {
	Rounds        *int `hcl:"rounds,optional"`
	StartingStack *int `hcl:"starting_stack,optional"`
	SmallBlind    *int `hcl:"small_blind,optional"`
	BigBlind      *int `hcl:"big_blind,optional"`
}

type equityBlock struct {
	Iterations *int    `hcl:"iterations,optional"`
	Workers    *int    `hcl:"workers,optional"`
	Ranker     *string `hcl:"ranker,optional"`
}

type policyBlock struct {
	Profile             *string        `hcl:"profile,optional"`
	ConfidenceThreshold *float64       `hcl:"confidence_threshold,optional"`
	CommitBonus         *float64       `hcl:"commit_bonus,optional"`
	BluffCatchRatio     *float64       `hcl:"bluff_catch_ratio,optional"`
	RaiseFloor          *int           `hcl:"raise_floor,optional"`
	ClockReserve        *string        `hcl:"clock_reserve,optional"`
	BidTiers            []bidTierBlock `hcl:"bid_tier,block"`
}

type bidTierBlock struct {
	MinSpread float64 `hcl:"min_spread"`
	MaxBid    int     `hcl:"max_bid"`
}

// Load reads an HCL file. A missing file yields the defaults.
func Load(filename string) (*Config, error) {
	src, err := os.ReadFile(filename)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	return Parse(src, filename)
}

// Parse decodes HCL source. Settings the source leaves out keep their
// defaults.
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, errors.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var fc fileConfig
	if diags := gohcl.DecodeBody(file.Body, nil, &fc); diags.HasErrors() {
		return nil, errors.Errorf("failed to decode HCL: %s", diags.Error())
	}

	cfg := Default()
	setString(&cfg.LogLevel, fc.LogLevel)
	if m := fc.Match; m != nil {
		setInt(&cfg.Match.NumRounds, m.Rounds)
		setInt(&cfg.Match.StartingStack, m.StartingStack)
		setInt(&cfg.Match.SmallBlind, m.SmallBlind)
		setInt(&cfg.Match.BigBlind, m.BigBlind)
	}
	if e := fc.Equity; e != nil {
		setInt(&cfg.Equity.Iterations, e.Iterations)
		setInt(&cfg.Equity.Workers, e.Workers)
		setString(&cfg.Equity.Ranker, e.Ranker)
	}
	if p := fc.Policy; p != nil {
		setString(&cfg.Policy.Profile, p.Profile)
		setFloat(&cfg.Policy.Params.ConfidenceThreshold, p.ConfidenceThreshold)
		setFloat(&cfg.Policy.Params.CommitBonus, p.CommitBonus)
		setFloat(&cfg.Policy.Params.BluffCatchRatio, p.BluffCatchRatio)
		setInt(&cfg.Policy.Params.RaiseFloor, p.RaiseFloor)
		if p.ClockReserve != nil {
			d, err := time.ParseDuration(*p.ClockReserve)
			if err != nil {
				return nil, errors.Wrap(err, "clock_reserve")
			}
			cfg.Policy.ClockReserve = d
		}
		if len(p.BidTiers) > 0 {
			tiers := make([]policy.BidTier, len(p.BidTiers))
			for i, b := range p.BidTiers {
				tiers[i] = policy.BidTier{MinSpread: b.MinSpread, MaxBid: b.MaxBid}
			}
			cfg.Policy.Params.BidTiers = tiers
		}
	}
	return cfg, nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

// LoadDotEnv loads variables from any of the given .env files that exist.
// Variables already in the environment win.
func LoadDotEnv(filenames ...string) error {
	for _, f := range filenames {
		if _, err := os.Stat(f); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return errors.Wrapf(err, "load %s", f)
		}
	}
	return nil
}

// ApplyEnv overrides settings from the environment.
func (c *Config) ApplyEnv() error {
	if seedStr := os.Getenv(EnvSeed); seedStr != "" {
		seed, err := strconv.ParseInt(seedStr, 10, 64)
		if err != nil {
			return errors.Wrapf(err, "invalid %s value", EnvSeed)
		}
		c.Seed = seed
	}
	if itStr := os.Getenv(EnvIterations); itStr != "" {
		n, err := strconv.Atoi(itStr)
		if err != nil {
			return errors.Wrapf(err, "invalid %s value", EnvIterations)
		}
		c.Equity.Iterations = n
	}
	if level := os.Getenv(EnvLogLevel); level != "" {
		c.LogLevel = strings.ToLower(level)
	}
	return nil
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return errors.Errorf("invalid log level: %s", c.LogLevel)
	}
	if err := c.Match.Validate(); err != nil {
		return errors.Wrap(err, "match")
	}
	if c.Equity.Iterations <= 0 {
		return errors.Errorf("equity iterations must be positive, got %d", c.Equity.Iterations)
	}
	if c.Equity.Workers <= 0 {
		return errors.Errorf("equity workers must be positive, got %d", c.Equity.Workers)
	}
	if _, err := ranker.New(c.Equity.Ranker); err != nil {
		return errors.Wrap(err, "equity")
	}
	switch strings.ToLower(c.Policy.Profile) {
	case policy.ProfileAdaptive, policy.ProfileCautious:
	default:
		return errors.Errorf("unknown policy profile %q", c.Policy.Profile)
	}
	if err := c.Policy.Params.Validate(); err != nil {
		return errors.Wrap(err, "policy")
	}
	if c.Policy.ClockReserve < 0 {
		return errors.Errorf("clock reserve %s is negative", c.Policy.ClockReserve)
	}
	return nil
}

// Level returns the parsed log level, falling back to info.
func (c *Config) Level() log.Level {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}
