package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"

	"github.com/lox/auctionbot/internal/equity"
	"github.com/lox/auctionbot/poker"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	handStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("14"))

	winStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	tieStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	lossStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	categoryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12"))
)

type EquityCmd struct {
	Hole       string `short:"H" required:"" help:"Our hole cards, e.g. 'AsKd' or 'As Kd Qh'"`
	Board      string `short:"b" help:"Board cards (0, 3, 4 or 5)"`
	Auction    string `short:"a" enum:"pending,won,lost" default:"pending" help:"Auction state (pending|won|lost)"`
	Iterations int    `short:"i" help:"Trials per scenario (default from config)"`
	Seed       *int64 `help:"Random seed for reproducible results"`
}

// scenarioResult is one row of the equity report.
type scenarioResult struct {
	Scenario equity.Scenario
	Tally    equity.Tally
}

func (c *EquityCmd) Run(g *Globals) error {
	cfg, logger, err := g.load()
	if err != nil {
		return err
	}
	if c.Iterations > 0 {
		cfg.Equity.Iterations = c.Iterations
	}

	sit, err := parseSituation(c.Hole, c.Board, c.Auction)
	if err != nil {
		return err
	}
	est, err := newEstimator(cfg, logger)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(logger)
	defer cancel()

	rng := rootRand(cfg, c.Seed, logger)
	start := time.Now()
	var results []scenarioResult
	for _, sc := range scenariosFor(sit.Auction) {
		t, err := est.Run(ctx, sit, sc, rng)
		if err != nil {
			return errors.Wrapf(err, "%s", sc)
		}
		results = append(results, scenarioResult{Scenario: sc, Tally: t})
	}

	fmt.Print(renderEquity(sit, results, est.Iterations(), time.Since(start)))
	return nil
}

// parseSituation turns command line card strings into a validated situation.
func parseSituation(hole, board, auction string) (equity.Situation, error) {
	var sit equity.Situation
	var err error
	if sit.Hole, err = poker.ParseCards(hole); err != nil {
		return sit, errors.Wrap(err, "hole")
	}
	if board != "" {
		if sit.Board, err = poker.ParseCards(board); err != nil {
			return sit, errors.Wrap(err, "board")
		}
	}
	switch strings.ToLower(auction) {
	case "", "pending":
		sit.Auction = equity.AuctionPending
	case "won":
		sit.Auction = equity.AuctionWon
	case "lost":
		sit.Auction = equity.AuctionLost
	default:
		return sit, errors.Errorf("unknown auction state %q", auction)
	}
	if err := sit.Validate(); err != nil {
		return sit, err
	}
	return sit, nil
}

func scenariosFor(a equity.AuctionState) []equity.Scenario {
	if a == equity.AuctionPending {
		return []equity.Scenario{equity.WithAuction, equity.WithoutAuction}
	}
	return []equity.Scenario{equity.Resolved}
}

func renderEquity(sit equity.Situation, results []scenarioResult, iterations int, took time.Duration) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", headerStyle.Render("Hole:"), handStyle.Render(poker.NewHand(sit.Hole...).String()))
	if len(sit.Hole) == 2 {
		fmt.Fprintf(&b, " %s", categoryStyle.Render("("+string(poker.CategorizeHoleCards(sit.Hole[0], sit.Hole[1]))+")"))
	}
	b.WriteString("\n")
	if len(sit.Board) > 0 {
		fmt.Fprintf(&b, "%s %s\n", headerStyle.Render("Board:"), handStyle.Render(poker.NewHand(sit.Board...).String()))
	}
	fmt.Fprintf(&b, "%s %s\n\n", headerStyle.Render("Auction:"), sit.Auction)

	fmt.Fprintf(&b, "%s\n", headerStyle.Render(fmt.Sprintf("%-16s %8s %8s %8s %8s  %s", "Scenario", "Equity", "Win", "Tie", "Loss", "95% CI")))
	for _, r := range results {
		t := r.Tally
		lo, hi := t.ConfidenceInterval()
		fmt.Fprintf(&b, "%-16s %s %s %s %s  [%.1f%%, %.1f%%]\n",
			r.Scenario,
			handStyle.Render(fmt.Sprintf("%7.2f%%", t.Equity()*100)),
			winStyle.Render(fmt.Sprintf("%8s", percent(t.Wins, t.Trials()))),
			tieStyle.Render(fmt.Sprintf("%8s", percent(t.Ties, t.Trials()))),
			lossStyle.Render(fmt.Sprintf("%8s", percent(t.Losses, t.Trials()))),
			lo*100, hi*100)
	}
	if len(results) == 2 {
		spread := results[0].Tally.Equity() - results[1].Tally.Equity()
		fmt.Fprintf(&b, "\n%s %+.2f%%\n", headerStyle.Render("Auction card worth:"), spread*100)
	}
	fmt.Fprintf(&b, "\n%d trials per scenario in %s\n", iterations, took.Round(time.Millisecond))
	return b.String()
}

func percent(n, total int) string {
	if total == 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", float64(n)/float64(total)*100)
}
