package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/auctionbot/internal/bot"
	"github.com/lox/auctionbot/internal/config"
	"github.com/lox/auctionbot/internal/equity"
	"github.com/lox/auctionbot/internal/game"
)

const preflopJSON = `{"legal":["fold","call","raise"],"street":0,"hole":["As","Ad"],"board":[],` +
	`"my_pip":1,"opp_pip":2,"my_stack":399,"opp_stack":398,"min_raise":4,"max_raise":400,` +
	`"round_num":%d,"game_clock":30}`

func TestParseSituation(t *testing.T) {
	tests := []struct {
		name     string
		hole     string
		board    string
		auction  string
		expected equity.AuctionState
		hasError bool
	}{
		{name: "Pre-flop", hole: "AsKd", auction: "pending", expected: equity.AuctionPending},
		{name: "Flop auction", hole: "As Kd", board: "2c7h9s", auction: "", expected: equity.AuctionPending},
		{name: "Won auction", hole: "AsKdQh", board: "2c7h9s", auction: "won", expected: equity.AuctionWon},
		{name: "Lost auction, upper case", hole: "AsKd", board: "2c7h9sTd", auction: "LOST", expected: equity.AuctionLost},
		{name: "Invalid card", hole: "AsXd", auction: "pending", hasError: true},
		{name: "Duplicate across hole and board", hole: "AsKd", board: "As7h9s", auction: "lost", hasError: true},
		{name: "Two card board", hole: "AsKd", board: "2c7h", auction: "lost", hasError: true},
		{name: "Three hole cards before auction", hole: "AsKdQh", auction: "pending", hasError: true},
		{name: "Unknown auction state", hole: "AsKd", auction: "maybe", hasError: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sit, err := parseSituation(tt.hole, tt.board, tt.auction)
			if tt.hasError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, sit.Auction)
		})
	}
}

func TestScenariosFor(t *testing.T) {
	assert.Equal(t, []equity.Scenario{equity.WithAuction, equity.WithoutAuction}, scenariosFor(equity.AuctionPending))
	assert.Equal(t, []equity.Scenario{equity.Resolved}, scenariosFor(equity.AuctionWon))
	assert.Equal(t, []equity.Scenario{equity.Resolved}, scenariosFor(equity.AuctionLost))
}

func TestRenderEquity(t *testing.T) {
	sit, err := parseSituation("AsAd", "", "pending")
	require.NoError(t, err)
	out := renderEquity(sit, []scenarioResult{
		{Scenario: equity.WithAuction, Tally: equity.Tally{Wins: 90, Ties: 2, Losses: 8}},
		{Scenario: equity.WithoutAuction, Tally: equity.Tally{Wins: 80, Ties: 2, Losses: 18}},
	}, 100, 1500*time.Microsecond)

	assert.Contains(t, out, "with-auction")
	assert.Contains(t, out, "without-auction")
	assert.Contains(t, out, "91.00%")
	assert.Contains(t, out, "Auction card worth:")
	assert.Contains(t, out, "+10.00%")
	assert.Contains(t, out, "100 trials per scenario")
}

func TestReadSnapshot(t *testing.T) {
	snap, err := readSnapshot(strings.NewReader(fmt.Sprintf(preflopJSON, 3)))
	require.NoError(t, err)
	assert.Equal(t, 3, snap.RoundNum)
	assert.Len(t, snap.Hole, 2)
	assert.True(t, snap.Legal.Has(game.Raise))

	_, err = readSnapshot(strings.NewReader(`{"street":0,"hole_cards":["As","Ad"]}`))
	assert.Error(t, err, "unknown fields are rejected")

	_, err = readSnapshot(strings.NewReader(`{"hole":["As","Zz"]}`))
	assert.Error(t, err)
}

func testBot(t *testing.T) *bot.Bot {
	t.Helper()
	cfg := config.Default()
	cfg.Equity.Iterations = 50
	cfg.Equity.Workers = 2
	seed := int64(7)
	b, err := newBot(cfg, &seed, log.NewWithOptions(io.Discard, log.Options{}))
	require.NoError(t, err)
	return b
}

func replayInput(lines ...string) io.Reader {
	return strings.NewReader(strings.Join(lines, "\n") + "\n")
}

func snapshotEvent(round int) string {
	return `{"snapshot":` + fmt.Sprintf(preflopJSON, round) + `}`
}

func TestReplay(t *testing.T) {
	b := testBot(t)
	var out bytes.Buffer
	err := replay(context.Background(), b, replayInput(
		snapshotEvent(1),
		`{"result":{"round_num":1,"delta":-2,"street":0}}`,
		snapshotEvent(2),
		`{"result":{"round_num":2,"delta":30,"street":5,"opp_hole":["7c","2d"]}}`,
	), &out)
	require.NoError(t, err)

	dec := json.NewDecoder(&out)
	for round := 1; round <= 2; round++ {
		var step replayStep
		require.NoError(t, dec.Decode(&step))
		assert.Equal(t, round, step.Round)
		assert.Zero(t, step.Street)
		assert.Contains(t, []game.ActionKind{game.Fold, game.Call, game.Raise}, step.Action.Kind)
	}

	stats := b.Stats()
	assert.Equal(t, 2, stats.Rounds)
	assert.Equal(t, 28, stats.Delta)
	assert.Equal(t, 2, stats.Decisions)
	assert.Equal(t, 1, stats.Showdowns)

	summary := renderStats(stats, b.Ledger())
	assert.Contains(t, summary, "+28")
	assert.Contains(t, summary, "Decisions")
	assert.Contains(t, summary, "700.0 bb/100")
}

func TestReplayIsDeterministicUnderSeed(t *testing.T) {
	run := func() string {
		var out bytes.Buffer
		require.NoError(t, replay(context.Background(), testBot(t), replayInput(snapshotEvent(1), snapshotEvent(2)), &out))
		return out.String()
	}
	assert.Equal(t, run(), run())
}

func TestReplayErrors(t *testing.T) {
	tests := map[string]string{
		"empty event":  `{}`,
		"both set":     `{"snapshot":{},"result":{}}`,
		"bad json":     `{"snapshot":`,
		"bad snapshot": `{"snapshot":{"street":2}}`,
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			err := replay(context.Background(), testBot(t), replayInput(input), io.Discard)
			assert.Error(t, err)
		})
	}
}

func TestReplayStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := replay(ctx, testBot(t), replayInput(snapshotEvent(1)), io.Discard)
	assert.ErrorIs(t, err, context.Canceled)
}
