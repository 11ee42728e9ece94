package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/lox/auctionbot/internal/bot"
	"github.com/lox/auctionbot/internal/game"
	"github.com/lox/auctionbot/internal/statistics"
)

type ReplayCmd struct {
	Snapshots string `required:"" help:"JSON lines file of events, - for stdin"`
	Seed      *int64 `help:"Random seed for reproducible decisions"`
}

// replayEvent is one line of a replay file. Exactly one field is set: a
// snapshot asks for a decision, a result closes the round.
type replayEvent struct {
	Snapshot *game.Snapshot    `json:"snapshot,omitempty"`
	Result   *game.RoundResult `json:"result,omitempty"`
}

// replayStep is what the bot did for one snapshot.
type replayStep struct {
	Round  int         `json:"round"`
	Street int         `json:"street"`
	Action game.Action `json:"action"`
}

func (c *ReplayCmd) Run(g *Globals) error {
	cfg, logger, err := g.load()
	if err != nil {
		return err
	}
	in, closeIn, err := openInput(c.Snapshots)
	if err != nil {
		return err
	}
	defer closeIn()

	b, err := newBot(cfg, c.Seed, logger)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(logger)
	defer cancel()

	if err := replay(ctx, b, in, os.Stdout); err != nil {
		return err
	}
	fmt.Print(renderStats(b.Stats(), b.Ledger()))
	return nil
}

// replay plays every event in r through one match of b, writing each
// decision to w as a JSON line.
func replay(ctx context.Context, b *bot.Bot, r io.Reader, w io.Writer) error {
	b.NewMatch()
	dec := json.NewDecoder(r)
	enc := json.NewEncoder(w)
	for line := 1; ; line++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		var ev replayEvent
		if err := dec.Decode(&ev); err == io.EOF {
			return nil
		} else if err != nil {
			return errors.Wrapf(err, "event %d", line)
		}

		switch {
		case ev.Snapshot != nil && ev.Result != nil:
			return errors.Errorf("event %d: both snapshot and result set", line)
		case ev.Snapshot != nil:
			a, err := b.Decide(ctx, ev.Snapshot)
			if err != nil {
				return errors.Wrapf(err, "event %d", line)
			}
			step := replayStep{Round: ev.Snapshot.RoundNum, Street: ev.Snapshot.Street, Action: a}
			if err := enc.Encode(step); err != nil {
				return errors.Wrap(err, "write decision")
			}
		case ev.Result != nil:
			b.RoundOver(*ev.Result)
		default:
			return errors.Errorf("event %d: neither snapshot nor result set", line)
		}
	}
}

func renderStats(s bot.Stats, l *statistics.Statistics) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Match summary") + "\n")
	row := func(label, value string) {
		fmt.Fprintf(&b, "  %-16s %s\n", label, value)
	}
	delta := fmt.Sprintf("%+d", s.Delta)
	if s.Delta >= 0 {
		delta = winStyle.Render(delta)
	} else {
		delta = lossStyle.Render(delta)
	}
	row("Rounds", fmt.Sprint(s.Rounds))
	row("Chips", delta)
	row("Decisions", fmt.Sprint(s.Decisions))
	row("Forfeits", fmt.Sprint(s.Forfeits))
	row("Folds to raise", fmt.Sprint(s.FoldsToRaise))
	row("Auctions", fmt.Sprintf("%d won, %d lost", s.BidsWon, s.BidsLost))
	row("Showdowns", fmt.Sprint(s.Showdowns))
	row("Think time", s.ThinkTime.String())
	if l.Rounds > 0 {
		lo, hi := l.ConfidenceInterval95()
		row("Win rate", fmt.Sprintf("%.1f bb/100 (95%% CI %.1f to %.1f)", l.BBPer100(), lo*100, hi*100))
		row("Small blind", fmt.Sprintf("%.2f bb/round over %d", l.Seats[statistics.SmallBlind].Mean(), l.Seats[statistics.SmallBlind].Rounds))
		row("Big blind", fmt.Sprintf("%.2f bb/round over %d", l.Seats[statistics.BigBlind].Mean(), l.Seats[statistics.BigBlind].Rounds))
		row("Biggest pots", fmt.Sprintf("%+d / %+d", l.BiggestWin, l.BiggestLoss))
	}
	return b.String()
}
