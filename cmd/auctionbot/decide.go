package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/lox/auctionbot/internal/game"
)

type DecideCmd struct {
	Snapshot string `short:"s" default:"-" help:"Snapshot JSON file, - for stdin"`
	Seed     *int64 `help:"Random seed for reproducible decisions"`
}

func (c *DecideCmd) Run(g *Globals) error {
	cfg, logger, err := g.load()
	if err != nil {
		return err
	}
	in, closeIn, err := openInput(c.Snapshot)
	if err != nil {
		return err
	}
	defer closeIn()

	snap, err := readSnapshot(in)
	if err != nil {
		return err
	}
	b, err := newBot(cfg, c.Seed, logger)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(logger)
	defer cancel()

	b.NewMatch()
	action, err := b.Decide(ctx, snap)
	if err != nil {
		return err
	}
	return json.NewEncoder(os.Stdout).Encode(action)
}

// openInput opens name for reading, treating "-" as stdin.
func openInput(name string) (io.Reader, func(), error) {
	if name == "" || name == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, nil, errors.Wrap(err, "open input")
	}
	return f, func() { _ = f.Close() }, nil
}

// readSnapshot decodes exactly one snapshot. Unknown fields are rejected so
// typos in hand-written snapshots do not pass silently.
func readSnapshot(r io.Reader) (*game.Snapshot, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var snap game.Snapshot
	if err := dec.Decode(&snap); err != nil {
		return nil, errors.Wrap(err, "decode snapshot")
	}
	return &snap, nil
}
