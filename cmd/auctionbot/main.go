package main

import (
	"github.com/alecthomas/kong"
)

var version = "dev"

// Globals are the flags shared by every command.
type Globals struct {
	Config   string           `short:"c" default:"auctionbot.hcl" type:"path" help:"HCL config file (missing file means defaults)"`
	LogLevel string           `help:"Log level (debug|info|warn|error), overrides the config file"`
	Version  kong.VersionFlag `short:"v" help:"Show version"`
}

type CLI struct {
	Globals

	Equity EquityCmd `cmd:"" help:"Estimate equity for a hand"`
	Decide DecideCmd `cmd:"" help:"Choose an action for one snapshot"`
	Replay ReplayCmd `cmd:"" help:"Feed a match of snapshots through one bot"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("auctionbot"),
		kong.Description("Equity estimation and decisions for heads-up auction hold'em"),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
