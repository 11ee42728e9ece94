// Package game describes what the match engine hands the bot at each
// decision and what the bot hands back.
//
// A Snapshot is a read-only view of one decision point: our cards, the
// revealed board, pips and stacks, auction bids once they are revealed,
// the legal action kinds and the match rules. The bot answers with exactly
// one Action drawn from the legal set.
//
// # Streets and the auction
//
// Street counts the board cards shown: 0 pre-flop, then 3, 4 and 5. The
// extra-card auction is decided at the flop, so it is still pending on
// street 0 and on street 3 while Bid is legal:
//
//	snap := &game.Snapshot{Street: 3, Legal: game.NewActionSet(game.Bid)}
//	snap.AuctionPending() // true
//
// Snapshots decode from JSON with cards written as "As", "Td" and so on.
package game
