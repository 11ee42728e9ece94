package game

import "github.com/lox/auctionbot/poker"

// RoundResult is what the engine reports when a round ends.
type RoundResult struct {
	RoundNum int `json:"round_num"`
	// Delta is our bankroll change from this round.
	Delta int `json:"delta"`
	// Street is the street the round ended on.
	Street  int          `json:"street"`
	OppHole []poker.Card `json:"opp_hole,omitempty"`
	MyBid   *int         `json:"my_bid,omitempty"`
	OppBid  *int         `json:"opp_bid,omitempty"`
}

// Showdown reports whether the opponent's cards were revealed.
func (r RoundResult) Showdown() bool {
	return len(r.OppHole) > 0
}
