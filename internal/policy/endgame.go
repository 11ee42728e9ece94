package policy

import "github.com/lox/auctionbot/internal/game"

// Unbeatable reports whether a bankroll lead survives forfeiting every
// remaining round. remaining counts the current round. Blinds alternate,
// so when we post the big blind now we post it in the odd rounds left.
func Unbeatable(bankroll, remaining int, bigBlindNow bool, smallBlind, bigBlind int) bool {
	if remaining < 0 {
		remaining = 0
	}
	half, rest := remaining/2, remaining-remaining/2
	numSmall, numBig := rest, half
	if bigBlindNow {
		numSmall, numBig = half, rest
	}
	worst := smallBlind*numSmall + bigBlind*numBig
	return bankroll-worst > 0
}

// Locked applies Unbeatable to a snapshot.
func Locked(s *game.Snapshot) bool {
	return Unbeatable(s.Bankroll, s.RemainingRounds(), s.IsBigBlind, s.Rules.SmallBlind, s.Rules.BigBlind)
}
