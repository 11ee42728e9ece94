package policy

import "github.com/lox/auctionbot/internal/game"

// proportionalRaise is the continue cost plus a share of the pot equal to
// strength, with the pot floored at floor, capped at our stack.
func proportionalRaise(snap *game.Snapshot, strength float64, floor int) int {
	pot := max(snap.Pot(), floor)
	cost := int(float64(snap.ContinueCost()) + strength*float64(pot))
	return min(cost, snap.MyStack)
}

// potFractionRaise is the continue cost plus frac of the pot.
func potFractionRaise(snap *game.Snapshot, frac float64) int {
	return int(float64(snap.ContinueCost()) + frac*float64(snap.Pot()))
}

// commitAction is the aggressive choice: a raise costing raiseCost when
// that is legal and affordable, else a call we can cover, else check/fold.
func commitAction(snap *game.Snapshot, raiseCost int) (game.Action, error) {
	legal := snap.Legal
	if legal.Has(game.Raise) && raiseCost <= snap.MyStack {
		amount := min(max(snap.MyPip+raiseCost, snap.MinRaise), snap.MaxRaise)
		return game.RaiseAction(amount), nil
	}
	if legal.Has(game.Call) && snap.ContinueCost() <= snap.MyStack {
		return game.CallAction(), nil
	}
	return checkFold(legal)
}

func callOrCheckFold(snap *game.Snapshot) (game.Action, error) {
	if snap.Legal.Has(game.Call) {
		return game.CallAction(), nil
	}
	return checkFold(snap.Legal)
}

func checkFold(legal game.ActionSet) (game.Action, error) {
	switch {
	case legal.Has(game.Check):
		return game.CheckAction(), nil
	case legal.Has(game.Fold):
		return game.FoldAction(), nil
	}
	return game.Action{}, ErrNoSafeAction
}

func clampBid(amount, stack int) int {
	return max(0, min(amount, stack))
}
