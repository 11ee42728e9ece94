package game

import (
	"encoding/json"
	"fmt"
	"math/bits"
	"strings"

	"github.com/pkg/errors"
)

// ActionKind identifies one of the five actions the engine accepts.
type ActionKind uint8

const (
	Fold ActionKind = iota
	Check
	Call
	Raise
	Bid
	numActionKinds
)

var actionNames = [numActionKinds]string{"fold", "check", "call", "raise", "bid"}

func (k ActionKind) String() string {
	if k < numActionKinds {
		return actionNames[k]
	}
	return fmt.Sprintf("action(%d)", uint8(k))
}

// ParseActionKind accepts the lower-case names used in snapshots.
func ParseActionKind(s string) (ActionKind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range actionNames {
		if s == name {
			return ActionKind(i), nil
		}
	}
	return 0, errors.Errorf("unknown action %q", s)
}

func (k ActionKind) MarshalText() ([]byte, error) {
	if k >= numActionKinds {
		return nil, errors.Errorf("invalid action kind %d", uint8(k))
	}
	return []byte(k.String()), nil
}

func (k *ActionKind) UnmarshalText(text []byte) error {
	parsed, err := ParseActionKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Action is one decision. Amount is only meaningful for Raise (the total
// pip to raise to) and Bid (chips offered for the auction card).
type Action struct {
	Kind   ActionKind `json:"kind"`
	Amount int        `json:"amount,omitempty"`
}

func FoldAction() Action  { return Action{Kind: Fold} }
func CheckAction() Action { return Action{Kind: Check} }
func CallAction() Action  { return Action{Kind: Call} }

// RaiseAction raises our pip to amount.
func RaiseAction(amount int) Action { return Action{Kind: Raise, Amount: amount} }

// BidAction offers amount chips in the auction.
func BidAction(amount int) Action { return Action{Kind: Bid, Amount: amount} }

func (a Action) String() string {
	switch a.Kind {
	case Raise, Bid:
		return fmt.Sprintf("%s %d", a.Kind, a.Amount)
	default:
		return a.Kind.String()
	}
}

// ActionSet is a set of legal action kinds.
type ActionSet uint8

// NewActionSet builds a set from kinds.
func NewActionSet(kinds ...ActionKind) ActionSet {
	var s ActionSet
	for _, k := range kinds {
		s |= 1 << k
	}
	return s
}

// Has reports whether k is in the set.
func (s ActionSet) Has(k ActionKind) bool {
	return k < numActionKinds && s&(1<<k) != 0
}

// Len returns the number of kinds in the set.
func (s ActionSet) Len() int {
	return bits.OnesCount8(uint8(s))
}

// Kinds lists the set in fold, check, call, raise, bid order.
func (s ActionSet) Kinds() []ActionKind {
	kinds := make([]ActionKind, 0, s.Len())
	for k := range numActionKinds {
		if s.Has(k) {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

func (s ActionSet) String() string {
	names := make([]string, 0, s.Len())
	for _, k := range s.Kinds() {
		names = append(names, k.String())
	}
	return "{" + strings.Join(names, ",") + "}"
}

// MarshalJSON encodes the set as a list of action names.
func (s ActionSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Kinds())
}

func (s *ActionSet) UnmarshalJSON(data []byte) error {
	var kinds []ActionKind
	if err := json.Unmarshal(data, &kinds); err != nil {
		return errors.Wrap(err, "legal actions")
	}
	*s = NewActionSet(kinds...)
	return nil
}

// Permits reports whether a is legal under s. Amounts are not checked.
func (s ActionSet) Permits(a Action) bool {
	return s.Has(a.Kind)
}
