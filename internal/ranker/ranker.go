// Package ranker provides hand rankers for equity estimation: the native
// bitmask evaluator and an adapter over github.com/paulhankin/poker.
package ranker

import (
	"strings"

	"github.com/lox/auctionbot/poker"
	"github.com/pkg/errors"
)

// Ranker orders hands of five or more cards. A higher strength wins.
type Ranker interface {
	Strength(hand poker.Hand) (int32, error)
}

// Names of the available rankers.
const (
	NameNative  = "native"
	NameLibrary = "paulhankin"
)

// New returns the ranker registered under name.
func New(name string) (Ranker, error) {
	switch strings.ToLower(name) {
	case "", NameNative:
		return Native{}, nil
	case NameLibrary:
		return NewLibrary()
	default:
		return nil, errors.Errorf("unknown ranker %q", name)
	}
}

// Native ranks with the package poker evaluator.
type Native struct{}

// Strength inverts poker.HandRank so that stronger hands score higher.
func (Native) Strength(hand poker.Hand) (int32, error) {
	rank, err := poker.Evaluate(hand)
	if err != nil {
		return 0, err
	}
	return int32(poker.WorstHandRank) - int32(rank), nil
}
