package equity

import (
	rand "math/rand/v2"

	"github.com/lox/auctionbot/poker"
	"github.com/pkg/errors"
)

// ErrNotEnoughCards is returned when a draw asks for more cards than remain unseen.
var ErrNotEnoughCards = errors.New("not enough unseen cards")

// Sampler draws uniformly random sets of unseen cards. Every Draw reshuffles
// all unseen cards, so consecutive draws are independent.
type Sampler struct {
	deck *poker.Deck
}

// NewSampler builds a sampler over every card not in known.
func NewSampler(known poker.Hand, rng *rand.Rand) *Sampler {
	return &Sampler{deck: poker.NewDeckWithout(rng, known)}
}

// Unseen returns how many cards the sampler draws from.
func (s *Sampler) Unseen() int {
	return s.deck.Size()
}

// Draw returns k distinct unseen cards. The slice is reused by the next Draw.
func (s *Sampler) Draw(k int) ([]poker.Card, error) {
	if k < 0 || k > s.deck.Size() {
		return nil, errors.Wrapf(ErrNotEnoughCards, "want %d, have %d", k, s.deck.Size())
	}
	s.deck.Shuffle()
	return s.deck.Deal(k), nil
}
