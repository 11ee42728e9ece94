package poker

import (
	rand "math/rand/v2"

	"github.com/pkg/errors"
)

// ErrCardNotInDeck is returned when removing a card the deck no longer holds.
var ErrCardNotInDeck = errors.New("card not in deck")

// Deck is the set of 52 cards minus any cards removed as known.
// Shuffle always permutes every remaining card, so repeated Shuffle+Deal
// cycles are independent draws rather than a walk through one deck.
type Deck struct {
	cards [52]Card // Fixed size array, first size entries are live
	size  int
	next  int
	rng   *rand.Rand
}

// NewDeck creates a full, unshuffled deck that shuffles with rng.
func NewDeck(rng *rand.Rand) *Deck {
	d := &Deck{rng: rng}
	for suit := range uint8(4) {
		for rank := range uint8(13) {
			d.cards[d.size] = NewCard(rank, suit)
			d.size++
		}
	}
	return d
}

// NewDeckWithout creates a deck with the known cards already removed.
func NewDeckWithout(rng *rand.Rand, known Hand) *Deck {
	d := &Deck{rng: rng}
	for suit := range uint8(4) {
		for rank := range uint8(13) {
			card := NewCard(rank, suit)
			if known.HasCard(card) {
				continue
			}
			d.cards[d.size] = card
			d.size++
		}
	}
	return d
}

// Remove takes a known card out of the deck.
func (d *Deck) Remove(card Card) error {
	for i := 0; i < d.size; i++ {
		if d.cards[i] == card {
			d.size--
			d.cards[i] = d.cards[d.size]
			d.cards[d.size] = 0
			if d.next > d.size {
				d.next = d.size
			}
			return nil
		}
	}
	return errors.Wrapf(ErrCardNotInDeck, "%s", card)
}

// Contains reports whether the card is still in the deck.
func (d *Deck) Contains(card Card) bool {
	for i := 0; i < d.size; i++ {
		if d.cards[i] == card {
			return true
		}
	}
	return false
}

// Shuffle shuffles every remaining card using Fisher-Yates and rewinds dealing.
func (d *Deck) Shuffle() {
	d.next = 0
	for i := d.size - 1; i > 0; i-- {
		j := d.rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Deal deals n cards from the deck. The returned slice aliases the deck and
// is only valid until the next Shuffle.
func (d *Deck) Deal(n int) []Card {
	if n < 0 || d.next+n > d.size {
		return nil
	}
	cards := d.cards[d.next : d.next+n]
	d.next += n
	return cards
}

// Size returns how many cards the deck holds, dealt or not.
func (d *Deck) Size() int {
	return d.size
}

// CardsRemaining returns the number of cards left to deal
func (d *Deck) CardsRemaining() int {
	return d.size - d.next
}
