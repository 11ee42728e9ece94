package ranker

import (
	"math"

	ph "github.com/paulhankin/poker"
	"github.com/pkg/errors"

	"github.com/lox/auctionbot/poker"
)

// Library ranks hands with github.com/paulhankin/poker. The library only
// scores five and seven card hands, so six and eight card hands take the
// best scoring subset.
type Library struct {
	cards [52]ph.Card
	// sign orients library scores so that stronger hands are larger.
	sign int32
}

// NewLibrary builds the card conversion table.
func NewLibrary() (*Library, error) {
	l := &Library{}
	suits := [4]ph.Suit{ph.Club, ph.Diamond, ph.Heart, ph.Spade}
	for suit := range uint8(4) {
		for rank := range uint8(13) {
			// Library ranks run 1..13 with the ace as 1.
			r := ph.Rank(rank + 2)
			if rank == poker.Ace {
				r = ph.Rank(1)
			}
			c, err := ph.MakeCard(suits[suit], r)
			if err != nil {
				return nil, errors.Wrapf(err, "convert %s", poker.NewCard(rank, suit))
			}
			l.cards[poker.NewCard(rank, suit).Index()] = c
		}
	}

	royal := l.five(poker.MustParseCards("AsKsQsJsTs"))
	worst := l.five(poker.MustParseCards("7c5d4h3s2c"))
	switch {
	case royal > worst:
		l.sign = 1
	case royal < worst:
		l.sign = -1
	default:
		return nil, errors.New("library scores do not separate a royal flush from high card")
	}
	return l, nil
}

func (l *Library) five(cards []poker.Card) int16 {
	var a [5]ph.Card
	for i, c := range cards {
		a[i] = l.cards[c.Index()]
	}
	return ph.Eval5(&a)
}

func (l *Library) seven(cards []poker.Card) int16 {
	var a [7]ph.Card
	for i, c := range cards {
		a[i] = l.cards[c.Index()]
	}
	return ph.Eval7(&a)
}

// Strength scores the best five card hand within hand (5-8 cards).
func (l *Library) Strength(hand poker.Hand) (int32, error) {
	cards := hand.Cards()
	switch len(cards) {
	case 5:
		return l.sign * int32(l.five(cards)), nil
	case 7:
		return l.sign * int32(l.seven(cards)), nil
	case 6:
		return l.bestWithout(cards, l.five), nil
	case 8:
		return l.bestWithout(cards, l.seven), nil
	}
	if len(cards) < 5 {
		return 0, errors.Wrapf(poker.ErrTooFewCards, "need 5 cards to rank, got %d", len(cards))
	}
	return 0, errors.Errorf("library ranks 5-8 cards, got %d", len(cards))
}

// bestWithout scores every subset that drops one card and keeps the best.
func (l *Library) bestWithout(cards []poker.Card, eval func([]poker.Card) int16) int32 {
	subset := make([]poker.Card, 0, len(cards)-1)
	best := int32(math.MinInt32)
	for skip := range cards {
		subset = subset[:0]
		for i, c := range cards {
			if i != skip {
				subset = append(subset, c)
			}
		}
		if s := l.sign * int32(eval(subset)); s > best {
			best = s
		}
	}
	return best
}
