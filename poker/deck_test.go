package poker

import (
	"errors"
	"testing"

	"github.com/lox/auctionbot/internal/randutil"
)

func TestDeckDealAndShuffle(t *testing.T) {
	t.Parallel()
	deck := NewDeck(randutil.New(42))
	deck.Shuffle()

	cards1 := deck.Deal(2)
	cards2 := deck.Deal(3)
	if len(cards1) != 2 || len(cards2) != 3 {
		t.Fatalf("expected 2 and 3 cards, got %d and %d", len(cards1), len(cards2))
	}
	for _, c1 := range cards1 {
		for _, c2 := range cards2 {
			if c1 == c2 {
				t.Error("Dealt same card twice")
			}
		}
	}

	if remaining := deck.Deal(47); len(remaining) != 47 {
		t.Errorf("Expected 47 remaining cards, got %d", len(remaining))
	}
	if extra := deck.Deal(1); extra != nil {
		t.Error("Should not be able to deal from empty deck")
	}

	deck.Shuffle()
	if deck.CardsRemaining() != 52 {
		t.Errorf("Shuffle should rewind the deck, %d remaining", deck.CardsRemaining())
	}
}

func TestDeckRemove(t *testing.T) {
	t.Parallel()
	deck := NewDeck(randutil.New(1))
	aceSpades := NewCard(Ace, Spades)

	if err := deck.Remove(aceSpades); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if deck.Size() != 51 || deck.Contains(aceSpades) {
		t.Fatalf("expected 51 cards without As, size=%d", deck.Size())
	}
	if err := deck.Remove(aceSpades); !errors.Is(err, ErrCardNotInDeck) {
		t.Errorf("expected ErrCardNotInDeck, got %v", err)
	}

	for range 20 {
		deck.Shuffle()
		for _, c := range deck.Deal(51) {
			if c == aceSpades {
				t.Fatal("removed card was dealt")
			}
		}
	}
}

func TestNewDeckWithout(t *testing.T) {
	t.Parallel()
	known := NewHand(MustParseCards("AsKsQsJsTs")...)
	deck := NewDeckWithout(randutil.New(7), known)

	if deck.Size() != 47 {
		t.Fatalf("expected 47 cards, got %d", deck.Size())
	}
	deck.Shuffle()
	seen := NewHand(deck.Deal(47)...)
	if seen&known != 0 {
		t.Error("known cards leaked into the deck")
	}
	if seen|known != FullDeck {
		t.Error("deck is missing unseen cards")
	}
}

func TestDeckSameSeedSameOrder(t *testing.T) {
	t.Parallel()
	a := NewDeck(randutil.New(99))
	b := NewDeck(randutil.New(99))
	a.Shuffle()
	b.Shuffle()
	for i, c := range a.Deal(52) {
		if got := b.Deal(1)[0]; got != c {
			t.Fatalf("position %d: %s != %s", i, c, got)
		}
	}
}
