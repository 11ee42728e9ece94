package poker

import "testing"

func TestCategorizeHoleCards(t *testing.T) {
	t.Parallel()
	tests := []struct {
		cards string
		want  HoleCardCategory
	}{
		{"AsAd", CategoryPremium},
		{"AhKc", CategoryPremium},
		{"TsTd", CategoryStrong},
		{"AhQc", CategoryStrong},
		{"8s8d", CategoryMedium},
		{"KhJh", CategoryMedium},
		{"3s3d", CategoryWeak},
		{"7h5h", CategoryWeak},
		{"9c2d", CategoryTrash},
	}
	for _, tc := range tests {
		cards := MustParseCards(tc.cards)
		if got := CategorizeHoleCards(cards[0], cards[1]); got != tc.want {
			t.Errorf("CategorizeHoleCards(%s) = %s, want %s", tc.cards, got, tc.want)
		}
	}
	if got := CategorizeHoleCards(0, NewCard(Ace, Spades)); got != CategoryUnknown {
		t.Errorf("expected Unknown for invalid card, got %s", got)
	}
}

func TestIsStrongHole(t *testing.T) {
	t.Parallel()
	tests := []struct {
		cards string
		want  bool
	}{
		{"2s2d", true},
		{"6h7c", true},
		{"AsKd", true},
		{"5h9c", false},
		{"Ad2c", false},
	}
	for _, tc := range tests {
		cards := MustParseCards(tc.cards)
		if got := IsStrongHole(cards[0], cards[1]); got != tc.want {
			t.Errorf("IsStrongHole(%s) = %v, want %v", tc.cards, got, tc.want)
		}
	}
}
