package ranker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/auctionbot/internal/randutil"
	"github.com/lox/auctionbot/poker"
)

func hand(s string) poker.Hand {
	return poker.NewHand(poker.MustParseCards(s)...)
}

func sign(x int32) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

func TestNew(t *testing.T) {
	r, err := New("")
	require.NoError(t, err)
	assert.IsType(t, Native{}, r)

	r, err = New("PaulHankin")
	require.NoError(t, err)
	assert.IsType(t, &Library{}, r)

	_, err = New("oracle")
	assert.Error(t, err)
}

func TestNativeStrengthOrdering(t *testing.T) {
	var r Native
	royal, err := r.Strength(hand("AsKsQsJsTs"))
	require.NoError(t, err)
	pair, err := r.Strength(hand("AsAd7c4h2s"))
	require.NoError(t, err)
	worst, err := r.Strength(hand("7c5d4h3s2c"))
	require.NoError(t, err)

	assert.Greater(t, royal, pair)
	assert.Greater(t, pair, worst)
	assert.Equal(t, int32(0), worst)

	_, err = r.Strength(hand("AsKs"))
	assert.ErrorIs(t, err, poker.ErrTooFewCards)
}

func TestLibraryOrdering(t *testing.T) {
	l, err := NewLibrary()
	require.NoError(t, err)

	sizes := []string{"AsKsQsJsTs", "AsKsQsJsTs2c", "AsKsQsJsTs2c3d", "AsKsQsJsTs2c3d4h"}
	for _, s := range sizes {
		royal, err := l.Strength(hand(s))
		require.NoError(t, err, s)
		weak, err := l.Strength(hand("7c5d4h3s2c"))
		require.NoError(t, err)
		assert.Greater(t, royal, weak, s)
	}

	_, err = l.Strength(hand("AsKsQs"))
	assert.ErrorIs(t, err, poker.ErrTooFewCards)
}

// The two rankers must agree on who wins for every size the estimator uses.
func TestLibraryAgreesWithNative(t *testing.T) {
	l, err := NewLibrary()
	require.NoError(t, err)
	var n Native

	rng := randutil.New(2024)
	for _, size := range []int{5, 6, 7, 8} {
		for range 300 {
			deck := poker.NewDeck(rng)
			deck.Shuffle()
			a := poker.NewHand(deck.Deal(size)...)
			b := poker.NewHand(deck.Deal(size)...)

			na, err := n.Strength(a)
			require.NoError(t, err)
			nb, err := n.Strength(b)
			require.NoError(t, err)
			la, err := l.Strength(a)
			require.NoError(t, err)
			lb, err := l.Strength(b)
			require.NoError(t, err)

			require.Equal(t, sign(na-nb), sign(la-lb), "%s vs %s", a, b)
		}
	}
}
