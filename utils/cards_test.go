package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreHand(t *testing.T) {
	tests := []struct {
		name string
		hand Hand
		want int
	}{
		{"empty", Hand{}, 0},
		{"pair of faces", Hand{"K", "Q"}, 20},
		{"natural", Hand{"A", "K"}, 21},
		{"two aces and a nine", Hand{"A", "A", "9"}, 21},
		{"soft seventeen", Hand{"A", "6"}, 17},
		{"ace drops to one", Hand{"A", "6", "10"}, 17},
		{"four aces", Hand{"A", "A", "A", "A"}, 14},
		{"bust", Hand{"K", "Q", "2"}, 22},
		{"ten card", Hand{"10", "5", "6"}, 21},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ScoreHand(tt.hand))
		})
	}
}

func TestHandPredicates(t *testing.T) {
	assert.True(t, Hand{"A", "K"}.IsBlackjack())
	assert.False(t, Hand{"7", "7", "7"}.IsBlackjack(), "three-card 21 is not a natural")
	assert.True(t, Hand{"K", "Q", "5"}.IsBusted())
	assert.False(t, Hand{"A", "A", "9"}.IsBusted())
	assert.True(t, Hand{"A", "6"}.IsSoft())
	assert.False(t, Hand{"A", "6", "10"}.IsSoft())
	assert.False(t, Hand{"10", "7"}.IsSoft())
}

func TestFormatHand(t *testing.T) {
	assert.Equal(t, "A, 10, K", FormatHand(Hand{"A", "10", "K"}))
	assert.Equal(t, "", FormatHand(nil))
	assert.Equal(t, "5", Hand{"5"}.String())
}

func TestRankValues(t *testing.T) {
	require.Len(t, CardRankOrder, 13)
	for _, rank := range CardRankOrder {
		assert.True(t, rank.Valid(), "rank %s", rank)
		assert.GreaterOrEqual(t, rank.Value(), 2)
		assert.LessOrEqual(t, rank.Value(), 11)
	}
	assert.False(t, Rank("1").Valid())
	assert.Equal(t, 0, Rank("joker").Value())
	assert.Equal(t, 11, Rank("A").Value())
	assert.Equal(t, 10, Rank("J").Value())
}

func TestRandomDeckDrawsKnownRanks(t *testing.T) {
	deck := NewRandomDeck()
	seen := make(map[Rank]bool)
	for i := 0; i < 2000; i++ {
		card := deck.Draw()
		require.True(t, card.Valid(), "drew unknown rank %q", card)
		seen[card] = true
	}
	assert.Len(t, seen, len(CardRankOrder), "every rank should show up in 2000 draws")
}

func TestStackedDeck(t *testing.T) {
	deck := NewStackedDeck("A", "K", "9")
	assert.Equal(t, 3, deck.Remaining())
	assert.Equal(t, Rank("A"), deck.Draw())
	assert.Equal(t, Rank("K"), deck.Draw())
	assert.Equal(t, Rank("9"), deck.Draw())
	assert.Equal(t, 0, deck.Remaining())

	// Falls back to random cards once the stack runs out
	assert.True(t, deck.Draw().Valid())
}
