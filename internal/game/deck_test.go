package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeck_TwoFullDecks(t *testing.T) {
	deck := NewDeck()
	require.Len(t, deck, DeckSize)

	counts := make(map[Card]int)
	for _, c := range deck {
		counts[c]++
	}

	assert.Len(t, counts, 52)
	for card, n := range counts {
		assert.Equal(t, 2, n, "expected exactly two copies of %s", card)
	}
}

func TestShuffleDeck_PreservesMultiset(t *testing.T) {
	deck := NewDeck()
	ShuffleDeck(deck)

	require.Len(t, deck, DeckSize)
	counts := make(map[Card]int)
	for _, c := range deck {
		counts[c]++
	}
	for card, n := range counts {
		assert.Equal(t, 2, n, "shuffle must not duplicate or drop %s", card)
	}
}

func TestCardClassification(t *testing.T) {
	tests := []struct {
		card    Card
		twoEyed bool
		oneEyed bool
	}{
		{Card{"J", SuitDiamonds}, true, false},
		{Card{"J", SuitClubs}, true, false},
		{Card{"J", SuitSpades}, false, true},
		{Card{"J", SuitHearts}, false, true},
		{Card{"Q", SuitDiamonds}, false, false},
		{Card{"10", SuitSpades}, false, false},
		{Card{"A", SuitHearts}, false, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.twoEyed, tt.card.IsTwoEyedJack(), "%s two-eyed", tt.card)
		assert.Equal(t, tt.oneEyed, tt.card.IsOneEyedJack(), "%s one-eyed", tt.card)
	}
}

func TestCardEquals_ByRankAndSuit(t *testing.T) {
	a := Card{Rank: "7", Suit: SuitClubs}
	b := Card{Rank: "7", Suit: SuitClubs}
	c := Card{Rank: "7", Suit: SuitSpades}

	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(c))
}
