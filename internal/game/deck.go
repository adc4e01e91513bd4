package game

import "math/rand"

// DeckSize is two merged standard 52-card decks.
const DeckSize = 104

// NewDeck returns an unshuffled draw pile containing two copies of every
// rank/suit combination, Jacks included.
func NewDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for copies := 0; copies < 2; copies++ {
		for _, suit := range allSuits {
			for _, rank := range allRanks {
				deck = append(deck, Card{Rank: rank, Suit: suit})
			}
		}
	}
	return deck
}

// ShuffleDeck permutes the draw pile in place with a uniform Fisher-Yates
// shuffle. The front of the slice is the next card drawn.
func ShuffleDeck(deck []Card) {
	rand.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
}
