package game

// Suit is one of the four French suits, serialized with its full English name.
type Suit string

const (
	SuitHearts   Suit = "Hearts"
	SuitDiamonds Suit = "Diamonds"
	SuitClubs    Suit = "Clubs"
	SuitSpades   Suit = "Spades"
)

// Rank is a card rank: "2".."10", "J", "Q", "K", "A".
type Rank string

var (
	allSuits = []Suit{SuitHearts, SuitDiamonds, SuitClubs, SuitSpades}
	allRanks = []Rank{"2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K", "A"}
)

// Card identifies a playing card by rank and suit. Two cards are equal iff
// rank and suit match; the identity of the physical copy never matters.
type Card struct {
	Rank Rank `json:"rank"`
	Suit Suit `json:"suit"`
}

// Equals reports whether c and other are the same rank and suit.
func (c Card) Equals(other Card) bool {
	return c.Rank == other.Rank && c.Suit == other.Suit
}

// IsTwoEyedJack reports whether c is a wild-placement Jack (Diamonds or Clubs).
func (c Card) IsTwoEyedJack() bool {
	return c.Rank == "J" && (c.Suit == SuitDiamonds || c.Suit == SuitClubs)
}

// IsOneEyedJack reports whether c is a removal Jack (Spades or Hearts).
func (c Card) IsOneEyedJack() bool {
	return c.Rank == "J" && (c.Suit == SuitSpades || c.Suit == SuitHearts)
}

func (c Card) String() string {
	return string(c.Rank) + " of " + string(c.Suit)
}
