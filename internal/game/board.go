package game

import "fmt"

// BoardSize is the fixed board edge length.
const BoardSize = 10

// Position addresses a board cell. X is the column, Y is the row.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Cell is one board square. Corner cells never hold a card and count as
// owned by every team for sequence purposes. OwnerID is empty while no chip
// sits on the cell. InSequence is a derived flag recomputed every turn.
type Cell struct {
	Card       *Card  `json:"card,omitempty"`
	OwnerID    string `json:"ownerId,omitempty"`
	Corner     bool   `json:"isCorner"`
	InSequence bool   `json:"isSequence"`
}

// Board is the 10x10 grid, indexed Cells[y][x].
type Board struct {
	Cells [][]Cell `json:"cells"`
}

// boardLayout is the curated card arrangement seeding the 96 non-corner
// cells. Tokens are rank+suit-letter; WILD marks the four free corners.
var boardLayout = [BoardSize][BoardSize]string{
	{"WILD", "6D", "7D", "8D", "9D", "10D", "QD", "KD", "AD", "WILD"},
	{"5D", "3H", "2H", "2S", "3S", "4S", "5S", "6S", "7S", "AC"},
	{"4D", "4H", "KD", "AD", "AC", "KC", "QC", "10C", "8S", "KC"},
	{"3D", "5H", "QD", "QH", "10H", "9H", "8H", "9C", "9S", "QC"},
	{"2D", "6H", "10D", "KH", "3H", "2H", "7H", "8C", "10S", "10C"},
	{"AS", "7H", "9D", "AH", "4H", "5H", "6H", "7C", "QS", "9C"},
	{"KS", "8H", "8D", "2C", "3C", "4C", "5C", "6C", "KS", "8C"},
	{"QS", "9H", "7D", "6D", "5D", "4D", "3D", "2D", "AS", "7C"},
	{"10S", "10H", "QH", "KH", "AH", "2C", "3C", "4C", "5C", "6C"},
	{"WILD", "9S", "8S", "7S", "6S", "5S", "4S", "3S", "2S", "WILD"},
}

// NewBoard builds the board from the fixed layout. The four corners get no
// card; every other cell gets exactly one.
func NewBoard() *Board {
	cells := make([][]Cell, BoardSize)
	for y := 0; y < BoardSize; y++ {
		cells[y] = make([]Cell, BoardSize)
		for x := 0; x < BoardSize; x++ {
			if isCorner(x, y) {
				cells[y][x] = Cell{Corner: true}
				continue
			}
			card := parseCardToken(boardLayout[y][x])
			cells[y][x] = Cell{Card: &card}
		}
	}
	return &Board{Cells: cells}
}

// At returns the cell at (x, y). Callers must bounds-check first.
func (b *Board) At(x, y int) *Cell {
	return &b.Cells[y][x]
}

// InBounds reports whether (x, y) lies on the board.
func (b *Board) InBounds(x, y int) bool {
	return x >= 0 && x < BoardSize && y >= 0 && y < BoardSize
}

// HasFreeCell reports whether any non-corner cell is unowned.
func (b *Board) HasFreeCell() bool {
	for y := range b.Cells {
		for x := range b.Cells[y] {
			cell := &b.Cells[y][x]
			if !cell.Corner && cell.OwnerID == "" {
				return true
			}
		}
	}
	return false
}

// HasFreeMatchingCell reports whether some unowned cell still shows card.
func (b *Board) HasFreeMatchingCell(card Card) bool {
	for y := range b.Cells {
		for x := range b.Cells[y] {
			cell := &b.Cells[y][x]
			if cell.Corner || cell.Card == nil {
				continue
			}
			if cell.OwnerID == "" && cell.Card.Equals(card) {
				return true
			}
		}
	}
	return false
}

func isCorner(x, y int) bool {
	return (x == 0 || x == BoardSize-1) && (y == 0 || y == BoardSize-1)
}

func parseCardToken(token string) Card {
	rank := Rank(token[:len(token)-1])
	var suit Suit
	switch token[len(token)-1] {
	case 'D':
		suit = SuitDiamonds
	case 'H':
		suit = SuitHearts
	case 'C':
		suit = SuitClubs
	case 'S':
		suit = SuitSpades
	default:
		panic(fmt.Sprintf("bad board layout token %q", token))
	}
	return Card{Rank: rank, Suit: suit}
}
