package game

import "errors"

// Absent-entity errors.
var (
	ErrGameNotFound    = errors.New("game not found")
	ErrSessionNotFound = errors.New("session not found")
)

// Invalid-input errors.
var (
	ErrInvalidPlayerCount = errors.New("players must be between 1 and 6")
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	ErrCardRequired       = errors.New("card is required")
	ErrNameRequired       = errors.New("player name is required")
	ErrDuplicateName      = errors.New("player names must be unique")
	ErrTokenRequired      = errors.New("session token is required")
)

// State-violation errors. All are synchronous rejections; the engine never
// retries and leaves the game untouched when one is returned.
var (
	ErrGameNotStarted        = errors.New("game not started yet")
	ErrGameAlreadyStarted    = errors.New("game already started")
	ErrLobbyFull             = errors.New("lobby is full")
	ErrNotYourTurn           = errors.New("not your turn")
	ErrCornerNotPlayable     = errors.New("corner cell is not playable")
	ErrCellOccupied          = errors.New("cell is occupied")
	ErrNoChipToRemove        = errors.New("no chip to remove")
	ErrCannotRemoveOwnChip   = errors.New("cannot remove your own chip")
	ErrChipLocked            = errors.New("cannot remove chip from sequence")
	ErrCardMismatch          = errors.New("card does not match this cell")
	ErrCardNotInHand         = errors.New("card not in hand")
	ErrExchangeAlreadyUsed   = errors.New("exchange already used this turn")
	ErrDeckEmpty             = errors.New("deck is empty")
	ErrCardNotDead           = errors.New("card is not dead")
	ErrPlayerStillHasActions = errors.New("player still has available actions")
)

// IsNotFound reports whether err signals an absent game or session.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrGameNotFound) || errors.Is(err, ErrSessionNotFound)
}

// IsInvalidInput reports whether err signals malformed caller input.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidPlayerCount) ||
		errors.Is(err, ErrInvalidCoordinates) ||
		errors.Is(err, ErrCardRequired) ||
		errors.Is(err, ErrNameRequired) ||
		errors.Is(err, ErrDuplicateName) ||
		errors.Is(err, ErrTokenRequired)
}
