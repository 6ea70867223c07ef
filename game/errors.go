package game

import (
	"errors"
	"fmt"

	"github.com/domino14/tilegrid/move"
)

// Rule violations. A request failing with one of these leaves the game
// exactly as it was.
var (
	ErrLetterNotInRack     = errors.New("letter not in rack")
	ErrPositionOutOfBounds = errors.New("position out of bounds")
	ErrCellOccupied        = errors.New("cell occupied")
	ErrUnknownWord         = errors.New("unknown word")
	ErrNotConnected        = errors.New("tiles not connected to the center")
	ErrNotPlayersTurn      = errors.New("not the player's turn")
	ErrNotNextMove         = errors.New("not the next move")
	ErrGameAlreadyStarted  = errors.New("game already started")
	ErrGameFull            = errors.New("game is full")
	ErrGameNotPlaying      = errors.New("game is not in play")
	ErrPlayerNotInGame     = errors.New("player is not in this game")
	ErrInvalidGameOptions  = errors.New("invalid game options")
)

// UnknownWordError names the run the dictionary rejected.
type UnknownWordError struct {
	Word string
}

func (e *UnknownWordError) Error() string {
	return fmt.Sprintf("%v: %v", ErrUnknownWord, e.Word)
}

func (e *UnknownWordError) Unwrap() error {
	return ErrUnknownWord
}

var ruleViolations = []error{
	ErrLetterNotInRack,
	ErrPositionOutOfBounds,
	ErrCellOccupied,
	ErrUnknownWord,
	ErrNotConnected,
	ErrNotPlayersTurn,
	ErrNotNextMove,
	ErrGameAlreadyStarted,
	ErrGameFull,
	ErrGameNotPlaying,
	ErrPlayerNotInGame,
	ErrInvalidGameOptions,
	move.ErrMalformedPlacements,
}

// IsRuleViolation reports whether err was caused by the request breaking a
// game rule, as opposed to a failing store or dictionary.
func IsRuleViolation(err error) bool {
	return RuleViolation(err) != nil
}

// RuleViolation returns the rule sentinel err wraps, or nil.
func RuleViolation(err error) error {
	if err == nil {
		return nil
	}
	for _, rv := range ruleViolations {
		if errors.Is(err, rv) {
			return rv
		}
	}
	return nil
}
