package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/domino14/tilegrid/game"
	"github.com/domino14/tilegrid/move"
	"github.com/domino14/tilegrid/store"
)

var ErrBadRequest = errors.New("bad request")

type errorKind struct {
	err    error
	code   string
	status int
}

var errorKinds = []errorKind{
	{store.ErrNotFound, "not_found", http.StatusNotFound},
	{ErrBadRequest, "bad_request", http.StatusBadRequest},
	{move.ErrMalformedPlacements, "malformed_placements", http.StatusBadRequest},
	{game.ErrInvalidGameOptions, "invalid_game_options", http.StatusBadRequest},
	{game.ErrLetterNotInRack, "letter_not_in_rack", http.StatusConflict},
	{game.ErrPositionOutOfBounds, "position_out_of_bounds", http.StatusConflict},
	{game.ErrCellOccupied, "cell_occupied", http.StatusConflict},
	{game.ErrUnknownWord, "unknown_word", http.StatusConflict},
	{game.ErrNotConnected, "not_connected", http.StatusConflict},
	{game.ErrNotPlayersTurn, "not_players_turn", http.StatusConflict},
	{game.ErrNotNextMove, "not_next_move", http.StatusConflict},
	{game.ErrGameAlreadyStarted, "game_already_started", http.StatusConflict},
	{game.ErrGameFull, "game_full", http.StatusConflict},
	{game.ErrGameNotPlaying, "game_not_playing", http.StatusConflict},
	{game.ErrPlayerNotInGame, "player_not_in_game", http.StatusConflict},
	{store.ErrConflict, "conflict", http.StatusConflict},
}

const internalCode = "internal"

// ErrorCode maps err to its wire code and HTTP status.
func ErrorCode(err error) (string, int) {
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.code, k.status
		}
	}
	return internalCode, http.StatusInternalServerError
}

// NewErrorResponse describes err for the wire. Internal errors are not
// detailed.
func NewErrorResponse(err error) ErrorResponse {
	code, _ := ErrorCode(err)
	msg := err.Error()
	if code == internalCode {
		msg = "internal error"
	}
	return ErrorResponse{Error: code, Message: msg}
}

// Err turns a wire error back into an error wrapping the matching
// sentinel, so callers on the far side of a transport can use errors.Is.
func (e ErrorResponse) Err() error {
	for _, k := range errorKinds {
		if k.code == e.Error {
			return fmt.Errorf("%w (%s)", k.err, e.Message)
		}
	}
	return fmt.Errorf("%s: %s", e.Error, e.Message)
}
