/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package chameleon

import "errors"

var (
	// ErrIllegalMove is returned when the actor may not make the move in
	// the current phase or stage.
	ErrIllegalMove = errors.New("illegal move")

	// ErrInvalidPayload is returned when a move's arguments are malformed
	// or out of range.
	ErrInvalidPayload = errors.New("invalid payload")

	// ErrAlreadyActed is returned when a player repeats a one-shot action.
	ErrAlreadyActed = errors.New("already acted")

	// ErrInvalidSetup is returned by Setup for a bad player list or settings.
	ErrInvalidSetup = errors.New("invalid setup")

	// ErrInvalidCatalog is returned when a board catalog fails validation.
	ErrInvalidCatalog = errors.New("invalid board catalog")
)

// ErrorKind maps a move error to a short machine-readable kind, or "" if
// err is not a move rejection.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrIllegalMove):
		return "illegal_move"
	case errors.Is(err, ErrInvalidPayload):
		return "invalid_payload"
	case errors.Is(err, ErrAlreadyActed):
		return "already_acted"
	default:
		return ""
	}
}
