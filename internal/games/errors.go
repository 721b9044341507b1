package games

import (
	"errors"
	"fmt"
)

// Engine errors.
var (
	ErrInsufficientPlayers = errors.New("insufficient players")
	ErrNotFound            = errors.New("not found")
	ErrCollaboratorFailure = errors.New("collaborator failure")
	ErrRevealAlreadyOpen   = errors.New("role reveal window already open")
	ErrGameOver            = errors.New("game is over")
	ErrWindowNotAllowed    = errors.New("window not allowed in this phase")
)

// collaboratorErr wraps a Roster Store or provider error so callers can match both the
// sentinel and the underlying cause with errors.Is.
func collaboratorErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrCollaboratorFailure, err)
}
