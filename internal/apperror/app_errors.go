package apperror

import "errors"

// All four are client errors: the caller sent something the game cannot
// accept. None of them leaves a game partially mutated.
var (
	ErrGameNotFound    = errors.New("game not found")
	ErrGameFinished    = errors.New("game is already finished")
	ErrInvalidPosition = errors.New("position must be between 0 and 8")
	ErrCellOccupied    = errors.New("cell is already occupied")
)
