package apperror

import "errors"

var (
	ErrInvalidMove   = errors.New("invalid move")
	ErrGameOver      = errors.New("game is already over")
	ErrMatchNotFound = errors.New("match not found")
)
