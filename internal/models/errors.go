package models

import "errors"

// Custom errors
var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnknownPosition = errors.New("unknown position")
	ErrUnknownStat     = errors.New("unknown stat")
)
