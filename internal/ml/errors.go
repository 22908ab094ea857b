package ml

import "errors"

var (
	// ErrServiceUnavailable indicates the model service is unreachable
	ErrServiceUnavailable = errors.New("model service unavailable")

	// ErrInvalidResponse indicates the model service returned a malformed
	// or contradictory prediction
	ErrInvalidResponse = errors.New("invalid response from model service")

	// ErrUnknownModel indicates no trained model exists for the requested
	// position/stat combination
	ErrUnknownModel = errors.New("no trained model for position/stat")

	// ErrCircuitOpen indicates the client stopped issuing requests after
	// repeated failures
	ErrCircuitOpen = errors.New("model service circuit breaker open")
)
