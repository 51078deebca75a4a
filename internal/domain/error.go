package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound         = errors.New("entity not found")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrUnauthorized     = errors.New("authorization required")
	ErrSessionNotActive = errors.New("session is not active")
	ErrSendInFlight     = errors.New("a message send is already in flight")
	ErrTooFewExchanges  = errors.New("session needs more exchanges before completion")
	ErrAlreadyCompleted = errors.New("session is already completed")
	ErrNoEvaluation     = errors.New("no evaluation exists for this session")
)
