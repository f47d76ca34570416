package services

import "errors"

var (
	ErrInvalidInput           = errors.New("invalid input")
	ErrForbidden              = errors.New("forbidden")
	ErrConflict               = errors.New("conflict")
	ErrInvalidStatus          = errors.New("invalid status")
	ErrInvalidStateTransition = errors.New("invalid state transition")

	// ErrRequestUnavailable is returned to the losers of the accept race and
	// to anyone acting on a request that already left pending.
	ErrRequestUnavailable = errors.New("request no longer available")

	// ErrTrainerMismatch rejects a specific-trainer request whose target does
	// not serve the membership's sport and tier.
	ErrTrainerMismatch = errors.New("trainer sport/tier mismatch")

	ErrMembershipInactive = errors.New("membership is not active")
	ErrTrainerNotFound    = errors.New("trainer not found")
	ErrAlreadyRegistered  = errors.New("already registered")
	ErrEventFull          = errors.New("event is full")
)
