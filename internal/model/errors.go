package model

import "errors"

// Sentinel errors shared across the service layers.  Handlers compare
// with errors.Is and translate to HTTP responses; nothing here is fatal,
// every failure is recoverable by user retry.
var (
	// Booking errors
	ErrMissingFields     = errors.New("required fields missing")
	ErrInvalidEmail      = errors.New("invalid email address")
	ErrSessionNotFound   = errors.New("class session not found")
	ErrInsufficientSeats = errors.New("not enough seats available")
	ErrInvalidTransition = errors.New("invalid booking status transition")
	ErrBookingNotFound   = errors.New("booking not found")

	// Account errors
	ErrDuplicateAccount = errors.New("account already exists for email")
	ErrUserNotFound     = errors.New("user not found")
	ErrBadCredentials   = errors.New("invalid email or password")
	ErrAuthExpired      = errors.New("session expired")

	// Payment errors: opaque passthrough from the external provider SDK.
	ErrPaymentProvider = errors.New("payment provider error")
)
