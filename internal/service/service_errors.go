package service

import "errors"

var (
	// ErrInvalidCredentials deliberately covers both an unknown email and a
	// wrong password, so responses cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrEmailTaken    = errors.New("email already registered")
	ErrUsernameTaken = errors.New("username already taken")
	ErrInvalidClock  = errors.New("time must be a valid HH:MM value")
)
