// Package services holds the domain components behind the HTTP boundary:
// account registration and authentication, the question board with its reply
// threads, and the guideline board with like deduplication. Each operation
// performs one persistence read-modify-write cycle and reports outcomes through
// the sentinel errors below; controllers translate them to HTTP statuses.
package services

import "errors"

var (
	// ErrMissingField is returned when required input is empty or absent.
	ErrMissingField = errors.New("required field missing")
	// ErrDuplicateEmail is returned when a user already exists for the email.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrUnknownEmail is returned when no user matches the email.
	ErrUnknownEmail = errors.New("unknown email")
	// ErrWrongPassword is returned when the password check fails.
	ErrWrongPassword = errors.New("wrong password")
	// ErrNotFound is returned when no record has the given identity.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyLiked is returned when the email already liked the guideline.
	ErrAlreadyLiked = errors.New("already liked")
	// ErrNotAuthorized is returned when the author may not publish guidelines.
	ErrNotAuthorized = errors.New("not authorized")
)
