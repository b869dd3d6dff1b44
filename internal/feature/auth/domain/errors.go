// Package domain defines domain-level errors for the auth feature.
package domain

import "errors"

// Domain errors for the credential and OTP lifecycle.
// These errors represent business outcomes and should be handled appropriately by upper layers.
var (
	// ErrUserNotFound indicates that no user was found for the given email.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailAlreadyExists indicates a registration attempt with an email
	// that is already taken.
	ErrEmailAlreadyExists = errors.New("email already in use")

	// ErrInvalidCredentials indicates that email or password is incorrect.
	// Login deliberately does not distinguish the two cases.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrAccountDisabled indicates a login attempt against a disabled account.
	ErrAccountDisabled = errors.New("account is disabled")

	// ErrInvalidOtp indicates that the supplied one-time code does not match
	// the outstanding one, or that no code is outstanding.
	ErrInvalidOtp = errors.New("invalid otp")

	// ErrExpiredOtp indicates that the outstanding one-time code is past its
	// expiry. The caller should request a new code.
	ErrExpiredOtp = errors.New("otp has expired")

	// ErrTokenInvalid indicates a malformed or badly signed session token.
	ErrTokenInvalid = errors.New("invalid token")

	// ErrTokenExpired indicates a session token past its expiry.
	ErrTokenExpired = errors.New("token has expired")
)
