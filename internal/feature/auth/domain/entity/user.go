// Package entity defines the domain entities for the auth feature.
package entity

import "time"

// User represents a registered account and carries the full credential state:
// identity, hashed password, verification status and both outstanding OTP slots.
// It is persisted as a single row and always saved wholesale; callers never
// issue partial updates.
type User struct {
	// ID is the storage-level identifier, assigned on first insert.
	ID uint `gorm:"primaryKey"`

	// UserID is the opaque public identifier (UUID), assigned at creation.
	// It never changes after creation.
	UserID string `gorm:"uniqueIndex;size:36;not null"`

	// Email is the unique natural key used for authentication.
	// Stored case-sensitively; there is no rename flow.
	Email string `gorm:"uniqueIndex;size:255;not null"`

	// Name is the display name shown in the frontend.
	Name string `gorm:"size:255"`

	// Password is the bcrypt hash of the current password.
	// Empty for federated identities, which never log in with a password.
	Password string `gorm:"size:255"`

	// IsVerified reports whether the email address has been confirmed.
	// It transitions false to true at most once and never reverts.
	IsVerified bool

	// VerifyOtp holds the outstanding email-verification code, or "" when
	// no code has been issued.
	VerifyOtp string `gorm:"size:6"`

	// VerifyOtpExpiresAt is the absolute expiry of VerifyOtp.
	// The zero time is the sentinel for "no code issued".
	VerifyOtpExpiresAt time.Time

	// ResetOtp holds the outstanding password-reset code, or "" when
	// no code has been issued.
	ResetOtp string `gorm:"size:6"`

	// ResetOtpExpiresAt is the absolute expiry of ResetOtp.
	// The zero time is the sentinel for "no code issued".
	ResetOtpExpiresAt time.Time

	// Disabled blocks the account from logging in.
	Disabled bool

	// CreatedAt is the timestamp when the user was created.
	CreatedAt time.Time

	// UpdatedAt is the timestamp when the user was last updated.
	UpdatedAt time.Time
}

// HasVerifyOtp reports whether a verification code is outstanding.
func (u *User) HasVerifyOtp() bool {
	return u.VerifyOtp != "" && !u.VerifyOtpExpiresAt.IsZero()
}

// HasResetOtp reports whether a reset code is outstanding.
func (u *User) HasResetOtp() bool {
	return u.ResetOtp != "" && !u.ResetOtpExpiresAt.IsZero()
}
