package models

import "time"

// EmailVerification is the single-use token proving ownership of Email.
type EmailVerification struct {
	ID         string
	UserID     string
	Email      string
	Token      string
	ExpiresAt  time.Time
	IsVerified bool
}

// Expired reports whether the token is past its expiry at now.
func (v *EmailVerification) Expired(now time.Time) bool {
	return now.After(v.ExpiresAt)
}
