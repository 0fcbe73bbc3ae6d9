// Package services implements the account use cases on top of the
// repositories, object storage and notification publisher. Every error
// returned to callers is a *common.Error so the transport layer can map
// it by kind.
package services

import (
	"errors"
	"time"

	"github.com/csye-webapp/webapp/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the work factor for stored password hashes.
const BcryptCost = bcrypt.DefaultCost

// Clock returns the current time. Tests replace it.
type Clock func() time.Time

func utcNow() time.Time { return time.Now().UTC() }

// classify passes *common.Error values through and wraps anything else in
// fallback so the cause stays available to logs.
func classify(err error, fallback *common.Error) error {
	var e *common.Error
	if errors.As(err, &e) {
		return err
	}
	return fallback.WithCause(err)
}

func hashPassword(pw string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(pw), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}
