// Package models defines server-side records persisted in the database.
package models

import "time"

// User is an account. Password holds the bcrypt hash, never the plain text.
type User struct {
	ID             string
	FirstName      string
	LastName       string
	Email          string
	Password       string
	AccountCreated time.Time
	AccountUpdated time.Time
}

// UserUpdate lists the columns a self-update may change. Nil fields are
// left untouched.
type UserUpdate struct {
	FirstName *string
	LastName  *string
	Password  *string
	UpdatedAt time.Time
}
