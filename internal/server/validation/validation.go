// Package validation holds the field rules shared by registration and
// profile updates.
package validation

import (
	"regexp"
	"slices"
	"strings"

	"github.com/csye-webapp/webapp/internal/common"
)

// space is every character treated as whitespace: ASCII whitespace, vertical
// tab, the Unicode separator categories and the byte order mark.
const space = `\s\v\p{Z}\x{FEFF}`

var (
	nameRe     = regexp.MustCompile(`^[A-Za-z]+$`)
	emailRe    = regexp.MustCompile(`^[^` + space + `@]+@[^` + space + `@]+\.[^` + space + `@]+$`)
	passwordRe = regexp.MustCompile(`^[^` + space + `]+$`)
)

// UpdatableFields are the only keys a user may change about themselves.
var UpdatableFields = []string{"first_name", "last_name", "password"}

func IsValidName(s string) bool     { return nameRe.MatchString(s) }
func IsValidEmail(s string) bool    { return emailRe.MatchString(s) }
func IsValidPassword(s string) bool { return passwordRe.MatchString(s) }

type Registration struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// ValidateRegistration checks presence first, then each field in the order
// first name, last name, email, password. The first failure is returned.
func ValidateRegistration(r Registration) error {
	if r.FirstName == "" || r.LastName == "" || r.Email == "" || r.Password == "" {
		return common.ErrRequiredFields
	}
	if !IsValidName(r.FirstName) {
		return common.ErrInvalidFirstName
	}
	if !IsValidName(r.LastName) {
		return common.ErrInvalidLastName
	}
	if !IsValidEmail(r.Email) {
		return common.ErrInvalidEmail
	}
	if !IsValidPassword(r.Password) {
		return common.ErrInvalidPassword
	}
	return nil
}

// Update carries the fields present in an update request. A nil pointer
// means the key was absent; a pointer to "" was supplied empty and fails.
type Update struct {
	FirstName *string
	LastName  *string
	Password  *string
}

func (u Update) Empty() bool {
	return u.FirstName == nil && u.LastName == nil && u.Password == nil
}

func ValidateUpdate(u Update) error {
	if u.Empty() {
		return common.ErrRequiredUpdateFields
	}
	if u.FirstName != nil && !IsValidName(*u.FirstName) {
		return common.ErrInvalidFirstName
	}
	if u.LastName != nil && !IsValidName(*u.LastName) {
		return common.ErrInvalidLastName
	}
	if u.Password != nil && !IsValidPassword(*u.Password) {
		return common.ErrInvalidPassword
	}
	return nil
}

// CheckUpdateKeys rejects any key outside UpdatableFields, naming all
// offenders in sorted order.
func CheckUpdateKeys(keys []string) error {
	var bad []string
	for _, k := range keys {
		if !slices.Contains(UpdatableFields, k) {
			bad = append(bad, k)
		}
	}
	if len(bad) == 0 {
		return nil
	}
	slices.Sort(bad)
	return common.E(common.KindValidation, "Invalid field(s): "+strings.Join(bad, ", "))
}
