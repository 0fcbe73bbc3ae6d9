// Package common defines the error vocabulary shared by the repository,
// service and transport layers. Callers match conditions with errors.Is and
// pick transport status codes with KindOf, never by inspecting message text.
package common

import "errors"

// Kind classifies an error for the transport layer.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindNotFound
	KindUnauthorized
	KindForbidden
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindUnavailable:
		return "unavailable"
	default:
		return "internal"
	}
}

// Error is a classified error carrying a user-facing message.
// Err, when set, is the underlying cause and is not shown to clients.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports sentinel equality on kind and message, so a wrapped copy made
// by WithCause still matches the sentinel it was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

// E builds a classified error.
func E(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// WithCause returns a copy of e that wraps cause.
func (e *Error) WithCause(cause error) *Error {
	return &Error{Kind: e.Kind, Message: e.Message, Err: cause}
}

// KindOf returns the Kind of the first *Error in err's chain,
// or KindInternal when there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf returns the client-facing message of err, falling back to
// fallback for unclassified errors.
func MessageOf(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return fallback
}

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Store / dependency failures.
	ErrServiceUnavailable = E(KindUnavailable, "Service Unavailable.")

	// Registration and update validation.
	ErrRequiredFields = E(KindValidation,
		"Enter all the required fields - first_name, last_name, email, and password.")
	ErrRequiredUpdateFields = E(KindValidation,
		"Enter any of the required fields - first_name, last_name, or password.")
	ErrInvalidFirstName = E(KindValidation,
		"Invalid first name. Only letters are allowed with no spaces or special characters.")
	ErrInvalidLastName = E(KindValidation,
		"Invalid last name. Only letters are allowed with no spaces or special characters.")
	ErrInvalidEmail = E(KindValidation,
		"Invalid email. Please provide a valid email address.")
	ErrInvalidPassword = E(KindValidation,
		"Invalid password. Empty password or passwords with blank characters are not allowed.")
	ErrUserAlreadyExists = E(KindValidation, "User already exists.")
	ErrInvalidBody       = E(KindValidation, "Invalid request body.")

	// Authentication.
	ErrAuthRequired  = E(KindUnauthorized, "Authentication required")
	ErrUserNotFound  = E(KindUnauthorized, "User not found")
	ErrWrongPassword = E(KindUnauthorized, "Wrong password")

	// Verified-email gate.
	ErrEmailNotVerified = E(KindForbidden,
		"Your email is not verified. Please verify your email before proceeding.")
	ErrEmailVerificationExpired = E(KindForbidden,
		"Your email verification has expired. Please request a new verification email.")
	ErrVerificationCheckFailed = E(KindUnavailable, "Server error.")

	// Profile picture.
	ErrNoFile            = E(KindValidation, "No file provided. Please attach an image file.")
	ErrMultipleFiles     = E(KindValidation, "Only one file is allowed.")
	ErrInvalidFileFormat = E(KindValidation,
		"Invalid file format. Supported formats are jpg, jpeg, and png.")
	ErrProfilePicExists = E(KindConflict,
		"Profile picture already exists. Please delete the existing profile picture first.")
	ErrProfilePicNotFound     = E(KindNotFound, "Profile picture not found.")
	ErrAddProfilePicFailed    = E(KindUnavailable, "Failed to add profile picture.")
	ErrGetProfilePicFailed    = E(KindUnavailable, "Failed to retrieve profile picture.")
	ErrDeleteProfilePicFailed = E(KindUnavailable, "Failed to delete profile picture.")

	// Email verification.
	ErrVerifyParamsRequired  = E(KindValidation, "Email and token are required.")
	ErrVerifyUserNotFound    = E(KindValidation, "User not found")
	ErrInvalidVerifyToken    = E(KindValidation, "Invalid verification token")
	ErrAlreadyVerified       = E(KindValidation, "User is already verified")
	ErrVerificationExpired   = E(KindValidation, "Verification link has expired")
	ErrVerifyFailed          = E(KindUnavailable, "Failed to verify email.")
	ErrQueryParamsNotAllowed = E(KindValidation, "Query parameters are not allowed.")
	ErrQueryOrBodyNotAllowed = E(KindValidation, "Query parameters or body are not allowed.")
	ErrUnexpectedQueryParams = E(KindValidation, "Unexpected query parameters detected.")
	ErrBodyNotAllowed        = E(KindValidation, "Request body is not allowed for this endpoint.")
)

// ErrorAlreadyExists is returned by repositories when a unique constraint
// rejects an insert.
var ErrorAlreadyExists = errors.New("already exists")
