package identity

import (
	"errors"
	"fmt"
)

// Code is a provider error code.
type Code string

const (
	CodeUserNotFound        Code = "auth/user-not-found"
	CodeWrongPassword       Code = "auth/wrong-password"
	CodeInvalidEmail        Code = "auth/invalid-email"
	CodeTooManyRequests     Code = "auth/too-many-requests"
	CodeEmailAlreadyInUse   Code = "auth/email-already-in-use"
	CodeWeakPassword        Code = "auth/weak-password"
	CodeOperationNotAllowed Code = "auth/operation-not-allowed"
	CodeInternal            Code = "auth/internal-error"
)

// Error is a failure reported by an identity provider.
type Error struct {
	Code Code
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	}
	return string(e.Code)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(code Code, err error) *Error {
	return &Error{Code: code, Err: err}
}

// CodeOf returns the provider code carried by err, or "".
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// ValidationError is a form-level problem found before the provider is
// called. Its message is shown to the learner as is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Op selects the message table for MessageFor.
type Op int

const (
	OpSignIn Op = iota
	OpSignUp
)

var signInMessages = map[Code]string{
	CodeUserNotFound:    "No account found with this email address.",
	CodeWrongPassword:   "Incorrect password.",
	CodeInvalidEmail:    "Invalid email address.",
	CodeTooManyRequests: "Too many failed attempts. Please try again later.",
}

var signUpMessages = map[Code]string{
	CodeEmailAlreadyInUse:   "An account with this email already exists.",
	CodeInvalidEmail:        "Invalid email address.",
	CodeWeakPassword:        "Password is too weak. Please choose a stronger password.",
	CodeOperationNotAllowed: "Email/password accounts are not enabled.",
}

// MessageFor maps an identity failure to the text shown to the learner.
// Unknown codes fall back to a generic message for the operation.
func MessageFor(op Op, err error) string {
	if err == nil {
		return ""
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}

	code := CodeOf(err)
	switch op {
	case OpSignUp:
		if msg, ok := signUpMessages[code]; ok {
			return msg
		}
		return "Registration failed. Please try again."
	default:
		if msg, ok := signInMessages[code]; ok {
			return msg
		}
		return "Login failed. Please try again."
	}
}
