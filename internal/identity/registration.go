package identity

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// MinPasswordLength is the shortest password accepted at sign-up.
const MinPasswordLength = 6

// Registration is the sign-up form.
type Registration struct {
	FullName        string `validate:"required"`
	Username        string `validate:"required"`
	Email           string `validate:"required,email"`
	Password        string `validate:"required,min=6"`
	ConfirmPassword string `validate:"required,eqfield=Password"`
	AcceptTerms     bool   `validate:"required"`
}

// Credentials is the sign-in form.
type Credentials struct {
	Email    string `validate:"required"`
	Password string `validate:"required"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the form and returns a *ValidationError describing the
// first problem, in the order the form is read.
func (r Registration) Validate() error {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	byField := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		byField[fe.Field()] = fe.Tag()
	}
	for _, f := range []string{"FullName", "Email", "Username", "Password", "ConfirmPassword"} {
		if byField[f] == "required" {
			return &ValidationError{Message: "Please fill in all required fields"}
		}
	}
	if byField["ConfirmPassword"] == "eqfield" {
		return &ValidationError{Message: "Passwords do not match"}
	}
	if byField["Password"] == "min" {
		return &ValidationError{Message: "Password must be at least 6 characters long"}
	}
	if _, ok := byField["AcceptTerms"]; ok {
		return &ValidationError{Message: "Please accept the Terms of Service and Privacy Policy"}
	}
	if byField["Email"] == "email" {
		return newError(CodeInvalidEmail, err)
	}
	return &ValidationError{Message: "Please fill in all required fields"}
}

// Validate checks that both fields are present.
func (c Credentials) Validate() error {
	if err := validate.Struct(c); err != nil {
		return &ValidationError{Message: "Please fill in all fields"}
	}
	return nil
}

// validEmail reports whether s is a syntactically valid address.
func validEmail(s string) bool {
	return validate.Var(s, "required,email") == nil
}

// normalizeEmail lowercases and trims an address for lookups.
func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
