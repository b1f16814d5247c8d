package httpx

// Credential checks run before any backend call; a request that fails
// them never leaves the storefront.

import (
	"regexp"
	"strings"
	"unicode"
)

type ValidationError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e *ValidationError) Error() string { return e.Field + ": " + e.Reason }

func validateUsername(u string) error {
	if len(u) < 4 || len(u) > 20 {
		return &ValidationError{Field: "username", Reason: "must be between 4 and 20 characters"}
	}
	return nil
}

const passwordSpecials = "!@#$%^&*"

func validatePassword(p string) error {
	if len(p) < 6 {
		return &ValidationError{Field: "password", Reason: "must be at least 6 characters"}
	}
	var upper, digit, special bool
	for _, r := range p {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		}
	}
	if !upper || !digit || !special {
		return &ValidationError{Field: "password", Reason: "needs an uppercase letter, a number and a special character"}
	}
	return nil
}

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func validateEmail(e string) error {
	if !emailRe.MatchString(e) {
		return &ValidationError{Field: "email", Reason: "not a valid email address"}
	}
	return nil
}
