package auth

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/penfolio/penfolio/internal/app/models"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const passwordSymbols = "@$!%*?&"

// ValidationError carries the user-facing message for the first
// failing rule. Rules are checked in order and the first failure wins;
// nothing is aggregated.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return models.ErrValidation }

func failf(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ValidateSignIn checks the sign-in form shape before any network call.
func ValidateSignIn(username, password string) error {
	if username == "" || password == "" {
		return failf("username and password are required")
	}
	return nil
}

// ValidateSignUp checks the sign-up form. Order matters: required
// fields, email shape, confirmation match, then password strength.
func ValidateSignUp(username, email, password, confirmPassword string) error {
	if username == "" || password == "" || confirmPassword == "" {
		return failf("Username, password, or confirm password are required")
	}

	if email != "" && !emailPattern.MatchString(email) {
		return failf("Please enter a valid email address")
	}

	if password != confirmPassword {
		return failf("Passwords do not match")
	}

	return validatePasswordStrength(password)
}

func validatePasswordStrength(password string) error {
	if len(password) < 8 {
		return failf("Password must be at least 8 characters long")
	}

	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(passwordSymbols, r):
			hasSymbol = true
		}
	}

	if !hasLower || !hasUpper || !hasDigit || !hasSymbol {
		return failf("Password must contain at least one uppercase letter, one lowercase letter, one number, and one special character")
	}
	return nil
}
