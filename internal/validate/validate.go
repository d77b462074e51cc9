// Package validate holds the pre-submit form checks; these run before any
// network call and surface as field-level errors with i18n message keys.
package validate

import (
	"regexp"
	"unicode"
)

// FieldError points at the offending field; MessageKey is resolved through the
// i18n store before rendering.
type FieldError struct {
	Field      string `json:"field"`
	MessageKey string `json:"message_key"`
}

func (e *FieldError) Error() string {
	return "validate: " + e.Field + ": " + e.MessageKey
}

var phonePattern = regexp.MustCompile(`^\+998\d{9}$`)

// Phone checks the full international form: +998 followed by nine digits.
func Phone(phone string) *FieldError {
	if !phonePattern.MatchString(phone) {
		return &FieldError{Field: "phone", MessageKey: "validation.phone"}
	}
	return nil
}

// Password enforces the complexity rule: at least eight characters containing
// at least one letter and one digit.
func Password(password string) *FieldError {
	if len(password) < 8 {
		return &FieldError{Field: "password", MessageKey: "validation.password"}
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return &FieldError{Field: "password", MessageKey: "validation.password"}
	}
	return nil
}

// PasswordMatch checks the confirmation field.
func PasswordMatch(password, confirm string) *FieldError {
	if password != confirm {
		return &FieldError{Field: "password_confirm", MessageKey: "validation.password_match"}
	}
	return nil
}
