package user

import (
	"fmt"
	"net/mail"
	"unicode"
)

const (
	MaxEmailLen    = 254
	MinPasswordLen = 6
)

// Validator checks sign-up input.
type Validator interface {
	ValidateSignUp(email, password string) error
	ValidateEmail(email string) error
	ValidatePassword(password string) error
}

// PasswordValidator checks email syntax and password strength.
type PasswordValidator struct {
	minLen       int
	requireDigit bool
	requireUpper bool
}

// Option configures a PasswordValidator.
type Option func(*PasswordValidator)

// WithMinLength sets the shortest accepted password.
func WithMinLength(n int) Option {
	return func(v *PasswordValidator) { v.minLen = n }
}

// WithStrictPasswords also requires an uppercase letter and a digit.
func WithStrictPasswords() Option {
	return func(v *PasswordValidator) {
		v.requireDigit = true
		v.requireUpper = true
	}
}

// NewPasswordValidator applies opts over the defaults.
func NewPasswordValidator(opts ...Option) *PasswordValidator {
	v := &PasswordValidator{minLen: MinPasswordLen}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// ValidateSignUp checks both fields, email first.
func (v *PasswordValidator) ValidateSignUp(email, password string) error {
	if err := v.ValidateEmail(email); err != nil {
		return fmt.Errorf("email validation failed: %w", err)
	}
	if err := v.ValidatePassword(password); err != nil {
		return fmt.Errorf("password validation failed: %w", err)
	}
	return nil
}

// ValidateEmail requires a short, well-formed address.
func (v *PasswordValidator) ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if len(email) > MaxEmailLen {
		return fmt.Errorf("email must be at most %d characters", MaxEmailLen)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("email %q is not a valid address", email)
	}
	return nil
}

// ValidatePassword applies the length and character class rules.
func (v *PasswordValidator) ValidatePassword(password string) error {
	if len(password) < v.minLen {
		return fmt.Errorf("password must be at least %d characters", v.minLen)
	}

	hasUpper, hasDigit := false, false
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	if v.requireUpper && !hasUpper {
		return fmt.Errorf("password must contain at least one uppercase letter")
	}
	if v.requireDigit && !hasDigit {
		return fmt.Errorf("password must contain at least one digit")
	}
	return nil
}
