// Package validation provides input validation utilities
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	minPasswordLength = 8
	maxPasswordLength = 128
	maxUsernameLength = 150
	maxEmailLength    = 254
)

var (
	usernameRegex = regexp.MustCompile(`^[\w.@+-]+$`)
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

var commonPasswords = map[string]struct{}{
	"password":    {},
	"password1":   {},
	"password123": {},
	"12345678":    {},
	"123456789":   {},
	"1234567890":  {},
	"qwertyuiop":  {},
	"iloveyou":    {},
	"sunshine":    {},
	"football":    {},
	"baseball":    {},
	"letmein1":    {},
	"trustno1":    {},
	"superman":    {},
	"qwerty123":   {},
	"11111111":    {},
	"00000000":    {},
	"abc12345":    {},
	"welcome1":    {},
	"monkey123":   {},
}

// ValidatePassword checks a new password against the account it belongs to.
func ValidatePassword(password, username string) error {
	n := utf8.RuneCountInString(password)
	if n < minPasswordLength {
		return fmt.Errorf("This password is too short. It must contain at least %d characters.", minPasswordLength)
	}
	if n > maxPasswordLength {
		return fmt.Errorf("password must not exceed %d characters", maxPasswordLength)
	}

	allDigits := true
	for _, r := range password {
		if !unicode.IsDigit(r) {
			allDigits = false
			break
		}
	}
	if allDigits {
		return fmt.Errorf("This password is entirely numeric.")
	}

	if _, common := commonPasswords[strings.ToLower(password)]; common {
		return fmt.Errorf("This password is too common.")
	}

	if u := strings.ToLower(strings.TrimSpace(username)); len(u) >= 3 && strings.Contains(strings.ToLower(password), u) {
		return fmt.Errorf("The password is too similar to the username.")
	}

	return nil
}

// ValidateUsername accepts letters, digits and @/./+/-/_ up to 150 characters.
func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("This field is required.")
	}
	if utf8.RuneCountInString(username) > maxUsernameLength {
		return fmt.Errorf("username must not exceed %d characters", maxUsernameLength)
	}
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters.")
	}
	return nil
}

// ValidateEmail checks basic email format. An empty address is allowed.
func ValidateEmail(email string) error {
	if email == "" {
		return nil
	}
	if len(email) > maxEmailLength {
		return fmt.Errorf("email must not exceed %d characters", maxEmailLength)
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("Enter a valid email address.")
	}
	return nil
}
