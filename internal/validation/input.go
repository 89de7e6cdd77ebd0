package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	MinPasswordLength    = 8
	MaxPasswordLength    = 72 // bcrypt input limit
	MinHandleNameLength  = 2
	MaxHandleNameLength  = 50
	MinShopNameLength    = 2
	MaxShopNameLength    = 100
	MinProjectTitleLength = 3
	MaxProjectTitleLength = 200
	MaxDescriptionLength  = 5000
	MaxCommentLength      = 1000
	MaxAccountInfoLength  = 500
	MaxItemNameLength     = 200

	// MinPledgeAmount is the smallest pledge the platform accepts.
	MinPledgeAmount int64 = 100
	// MaxAmount caps any single money value to keep int64 math far from
	// overflow.
	MaxAmount int64 = 100_000_000
)

var emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidateLength checks the rune length of a field.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s must be at least %d characters", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s must be at most %d characters", fieldName, max)
	}
	return nil
}

// ValidateEmail checks the email format.
func ValidateEmail(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if len(email) > 254 || !emailRe.MatchString(email) {
		return fmt.Errorf("email format is invalid")
	}
	return nil
}

// ValidatePassword checks password length bounds.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}
	if len(password) > MaxPasswordLength {
		return fmt.Errorf("password must be at most %d characters", MaxPasswordLength)
	}
	return nil
}

// ValidateAmount checks a money value against the platform bounds.
func ValidateAmount(fieldName string, amount, min int64) error {
	if amount < min {
		return fmt.Errorf("%s must be at least %d", fieldName, min)
	}
	if amount > MaxAmount {
		return fmt.Errorf("%s must be at most %d", fieldName, MaxAmount)
	}
	return nil
}
