package util

import (
	"regexp"
)

var (
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9._\-]{3,30}$`)
	hexColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
	lowerPattern    = regexp.MustCompile("[a-z]")
	upperPattern    = regexp.MustCompile("[A-Z]")
	digitPattern    = regexp.MustCompile("[0-9]")
	specialPattern  = regexp.MustCompile(`[^A-Za-z0-9]`)
)

func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidateUsername allows 3 to 30 letters, digits, dots, dashes and underscores.
func ValidateUsername(username string) bool {
	return usernamePattern.MatchString(username)
}

func ValidatePassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	return lowerPattern.MatchString(password) &&
		upperPattern.MatchString(password) &&
		digitPattern.MatchString(password) &&
		specialPattern.MatchString(password)
}

// ValidateHexColor accepts #RRGGBB.
func ValidateHexColor(color string) bool {
	return hexColorPattern.MatchString(color)
}
