package validation

import (
	"regexp"
	"strings"
)

// Validation rule patterns
var (
	// National Insurance number, e.g. QQ123456C
	NINumberPattern = `^[A-CEGHJ-PR-TW-Z]{2}\d{6}[A-D]$`

	// UK postcode, loose form
	PostCodePattern = `^[A-Z]{1,2}\d[A-Z\d]? ?\d[A-Z]{2}$`

	// Username: lowercase letters, digits, dots and hyphens
	UsernamePattern = `^[a-z0-9.\-]{3,64}$`

	// Password min length
	PasswordMinLength = 8
)

// CompiledPatterns caches compiled regex patterns.
var CompiledPatterns = struct {
	NINumber *regexp.Regexp
	PostCode *regexp.Regexp
	Username *regexp.Regexp
}{
	NINumber: regexp.MustCompile(NINumberPattern),
	PostCode: regexp.MustCompile(PostCodePattern),
	Username: regexp.MustCompile(UsernamePattern),
}

// IsValidNINumber reports whether s looks like a National Insurance number.
// Empty input is valid: the field is optional on intake.
func IsValidNINumber(s string) bool {
	if s == "" {
		return true
	}
	return CompiledPatterns.NINumber.MatchString(strings.ToUpper(strings.ReplaceAll(s, " ", "")))
}

// IsValidPostCode reports whether s looks like a UK postcode.
func IsValidPostCode(s string) bool {
	return CompiledPatterns.PostCode.MatchString(strings.ToUpper(strings.TrimSpace(s)))
}

// IsValidUsername reports whether s is an acceptable username.
func IsValidUsername(s string) bool {
	return CompiledPatterns.Username.MatchString(s)
}
