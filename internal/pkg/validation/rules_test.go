package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidNINumber(t *testing.T) {
	valid := []string{
		"QQ123456C",
		"AB123456A",
		"qq123456c",     // case-insensitive
		"QQ 12 34 56 C", // spaces stripped
		"",              // optional on intake
	}
	for _, s := range valid {
		assert.True(t, IsValidNINumber(s), "expected %q to be valid", s)
	}

	invalid := []string{
		"DQ123456C", // D not allowed as prefix letter
		"QQ12345C",  // too few digits
		"QQ123456E", // suffix past D
		"Q1234567C",
		"not-a-ni-number",
	}
	for _, s := range invalid {
		assert.False(t, IsValidNINumber(s), "expected %q to be invalid", s)
	}
}

func TestIsValidPostCode(t *testing.T) {
	valid := []string{"LS1 4DY", "M1 1AA", "EC1A1BB", "sw1a 2aa", " B33 8TH "}
	for _, s := range valid {
		assert.True(t, IsValidPostCode(s), "expected %q to be valid", s)
	}

	invalid := []string{"", "12345", "LS14", "STREET 1", "LS1 4DYY"}
	for _, s := range invalid {
		assert.False(t, IsValidPostCode(s), "expected %q to be invalid", s)
	}
}

func TestIsValidUsername(t *testing.T) {
	valid := []string{"ada.bell", "john-smith", "user123", "abc"}
	for _, s := range valid {
		assert.True(t, IsValidUsername(s), "expected %q to be valid", s)
	}

	invalid := []string{"", "ab", "Ada.Bell", "ada bell", "ada@bell"}
	for _, s := range invalid {
		assert.False(t, IsValidUsername(s), "expected %q to be invalid", s)
	}
}
