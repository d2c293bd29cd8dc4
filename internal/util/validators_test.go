package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		valid bool
	}{
		{"teacher@ecole.fr", true},
		{"a@b.co", true},
		{"  padded@ecole.fr  ", true},
		{"", false},
		{"no-at.fr", false},
		{"two@@ecole.fr", false},
		{"spaces in@ecole.fr", false},
		{"missing@tld", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.valid, IsValidEmail(tt.email), "email %q", tt.email)
	}
}

func TestIsValidPIN(t *testing.T) {
	tests := []struct {
		pin   string
		valid bool
	}{
		{"123456", true},
		{"000000", true},
		{"12345", false},
		{"1234567", false},
		{"12345a", false},
		{"", false},
		{" 123456", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.valid, IsValidPIN(tt.pin), "pin %q", tt.pin)
	}
}

func TestFilterPINInput(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"123456", "123456"},
		{"12 34 56", "123456"},
		{"abc123def456789", "123456"},
		{"12-34", "1234"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FilterPINInput(tt.raw), "raw %q", tt.raw)
	}
}

func TestIsValidPassword(t *testing.T) {
	assert.True(t, IsValidPassword("12345678"))
	assert.False(t, IsValidPassword("1234567"))
}

func TestIsValidName(t *testing.T) {
	assert.True(t, IsValidName("Marie"))
	assert.True(t, IsValidName("  Jo  "))
	assert.False(t, IsValidName("J"))
	assert.False(t, IsValidName(""))
}
