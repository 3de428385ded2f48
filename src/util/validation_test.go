package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	assert.True(t, ValidateEmail("ana@example.com"))
	assert.True(t, ValidateEmail("first.last+tag@mail.example.org"))
	assert.False(t, ValidateEmail("ana@example"))
	assert.False(t, ValidateEmail("not-an-email"))
}

func TestValidateUsername(t *testing.T) {
	assert.True(t, ValidateUsername("ana"))
	assert.True(t, ValidateUsername("ana.maria_92"))
	assert.False(t, ValidateUsername("an"))
	assert.False(t, ValidateUsername("ana maria"))
	assert.False(t, ValidateUsername("abcdefghijklmnopqrstuvwxyz12345"))
}

func TestValidatePassword(t *testing.T) {
	assert.True(t, ValidatePassword("Str0ng!pass"))
	assert.False(t, ValidatePassword("Sh0rt!"))
	assert.False(t, ValidatePassword("alllowercase1!"))
	assert.False(t, ValidatePassword("NoDigitsHere!"))
	assert.False(t, ValidatePassword("NoSpecial123"))
}

func TestValidateHexColor(t *testing.T) {
	assert.True(t, ValidateHexColor("#007bff"))
	assert.True(t, ValidateHexColor("#FFAA00"))
	assert.False(t, ValidateHexColor("007bff"))
	assert.False(t, ValidateHexColor("#fff"))
	assert.False(t, ValidateHexColor("#gggggg"))
}
