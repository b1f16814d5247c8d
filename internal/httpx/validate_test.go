package httpx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	assert.NoError(t, validateUsername("bob4"))
	assert.NoError(t, validateUsername("a_twenty_char_name20"))
	assert.Error(t, validateUsername("bob"))
	assert.Error(t, validateUsername("this_username_is_way_too_long"))
	assert.Error(t, validateUsername(""))
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, validatePassword("Pass1!"))
	assert.NoError(t, validatePassword("Sup3r@secret"))

	assert.Error(t, validatePassword("P1!"), "too short")
	assert.Error(t, validatePassword("pass1!xx"), "no uppercase")
	assert.Error(t, validatePassword("Passwd!x"), "no digit")
	assert.Error(t, validatePassword("Passwd1x"), "no special")
	// only !@#$%^&* count as special characters
	assert.Error(t, validatePassword("Passwd1?"))
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, validateEmail("bob@example.com"))
	assert.Error(t, validateEmail("bob"))
	assert.Error(t, validateEmail("bob@example"))
	assert.Error(t, validateEmail("bob @example.com"))
	assert.Error(t, validateEmail(""))
}
