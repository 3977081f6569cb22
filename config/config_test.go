package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetString(t *testing.T) {
	c := map[string]string{"PORT": "9090", "EMPTY": ""}

	assert.Equal(t, "9090", GetString(c, "PORT", "8080"))
	assert.Equal(t, "", GetString(c, "EMPTY", "fallback"))
	assert.Equal(t, "fallback", GetString(c, "MISSING", "fallback"))
	assert.Equal(t, "fallback", GetString(nil, "PORT", "fallback"))
}

func TestGetInt(t *testing.T) {
	c := map[string]string{"LIMIT": "25", "BAD": "abc"}

	assert.Equal(t, 25, GetInt(c, "LIMIT", 10))
	assert.Equal(t, 10, GetInt(c, "BAD", 10))
	assert.Equal(t, 10, GetInt(c, "MISSING", 10))
}

func TestGetDuration(t *testing.T) {
	c := map[string]string{"TOKEN_TTL": "12h", "BAD": "twelve"}

	assert.Equal(t, 12*time.Hour, GetDuration(c, "TOKEN_TTL", time.Hour))
	assert.Equal(t, time.Hour, GetDuration(c, "BAD", time.Hour))
	assert.Equal(t, time.Hour, GetDuration(c, "MISSING", time.Hour))
}

func TestSplit(t *testing.T) {
	key, value := split("DB_HOST=localhost")
	assert.Equal(t, "DB_HOST", key)
	assert.Equal(t, "localhost", value)

	key, value = split("DSN=host=localhost port=5432")
	assert.Equal(t, "DSN", key)
	assert.Equal(t, "host=localhost port=5432", value)

	key, value = split("NOVALUE")
	assert.Equal(t, "NOVALUE", key)
	assert.Equal(t, "", value)
}
