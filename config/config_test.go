package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewReadsEnvironment(t *testing.T) {
	t.Setenv("PORTFOLIO_TEST_KEY", "a=b")

	c := New()
	assert.Equal(t, "a=b", GetString(c, "PORTFOLIO_TEST_KEY", ""))
}

func TestGetters(t *testing.T) {
	c := map[string]string{
		"PORT":     "9090",
		"BAD_INT":  "nine",
		"SIGNUP":   "true",
		"TIMEOUT":  "15",
		"ORIGINS":  " http://a.test, ,http://b.test ",
		"EMPTY":    "",
		"BAD_BOOL": "maybe",
	}

	assert.Equal(t, 9090, GetInt(c, "PORT", 8080))
	assert.Equal(t, 8080, GetInt(c, "BAD_INT", 8080))
	assert.Equal(t, 8080, GetInt(nil, "PORT", 8080))
	assert.True(t, GetBool(c, "SIGNUP", false))
	assert.False(t, GetBool(c, "BAD_BOOL", false))
	assert.Equal(t, 15*time.Second, GetDuration(c, "TIMEOUT", time.Minute))
	assert.Equal(t, time.Minute, GetDuration(c, "MISSING", time.Minute))
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, GetList(c, "ORIGINS"))
	assert.Nil(t, GetList(c, "EMPTY"))
	assert.Equal(t, "fallback", GetString(c, "EMPTY", "fallback"))
}
