package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigRateLimit(t *testing.T) {
	t.Setenv("RATE_LIMIT", "")
	assert.Equal(t, "120-M", LoadConfig().Server.RateLimit)

	t.Setenv("RATE_LIMIT", "30-M")
	assert.Equal(t, "30-M", LoadConfig().Server.RateLimit)
}
