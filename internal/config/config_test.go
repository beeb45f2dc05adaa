package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetDuration(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{"unset", "", 0},
		{"go duration", "15s", 15 * time.Second},
		{"plain seconds", "30", 30 * time.Second},
		{"garbage", "soon", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_TIMEOUT", tt.value)
			assert.Equal(t, tt.want, getDuration("TEST_TIMEOUT", 0))
		})
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "Redis")
	t.Setenv("GUARD_REDIRECT_ON_MISSING_SESSION", "true")

	cfg, err := LoadConfig()
	assert.NoError(t, err)
	assert.Equal(t, "redis", cfg.StoreDriver)
	assert.True(t, cfg.GuardRedirectOnMissingSession)
	assert.Equal(t, 100, cfg.ModulePageSize)
	assert.False(t, cfg.UsesMongo())
}
