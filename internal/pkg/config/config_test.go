package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWith_Defaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "s3cret",
	}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "job_board", cfg.Mongo.Database)
	assert.False(t, cfg.Mongo.Transactions)
	assert.Equal(t, "uploads/resumes", cfg.Resumes.Dir)
	assert.Equal(t, int64(5<<20), cfg.Resumes.MaxBytes)
	assert.Equal(t, 4, cfg.Resumes.CleanupWorkers)
	assert.Empty(t, cfg.Admin.Email)
}

func TestLoadWith_Overrides(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":         "s3cret",
		"ENV":                "production",
		"TOKEN_TTL":          "15m",
		"MONGO_TRANSACTIONS": "true",
		"REDIS_DB":           "2",
		"CLEANUP_WORKERS":    "8",
		"ADMIN_EMAIL":        "root@example.com",
		"ADMIN_PASSWORD":     "changeme",
	}))
	require.NoError(t, err)

	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, 15*time.Minute, cfg.TokenTTL)
	assert.True(t, cfg.Mongo.Transactions)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, 8, cfg.Resumes.CleanupWorkers)
	assert.Equal(t, "Administrator", cfg.Admin.Name)
}

func TestLoadWith_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing secret", map[string]string{}},
		{"zero workers", map[string]string{"JWT_SECRET": "x", "CLEANUP_WORKERS": "0"}},
		{"negative resume size", map[string]string{"JWT_SECRET": "x", "MAX_RESUME_BYTES": "-1"}},
		{"admin without password", map[string]string{"JWT_SECRET": "x", "ADMIN_EMAIL": "root@example.com"}},
		{"bad duration", map[string]string{"JWT_SECRET": "x", "TOKEN_TTL": "soon"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadWith(context.Background(), envconfig.MapLookuper(tt.env))
			assert.Error(t, err)
		})
	}
}
