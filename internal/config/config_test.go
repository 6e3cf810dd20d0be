package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "grievance-service", cfg.App.Name)
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
	assert.Equal(t, 25, cfg.Assignment.DefaultCapacity)
	assert.Equal(t, "balanced", cfg.Assignment.DefaultStrategy)
	assert.Equal(t, 3, cfg.Assignment.RecommendationLimit)
	assert.Equal(t, 30*time.Second, cfg.Assignment.StaffCacheTTL())
	assert.True(t, cfg.Notification.NotifyStudents)
	assert.True(t, cfg.Notification.NotifySuperAdmins)
}

func TestLoad_Overrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("APP_PORT", "9090")
	t.Setenv("ASSIGNMENT_DEFAULT_STRATEGY", "category_based")
	t.Setenv("ASSIGNMENT_RECOMMENDATION_LIMIT", "5")
	t.Setenv("NOTIFY_SUPER_ADMINS", "false")
	t.Setenv("HTTP_REQUEST_TIMEOUT_SECONDS", "0")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, "category_based", cfg.Assignment.DefaultStrategy)
	assert.Equal(t, 5, cfg.Assignment.RecommendationLimit)
	assert.False(t, cfg.Notification.NotifySuperAdmins)
	assert.Zero(t, cfg.App.RequestTimeout())
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "unknown strategy", key: "ASSIGNMENT_DEFAULT_STRATEGY", val: "random"},
		{name: "zero capacity", key: "ASSIGNMENT_DEFAULT_CAPACITY", val: "0"},
		{name: "bad log level", key: "LOG_LEVEL", val: "verbose"},
		{name: "bad log encoding", key: "LOG_ENCODING", val: "xml"},
		{name: "short secret", key: "AUTH_JWT_SECRET", val: "abc"},
		{name: "non numeric port", key: "APP_PORT", val: "http"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdir(t, t.TempDir())
			t.Setenv(tt.key, tt.val)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "config validation failed")
		})
	}
}

func TestLoad_InvalidRedisDB(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("REDIS_DB", "primary")

	_, err := Load()
	require.ErrorContains(t, err, "invalid REDIS_DB")
}

// chdir switches the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		if err := os.Chdir(wd); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}
