//go:build unit

package bootstrap_test

import (
	"os"
	"testing"
	"time"

	"proximity-pay/cmd/bootstrap"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("PORT", "8080")
	t.Setenv("DB_USER", "pay")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "pay")
	t.Setenv("JWT_SECRET", "jwt-secret")
}

func TestLoadServerConfig(t *testing.T) {
	t.Run("必須値のみでデフォルトの TTL が入る", func(t *testing.T) {
		setRequiredEnv(t)

		cfg, err := bootstrap.LoadServerConfig()
		require.NoError(t, err)
		assert.Equal(t, 300*time.Second, cfg.Session.TTL)
		assert.Equal(t, "8080", cfg.Server.Port)
	})

	t.Run("zero session TTL is rejected", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("SESSION_TTL", "0s")

		_, err := bootstrap.LoadServerConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "SESSION_TTL")
	})

	t.Run("必須値が欠けるとエラー", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("DB_NAME", "")
		require.NoError(t, os.Unsetenv("DB_NAME"))

		_, err := bootstrap.LoadServerConfig()
		assert.Error(t, err)
	})
}
