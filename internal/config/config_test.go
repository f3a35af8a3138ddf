package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "s3cret")
	t.Setenv("AUTH_MODE", "")
	t.Setenv("APP_PORT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "7000", cfg.App.Port)
	assert.Equal(t, AuthModeFixed, cfg.Auth.Mode)
	assert.Equal(t, "admin", cfg.Auth.AdminUsername)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL())
	assert.Equal(t, 300*time.Millisecond, cfg.Auth.StoreTimeout())
	assert.True(t, cfg.Auth.SingleTenant)
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "")

	_, err := Load()
	require.ErrorIs(t, err, ErrMissingSigningSecret)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "s3cret")
	t.Setenv("AUTH_MODE", "STORE")
	t.Setenv("AUTH_TOKEN_TTL_MINUTES", "5")
	t.Setenv("AUTH_STORE_TIMEOUT_MS", "150")
	t.Setenv("APP_DEBUG", "true")
	t.Setenv("REDIS_DB", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, AuthModeStore, cfg.Auth.Mode)
	assert.Equal(t, 5*time.Minute, cfg.Auth.TokenTTL())
	assert.Equal(t, 150*time.Millisecond, cfg.Auth.StoreTimeout())
	assert.True(t, cfg.App.Debug)
	assert.Equal(t, 3, cfg.Redis.DB)
}

func TestLoad_InvalidRedisDB(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "s3cret")
	t.Setenv("REDIS_DB", "abc")

	_, err := Load()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		auth    AuthConfig
		wantErr bool
	}{
		{"fixed ok", AuthConfig{JWTSecret: "x", Mode: AuthModeFixed, AdminUsername: "a", AdminPassword: "b"}, false},
		{"store ok", AuthConfig{JWTSecret: "x", Mode: AuthModeStore}, false},
		{"blank secret", AuthConfig{JWTSecret: "  ", Mode: AuthModeStore}, true},
		{"fixed without password", AuthConfig{JWTSecret: "x", Mode: AuthModeFixed, AdminUsername: "a"}, true},
		{"unknown mode", AuthConfig{JWTSecret: "x", Mode: "ldap"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Auth: tt.auth}
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAppConfig_Addr(t *testing.T) {
	assert.Equal(t, "127.0.0.1:9000", AppConfig{Host: "127.0.0.1", Port: "9000"}.Addr())
	assert.Equal(t, time.Duration(0), AppConfig{}.RequestTimeout())
}
