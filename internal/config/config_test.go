package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("TRENDVISION_API_TOKEN", "secret")
	t.Setenv("TRENDVISION_API_BASE_URL", "https://api.xdr.trendmicro.com/")
	t.Setenv("TRENDVISION_LOG_LEVEL", "debug")

	cfg, err := Load(Options{})
	require.NoError(t, err)
	assert.Equal(t, "secret", cfg.API.Token)
	assert.Equal(t, "https://api.xdr.trendmicro.com", cfg.API.BaseURL)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TRENDVISION_API_TOKEN", "secret")

	cfg, err := Load(Options{})
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, cfg.API.BaseURL)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadRequiresToken(t *testing.T) {
	t.Setenv("TRENDVISION_API_TOKEN", "")

	_, err := Load(Options{})
	require.ErrorIs(t, err, ErrMissingToken)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "trendvision.yaml")
	content := "api:\n  base_url: http://127.0.0.1:8080\n  token: from-file\nlog:\n  level: warn\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(Options{ConfigFile: path})
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:8080", cfg.API.BaseURL)
	assert.Equal(t, "from-file", cfg.API.Token)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("TRENDVISION_API_TOKEN=from-dotenv\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("TRENDVISION_API_TOKEN") })

	cfg, err := Load(Options{EnvFile: path})
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.API.Token)
}

func TestLoadMissingConfigFile(t *testing.T) {
	t.Setenv("TRENDVISION_API_TOKEN", "secret")

	_, err := Load(Options{ConfigFile: filepath.Join(t.TempDir(), "missing.yaml")})
	require.Error(t, err)
}

func TestValidateBaseURL(t *testing.T) {
	cfg := Config{API: APIConfig{BaseURL: "not a url", Token: "x"}}
	require.Error(t, cfg.Validate())

	cfg.API.BaseURL = "https://api.xdr.trendmicro.com"
	require.NoError(t, cfg.Validate())
}

func TestTokenExpiry(t *testing.T) {
	sign := func(claims jwt.MapClaims) string {
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("k"))
		require.NoError(t, err)
		return tok
	}

	et := time.Date(2025, 4, 26, 9, 57, 43, 0, time.UTC)
	exp, ok := APIConfig{Token: sign(jwt.MapClaims{"et": et.Unix()})}.TokenExpiry()
	require.True(t, ok)
	assert.True(t, exp.Equal(et))

	std := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	exp, ok = APIConfig{Token: sign(jwt.MapClaims{"exp": std.Unix()})}.TokenExpiry()
	require.True(t, ok)
	assert.True(t, exp.Equal(std))

	_, ok = APIConfig{Token: sign(jwt.MapClaims{"cid": "abc"})}.TokenExpiry()
	assert.False(t, ok)

	_, ok = APIConfig{Token: "opaque-api-key"}.TokenExpiry()
	assert.False(t, ok)
}
