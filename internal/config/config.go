package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultBaseURL is the Vision One regional endpoint used when none is configured.
const DefaultBaseURL = "https://api.mea.xdr.trendmicro.com"

// EnvPrefix prefixes every environment variable the server reads.
const EnvPrefix = "TRENDVISION"

// ErrMissingToken is returned when no API token is configured
var ErrMissingToken = errors.New("api token is required (set " + EnvPrefix + "_API_TOKEN)")

// Config is resolved once at startup and never modified afterwards.
type Config struct {
	API APIConfig
	Log LogConfig
}

type APIConfig struct {
	BaseURL string
	Token   string
}

type LogConfig struct {
	Level string
}

// Options select where configuration is read from. Empty fields fall back
// to environment variables and a .env file in the working directory.
type Options struct {
	ConfigFile string
	EnvFile    string
}

// Load resolves the configuration from (lowest to highest precedence)
// defaults, the optional config file, the .env file and the environment.
func Load(opts Options) (Config, error) {
	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil {
			return Config{}, fmt.Errorf("loading env file %s: %w", opts.EnvFile, err)
		}
	} else if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return Config{}, fmt.Errorf("loading .env: %w", err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("api.base_url", DefaultBaseURL)
	v.SetDefault("log.level", "info")

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file %s: %w", opts.ConfigFile, err)
		}
	}

	cfg := Config{
		API: APIConfig{
			BaseURL: strings.TrimRight(v.GetString("api.base_url"), "/"),
			Token:   strings.TrimSpace(v.GetString("api.token")),
		},
		Log: LogConfig{
			Level: v.GetString("log.level"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the fields the server cannot run without
func (c Config) Validate() error {
	if c.API.Token == "" {
		return ErrMissingToken
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid api base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid api base url %q: scheme and host are required", c.API.BaseURL)
	}
	return nil
}

// TokenExpiry reads the expiry embedded in the API token without verifying
// its signature. Vision One keys carry it in "et"; standard JWTs in "exp".
func (c APIConfig) TokenExpiry() (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(c.Token, claims); err != nil {
		return time.Time{}, false
	}

	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		return exp.Time, true
	}
	if et, ok := claims["et"].(float64); ok {
		return time.Unix(int64(et), 0), true
	}
	return time.Time{}, false
}
