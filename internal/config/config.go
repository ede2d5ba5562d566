// Package config builds the explicit configuration value handed to the gateway and use cases.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultAPIURL       = "https://api.github.com/"
	DefaultGraphQLURL   = "https://api.github.com/graphql"
	DefaultTimeout      = 30 * time.Second
	DefaultReadmeLimit  = 3000
	DefaultExcerptLimit = 1200
	DefaultAddr         = ":8080"
)

// TokenEnvVars lists the recognized credential sources in priority order.
var TokenEnvVars = []string{"GITHUB_TOKEN", "NEXT_PUBLIC_GITHUB_TOKEN", "GH_TOKEN"}

type Config struct {
	Token       string
	TokenSource string // name of the variable that supplied Token

	APIURL     string
	GraphQLURL string
	Timeout    time.Duration
	// SecondaryWait caps a single sleep on a secondary rate limit. Zero never sleeps.
	SecondaryWait time.Duration

	ReadmeLimit   int
	ExcerptLimit  int
	Contributions bool

	Addr      string
	LogLevel  string
	LogFormat string
}

// Authenticated reports whether a credential was found.
func (c Config) Authenticated() bool {
	return c.Token != ""
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to read .env file: %w", err)
	}
	return LoadWithEnv(os.Getenv)
}

// LoadWithEnv builds a Config from the given lookup function.
func LoadWithEnv(getenv func(string) string) (Config, error) {
	cfg := Config{
		APIURL:        getOr(getenv, "GITHUB_API_URL", DefaultAPIURL),
		GraphQLURL:    getOr(getenv, "GITHUB_GRAPHQL_URL", DefaultGraphQLURL),
		Timeout:       DefaultTimeout,
		ReadmeLimit:   DefaultReadmeLimit,
		ExcerptLimit:  DefaultExcerptLimit,
		Contributions: true,
		Addr:          getOr(getenv, "GHSNAP_ADDR", DefaultAddr),
		LogLevel:      getOr(getenv, "LOG_LEVEL", "info"),
		LogFormat:     getOr(getenv, "LOG_FORMAT", "text"),
	}
	cfg.Token, cfg.TokenSource = lookupToken(getenv)

	var err error
	if cfg.Timeout, err = durationOr(getenv, "GHSNAP_HTTP_TIMEOUT", cfg.Timeout); err != nil {
		return Config{}, err
	}
	if cfg.SecondaryWait, err = durationOr(getenv, "GHSNAP_SECONDARY_WAIT", 0); err != nil {
		return Config{}, err
	}
	if cfg.ReadmeLimit, err = intOr(getenv, "GHSNAP_README_LIMIT", cfg.ReadmeLimit); err != nil {
		return Config{}, err
	}
	if cfg.ExcerptLimit, err = intOr(getenv, "GHSNAP_EXCERPT_LIMIT", cfg.ExcerptLimit); err != nil {
		return Config{}, err
	}
	if v := getenv("GHSNAP_CONTRIBUTIONS"); v != "" {
		if cfg.Contributions, err = strconv.ParseBool(v); err != nil {
			return Config{}, fmt.Errorf("GHSNAP_CONTRIBUTIONS must be a boolean: %w", err)
		}
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the cross-field constraints of a Config.
func Validate(cfg Config) error {
	if cfg.ReadmeLimit <= 0 {
		return errors.New("GHSNAP_README_LIMIT must be a positive integer")
	}
	if cfg.ExcerptLimit <= 0 || cfg.ExcerptLimit > cfg.ReadmeLimit {
		return errors.New("GHSNAP_EXCERPT_LIMIT must be positive and not larger than GHSNAP_README_LIMIT")
	}
	if cfg.Timeout <= 0 {
		return errors.New("GHSNAP_HTTP_TIMEOUT must be a positive duration")
	}
	if cfg.SecondaryWait < 0 {
		return errors.New("GHSNAP_SECONDARY_WAIT must not be negative")
	}
	if !strings.HasSuffix(cfg.APIURL, "/") {
		return errors.New("GITHUB_API_URL must end with a slash")
	}
	return nil
}

func lookupToken(getenv func(string) string) (string, string) {
	for _, name := range TokenEnvVars {
		if v := strings.TrimSpace(getenv(name)); v != "" {
			return v, name
		}
	}
	return "", ""
}

func getOr(getenv func(string) string, key, def string) string {
	if v := getenv(key); v != "" {
		return v
	}
	return def
}

func intOr(getenv func(string) string, key string, def int) (int, error) {
	v := getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func durationOr(getenv func(string) string, key string, def time.Duration) (time.Duration, error) {
	v := getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration such as 30s: %w", key, err)
	}
	return d, nil
}
