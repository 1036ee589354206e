package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrMissing reports required settings that were not provided.
var ErrMissing = errors.New("missing required configuration")

// Config holds every runtime setting of the dashboard.
type Config struct {
	Port              int           `mapstructure:"port"`
	Username          string        `mapstructure:"username"`
	Password          string        `mapstructure:"password"`
	CredentialsBase64 string        `mapstructure:"credentials_base64"`
	TokenBase64       string        `mapstructure:"token_base64"`
	StateDir          string        `mapstructure:"state_dir"`
	Query             string        `mapstructure:"query"`
	MaxResults        int           `mapstructure:"max_results"`
	FetchConcurrency  int           `mapstructure:"fetch_concurrency"`
	RPS               int           `mapstructure:"rps"`
	SessionTTL        time.Duration `mapstructure:"session_ttl"`
	CookieSecure      bool          `mapstructure:"cookie_secure"`
	LogLevel          string        `mapstructure:"log_level"`
}

// envKeys maps config keys to the environment variables they are read from.
var envKeys = map[string]string{
	"port":               "PORT",
	"username":           "USERNAME",
	"password":           "PASSWORD",
	"credentials_base64": "CREDENTIALS_BASE64",
	"token_base64":       "TOKEN_BASE64",
	"state_dir":          "STATE_DIR",
	"query":              "GMAIL_QUERY",
	"max_results":        "MAX_RESULTS",
	"fetch_concurrency":  "FETCH_CONCURRENCY",
	"rps":                "GMAIL_RPS",
	"session_ttl":        "SESSION_TTL",
	"cookie_secure":      "COOKIE_SECURE",
	"log_level":          "LOG_LEVEL",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", 8080)
	v.SetDefault("username", "")
	v.SetDefault("password", "")
	v.SetDefault("credentials_base64", "")
	v.SetDefault("token_base64", "")
	v.SetDefault("state_dir", ".")
	v.SetDefault("query", "from:(drn@domain.com)")
	v.SetDefault("max_results", 10)
	v.SetDefault("fetch_concurrency", 1)
	v.SetDefault("rps", 0)
	v.SetDefault("session_ttl", 12*time.Hour)
	v.SetDefault("cookie_secure", false)
	v.SetDefault("log_level", "info")
}

// Load reads configuration from the environment. When envFile is non-empty and
// exists, its variables are loaded first without overriding the real environment.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	}

	v := viper.New()
	setDefaults(v)
	for key, env := range envKeys {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse configuration: %w", err)
	}
	return cfg, nil
}

// Validate reports every missing required setting in a single error.
func (c *Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.Username) == "" {
		missing = append(missing, envKeys["username"])
	}
	if c.Password == "" {
		missing = append(missing, envKeys["password"])
	}
	if strings.TrimSpace(c.CredentialsBase64) == "" {
		missing = append(missing, envKeys["credentials_base64"])
	}
	if strings.TrimSpace(c.TokenBase64) == "" {
		missing = append(missing, envKeys["token_base64"])
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissing, strings.Join(missing, ", "))
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid %s %d", envKeys["port"], c.Port)
	}
	if c.MaxResults < 0 {
		return fmt.Errorf("invalid %s %d", envKeys["max_results"], c.MaxResults)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}
