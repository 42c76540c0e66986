package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

type Config struct {
	Port                string        `mapstructure:"PORT"`
	Env                 string        `mapstructure:"ENV"`
	BackendURL          string        `mapstructure:"BACKEND_API_URL"`
	BackendTimeout      time.Duration `mapstructure:"BACKEND_TIMEOUT"`
	RequestTimeout      time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	SessionSecret       string        `mapstructure:"SESSION_SECRET"`
	SessionTTL          time.Duration `mapstructure:"SESSION_TTL"`
	SessionCookieSecure bool          `mapstructure:"SESSION_COOKIE_SECURE"`
	AIAPIKey            string        `mapstructure:"AI_API_KEY"`
	AIModel             string        `mapstructure:"AI_MODEL"`
	AIBaseURL           string        `mapstructure:"AI_BASE_URL"`
	AITimeout           time.Duration `mapstructure:"AI_TIMEOUT"`
	DatabaseURL         string        `mapstructure:"DATABASE_URL"`
	DBMaxConns          int32         `mapstructure:"DB_MAX_CONNS"`
	DBMinConns          int32         `mapstructure:"DB_MIN_CONNS"`
	CORSOrigins         []string      `mapstructure:"CORS_ORIGINS"`
	RateLimitRPS        float64       `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst      int           `mapstructure:"RATE_LIMIT_BURST"`
	AIRateLimitRPS      float64       `mapstructure:"AI_RATE_LIMIT_RPS"`
	LogLevel            string        `mapstructure:"LOG_LEVEL"`

	// Deprecated holds legacy variable names that were used to fill a value.
	Deprecated []string `mapstructure:"-"`
}

// legacyBackendVars are older names for BACKEND_API_URL, in lookup order.
var legacyBackendVars = []string{"NEXT_PUBLIC_API_URL", "NEXT_PUBLIC_API_BASE_URL", "API_BASE_URL"}

// Load reads .env (if present) into the process environment and builds the
// configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("BACKEND_TIMEOUT", "15s")
	v.SetDefault("REQUEST_TIMEOUT", "30s")
	v.SetDefault("SESSION_TTL", "12h")
	v.SetDefault("SESSION_COOKIE_SECURE", false)
	v.SetDefault("AI_MODEL", "gemini-1.5-flash")
	v.SetDefault("AI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("AI_TIMEOUT", "30s")
	v.SetDefault("DB_MAX_CONNS", 5)
	v.SetDefault("DB_MIN_CONNS", 1)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT_RPS", 20)
	v.SetDefault("RATE_LIMIT_BURST", 40)
	v.SetDefault("AI_RATE_LIMIT_RPS", 0.5)
	v.SetDefault("LOG_LEVEL", "info")

	// Bind env vars explicitly so Unmarshal picks them up
	for _, key := range []string{
		"PORT", "ENV", "BACKEND_API_URL", "BACKEND_TIMEOUT", "REQUEST_TIMEOUT",
		"SESSION_SECRET", "SESSION_TTL", "SESSION_COOKIE_SECURE",
		"AI_API_KEY", "AI_MODEL", "AI_BASE_URL", "AI_TIMEOUT",
		"DATABASE_URL", "DB_MAX_CONNS", "DB_MIN_CONNS", "CORS_ORIGINS",
		"RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "AI_RATE_LIMIT_RPS", "LOG_LEVEL",
	} {
		v.BindEnv(key)
	}
	for _, key := range legacyBackendVars {
		v.BindEnv(key)
	}
	v.BindEnv("GEMINI_API_KEY")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.BackendURL == "" {
		for _, key := range legacyBackendVars {
			if val := v.GetString(key); val != "" {
				cfg.BackendURL = val
				cfg.Deprecated = append(cfg.Deprecated, key)
				break
			}
		}
	}
	if cfg.AIAPIKey == "" {
		if val := v.GetString("GEMINI_API_KEY"); val != "" {
			cfg.AIAPIKey = val
			cfg.Deprecated = append(cfg.Deprecated, "GEMINI_API_KEY")
		}
	}

	if len(cfg.CORSOrigins) == 1 && strings.Contains(cfg.CORSOrigins[0], ",") {
		cfg.CORSOrigins = strings.Split(cfg.CORSOrigins[0], ",")
	}
	if cfg.CORSOrigins == nil {
		if origins := v.GetString("CORS_ORIGINS"); origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}
	for i := range cfg.CORSOrigins {
		cfg.CORSOrigins[i] = strings.TrimSpace(cfg.CORSOrigins[i])
	}

	if cfg.BackendURL == "" {
		return nil, fmt.Errorf("BACKEND_API_URL is required")
	}
	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// devSessionSecret is only accepted in development.
const devSessionSecret = "development-only-session-secret-0123456789"

// SessionKey returns the session signing key. Development falls back to a
// fixed key so sessions survive restarts.
func (c *Config) SessionKey() []byte {
	if c.SessionSecret == "" && c.IsDev() {
		return []byte(devSessionSecret)
	}
	return []byte(c.SessionSecret)
}

// AuditEnabled reports whether access audit entries are persisted.
func (c *Config) AuditEnabled() bool {
	return c.DatabaseURL != ""
}

// Level returns the zerolog level, defaulting to info.
func (c *Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// Validate checks that the configuration is safe to run.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BackendURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("BACKEND_API_URL must be an absolute http(s) URL, got %q", c.BackendURL)
	}
	if !c.IsDev() && c.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET is required when ENV=%q", c.Env)
	}
	if c.SessionSecret != "" && len(c.SessionSecret) < 32 {
		return fmt.Errorf("SESSION_SECRET must be at least 32 bytes, got %d", len(c.SessionSecret))
	}
	if c.IsProduction() && !c.SessionCookieSecure {
		return fmt.Errorf("SESSION_COOKIE_SECURE must be true in production")
	}
	if c.BackendTimeout <= 0 || c.RequestTimeout <= 0 || c.AITimeout <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS (%d) exceeds DB_MAX_CONNS (%d)", c.DBMinConns, c.DBMaxConns)
	}
	return nil
}
