package config

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultTimeWindowHours is the comparison window applied by the drift
// rules when DRIFT_TIME_WINDOW_HOURS is unset or invalid.
const DefaultTimeWindowHours = 12

type Config struct {
	Port                 string   `mapstructure:"PORT"`
	Env                  string   `mapstructure:"ENV"`
	NotesFile            string   `mapstructure:"NOTES_FILE"`
	DatabaseURL          string   `mapstructure:"DATABASE_URL"`
	DBMaxConns           int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns           int32    `mapstructure:"DB_MIN_CONNS"`
	OpenAIAPIKey         string   `mapstructure:"OPENAI_API_KEY"`
	OpenAIModel          string   `mapstructure:"OPENAI_MODEL"`
	DriftTimeWindowHours int      `mapstructure:"-"`
	AlertCacheTTLSeconds int      `mapstructure:"ALERT_CACHE_TTL_SECONDS"`
	CORSOrigins          []string `mapstructure:"CORS_ORIGINS"`
	RequestTimeoutSecs   int      `mapstructure:"REQUEST_TIMEOUT_SECONDS"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("NOTES_FILE", "./data/synthetic_notes.json")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MIN_CONNS", 2)
	v.SetDefault("OPENAI_MODEL", "gpt-4o-mini")
	v.SetDefault("ALERT_CACHE_TTL_SECONDS", 300)
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("REQUEST_TIMEOUT_SECONDS", 120)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("NOTES_FILE")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("OPENAI_API_KEY")
	v.BindEnv("OPENAI_MODEL")
	v.BindEnv("DRIFT_TIME_WINDOW_HOURS")
	v.BindEnv("ALERT_CACHE_TTL_SECONDS")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("REQUEST_TIMEOUT_SECONDS")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	cfg.DriftTimeWindowHours = parseTimeWindow(v.GetString("DRIFT_TIME_WINDOW_HOURS"))

	if cfg.AlertCacheTTLSeconds <= 0 {
		cfg.AlertCacheTTLSeconds = 300
	}

	return cfg, nil
}

// parseTimeWindow parses DRIFT_TIME_WINDOW_HOURS. Invalid or non-positive
// values fall back to the default with a warning rather than failing startup.
func parseTimeWindow(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultTimeWindowHours
	}
	hours, err := strconv.Atoi(raw)
	if err != nil || hours <= 0 {
		log.Printf("WARNING: invalid DRIFT_TIME_WINDOW_HOURS value %q, using default %d hours", raw, DefaultTimeWindowHours)
		return DefaultTimeWindowHours
	}
	return hours
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// OracleAPIKey returns the OpenAI key with surrounding whitespace and quotes
// stripped. Keys pasted into .env files frequently carry both.
func (c *Config) OracleAPIKey() string {
	key := strings.TrimSpace(c.OpenAIAPIKey)
	key = strings.Trim(key, `"'`)
	return key
}

// OracleConfigured reports whether a usable OpenAI key is present. Placeholder
// values and keys without the sk- prefix are treated as not configured so the
// alert endpoints degrade to an empty result instead of failing every call.
func (c *Config) OracleConfigured() bool {
	key := c.OracleAPIKey()
	if key == "" || key == "your_openai_api_key_here" {
		return false
	}
	return strings.HasPrefix(key, "sk-")
}

// TimeWindow returns the drift comparison window as a duration.
func (c *Config) TimeWindow() time.Duration {
	return time.Duration(c.DriftTimeWindowHours) * time.Hour
}

// AlertCacheTTL returns how long the aggregate alert computation stays cached.
func (c *Config) AlertCacheTTL() time.Duration {
	return time.Duration(c.AlertCacheTTLSeconds) * time.Second
}

// RequestTimeout returns the per-request deadline for the HTTP layer. Drift
// detection fans out many oracle calls, so the default is generous.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSecs) * time.Second
}
