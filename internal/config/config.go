// Package config loads server settings. Values are layered: built-in
// defaults, then a .env file, then the process environment, then flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/mmynk/standbys/internal/roster"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

// Config holds every runtime setting of standbyd.
type Config struct {
	Addr string

	DBDriver    string
	DBPath      string
	DatabaseURL string

	JWTSecret string
	TokenTTL  time.Duration

	CacheBackend string
	RedisURL     string
	CacheTTL     time.Duration

	TimeZone string

	RosterAnchor   string
	RosterPattern  string
	RosterPlatoons []string

	CORSOrigin string

	LogLevel  string
	LogFormat string
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		Addr:           ":8080",
		DBDriver:       DriverSQLite,
		DBPath:         "./data/standbys.db",
		TokenTTL:       7 * 24 * time.Hour,
		CacheBackend:   CacheMemory,
		RedisURL:       "redis://localhost:6379/0",
		CacheTTL:       5 * time.Minute,
		TimeZone:       "Local",
		RosterAnchor:   "2025-01-01",
		RosterPattern:  roster.DefaultPattern,
		RosterPlatoons: []string{"A", "B", "C", "D"},
		CORSOrigin:     "*",
		LogLevel:       "info",
		LogFormat:      "text",
	}
}

// Load returns the defaults overlaid with envFile (when it exists) and the
// process environment. A missing envFile is not an error.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}
	cfg := Default()
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from environment variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	dur := func(key string, dst *time.Duration) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		*dst = d
		return nil
	}

	str("STANDBYS_ADDR", &c.Addr)
	if v, ok := lookup("PORT"); ok && v != "" {
		if _, err := strconv.Atoi(v); err != nil {
			return fmt.Errorf("invalid PORT: %w", err)
		}
		c.Addr = ":" + v
	}
	str("DB_DRIVER", &c.DBDriver)
	str("DB_PATH", &c.DBPath)
	str("DATABASE_URL", &c.DatabaseURL)
	str("JWT_SECRET", &c.JWTSecret)
	if err := dur("TOKEN_TTL", &c.TokenTTL); err != nil {
		return err
	}
	str("CACHE_BACKEND", &c.CacheBackend)
	str("REDIS_URL", &c.RedisURL)
	if err := dur("CACHE_TTL", &c.CacheTTL); err != nil {
		return err
	}
	str("TZ_NAME", &c.TimeZone)
	str("ROSTER_ANCHOR", &c.RosterAnchor)
	str("ROSTER_PATTERN", &c.RosterPattern)
	if v, ok := lookup("ROSTER_PLATOONS"); ok && v != "" {
		c.RosterPlatoons = splitList(v)
	}
	str("CORS_ORIGIN", &c.CORSOrigin)
	str("LOG_LEVEL", &c.LogLevel)
	str("LOG_FORMAT", &c.LogFormat)
	return nil
}

// DatabaseFlags binds the storage flags shared by every subcommand.
func (c *Config) DatabaseFlags(flags *pflag.FlagSet) {
	flags.StringVar(&c.DBDriver, "db-driver", c.DBDriver, "Database driver: sqlite or postgres")
	flags.StringVar(&c.DBPath, "db-path", c.DBPath, "SQLite database file")
	flags.StringVar(&c.DatabaseURL, "database-url", c.DatabaseURL, "PostgreSQL connection string")
	flags.StringVar(&c.LogLevel, "log-level", c.LogLevel, "Log level: debug, info, warn, error")
	flags.StringVar(&c.LogFormat, "log-format", c.LogFormat, "Log format: text or json")
}

// RosterFlags binds the rotation settings.
func (c *Config) RosterFlags(flags *pflag.FlagSet) {
	flags.StringVar(&c.TimeZone, "timezone", c.TimeZone, "IANA time zone that decides today's date")
	flags.StringVar(&c.RosterAnchor, "roster-anchor", c.RosterAnchor, "Date the first platoon starts the rotation (YYYY-MM-DD)")
	flags.StringVar(&c.RosterPattern, "roster-pattern", c.RosterPattern, "Rotation pattern of D (day), N (night) and - (off)")
	flags.StringSliceVar(&c.RosterPlatoons, "roster-platoons", c.RosterPlatoons, "Platoon names in rotation order")
}

// ServerFlags binds the serve command's flags.
func (c *Config) ServerFlags(flags *pflag.FlagSet) {
	flags.StringVar(&c.Addr, "addr", c.Addr, "Address to listen on")
	flags.StringVar(&c.JWTSecret, "jwt-secret", c.JWTSecret, "Secret used to sign session tokens")
	flags.DurationVar(&c.TokenTTL, "token-ttl", c.TokenTTL, "Session token lifetime")
	flags.StringVar(&c.CacheBackend, "cache", c.CacheBackend, "Snapshot cache: memory, redis or none")
	flags.StringVar(&c.RedisURL, "redis-url", c.RedisURL, "Redis URL for the redis cache")
	flags.DurationVar(&c.CacheTTL, "cache-ttl", c.CacheTTL, "Snapshot cache entry lifetime")
	flags.StringVar(&c.CORSOrigin, "cors-origin", c.CORSOrigin, "Allowed CORS origin")
}

// Validate checks the settings the chosen subcommand relies on.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverSQLite:
		if c.DBPath == "" {
			return errors.New("db-path is required for sqlite")
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("database-url is required for postgres")
		}
	default:
		return fmt.Errorf("unknown db driver %q", c.DBDriver)
	}
	switch c.CacheBackend {
	case CacheMemory, CacheNone:
	case CacheRedis:
		if c.RedisURL == "" {
			return errors.New("redis-url is required for the redis cache")
		}
	default:
		return fmt.Errorf("unknown cache backend %q", c.CacheBackend)
	}
	if c.TokenTTL <= 0 {
		return errors.New("token-ttl must be positive")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := c.Rotation(); err != nil {
		return err
	}
	return nil
}

// Location resolves TimeZone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.TimeZone, err)
	}
	return loc, nil
}

// Rotation builds the fallback roster rotation from the roster settings.
func (c *Config) Rotation() (*roster.Rotation, error) {
	anchor, err := civil.ParseDate(c.RosterAnchor)
	if err != nil {
		return nil, fmt.Errorf("invalid roster anchor %q: %w", c.RosterAnchor, err)
	}
	rot, err := roster.NewRotation(anchor, c.RosterPattern, c.RosterPlatoons)
	if err != nil {
		return nil, fmt.Errorf("invalid roster rotation: %w", err)
	}
	return rot, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
