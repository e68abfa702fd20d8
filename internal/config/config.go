package config

import (
	"fmt"
	"log"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port        string `mapstructure:"PORT"`
	Env         string `mapstructure:"ENV"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`
	DBSSLMode  string `mapstructure:"DB_SSLMODE"`

	DBMaxConns          int32         `mapstructure:"DB_MAX_CONNS"`
	DBMinConns          int32         `mapstructure:"DB_MIN_CONNS"`
	DBIdleTimeout       time.Duration `mapstructure:"DB_IDLE_TIMEOUT"`
	DBConnectionTimeout time.Duration `mapstructure:"DB_CONNECTION_TIMEOUT"`
	DBRequestTimeout    time.Duration `mapstructure:"DB_REQUEST_TIMEOUT"`

	JWTSecret    string        `mapstructure:"JWT_SECRET"`
	JWTExpiresIn string        `mapstructure:"JWT_EXPIRES_IN"`
	JWTTTL       time.Duration `mapstructure:"-"`
	BcryptCost   int           `mapstructure:"BCRYPT_COST"`

	CORSOrigins    []string `mapstructure:"CORS_ORIGINS"`
	RateLimitRPS   float64  `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int      `mapstructure:"RATE_LIMIT_BURST"`

	RedisURL         string        `mapstructure:"REDIS_URL"`
	LoginMaxAttempts int           `mapstructure:"LOGIN_MAX_ATTEMPTS"`
	LoginLockout     time.Duration `mapstructure:"LOGIN_LOCKOUT"`

	NotificationRetentionDays int    `mapstructure:"NOTIFICATION_RETENTION_DAYS"`
	NotificationPurgeSchedule string `mapstructure:"NOTIFICATION_PURGE_SCHEDULE"`
}

var defaultCORSOrigins = []string{
	"http://localhost:3000",
	"http://localhost:3001",
	"http://localhost:3002",
	"http://localhost:3003",
	"http://localhost:3004",
	"http://localhost:5173",
	"http://localhost:5174",
}

// placeholderSecrets are signing secrets copied from sample env files. They
// are refused in production.
var placeholderSecrets = map[string]bool{
	"":                 true,
	"secret":           true,
	"changeme":         true,
	"your-secret-key":  true,
	"your_jwt_secret":  true,
	"your-jwt-secret":  true,
	"jwt-secret":       true,
	"supersecretkey":   true,
	"development-only": true,
}

func Load() (*Config, error) {
	// .env is optional; values already in the environment win.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MIN_CONNS", 0)
	v.SetDefault("DB_IDLE_TIMEOUT", "30s")
	v.SetDefault("DB_CONNECTION_TIMEOUT", "30s")
	v.SetDefault("DB_REQUEST_TIMEOUT", "30s")
	v.SetDefault("JWT_EXPIRES_IN", "7d")
	v.SetDefault("BCRYPT_COST", 10)
	v.SetDefault("CORS_ORIGINS", strings.Join(defaultCORSOrigins, ","))
	v.SetDefault("RATE_LIMIT_RPS", 50)
	v.SetDefault("RATE_LIMIT_BURST", 100)
	v.SetDefault("LOGIN_MAX_ATTEMPTS", 5)
	v.SetDefault("LOGIN_LOCKOUT", "15m")
	v.SetDefault("NOTIFICATION_RETENTION_DAYS", 30)
	v.SetDefault("NOTIFICATION_PURGE_SCHEDULE", "0 3 * * *")

	for _, key := range []string{
		"PORT", "ENV", "DATABASE_URL",
		"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSLMODE",
		"DB_MAX_CONNS", "DB_MIN_CONNS", "DB_IDLE_TIMEOUT", "DB_CONNECTION_TIMEOUT", "DB_REQUEST_TIMEOUT",
		"JWT_SECRET", "JWT_EXPIRES_IN", "BCRYPT_COST",
		"CORS_ORIGINS", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
		"REDIS_URL", "LOGIN_MAX_ATTEMPTS", "LOGIN_LOCKOUT",
		"NOTIFICATION_RETENTION_DAYS", "NOTIFICATION_PURGE_SCHEDULE",
	} {
		v.BindEnv(key)
	}

	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.CORSOrigins = splitList(v.GetString("CORS_ORIGINS"))

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = cfg.buildDatabaseURL()
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL (or DB_HOST, DB_USER and DB_NAME) is required")
	}

	ttl, err := ParseDuration(cfg.JWTExpiresIn)
	if err != nil {
		return nil, fmt.Errorf("JWT_EXPIRES_IN: %w", err)
	}
	cfg.JWTTTL = ttl

	if cfg.IsDev() && placeholderSecrets[cfg.JWTSecret] {
		log.Println("WARNING: JWT_SECRET is unset or a placeholder; tokens are forgeable. Set ENV=production to enforce a real secret.")
	}

	return cfg, nil
}

func (c *Config) buildDatabaseURL() string {
	if c.DBHost == "" || c.DBUser == "" || c.DBName == "" {
		return ""
	}
	u := &url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.DBUser, c.DBPassword),
		Host:   c.DBHost + ":" + c.DBPort,
		Path:   "/" + c.DBName,
	}
	q := u.Query()
	q.Set("sslmode", c.DBSSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks that the configuration is safe to run. In production the
// JWT signing secret must be set and must not be a well-known placeholder.
func (c *Config) Validate() error {
	if c.IsProduction() && placeholderSecrets[strings.ToLower(c.JWTSecret)] {
		return fmt.Errorf("JWT_SECRET must be set to a non-placeholder value in production")
	}
	if c.IsProduction() && len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters in production, got %d", len(c.JWTSecret))
	}
	if c.DBMaxConns <= 0 {
		return fmt.Errorf("DB_MAX_CONNS must be positive, got %d", c.DBMaxConns)
	}
	if c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS, got %d", c.DBMinConns)
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31, got %d", c.BcryptCost)
	}
	if c.NotificationRetentionDays < 1 {
		return fmt.Errorf("NOTIFICATION_RETENTION_DAYS must be at least 1, got %d", c.NotificationRetentionDays)
	}
	return nil
}

// ParseDuration accepts Go durations ("168h") and the day/week shorthand
// used by token libraries ("7d", "2w").
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}
	unit := s[len(s)-1]
	n, err := strconv.Atoi(s[:len(s)-1])
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	switch unit {
	case 'd':
		return time.Duration(n) * 24 * time.Hour, nil
	case 'w':
		return time.Duration(n) * 7 * 24 * time.Hour, nil
	}
	return 0, fmt.Errorf("invalid duration %q", s)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
