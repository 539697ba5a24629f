package config

import (
	"fmt"
	"log"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"fuel-delivery-service/internal/apperr"
)

// Environments
const (
	EnvProduction  = "production"
	EnvDevelopment = "development"
)

// Config stores service settings.
type Config struct {
	Port             int
	Env              string
	LogLevel         string
	OperationTimeout time.Duration

	DB        DB
	Auth      Auth
	RateLimit RateLimit
	CORS      CORS
	Kafka     Kafka
	Pprof     Pprof
}

// DB is the PostgreSQL connection settings.
type DB struct {
	Host string
	Port string
	User string
	Pass string
	Name string
}

// DSN returns the pgx connection string.
func (d DB) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Pass),
		Host:     net.JoinHostPort(d.Host, d.Port),
		Path:     d.Name,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// Auth holds token and password hashing settings.
type Auth struct {
	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int
}

// RateLimit configures the per-client token bucket.
type RateLimit struct {
	Enabled    bool
	Rate       float64
	Burst      int
	TTL        time.Duration
	MaxBuckets int
}

// CORS lists origins allowed to call the API from a browser.
type CORS struct {
	AllowedOrigins []string
}

// Kafka configures the status events consumer and the events producer.
type Kafka struct {
	Brokers     []string
	StatusTopic string
	EventsTopic string
	GroupID     string
}

// Pprof configures the optional profiling listener.
type Pprof struct {
	Enabled bool
	Addr    string
	User    string
	Pass    string
}

// Debug reports whether error responses may carry internal detail.
func (c *Config) Debug() bool {
	return c.Env == EnvDevelopment
}

// Production reports whether the service runs in production.
func (c *Config) Production() bool {
	return c.Env == EnvProduction
}

// Load reads configuration in order: .env (if present), then environment, then flags.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		log.Printf("warning: .env not loaded: %v", err)
	}

	cfg := defaults()
	r := envReader{}

	cfg.Port = r.int("PORT", cfg.Port)
	cfg.Env = r.str("APP_ENV", cfg.Env)
	cfg.LogLevel = r.str("LOG_LEVEL", cfg.LogLevel)
	cfg.OperationTimeout = r.duration("OPERATION_TIMEOUT", cfg.OperationTimeout)

	cfg.DB.Host = r.str("POSTGRES_HOST", cfg.DB.Host)
	cfg.DB.Port = r.str("POSTGRES_PORT", cfg.DB.Port)
	cfg.DB.User = r.str("POSTGRES_USER", cfg.DB.User)
	cfg.DB.Pass = r.str("POSTGRES_PASSWORD", cfg.DB.Pass)
	cfg.DB.Name = r.str("POSTGRES_DB", cfg.DB.Name)

	cfg.Auth.JWTSecret = r.str("JWT_SECRET", "")
	cfg.Auth.TokenTTL = r.duration("JWT_TTL", cfg.Auth.TokenTTL)
	cfg.Auth.BcryptCost = r.int("BCRYPT_COST", cfg.Auth.BcryptCost)

	cfg.RateLimit.Enabled = r.bool("RATE_LIMIT_ENABLED", cfg.RateLimit.Enabled)
	cfg.RateLimit.Rate = r.float("RATE_LIMIT_RPS", cfg.RateLimit.Rate)
	cfg.RateLimit.Burst = r.int("RATE_LIMIT_BURST", cfg.RateLimit.Burst)
	cfg.RateLimit.TTL = r.duration("RATE_LIMIT_TTL", cfg.RateLimit.TTL)
	cfg.RateLimit.MaxBuckets = r.int("RATE_LIMIT_MAX_BUCKETS", cfg.RateLimit.MaxBuckets)

	cfg.CORS.AllowedOrigins = r.list("CORS_ALLOWED_ORIGINS", cfg.CORS.AllowedOrigins)

	cfg.Kafka.Brokers = r.list("KAFKA_BROKERS", cfg.Kafka.Brokers)
	cfg.Kafka.StatusTopic = r.str("KAFKA_STATUS_TOPIC", cfg.Kafka.StatusTopic)
	cfg.Kafka.EventsTopic = r.str("KAFKA_EVENTS_TOPIC", cfg.Kafka.EventsTopic)
	cfg.Kafka.GroupID = r.str("KAFKA_GROUP_ID", cfg.Kafka.GroupID)

	cfg.Pprof.Enabled = r.bool("PPROF_ENABLED", cfg.Pprof.Enabled)
	cfg.Pprof.Addr = r.str("PPROF_ADDR", cfg.Pprof.Addr)
	cfg.Pprof.User = r.str("PPROF_USER", cfg.Pprof.User)
	cfg.Pprof.Pass = r.str("PPROF_PASSWORD", cfg.Pprof.Pass)

	if r.err != nil {
		return nil, r.err
	}

	pflag.IntVarP(&cfg.Port, "port", "p", cfg.Port, "port to listen on")
	pflag.StringVar(&cfg.Env, "env", cfg.Env, "runtime environment (production|development)")
	pflag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug|info|warn|error)")
	if err := pflag.CommandLine.Parse(os.Args[1:]); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return apperr.Config("PORT", fmt.Sprintf("invalid port: %d", c.Port))
	}
	if c.Env != EnvProduction && c.Env != EnvDevelopment {
		return apperr.Config("APP_ENV", fmt.Sprintf("unknown environment %q", c.Env))
	}
	if p, err := strconv.Atoi(c.DB.Port); err != nil || p <= 0 || p > 65535 {
		return apperr.Config("POSTGRES_PORT", fmt.Sprintf("invalid port: %q", c.DB.Port))
	}
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return apperr.Config("JWT_SECRET", "is required")
	}
	if c.Auth.TokenTTL <= 0 {
		return apperr.Config("JWT_TTL", "must be positive")
	}
	if c.OperationTimeout <= 0 {
		return apperr.Config("OPERATION_TIMEOUT", "must be positive")
	}
	if c.RateLimit.Enabled && (c.RateLimit.Rate <= 0 || c.RateLimit.Burst <= 0) {
		return apperr.Config("RATE_LIMIT_RPS", "rate and burst must be positive when enabled")
	}
	return nil
}

// envReader keeps the first parse failure so Load reports one error.
type envReader struct {
	err error
}

func (r *envReader) fail(key, raw string, err error) {
	if r.err == nil {
		r.err = apperr.Config(key, fmt.Sprintf("cannot parse %q: %v", raw, err))
	}
}

func (r *envReader) str(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func (r *envReader) int(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.fail(key, v, err)
		return def
	}
	return n
}

func (r *envReader) float(key string, def float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		r.fail(key, v, err)
		return def
	}
	return f
}

func (r *envReader) bool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		r.fail(key, v, err)
		return def
	}
	return b
}

func (r *envReader) duration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		r.fail(key, v, err)
		return def
	}
	return d
}

func (r *envReader) list(key string, def []string) []string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
