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
	"github.com/spf13/pflag"
)

// Драйверы хранилища
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

// DefaultJWTSecret подходит только для локального запуска.
const DefaultJWTSecret = "your_jwt_secret"

// Config содержит настройки сервера
type Config struct {
	HTTPAddr       string
	StorageDriver  string
	PostgresDSN    string
	MongoURI       string
	MongoDatabase  string
	JWTSecret      string
	TokenTTL       time.Duration
	BcryptCost     int
	RedisAddr      string
	SubmitGuardTTL time.Duration
	CORSOrigin     string
	LogLevel       string
	SeedOnStart    bool
}

// Load читает настройки в порядке возрастания приоритета:
// значения по умолчанию, файл envFile, переменные окружения, флаги из args.
// Отсутствующий envFile не считается ошибкой.
// extend добавляет флаги конкретной команды к общему набору.
func Load(envFile string, args []string, extend ...func(*pflag.FlagSet)) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	return load(args, os.LookupEnv, extend...)
}

func load(args []string, lookup func(string) (string, bool), extend ...func(*pflag.FlagSet)) (*Config, error) {
	env := envReader{lookup: lookup}

	cfg := &Config{
		HTTPAddr:       env.string("HTTP_ADDR", ":5000"),
		StorageDriver:  env.string("STORAGE_DRIVER", DriverMemory),
		PostgresDSN:    env.string("POSTGRES_DSN", ""),
		MongoURI:       env.string("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase:  env.string("MONGODB_DATABASE", "quiz-app"),
		JWTSecret:      env.string("JWT_SECRET", DefaultJWTSecret),
		TokenTTL:       env.duration("TOKEN_TTL", 7*24*time.Hour),
		BcryptCost:     env.int("BCRYPT_COST", 10),
		RedisAddr:      env.string("REDIS_ADDR", ""),
		SubmitGuardTTL: env.duration("SUBMIT_GUARD_TTL", 10*time.Second),
		CORSOrigin:     env.string("CORS_ORIGIN", "*"),
		LogLevel:       env.string("LOG_LEVEL", "info"),
		SeedOnStart:    env.bool("SEED_ON_START", false),
	}
	if env.err != nil {
		return nil, env.err
	}

	flags := pflag.NewFlagSet("quizserver", pflag.ContinueOnError)
	flags.StringVar(&cfg.HTTPAddr, "addr", cfg.HTTPAddr, "address of the HTTP server")
	flags.StringVar(&cfg.StorageDriver, "storage", cfg.StorageDriver, "storage driver: memory, postgres or mongo")
	flags.StringVar(&cfg.PostgresDSN, "postgres-dsn", cfg.PostgresDSN, "postgres connection string")
	flags.StringVar(&cfg.MongoURI, "mongo-uri", cfg.MongoURI, "mongodb connection string")
	flags.StringVar(&cfg.MongoDatabase, "mongo-db", cfg.MongoDatabase, "mongodb database name")
	flags.StringVar(&cfg.JWTSecret, "jwt-secret", cfg.JWTSecret, "secret for signing tokens")
	flags.DurationVar(&cfg.TokenTTL, "token-ttl", cfg.TokenTTL, "lifetime of issued tokens")
	flags.IntVar(&cfg.BcryptCost, "bcrypt-cost", cfg.BcryptCost, "bcrypt cost of password hashes")
	flags.StringVar(&cfg.RedisAddr, "redis-addr", cfg.RedisAddr, "redis address for the submit guard, empty for in-memory")
	flags.DurationVar(&cfg.SubmitGuardTTL, "submit-guard-ttl", cfg.SubmitGuardTTL, "window in which a repeated submit is rejected")
	flags.StringVar(&cfg.CORSOrigin, "cors-origin", cfg.CORSOrigin, "allowed CORS origin")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn or error")
	flags.BoolVar(&cfg.SeedOnStart, "seed", cfg.SeedOnStart, "load the demo catalog on start")
	for _, fn := range extend {
		fn(flags)
	}

	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StorageDriver {
	case DriverMemory:
	case DriverPostgres:
		if c.PostgresDSN == "" {
			return errors.New("postgres storage requires POSTGRES_DSN")
		}
	case DriverMongo:
		if c.MongoURI == "" {
			return errors.New("mongo storage requires MONGODB_URI")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.StorageDriver)
	}

	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must not be empty")
	}
	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}

	return nil
}

// envReader запоминает первую ошибку разбора
type envReader struct {
	lookup func(string) (string, bool)
	err    error
}

func (r *envReader) string(key, def string) string {
	if v, ok := r.lookup(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

func (r *envReader) duration(key string, def time.Duration) time.Duration {
	raw := r.string(key, "")
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil && r.err == nil {
		r.err = fmt.Errorf("invalid %s: %w", key, err)
	}
	return d
}

func (r *envReader) int(key string, def int) int {
	raw := r.string(key, "")
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil && r.err == nil {
		r.err = fmt.Errorf("invalid %s: %w", key, err)
	}
	return n
}

func (r *envReader) bool(key string, def bool) bool {
	raw := r.string(key, "")
	if raw == "" {
		return def
	}
	b, err := strconv.ParseBool(raw)
	if err != nil && r.err == nil {
		r.err = fmt.Errorf("invalid %s: %w", key, err)
	}
	return b
}
