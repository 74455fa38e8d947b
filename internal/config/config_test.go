package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envOf(values map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(nil, envOf(nil))
	require.NoError(t, err)

	assert.Equal(t, ":5000", cfg.HTTPAddr)
	assert.Equal(t, DriverMemory, cfg.StorageDriver)
	assert.Equal(t, "quiz-app", cfg.MongoDatabase)
	assert.Equal(t, DefaultJWTSecret, cfg.JWTSecret)
	assert.Equal(t, 7*24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, 10*time.Second, cfg.SubmitGuardTTL)
	assert.Equal(t, "*", cfg.CORSOrigin)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.SeedOnStart)
	assert.Empty(t, cfg.RedisAddr)
}

func TestLoad_EnvAndFlags(t *testing.T) {
	env := envOf(map[string]string{
		"HTTP_ADDR":        ":8080",
		"STORAGE_DRIVER":   "postgres",
		"POSTGRES_DSN":     "postgres://quiz@localhost/quiz",
		"SUBMIT_GUARD_TTL": "30s",
		"SEED_ON_START":    "true",
		"BCRYPT_COST":      "12",
	})

	cfg, err := load([]string{"--addr", ":9090", "--log-level=debug"}, env)
	require.NoError(t, err)

	// флаг важнее переменной окружения
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, DriverPostgres, cfg.StorageDriver)
	assert.Equal(t, 30*time.Second, cfg.SubmitGuardTTL)
	assert.True(t, cfg.SeedOnStart)
	assert.Equal(t, 12, cfg.BcryptCost)
}

func TestLoad_Errors(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
		args []string
		want string
	}{
		{"bad duration", map[string]string{"TOKEN_TTL": "soon"}, nil, "invalid TOKEN_TTL"},
		{"bad bool", map[string]string{"SEED_ON_START": "maybe"}, nil, "invalid SEED_ON_START"},
		{"postgres without dsn", map[string]string{"STORAGE_DRIVER": "postgres"}, nil, "POSTGRES_DSN"},
		{"mongo without uri", nil, []string{"--storage=mongo", "--mongo-uri="}, "MONGODB_URI"},
		{"unknown driver", map[string]string{"STORAGE_DRIVER": "sqlite"}, nil, "unknown storage driver"},
		{"empty secret", nil, []string{"--jwt-secret="}, "JWT_SECRET"},
		{"unknown flag", nil, []string{"--nope"}, "unknown flag"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := load(tc.args, envOf(tc.env))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("CORS_ORIGIN=http://localhost:5173\n"), 0o600))
	t.Setenv("CORS_ORIGIN", "")
	require.NoError(t, os.Unsetenv("CORS_ORIGIN"))

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5173", cfg.CORSOrigin)

	_, err = Load(filepath.Join(t.TempDir(), "missing.env"), nil)
	assert.NoError(t, err)
}

func TestLoad_ExtraFlags(t *testing.T) {
	var xlsx string
	cfg, err := load([]string{"--xlsx", "extra.xlsx", "--storage", "memory"}, envOf(nil), func(flags *pflag.FlagSet) {
		flags.StringVar(&xlsx, "xlsx", "", "workbook")
	})
	require.NoError(t, err)
	assert.Equal(t, "extra.xlsx", xlsx)
	assert.Equal(t, DriverMemory, cfg.StorageDriver)

	_, err = load([]string{"--xlsx", "extra.xlsx"}, envOf(nil))
	assert.Error(t, err)
}
