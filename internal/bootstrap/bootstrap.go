package bootstrap

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/letsssgooo/quizServer/internal/config"
	"github.com/letsssgooo/quizServer/internal/lib/slogcustom"
	"github.com/letsssgooo/quizServer/internal/storage"
	"github.com/letsssgooo/quizServer/internal/storage/mongodb"
	"github.com/letsssgooo/quizServer/internal/storage/postgres"
)

const connectTimeout = 15 * time.Second

// SetupLogger создаёт цветной логгер с уровнем из настроек.
func SetupLogger(out io.Writer, level string) (*slog.Logger, error) {
	lvl, err := slogcustom.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return slog.New(slogcustom.NewCustomHandler(out, lvl)), nil
}

// OpenStorage подключается к хранилищу, выбранному в cfg.StorageDriver.
func OpenStorage(ctx context.Context, cfg *config.Config) (storage.Storage, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	switch cfg.StorageDriver {
	case config.DriverMemory:
		return storage.NewMemoryStorage(), nil
	case config.DriverPostgres:
		return postgres.NewStorage(ctx, cfg.PostgresDSN)
	case config.DriverMongo:
		return mongodb.NewStorage(ctx, cfg.MongoURI, cfg.MongoDatabase)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
