package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/letsssgooo/quizServer/internal/bootstrap"
	"github.com/letsssgooo/quizServer/internal/config"
	"github.com/letsssgooo/quizServer/internal/seed"
)

func main() {
	if err := run(); err != nil {
		slog.Error("seeding failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	var xlsxPath, sheet string
	cfg, err := config.Load(".env", os.Args[1:], func(flags *pflag.FlagSet) {
		flags.StringVar(&xlsxPath, "xlsx", "", "workbook with extra questions to import")
		flags.StringVar(&sheet, "sheet", seed.DefaultImportConfig().SheetName, "sheet of the workbook with questions")
	})
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	log, err := bootstrap.SetupLogger(os.Stdout, cfg.LogLevel)
	if err != nil {
		return err
	}
	slog.SetDefault(log)

	if cfg.StorageDriver == config.DriverMemory {
		slog.Warn("seeding the memory storage has no lasting effect, use --storage postgres or mongo")
	}

	catalog, err := seed.Default()
	if err != nil {
		return err
	}

	if xlsxPath != "" {
		importCfg := seed.DefaultImportConfig()
		importCfg.SheetName = sheet

		result, err := seed.ImportXLSX(xlsxPath, importCfg)
		if err != nil {
			return err
		}
		for _, rowErr := range result.Errors {
			slog.Warn("skipped row", slog.String("reason", rowErr))
		}
		slog.Info("workbook imported",
			slog.String("file", xlsxPath),
			slog.Int("rows", result.TotalRows),
			slog.Int("imported", result.Imported),
		)
		catalog.Merge(result.Catalog)
	}

	ctx := context.Background()
	store, err := bootstrap.OpenStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close(ctx)

	_, err = seed.Load(ctx, store, catalog, cfg.BcryptCost)
	return err
}
