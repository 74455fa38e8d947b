package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/letsssgooo/quizServer/internal/metrics"
)

// Периоды фоновых задач
const (
	CatalogInterval = time.Minute
	SweepInterval   = 30 * time.Second
	jobTimeout      = 10 * time.Second
)

// CatalogSource считает тесты по категориям
type CatalogSource interface {
	CatalogStats(ctx context.Context) (map[string]int, error)
}

// Sweeper вычищает просроченные блокировки отправки
type Sweeper interface {
	Cleanup() int
	Len() int
}

// Scheduler запускает фоновые задачи сервера
type Scheduler struct {
	scheduler *gocron.Scheduler
	catalog   CatalogSource
	sweeper   Sweeper
	metrics   *metrics.Metrics
}

// New создаёт планировщик. sweeper может быть nil, если блокировки хранятся вне процесса.
func New(catalog CatalogSource, sweeper Sweeper, m *metrics.Metrics) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		catalog:   catalog,
		sweeper:   sweeper,
		metrics:   m,
	}
}

// Start регистрирует задачи и запускает их в фоне.
func (s *Scheduler) Start() error {
	if _, err := s.scheduler.Every(CatalogInterval).Do(s.refreshCatalog); err != nil {
		return fmt.Errorf("failed to schedule catalog stats: %w", err)
	}

	if s.sweeper != nil {
		if _, err := s.scheduler.Every(SweepInterval).Do(s.sweepLocks); err != nil {
			return fmt.Errorf("failed to schedule lock cleanup: %w", err)
		}
	}

	s.scheduler.StartAsync()

	return nil
}

// Stop останавливает все задачи
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

func (s *Scheduler) refreshCatalog() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	stats, err := s.catalog.CatalogStats(ctx)
	if err != nil {
		slog.Error("failed to collect catalog stats", "err", err)
		return
	}

	s.metrics.RecordCatalog(stats)
}

func (s *Scheduler) sweepLocks() {
	removed := s.sweeper.Cleanup()
	if removed > 0 {
		slog.Debug("expired submit locks removed", "count", removed)
	}

	s.metrics.SubmitLocks.Set(float64(s.sweeper.Len()))
}
