package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/letsssgooo/quizServer/internal/metrics"
	"github.com/letsssgooo/quizServer/internal/submitguard"
)

type catalogFunc func(ctx context.Context) (map[string]int, error)

func (f catalogFunc) CatalogStats(ctx context.Context) (map[string]int, error) {
	return f(ctx)
}

func TestRefreshCatalog(t *testing.T) {
	m := metrics.NewMetrics(prometheus.NewRegistry())
	s := New(catalogFunc(func(context.Context) (map[string]int, error) {
		return map[string]int{"Web Development": 2}, nil
	}), nil, m)

	s.refreshCatalog()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CatalogTests.WithLabelValues("Web Development")))
}

func TestRefreshCatalog_ErrorKeepsPreviousValues(t *testing.T) {
	m := metrics.NewMetrics(prometheus.NewRegistry())
	m.RecordCatalog(map[string]int{"Go": 1})

	s := New(catalogFunc(func(context.Context) (map[string]int, error) {
		return nil, errors.New("db down")
	}), nil, m)

	s.refreshCatalog()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CatalogTests.WithLabelValues("Go")))
}

func TestSweepLocks(t *testing.T) {
	ctx := context.Background()
	m := metrics.NewMetrics(prometheus.NewRegistry())

	guard := submitguard.NewMemoryGuard(time.Millisecond)
	require.NoError(t, guard.Acquire(ctx, "u1", "t1"))
	time.Sleep(5 * time.Millisecond)

	s := New(catalogFunc(func(context.Context) (map[string]int, error) { return nil, nil }), guard, m)
	s.sweepLocks()

	assert.Equal(t, 0, guard.Len())
	assert.Equal(t, 0.0, testutil.ToFloat64(m.SubmitLocks))
}

func TestStartStop(t *testing.T) {
	m := metrics.NewMetrics(prometheus.NewRegistry())
	s := New(catalogFunc(func(context.Context) (map[string]int, error) { return nil, nil }),
		submitguard.NewMemoryGuard(0), m)

	require.NoError(t, s.Start())
	assert.Len(t, s.scheduler.Jobs(), 2)
	s.Stop()
}
