package bootstrap

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/letsssgooo/quizServer/internal/config"
	"github.com/letsssgooo/quizServer/internal/storage"
)

func TestSetupLogger(t *testing.T) {
	var out bytes.Buffer

	log, err := SetupLogger(&out, "warn")
	require.NoError(t, err)

	log.Info("hidden")
	log.Warn("shown")
	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), "shown")

	_, err = SetupLogger(&out, "loud")
	assert.Error(t, err)
}

func TestOpenStorage(t *testing.T) {
	store, err := OpenStorage(context.Background(), &config.Config{StorageDriver: config.DriverMemory})
	require.NoError(t, err)
	assert.IsType(t, &storage.MemoryStorage{}, store)

	_, err = OpenStorage(context.Background(), &config.Config{StorageDriver: "sqlite"})
	assert.Error(t, err)
}
