package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"NewsDesk/internal/config"
	"NewsDesk/internal/logging"
)

func memoryConfig() config.Config {
	var cfg config.Config
	cfg.Database.Driver = config.DriverMemory
	cfg.Scheduler.Interval = 10 * time.Millisecond
	cfg.HTTP.Addr = "127.0.0.1:0"
	cfg.HTTP.ShutdownTimeout = time.Second
	return cfg
}

func TestApplicationServesAndPublishes(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := memoryConfig()
	cfg.Events.RedisURL = "redis://" + mr.Addr()
	cfg.Events.Stream = "test:articles"

	application, err := New(context.Background(), cfg, logging.Discard())
	require.NoError(t, err)
	defer application.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/articles", strings.NewReader(
		`{"title":"Bridge closes","headline":"Repairs start","body":"<p>Works begin Monday.</p>"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Account-ID", "staff-1")
	rec := httptest.NewRecorder()
	application.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	result, err := application.PublishDue(context.Background())
	require.NoError(t, err)
	assert.Zero(t, result.Due)

	entries, err := mr.Stream("test:articles")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestApplicationRunStopsOnCancel(t *testing.T) {
	application, err := New(context.Background(), memoryConfig(), logging.Discard())
	require.NoError(t, err)
	defer application.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- application.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestMigrateRequiresPostgres(t *testing.T) {
	application, err := New(context.Background(), memoryConfig(), logging.Discard())
	require.NoError(t, err)
	defer application.Close()

	require.Error(t, application.Migrate(context.Background()))
}

func TestUnknownDriver(t *testing.T) {
	cfg := memoryConfig()
	cfg.Database.Driver = "oracle"

	_, err := New(context.Background(), cfg, logging.Discard())
	require.Error(t, err)
}
