//go:build e2e

package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/heartmarshall/quicktranslate/internal/adapter/postgres/testhelper"
)

// startRedis runs a throwaway Redis for the duration of the test.
func startRedis(t *testing.T) string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)
	return fmt.Sprintf("%s:%s", host, port.Port())
}

func TestE2E_HistoryAndSharedCache(t *testing.T) {
	up := newUpstream(t)
	cfg := testConfig(up.srv.URL)
	cfg.Database.DSN = testhelper.DSN(t)
	cfg.Database.MaxConns = 4
	cfg.Database.MinConns = 1
	cfg.Database.MaxConnLifetime = time.Hour
	cfg.Database.MaxConnIdleTime = time.Minute
	cfg.Database.Migrate = true
	cfg.Redis.Addr = startRedis(t)

	srv := newTestServer(t, cfg, up)

	res := getResult(t, srv.URL+"/api/v1/translate?text=hello%20world")
	require.NotNil(t, res.Translation)

	resp, err := http.Get(srv.URL + "/api/v1/history?limit=5")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var items []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&items))
	require.NotEmpty(t, items)
	assert.Equal(t, "hello world", items[0]["text"])
	assert.Equal(t, "en", items[0]["source"])
	assert.Equal(t, "ru", items[0]["target"])

	// A second stack sharing Redis answers from the cache without asking the sources.
	calls := up.siteCalls.Load()
	other := newTestServer(t, cfg, up)
	again := getResult(t, other.URL+"/api/v1/translate?text=hello%20world")
	assert.Equal(t, *res.Translation, *again.Translation)
	assert.Equal(t, calls, up.siteCalls.Load())

	hr, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer hr.Body.Close()
	var health map[string]any
	require.NoError(t, json.NewDecoder(hr.Body).Decode(&health))
	components, ok := health["components"].(map[string]any)
	require.True(t, ok, "expected components object")
	assert.Contains(t, components, "database")
	assert.Contains(t, components, "redis")
}
