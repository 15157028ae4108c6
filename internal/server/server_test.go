package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/piwi3910/PanelNest/internal/config"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg, err := config.Load(nil)
	require.NoError(t, err)
	cfg.DBPath = ":memory:"
	cfg.RateLimitRPS = 0
	return cfg
}

func TestNew_ServesAPI(t *testing.T) {
	app, err := New(testConfig(t), zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	rec := httptest.NewRecorder()
	app.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	body := `{"panels":[{"id":"shelf","length":560,"width":300,"quantity":2}],
		"stockSheets":[{"id":"ply","length":2440,"width":1220,"quantity":1}]}`
	rec = httptest.NewRecorder()
	app.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/runs", strings.NewReader(body)))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Location"))
}

func TestNewHTTPServer_AddressAndTimeouts(t *testing.T) {
	cfg := testConfig(t)
	cfg.Port = "9090"
	cfg.ReadHeaderTimeout = 2 * time.Second

	srv := NewHTTPServer(cfg, http.NotFoundHandler())
	assert.Equal(t, ":9090", srv.Addr)
	assert.Equal(t, 2*time.Second, srv.ReadHeaderTimeout)
	assert.Equal(t, cfg.WriteTimeout, srv.WriteTimeout)

	cfg.Port = "127.0.0.1:8081"
	assert.Equal(t, "127.0.0.1:8081", NewHTTPServer(cfg, http.NotFoundHandler()).Addr)
}

func TestNew_BadDatabasePath(t *testing.T) {
	cfg := testConfig(t)
	cfg.DBPath = t.TempDir()

	_, err := New(cfg, zaptest.NewLogger(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open run history")
}
