package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proposalcraft/proposalcraft-backend/config"
	"github.com/proposalcraft/proposalcraft-backend/internal/metrics"
	proposalshttp "github.com/proposalcraft/proposalcraft-backend/internal/proposals/http"
	"github.com/proposalcraft/proposalcraft-backend/internal/proposals/store"
	"github.com/proposalcraft/proposalcraft-backend/internal/proposals/templates"
)

func fileConfig(t *testing.T) *config.Config {
	return &config.Config{
		Storage: config.StorageConfig{
			Backend:  config.BackendFile,
			FilePath: filepath.Join(t.TempDir(), "proposals.json"),
		},
		Session: config.SessionConfig{TTL: time.Hour, HandoffTTL: time.Minute},
	}
}

func TestBuildRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)

	st, err := OpenStorage(context.Background(), fileConfig(t))
	require.NoError(t, err)
	defer st.Close()

	catalog, err := templates.Load("")
	require.NoError(t, err)

	sessions := store.NewManager(time.Hour)
	m := metrics.New(metrics.Config{ServiceName: "test"})
	m.TrackActiveSessions(sessions.Len)

	r := BuildRouter(RouterDeps{
		ServiceName: "proposalcraft-backend",
		Version:     "test",
		CORSOrigins: []string{"http://localhost:3000"},
		Storage:     st.Repo,
		Sessions:    sessions.Len,
		Metrics:     m,
		Proposals: proposalshttp.New(proposalshttp.Deps{
			Sessions:  sessions,
			Repo:      st.Repo,
			Handoff:   st.Handoff,
			Templates: catalog,
			Metrics:   m,
		}),
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/sessions", nil))
	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"sessions":1`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "proposalcraft_active_sessions 1"))

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/sessions", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestOpenStorage_UnknownBackend(t *testing.T) {
	cfg := fileConfig(t)
	cfg.Storage.Backend = "mongo"
	_, err := OpenStorage(context.Background(), cfg)
	assert.ErrorContains(t, err, "unknown storage backend")
}

func TestOpenStorage_RedisUnreachable(t *testing.T) {
	cfg := fileConfig(t)
	cfg.Storage.Backend = config.BackendRedis
	cfg.Redis.Addr = "127.0.0.1:1"
	_, err := OpenStorage(context.Background(), cfg)
	assert.ErrorContains(t, err, "redis ping")
}
