package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/scribe/internal/api"
	"github.com/starford/scribe/internal/noteservice"
	"github.com/starford/scribe/internal/sse"
	"github.com/starford/scribe/internal/testutil"
)

func TestNewApplication_RequiresConfig(t *testing.T) {
	_, err := newApplication(nil)
	assert.ErrorIs(t, err, errConfigRequired)

	app, err := newApplication([]Option{WithConfig(NewDefaultConfig()), WithConfigFile("c.yaml")})
	require.NoError(t, err)
	assert.Equal(t, "dev", app.version)
	assert.Equal(t, "c.yaml", app.configFile)
}

func TestRootRouter(t *testing.T) {
	db := testutil.TestDB(t)
	broker := sse.NewBroker(0)
	defer broker.Close()
	svc := noteservice.NewService(db, broker)
	root := newRootRouter(db, api.NewRouter(svc, NewDefaultConfig().CORS.AllowedOrigins, broker))

	for _, path := range []string{"/health/live", "/health/ready"} {
		w := httptest.NewRecorder()
		root.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}

	w := httptest.NewRecorder()
	body := bytes.NewReader([]byte(`{"title":"mounted","note_body":""}`))
	root.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/note", body))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = httptest.NewRecorder()
	root.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/notes", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var notes []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &notes))
	assert.Len(t, notes, 1)
}

func TestRootRouter_ReadyFailsWhenStoreClosed(t *testing.T) {
	db := testutil.TestDB(t)
	svc := noteservice.NewService(db, nil)
	root := newRootRouter(db, api.NewRouter(svc, nil, nil))
	require.NoError(t, db.Close())

	w := httptest.NewRecorder()
	root.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestReloadLogLevel(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	path := filepath.Join(t.TempDir(), "config.yaml")

	var level slog.LevelVar
	require.NoError(t, os.WriteFile(path, []byte("app:\n  log_level: debug\n"), 0o644))
	reloadLogLevel(path, &level, logger)
	assert.Equal(t, slog.LevelDebug, level.Level())

	// Invalid files leave the level alone.
	require.NoError(t, os.WriteFile(path, []byte("app:\n  log_level: loud\n"), 0o644))
	reloadLogLevel(path, &level, logger)
	assert.Equal(t, slog.LevelDebug, level.Level())
}

func TestMigrate(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.SQLite.Path = filepath.Join(t.TempDir(), "migrated.db")
	require.NoError(t, Migrate(context.Background(), WithConfig(cfg)))
	_, err := os.Stat(cfg.SQLite.Path)
	assert.NoError(t, err)
}
