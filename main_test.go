package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"city-route/algo"
	"city-route/config"
	"city-route/dataset"
	"city-route/handler"
	"city-route/logging"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

func TestLoadSources_Builtin(t *testing.T) {
	users, data, err := loadSources(config.Default())
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Len(t, data.Nodes, 21)
}

func TestLoadSources_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.json")
	require.NoError(t, os.WriteFile(path, dataset.Raw(), 0o600))

	cfg := config.Default()
	cfg.Graph = config.GraphConfig{Source: config.SourceJSON, Path: path}
	_, data, err := loadSources(cfg)
	require.NoError(t, err)

	g, err := algo.FromMapData(data)
	require.NoError(t, err)
	res, err := g.ShortestPath("Location A", "Location E")
	require.NoError(t, err)
	assert.Equal(t, 3.0, res.Distance)
}

func TestLoadSources_Bidirectional(t *testing.T) {
	cfg := config.Default()
	cfg.Graph.Bidirectional = true
	_, data, err := loadSources(cfg)
	require.NoError(t, err)

	g, err := algo.FromMapData(data)
	require.NoError(t, err)
	// the sample map only defines S -> T
	res, err := g.ShortestPath("Location T", "Location S")
	require.NoError(t, err)
	assert.Equal(t, 2.0, res.Distance)
	assert.Equal(t, []string{"Location T", "Location S"}, res.Path)

	_, data, err = loadSources(config.Default())
	require.NoError(t, err)
	g, err = algo.FromMapData(data)
	require.NoError(t, err)
	res, err = g.ShortestPath("Location T", "Location S")
	require.NoError(t, err)
	assert.Equal(t, 16.0, res.Distance)
}

func TestLoadSources_OSMMissingFile(t *testing.T) {
	cfg := config.Default()
	cfg.Graph = config.GraphConfig{Source: config.SourceOSM, Path: filepath.Join(t.TempDir(), "none.osm")}
	_, _, err := loadSources(cfg)
	assert.Error(t, err)
}

func TestSetupRoutes_CORS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	users, data, err := loadSources(config.Default())
	require.NoError(t, err)
	g, err := algo.FromMapData(data)
	require.NoError(t, err)

	cfg := config.Default()
	cfg.Server.StaticDir = filepath.Join(t.TempDir(), "missing")
	var logs bytes.Buffer
	logger := slog.New(logging.NewLogHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	r := gin.New()
	setupRoutes(r, cfg, logger,
		handler.NewPathHandler(algo.NewFinder(g), nil, logger),
		handler.NewAuthHandler(users, "secret", 0))
	assert.Contains(t, logs.String(), "no static directory")

	req := httptest.NewRequest(http.MethodOptions, "/api/path/find", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Less(t, w.Code, 300)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/nodes", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
