package main

import (
	"flag"
	"fmt"
	"os"

	"city-route/algo"
	"city-route/config"
	"city-route/dataset"
	"city-route/db"
	"city-route/handler"
	"city-route/importer"
	"city-route/logging"
	"city-route/model"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slog"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	fmt.Println("=== city-route: shortest routes between named places ===")

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.Setup(os.Stdout, cfg.Log.Level)

	users, data, err := loadSources(cfg)
	if err != nil {
		logger.Error("failed to load map", "source", cfg.Graph.Source, "err", err)
		os.Exit(1)
	}

	graph, err := algo.FromMapData(data)
	if err != nil {
		logger.Error("map data is invalid", "source", cfg.Graph.Source, "err", err)
		os.Exit(1)
	}
	logger.Info("map loaded", "source", cfg.Graph.Source, "nodes", graph.Len(), "edges", graph.EdgeCount())

	opts, err := cfg.Search.Options()
	if err != nil {
		logger.Error("bad search options", "err", err)
		os.Exit(1)
	}

	paths := handler.NewPathHandler(algo.NewFinder(graph, opts...), handler.NewRouteSessions(), logger)
	auth := handler.NewAuthHandler(users, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	r := gin.New()
	r.Use(gin.Recovery(), logging.Middleware(logger))
	setupRoutes(r, cfg, logger, paths, auth)

	fmt.Println("\nServer starting...")
	fmt.Printf("Listening on %s\n", cfg.Server.Addr)
	fmt.Println("API:")
	fmt.Println("  - POST   /api/login           - log in")
	fmt.Println("  - POST   /api/register        - create an account")
	fmt.Println("  - POST   /api/path/find       - shortest route")
	fmt.Println("  - GET    /api/route/current   - current route of this session")
	fmt.Println("  - DELETE /api/route/current   - clear the current route")
	fmt.Println("  - GET    /api/nodes           - all locations")
	fmt.Println("  - GET    /api/nodes/:id       - one location")
	fmt.Println("  - GET    /api/nodes/search    - search locations")

	if err := r.Run(cfg.Server.Addr); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

// loadSources returns the user store and the map data for the configured
// graph source. Only the db source persists users.
func loadSources(cfg config.Config) (db.UserRepository, *model.MapData, error) {
	users, data, err := readSource(cfg)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Graph.Bidirectional && cfg.Graph.Source != config.SourceOSM {
		data.Mirror()
	}
	return users, data, nil
}

func readSource(cfg config.Config) (db.UserRepository, *model.MapData, error) {
	switch cfg.Graph.Source {
	case config.SourceJSON:
		data, err := importer.LoadJSON(cfg.Graph.Path)
		return db.NewMemoryUserRepository(), data, err
	case config.SourceOSM:
		data, err := importer.LoadOSM(cfg.Graph.Path)
		return db.NewMemoryUserRepository(), data, err
	case config.SourceDB:
		conn, err := db.Open(cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		seed, err := dataset.Sample()
		if err != nil {
			return nil, nil, err
		}
		if _, err := db.SeedIfEmpty(conn, seed); err != nil {
			return nil, nil, err
		}
		data, err := db.LoadMapData(conn)
		return db.NewGormUserRepository(conn), data, err
	default:
		data, err := dataset.Sample()
		return db.NewMemoryUserRepository(), data, err
	}
}

func setupRoutes(r *gin.Engine, cfg config.Config, logger *slog.Logger, paths *handler.PathHandler, auth *handler.AuthHandler) {
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", handler.SessionHeader}
	r.Use(cors.New(corsCfg))

	if info, err := os.Stat(cfg.Server.StaticDir); err == nil && info.IsDir() {
		r.Static("/static", cfg.Server.StaticDir)
		r.GET("/", func(c *gin.Context) {
			c.Redirect(302, "/static/index.html")
		})
	} else {
		logger.Debug("no static directory, serving API only", "dir", cfg.Server.StaticDir)
	}

	handler.SetupRoutes(r, paths, auth)
}
