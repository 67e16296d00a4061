package db

import (
	"fmt"
	"time"

	"city-route/config"
	"city-route/model"

	"golang.org/x/exp/slog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open connects to PostgreSQL and migrates the schema. The database may
// still be starting (e.g. under docker compose), so connecting is retried.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	retries := cfg.MaxRetries
	if retries < 1 {
		retries = 1
	}

	var (
		conn *gorm.DB
		err  error
	)
	for i := 0; i < retries; i++ {
		conn, err = gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{TranslateError: true})
		if err == nil {
			break
		}
		slog.Warn("waiting for database", "attempt", i+1, "of", retries, "err", err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if err := Migrate(conn); err != nil {
		return nil, err
	}
	return conn, nil
}

// Migrate creates or updates the user, node and edge tables.
func Migrate(conn *gorm.DB) error {
	if err := conn.AutoMigrate(&model.User{}, &model.Node{}, &model.Edge{}); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	return nil
}

// SeedIfEmpty imports data when the node table is empty. It reports
// whether anything was written.
func SeedIfEmpty(conn *gorm.DB, data *model.MapData) (bool, error) {
	var count int64
	if err := conn.Model(&model.Node{}).Count(&count).Error; err != nil {
		return false, fmt.Errorf("count nodes: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	err := conn.Transaction(func(tx *gorm.DB) error {
		nodes := make([]model.Node, len(data.Nodes))
		copy(nodes, data.Nodes)
		for i := range nodes {
			nodes[i].Seq = i
		}
		if len(nodes) > 0 {
			if err := tx.CreateInBatches(nodes, 100).Error; err != nil {
				return fmt.Errorf("insert nodes: %w", err)
			}
		}

		edges := make([]model.Edge, len(data.Edges))
		copy(edges, data.Edges)
		for i := range edges {
			edges[i].ID = 0
		}
		if len(edges) > 0 {
			if err := tx.CreateInBatches(edges, 100).Error; err != nil {
				return fmt.Errorf("insert edges: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	slog.Info("seeded map data", "nodes", len(data.Nodes), "edges", len(data.Edges))
	return true, nil
}

// LoadMapData reads every node (in definition order) and edge.
func LoadMapData(conn *gorm.DB) (*model.MapData, error) {
	var data model.MapData
	if err := conn.Order("seq").Order("id").Find(&data.Nodes).Error; err != nil {
		return nil, fmt.Errorf("load nodes: %w", err)
	}
	if err := conn.Order("id").Find(&data.Edges).Error; err != nil {
		return nil, fmt.Errorf("load edges: %w", err)
	}
	return &data, nil
}
