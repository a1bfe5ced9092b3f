package database

import (
	"embed"

	"skofie/internal/config"

	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Init opens the database, runs migrations, and optionally seeds the
// catalog reference data. The returned manager must be closed by the
// caller on shutdown.
func Init(cfg *config.DatabaseConfig, logger *zap.Logger) (*Manager, error) {
	manager, err := NewManager(cfg, logger)
	if err != nil {
		return nil, err
	}

	if err := manager.Migrate(); err != nil {
		manager.Close()
		return nil, err
	}

	if cfg.SeedOnStartup {
		if err := Seed(manager, logger); err != nil {
			manager.Close()
			return nil, err
		}
	}

	return manager, nil
}
