package main

import (
	"log"

	"bolt-sync-be/internal/config"
	"bolt-sync-be/internal/model"
	"bolt-sync-be/pkg/database"

	"github.com/fatih/color"
	"gorm.io/gorm"
)

func main() {
	cfg := config.Load()

	var db *gorm.DB
	var err error
	if cfg.Database.Driver == database.DriverPostgres {
		db, err = database.NewGormDBFromDSN(cfg.Database.Connection)
	} else {
		db, err = database.NewGormDB(database.GormConfig{
			Driver: cfg.Database.Driver,
			Path:   cfg.Database.Path,
		})
	}
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	color.Cyan("Starting GORM Migration (%s)...", cfg.Database.Driver)

	if cfg.Database.Driver == database.DriverSqlite {
		// sqlite needs this per-connection for ON DELETE CASCADE to fire.
		if err := db.Exec(`PRAGMA foreign_keys = ON;`).Error; err != nil {
			color.Yellow("Warn: Failed to enable foreign keys: %v", err)
		}
	}

	models := []interface{}{
		&model.Project{},
		&model.ProjectFile{},
		&model.ProjectVersion{},
		&model.ChatSession{},
		&model.ChatMessage{},
		&model.ProviderConfig{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		color.Red("Error: AutoMigrate failed: %v", err)
		log.Fatal(err)
	}

	color.Green("✅ Migration complete: %d tables", len(models))
}
