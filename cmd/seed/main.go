package main

import (
	"context"
	"log"
	"time"

	"bolt-sync-be/internal/config"
	"bolt-sync-be/internal/entity"
	"bolt-sync-be/internal/repository/unitofwork"
	"bolt-sync-be/pkg/database"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Seeds the default model-provider row the chat proxy falls back to.
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

	ctx := context.Background()
	uow := unitofwork.NewRepositoryFactory(db).NewUnitOfWork(ctx)

	existing, err := uow.ProviderConfigRepository().FindDefault(ctx)
	if err != nil {
		log.Fatal("Error: Failed to query provider configs:", err)
	}
	if existing != nil {
		color.Yellow("Default provider already seeded: %s (%s)", existing.Provider, existing.Model)
		return
	}

	providerConfig := &entity.ProviderConfig{
		Id:        uuid.New(),
		Provider:  cfg.Ai.LLMProvider,
		Model:     cfg.Ai.LLMModel,
		BaseURL:   cfg.Ai.OllamaBaseURL,
		IsDefault: true,
		CreatedAt: time.Now(),
	}
	if err := uow.ProviderConfigRepository().Create(ctx, providerConfig); err != nil {
		log.Fatal("Error: Failed to seed provider config:", err)
	}

	color.Green("✅ Seeded default provider: %s (%s)", providerConfig.Provider, providerConfig.Model)
}
