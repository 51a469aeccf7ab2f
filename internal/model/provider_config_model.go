package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ProviderConfig is one model-provider row the chat proxy can run against.
type ProviderConfig struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Provider  string         `gorm:"type:varchar(64);not null"`
	Model     string         `gorm:"type:varchar(128);not null"`
	BaseURL   string         `gorm:"type:varchar(512)"`
	Params    datatypes.JSON `gorm:"type:json"`
	IsDefault bool           `gorm:"not null;default:false"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
}

func (ProviderConfig) TableName() string {
	return "provider_configs"
}
