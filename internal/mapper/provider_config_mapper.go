package mapper

import (
	"encoding/json"
	"time"

	"bolt-sync-be/internal/entity"
	"bolt-sync-be/internal/model"

	"gorm.io/datatypes"
)

type ProviderConfigMapper struct{}

func NewProviderConfigMapper() *ProviderConfigMapper {
	return &ProviderConfigMapper{}
}

func (m *ProviderConfigMapper) ToEntity(c *model.ProviderConfig) *entity.ProviderConfig {
	if c == nil {
		return nil
	}

	var params map[string]interface{}
	if len(c.Params) > 0 {
		_ = json.Unmarshal(c.Params, &params)
	}

	var updatedAt *time.Time
	if !c.UpdatedAt.IsZero() {
		t := c.UpdatedAt
		updatedAt = &t
	}

	return &entity.ProviderConfig{
		Id:        c.Id,
		Provider:  c.Provider,
		Model:     c.Model,
		BaseURL:   c.BaseURL,
		Params:    params,
		IsDefault: c.IsDefault,
		CreatedAt: c.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *ProviderConfigMapper) ToModel(c *entity.ProviderConfig) *model.ProviderConfig {
	if c == nil {
		return nil
	}

	var params datatypes.JSON
	if c.Params != nil {
		raw, err := json.Marshal(c.Params)
		if err == nil {
			params = raw
		}
	}

	var updatedAt time.Time
	if c.UpdatedAt != nil {
		updatedAt = *c.UpdatedAt
	}

	return &model.ProviderConfig{
		Id:        c.Id,
		Provider:  c.Provider,
		Model:     c.Model,
		BaseURL:   c.BaseURL,
		Params:    params,
		IsDefault: c.IsDefault,
		CreatedAt: c.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *ProviderConfigMapper) ToEntities(configs []*model.ProviderConfig) []*entity.ProviderConfig {
	entities := make([]*entity.ProviderConfig, len(configs))
	for i, c := range configs {
		entities[i] = m.ToEntity(c)
	}
	return entities
}
