package contract

import (
	"context"

	"bolt-sync-be/internal/entity"
	"bolt-sync-be/internal/repository/specification"
)

type ProviderConfigRepository interface {
	Create(ctx context.Context, config *entity.ProviderConfig) error
	Update(ctx context.Context, config *entity.ProviderConfig) error
	FindDefault(ctx context.Context) (*entity.ProviderConfig, error)
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ProviderConfig, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ProviderConfig, error)
}
