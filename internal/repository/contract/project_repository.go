package contract

import (
	"context"

	"bolt-sync-be/internal/entity"
	"bolt-sync-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ProjectRepository interface {
	Create(ctx context.Context, project *entity.Project) error
	Update(ctx context.Context, project *entity.Project) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Project, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Project, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
