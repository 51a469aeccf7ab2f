package contract

import (
	"context"

	"bolt-sync-be/internal/entity"
	"bolt-sync-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ProjectVersionRepository interface {
	Create(ctx context.Context, version *entity.ProjectVersion) error
	DeleteByProject(ctx context.Context, projectId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ProjectVersion, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ProjectVersion, error)
}
