package contract

import (
	"context"

	"bolt-sync-be/internal/entity"
	"bolt-sync-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ProjectFileRepository interface {
	Upsert(ctx context.Context, files []*entity.ProjectFile) error
	DeleteByProject(ctx context.Context, projectId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ProjectFile, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ProjectFile, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
