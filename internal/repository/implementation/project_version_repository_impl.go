package implementation

import (
	"context"
	"errors"

	"bolt-sync-be/internal/entity"
	"bolt-sync-be/internal/mapper"
	"bolt-sync-be/internal/model"
	"bolt-sync-be/internal/repository/contract"
	"bolt-sync-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProjectVersionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ProjectVersionMapper
}

func NewProjectVersionRepository(db *gorm.DB) contract.ProjectVersionRepository {
	return &ProjectVersionRepositoryImpl{
		db:     db,
		mapper: mapper.NewProjectVersionMapper(),
	}
}

func (r *ProjectVersionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ProjectVersionRepositoryImpl) Create(ctx context.Context, version *entity.ProjectVersion) error {
	m := r.mapper.ToModel(version)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*version = *r.mapper.ToEntity(m)
	return nil
}

func (r *ProjectVersionRepositoryImpl) DeleteByProject(ctx context.Context, projectId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("project_id = ?", projectId).Delete(&model.ProjectVersion{}).Error
}

func (r *ProjectVersionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ProjectVersion, error) {
	var m model.ProjectVersion
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ProjectVersionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ProjectVersion, error) {
	var models []*model.ProjectVersion
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}
