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
	"gorm.io/gorm/clause"
)

type ProjectFileRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ProjectFileMapper
}

func NewProjectFileRepository(db *gorm.DB) contract.ProjectFileRepository {
	return &ProjectFileRepositoryImpl{
		db:     db,
		mapper: mapper.NewProjectFileMapper(),
	}
}

func (r *ProjectFileRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

// Upsert writes the batch in one statement. A conflicting (project_id, path)
// pair updates content in place instead of failing.
func (r *ProjectFileRepositoryImpl) Upsert(ctx context.Context, files []*entity.ProjectFile) error {
	if len(files) == 0 {
		return nil
	}
	models := r.mapper.ToModels(files)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "project_id"}, {Name: "path"}},
		DoUpdates: clause.AssignmentColumns([]string{"content", "updated_at"}),
	}).Create(&models).Error
	if err != nil {
		return err
	}
	for i, m := range models {
		*files[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *ProjectFileRepositoryImpl) DeleteByProject(ctx context.Context, projectId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("project_id = ?", projectId).Delete(&model.ProjectFile{}).Error
}

func (r *ProjectFileRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ProjectFile, error) {
	var m model.ProjectFile
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ProjectFileRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ProjectFile, error) {
	var models []*model.ProjectFile
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *ProjectFileRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.ProjectFile{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
