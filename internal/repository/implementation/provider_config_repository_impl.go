package implementation

import (
	"context"
	"errors"

	"bolt-sync-be/internal/entity"
	"bolt-sync-be/internal/mapper"
	"bolt-sync-be/internal/model"
	"bolt-sync-be/internal/repository/contract"
	"bolt-sync-be/internal/repository/specification"

	"gorm.io/gorm"
)

type ProviderConfigRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ProviderConfigMapper
}

func NewProviderConfigRepository(db *gorm.DB) contract.ProviderConfigRepository {
	return &ProviderConfigRepositoryImpl{
		db:     db,
		mapper: mapper.NewProviderConfigMapper(),
	}
}

func (r *ProviderConfigRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ProviderConfigRepositoryImpl) Create(ctx context.Context, config *entity.ProviderConfig) error {
	m := r.mapper.ToModel(config)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*config = *r.mapper.ToEntity(m)
	return nil
}

func (r *ProviderConfigRepositoryImpl) Update(ctx context.Context, config *entity.ProviderConfig) error {
	m := r.mapper.ToModel(config)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*config = *r.mapper.ToEntity(m)
	return nil
}

func (r *ProviderConfigRepositoryImpl) FindDefault(ctx context.Context) (*entity.ProviderConfig, error) {
	var m model.ProviderConfig
	if err := r.db.WithContext(ctx).Where("is_default = ?", true).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ProviderConfigRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ProviderConfig, error) {
	var m model.ProviderConfig
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ProviderConfigRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ProviderConfig, error) {
	var models []*model.ProviderConfig
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}
