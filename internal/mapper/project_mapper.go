package mapper

import (
	"encoding/json"
	"time"

	"bolt-sync-be/internal/entity"
	"bolt-sync-be/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ProjectMapper struct{}

func NewProjectMapper() *ProjectMapper {
	return &ProjectMapper{}
}

func (m *ProjectMapper) ToEntity(p *model.Project) *entity.Project {
	if p == nil {
		return nil
	}

	var deletedAt *time.Time
	if p.DeletedAt.Valid {
		t := p.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !p.UpdatedAt.IsZero() {
		t := p.UpdatedAt
		updatedAt = &t
	}

	return &entity.Project{
		Id:        p.Id,
		Name:      p.Name,
		Framework: p.Framework,
		Template:  p.Template,
		CreatedAt: p.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
		IsDeleted: p.DeletedAt.Valid,
	}
}

func (m *ProjectMapper) ToModel(p *entity.Project) *model.Project {
	if p == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if p.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *p.DeletedAt, Valid: true}
	} else if p.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if p.UpdatedAt != nil {
		updatedAt = *p.UpdatedAt
	}

	return &model.Project{
		Id:        p.Id,
		Name:      p.Name,
		Framework: p.Framework,
		Template:  p.Template,
		CreatedAt: p.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
	}
}

func (m *ProjectMapper) ToEntities(projects []*model.Project) []*entity.Project {
	entities := make([]*entity.Project, len(projects))
	for i, p := range projects {
		entities[i] = m.ToEntity(p)
	}
	return entities
}

type ProjectFileMapper struct{}

func NewProjectFileMapper() *ProjectFileMapper {
	return &ProjectFileMapper{}
}

func (m *ProjectFileMapper) ToEntity(f *model.ProjectFile) *entity.ProjectFile {
	if f == nil {
		return nil
	}

	var updatedAt *time.Time
	if !f.UpdatedAt.IsZero() {
		t := f.UpdatedAt
		updatedAt = &t
	}

	return &entity.ProjectFile{
		Id:        f.Id,
		ProjectId: f.ProjectId,
		Path:      f.Path,
		Content:   f.Content,
		CreatedAt: f.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *ProjectFileMapper) ToModel(f *entity.ProjectFile) *model.ProjectFile {
	if f == nil {
		return nil
	}

	var updatedAt time.Time
	if f.UpdatedAt != nil {
		updatedAt = *f.UpdatedAt
	}

	return &model.ProjectFile{
		Id:        f.Id,
		ProjectId: f.ProjectId,
		Path:      f.Path,
		Content:   f.Content,
		CreatedAt: f.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *ProjectFileMapper) ToEntities(files []*model.ProjectFile) []*entity.ProjectFile {
	entities := make([]*entity.ProjectFile, len(files))
	for i, f := range files {
		entities[i] = m.ToEntity(f)
	}
	return entities
}

func (m *ProjectFileMapper) ToModels(files []*entity.ProjectFile) []*model.ProjectFile {
	models := make([]*model.ProjectFile, len(files))
	for i, f := range files {
		models[i] = m.ToModel(f)
	}
	return models
}

type ProjectVersionMapper struct{}

func NewProjectVersionMapper() *ProjectVersionMapper {
	return &ProjectVersionMapper{}
}

func (m *ProjectVersionMapper) ToEntity(v *model.ProjectVersion) *entity.ProjectVersion {
	if v == nil {
		return nil
	}

	var metadata map[string]interface{}
	if len(v.Metadata) > 0 {
		_ = json.Unmarshal(v.Metadata, &metadata)
	}

	return &entity.ProjectVersion{
		Id:         v.Id,
		ProjectId:  v.ProjectId,
		CommitHash: v.CommitHash,
		RepoName:   v.RepoName,
		FileCount:  v.FileCount,
		Metadata:   metadata,
		CreatedAt:  v.CreatedAt,
	}
}

func (m *ProjectVersionMapper) ToModel(v *entity.ProjectVersion) *model.ProjectVersion {
	if v == nil {
		return nil
	}

	var metadata datatypes.JSON
	if v.Metadata != nil {
		raw, err := json.Marshal(v.Metadata)
		if err == nil {
			metadata = raw
		}
	}

	return &model.ProjectVersion{
		Id:         v.Id,
		ProjectId:  v.ProjectId,
		CommitHash: v.CommitHash,
		RepoName:   v.RepoName,
		FileCount:  v.FileCount,
		Metadata:   metadata,
		CreatedAt:  v.CreatedAt,
	}
}

func (m *ProjectVersionMapper) ToEntities(versions []*model.ProjectVersion) []*entity.ProjectVersion {
	entities := make([]*entity.ProjectVersion, len(versions))
	for i, v := range versions {
		entities[i] = m.ToEntity(v)
	}
	return entities
}
