package service

import (
	"context"
	"fmt"

	"bolt-sync-be/internal/dto"
	"bolt-sync-be/internal/repository/specification"
	"bolt-sync-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IProjectService interface {
	List(ctx context.Context, limit, offset int) (*dto.ListProjectsResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.ShowProjectResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type projectService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewProjectService(uowFactory unitofwork.RepositoryFactory) IProjectService {
	return &projectService{
		uowFactory: uowFactory,
	}
}

func (s *projectService) List(ctx context.Context, limit, offset int) (*dto.ListProjectsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	total, err := uow.ProjectRepository().Count(ctx)
	if err != nil {
		return nil, err
	}

	projects, err := uow.ProjectRepository().FindAll(ctx,
		specification.OrderBy{Field: "updated_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	)
	if err != nil {
		return nil, err
	}

	summaries := make([]dto.ProjectSummary, len(projects))
	for i, p := range projects {
		fileCount, err := uow.ProjectFileRepository().Count(ctx, specification.ByProject{ProjectID: p.Id})
		if err != nil {
			return nil, err
		}
		summaries[i] = dto.ProjectSummary{
			Id:        p.Id,
			Name:      p.Name,
			Framework: p.Framework,
			Template:  p.Template,
			FileCount: fileCount,
			CreatedAt: p.CreatedAt,
			UpdatedAt: p.UpdatedAt,
		}
	}

	return &dto.ListProjectsResponse{
		Projects: summaries,
		Total:    total,
	}, nil
}

func (s *projectService) Show(ctx context.Context, id uuid.UUID) (*dto.ShowProjectResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	project, err := uow.ProjectRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, fmt.Errorf("project %s not found", id)
	}

	files, err := uow.ProjectFileRepository().FindAll(ctx,
		specification.ByProject{ProjectID: id},
		specification.OrderBy{Field: "path", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	views := make([]dto.ProjectFileView, len(files))
	for i, f := range files {
		views[i] = dto.ProjectFileView{
			Path:      f.Path,
			Content:   f.Content,
			UpdatedAt: f.UpdatedAt,
		}
	}

	return &dto.ShowProjectResponse{
		Id:        project.Id,
		Name:      project.Name,
		Framework: project.Framework,
		Template:  project.Template,
		Files:     views,
		CreatedAt: project.CreatedAt,
		UpdatedAt: project.UpdatedAt,
	}, nil
}

// Delete removes the project and its dependents. Children are cleaned
// explicitly so sqlite builds without FK enforcement behave the same.
func (s *projectService) Delete(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	project, err := uow.ProjectRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if project == nil {
		return fmt.Errorf("project %s not found", id)
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	sessions, err := uow.ChatSessionRepository().FindAll(ctx, specification.ByProject{ProjectID: id})
	if err != nil {
		return err
	}
	for _, session := range sessions {
		if err := uow.ChatMessageRepository().DeleteBySession(ctx, session.Id); err != nil {
			return err
		}
	}
	if err := uow.ChatSessionRepository().DeleteByProject(ctx, id); err != nil {
		return err
	}

	if err := uow.ProjectVersionRepository().DeleteByProject(ctx, id); err != nil {
		return err
	}
	if err := uow.ProjectFileRepository().DeleteByProject(ctx, id); err != nil {
		return err
	}
	if err := uow.ProjectRepository().Delete(ctx, id); err != nil {
		return err
	}

	return uow.Commit()
}
