package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bolt-sync-be/internal/dto"
	"bolt-sync-be/internal/entity"
	"bolt-sync-be/internal/repository/specification"
	"bolt-sync-be/internal/repository/unitofwork"
	"bolt-sync-be/pkg/events"
	pktNats "bolt-sync-be/pkg/nats"

	"github.com/google/uuid"
)

const DefaultTemplate = "bolt-import"

type ISyncService interface {
	SyncFiles(ctx context.Context, req *dto.SyncFilesRequest) (*dto.SyncFilesResponse, error)
}

type syncService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
}

func NewSyncService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
) ISyncService {
	return &syncService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
	}
}

// SyncFiles upserts the project and replaces its files in one transaction.
// A request without projectId creates a fresh project.
func (s *syncService) SyncFiles(ctx context.Context, req *dto.SyncFilesRequest) (*dto.SyncFilesResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	project, err := s.resolveProject(ctx, uow, req)
	if err != nil {
		return nil, err
	}

	// The incoming tree is authoritative; drop rows it no longer contains.
	if err := uow.ProjectFileRepository().DeleteByProject(ctx, project.Id); err != nil {
		return nil, err
	}

	files := make([]*entity.ProjectFile, len(req.Files))
	now := time.Now()
	for i, f := range req.Files {
		files[i] = &entity.ProjectFile{
			Id:        uuid.New(),
			ProjectId: project.Id,
			Path:      f.Path,
			Content:   f.Content,
			CreatedAt: now,
		}
	}

	if err := uow.ProjectFileRepository().Upsert(ctx, files); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.notifySynced(ctx, project.Id, len(files))

	return &dto.SyncFilesResponse{
		ProjectId: project.Id,
		FileCount: len(files),
	}, nil
}

func (s *syncService) resolveProject(ctx context.Context, uow unitofwork.UnitOfWork, req *dto.SyncFilesRequest) (*entity.Project, error) {
	if req.ProjectId != "" {
		id, err := uuid.Parse(req.ProjectId)
		if err != nil {
			return nil, fmt.Errorf("invalid projectId: %w", err)
		}
		project, err := uow.ProjectRepository().FindOne(ctx, specification.ByID{ID: id})
		if err != nil {
			return nil, err
		}
		if project == nil {
			return nil, fmt.Errorf("project %s not found", id)
		}
		if req.ProjectName != "" && req.ProjectName != project.Name {
			project.Name = req.ProjectName
			if err := uow.ProjectRepository().Update(ctx, project); err != nil {
				return nil, err
			}
		}
		return project, nil
	}

	name := req.ProjectName
	if name == "" {
		name = "imported-project"
	}
	template := req.Template
	if template == "" {
		template = DefaultTemplate
	}

	project := &entity.Project{
		Id:        uuid.New(),
		Name:      name,
		Framework: req.Framework,
		Template:  template,
		CreatedAt: time.Now(),
	}
	if err := uow.ProjectRepository().Create(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// notifySynced fans the event out on the internal bus and NATS. Failures
// here do not fail the sync; the data is already committed.
func (s *syncService) notifySynced(ctx context.Context, projectId uuid.UUID, fileCount int) {
	payload := dto.PublishSyncedMessage{
		EventType: events.FilesSynced,
		ProjectId: projectId,
		FileCount: fileCount,
	}
	if raw, err := json.Marshal(payload); err == nil {
		_ = s.publisherService.Publish(ctx, raw)
	}

	if s.eventPublisher != nil {
		evt := events.New(events.FilesSynced, map[string]interface{}{
			"project_id": projectId.String(),
			"file_count": fileCount,
		})
		_ = s.eventPublisher.Publish(ctx, evt)
	}
}
