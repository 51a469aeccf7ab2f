package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"bolt-sync-be/internal/dto"
	"bolt-sync-be/internal/entity"
	"bolt-sync-be/internal/repository/specification"
	"bolt-sync-be/internal/repository/unitofwork"
	"bolt-sync-be/pkg/events"
	"bolt-sync-be/pkg/github"
	pktNats "bolt-sync-be/pkg/nats"

	"github.com/google/uuid"
)

const (
	projectRootPrefix = "/home/project/"
	defaultBranch     = "main"
)

var repoNameSanitizer = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

type IDeployService interface {
	Deploy(ctx context.Context, req *dto.DeployRequest) (*dto.DeployResponse, error)
	ListVersions(ctx context.Context, projectId uuid.UUID) (*dto.ListVersionsResponse, error)
}

type deployService struct {
	uowFactory       unitofwork.RepositoryFactory
	github           *github.Client
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
}

func NewDeployService(
	uowFactory unitofwork.RepositoryFactory,
	githubClient *github.Client,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
) IDeployService {
	return &deployService{
		uowFactory:       uowFactory,
		github:           githubClient,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
	}
}

// Deploy pushes the project's current tree to GitHub as one commit and
// records the resulting version.
func (s *deployService) Deploy(ctx context.Context, req *dto.DeployRequest) (*dto.DeployResponse, error) {
	if s.github == nil {
		return nil, fmt.Errorf("github client not configured")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	project, err := uow.ProjectRepository().FindOne(ctx, specification.ByID{ID: req.ProjectId})
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, fmt.Errorf("project %s not found", req.ProjectId)
	}

	files, err := uow.ProjectFileRepository().FindAll(ctx,
		specification.ByProject{ProjectID: req.ProjectId},
		specification.OrderBy{Field: "path", Desc: false},
	)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("project %s has no files to deploy", req.ProjectId)
	}

	repoName := req.RepoName
	if repoName == "" {
		repoName = sanitizeRepoName(project.Name)
	}
	branch := req.Branch
	if branch == "" {
		branch = defaultBranch
	}
	message := req.Message
	if message == "" {
		message = fmt.Sprintf("Sync %d files from editor", len(files))
	}

	repo, err := s.github.EnsureRepo(ctx, repoName, true)
	if err != nil {
		return nil, err
	}

	entries := make([]github.TreeEntry, 0, len(files))
	for _, f := range files {
		blobSHA, err := s.github.CreateBlob(ctx, repo.Name, base64.StdEncoding.EncodeToString([]byte(f.Content)))
		if err != nil {
			return nil, fmt.Errorf("blob for %s: %w", f.Path, err)
		}
		entries = append(entries, github.TreeEntry{
			Path: repoPath(f.Path),
			Mode: "100644",
			Type: "blob",
			SHA:  blobSHA,
		})
	}

	// Missing head means an empty branch; commit without a parent.
	var parents []string
	baseTree := ""
	if head, err := s.github.GetRefSHA(ctx, repo.Name, branch); err == nil && head != "" {
		parents = []string{head}
	}

	treeSHA, err := s.github.CreateTree(ctx, repo.Name, baseTree, entries)
	if err != nil {
		return nil, err
	}

	commitSHA, err := s.github.CreateCommit(ctx, repo.Name, message, treeSHA, parents)
	if err != nil {
		return nil, err
	}

	if err := s.github.UpdateRef(ctx, repo.Name, branch, commitSHA); err != nil {
		return nil, err
	}

	if req.Pages {
		if err := s.github.EnablePages(ctx, repo.Name, branch); err != nil {
			return nil, err
		}
	}

	version := &entity.ProjectVersion{
		Id:         uuid.New(),
		ProjectId:  req.ProjectId,
		CommitHash: commitSHA,
		RepoName:   repo.Name,
		FileCount:  len(files),
		Metadata: map[string]interface{}{
			"branch":  branch,
			"message": message,
		},
		CreatedAt: time.Now(),
	}
	if err := uow.ProjectVersionRepository().Create(ctx, version); err != nil {
		return nil, err
	}

	s.notifyDeployed(ctx, req.ProjectId, repo.Name, commitSHA, len(files))

	return &dto.DeployResponse{
		ProjectId:  req.ProjectId,
		RepoName:   repo.Name,
		CommitHash: commitSHA,
		FileCount:  len(files),
	}, nil
}

// notifyDeployed fans the event out to connected sockets via the internal
// bus and to other services via NATS. Failures here do not fail the deploy.
func (s *deployService) notifyDeployed(ctx context.Context, projectId uuid.UUID, repoName, commitSHA string, fileCount int) {
	payload := dto.PublishSyncedMessage{
		EventType: events.ProjectDeployed,
		ProjectId: projectId,
		FileCount: fileCount,
		Data: map[string]interface{}{
			"repo_name":   repoName,
			"commit_hash": commitSHA,
		},
	}
	if raw, err := json.Marshal(payload); err == nil {
		_ = s.publisherService.Publish(ctx, raw)
	}

	if s.eventPublisher != nil {
		evt := events.New(events.ProjectDeployed, map[string]interface{}{
			"project_id":  projectId.String(),
			"repo_name":   repoName,
			"commit_hash": commitSHA,
		})
		_ = s.eventPublisher.Publish(ctx, evt)
	}
}

func (s *deployService) ListVersions(ctx context.Context, projectId uuid.UUID) (*dto.ListVersionsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	versions, err := uow.ProjectVersionRepository().FindAll(ctx,
		specification.ByProject{ProjectID: projectId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	views := make([]dto.ProjectVersionView, len(versions))
	for i, v := range versions {
		views[i] = dto.ProjectVersionView{
			Id:         v.Id,
			CommitHash: v.CommitHash,
			RepoName:   v.RepoName,
			FileCount:  v.FileCount,
			CreatedAt:  v.CreatedAt,
		}
	}

	return &dto.ListVersionsResponse{Versions: views}, nil
}

// repoPath strips the editor's absolute project root so the repo tree is
// rooted at the project directory.
func repoPath(path string) string {
	trimmed := strings.TrimPrefix(path, projectRootPrefix)
	return strings.TrimPrefix(trimmed, "/")
}

func sanitizeRepoName(name string) string {
	sanitized := repoNameSanitizer.ReplaceAllString(strings.TrimSpace(name), "-")
	sanitized = strings.Trim(sanitized, "-.")
	if sanitized == "" {
		return "imported-project"
	}
	return sanitized
}
