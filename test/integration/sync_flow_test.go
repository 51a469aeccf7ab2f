package integration

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"bolt-sync-be/internal/dto"
	"bolt-sync-be/internal/entity"
	"bolt-sync-be/internal/model"
	"bolt-sync-be/internal/repository/specification"
	"bolt-sync-be/internal/repository/unitofwork"
	"bolt-sync-be/internal/service"
	"bolt-sync-be/pkg/database"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.NewGormDB(database.GormConfig{
		Driver: database.DriverSqlite,
		Path:   filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.Project{},
		&model.ProjectFile{},
		&model.ProjectVersion{},
		&model.ChatSession{},
		&model.ChatMessage{},
		&model.ProviderConfig{},
	))

	return db
}

func newSyncService(t *testing.T, db *gorm.DB) (service.ISyncService, unitofwork.RepositoryFactory) {
	t.Helper()

	uowFactory := unitofwork.NewRepositoryFactory(db)
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	publisherService := service.NewPublisherService("FILES_SYNCED", pubSub)

	return service.NewSyncService(uowFactory, publisherService, nil), uowFactory
}

func TestSyncCreatesProjectAndFiles(t *testing.T) {
	db := newTestDB(t)
	syncService, uowFactory := newSyncService(t, db)
	ctx := context.Background()

	res, err := syncService.SyncFiles(ctx, &dto.SyncFilesRequest{
		ProjectName: "vite-app",
		Framework:   "react",
		Files: []dto.SyncFileEntry{
			{Path: "/home/project/package.json", Content: `{"name":"vite-app"}`},
			{Path: "/home/project/src/main.tsx", Content: "render()"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.FileCount)

	uow := uowFactory.NewUnitOfWork(ctx)

	project, err := uow.ProjectRepository().FindOne(ctx, specification.ByID{ID: res.ProjectId})
	require.NoError(t, err)
	require.NotNil(t, project)
	assert.Equal(t, "vite-app", project.Name)
	assert.Equal(t, "bolt-import", project.Template)

	files, err := uow.ProjectFileRepository().FindAll(ctx, specification.ByProject{ProjectID: res.ProjectId})
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestResyncReplacesTree(t *testing.T) {
	db := newTestDB(t)
	syncService, uowFactory := newSyncService(t, db)
	ctx := context.Background()

	first, err := syncService.SyncFiles(ctx, &dto.SyncFilesRequest{
		ProjectName: "demo",
		Files: []dto.SyncFileEntry{
			{Path: "/home/project/index.html", Content: "v1"},
			{Path: "/home/project/old.js", Content: "gone soon"},
		},
	})
	require.NoError(t, err)

	second, err := syncService.SyncFiles(ctx, &dto.SyncFilesRequest{
		ProjectId: first.ProjectId.String(),
		Files: []dto.SyncFileEntry{
			{Path: "/home/project/index.html", Content: "v2"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, first.ProjectId, second.ProjectId)

	uow := uowFactory.NewUnitOfWork(ctx)
	files, err := uow.ProjectFileRepository().FindAll(ctx, specification.ByProject{ProjectID: first.ProjectId})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "/home/project/index.html", files[0].Path)
	assert.Equal(t, "v2", files[0].Content)
}

func TestSyncUnknownProjectFails(t *testing.T) {
	db := newTestDB(t)
	syncService, _ := newSyncService(t, db)

	_, err := syncService.SyncFiles(context.Background(), &dto.SyncFilesRequest{
		ProjectId: uuid.New().String(),
		Files:     []dto.SyncFileEntry{{Path: "/home/project/a.txt", Content: "x"}},
	})
	assert.Error(t, err)
}

func TestProjectDeleteCleansDependents(t *testing.T) {
	db := newTestDB(t)
	syncService, uowFactory := newSyncService(t, db)
	ctx := context.Background()

	res, err := syncService.SyncFiles(ctx, &dto.SyncFilesRequest{
		ProjectName: "doomed",
		Files:       []dto.SyncFileEntry{{Path: "/home/project/a.txt", Content: "x"}},
	})
	require.NoError(t, err)

	uow := uowFactory.NewUnitOfWork(ctx)

	session := &entity.ChatSession{
		Id:        uuid.New(),
		ProjectId: res.ProjectId,
		Title:     "chat",
		CreatedAt: time.Now(),
	}
	require.NoError(t, uow.ChatSessionRepository().Create(ctx, session))
	require.NoError(t, uow.ChatMessageRepository().Create(ctx, &entity.ChatMessage{
		Id:        uuid.New(),
		SessionId: session.Id,
		Role:      entity.RoleUser,
		Content:   "hello",
		CreatedAt: time.Now(),
	}))
	require.NoError(t, uow.ProjectVersionRepository().Create(ctx, &entity.ProjectVersion{
		Id:         uuid.New(),
		ProjectId:  res.ProjectId,
		CommitHash: "abc123",
		RepoName:   "doomed",
		FileCount:  1,
		CreatedAt:  time.Now(),
	}))

	projectService := service.NewProjectService(uowFactory)
	require.NoError(t, projectService.Delete(ctx, res.ProjectId))

	files, err := uow.ProjectFileRepository().FindAll(ctx, specification.ByProject{ProjectID: res.ProjectId})
	require.NoError(t, err)
	assert.Empty(t, files)

	versions, err := uow.ProjectVersionRepository().FindAll(ctx, specification.ByProject{ProjectID: res.ProjectId})
	require.NoError(t, err)
	assert.Empty(t, versions)

	messages, err := uow.ChatMessageRepository().FindAll(ctx, specification.BySession{SessionID: session.Id})
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestProjectListAndShow(t *testing.T) {
	db := newTestDB(t)
	syncService, uowFactory := newSyncService(t, db)
	ctx := context.Background()

	res, err := syncService.SyncFiles(ctx, &dto.SyncFilesRequest{
		ProjectName: "listed",
		Files: []dto.SyncFileEntry{
			{Path: "/home/project/b.txt", Content: "b"},
			{Path: "/home/project/a.txt", Content: "a"},
		},
	})
	require.NoError(t, err)

	projectService := service.NewProjectService(uowFactory)

	list, err := projectService.List(ctx, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, list.Total)
	require.Len(t, list.Projects, 1)
	assert.EqualValues(t, 2, list.Projects[0].FileCount)

	detail, err := projectService.Show(ctx, res.ProjectId)
	require.NoError(t, err)
	require.Len(t, detail.Files, 2)
	// Files come back path-ordered.
	assert.Equal(t, "/home/project/a.txt", detail.Files[0].Path)
}
