package unitofwork

import (
	"context"

	"bolt-sync-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ProjectRepository() contract.ProjectRepository
	ProjectFileRepository() contract.ProjectFileRepository
	ProjectVersionRepository() contract.ProjectVersionRepository

	ChatSessionRepository() contract.ChatSessionRepository
	ChatMessageRepository() contract.ChatMessageRepository
	ProviderConfigRepository() contract.ProviderConfigRepository
}
