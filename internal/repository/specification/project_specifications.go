package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByProject filters rows belonging to one project
type ByProject struct {
	ProjectID uuid.UUID
}

func (s ByProject) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("project_id = ?", s.ProjectID)
}

// ByPath filters project files by their absolute path
type ByPath struct {
	Path string
}

func (s ByPath) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("path = ?", s.Path)
}

// ByCommitHash filters project versions by commit hash
type ByCommitHash struct {
	CommitHash string
}

func (s ByCommitHash) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("commit_hash = ?", s.CommitHash)
}
