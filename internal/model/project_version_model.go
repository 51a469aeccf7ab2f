package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ProjectVersion records one pushed commit. (project_id, commit_hash) is
// unique; pushing the same tree twice is a no-op at the database level.
type ProjectVersion struct {
	Id         uuid.UUID      `gorm:"type:uuid;primaryKey"`
	ProjectId  uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_project_version_commit"`
	CommitHash string         `gorm:"type:varchar(64);not null;uniqueIndex:idx_project_version_commit"`
	RepoName   string         `gorm:"type:varchar(255)"`
	FileCount  int            `gorm:"not null;default:0"`
	Metadata   datatypes.JSON `gorm:"type:json"`
	CreatedAt  time.Time      `gorm:"autoCreateTime"`

	Project Project `gorm:"foreignKey:ProjectId;constraint:OnDelete:CASCADE"`
}

func (ProjectVersion) TableName() string {
	return "project_versions"
}
