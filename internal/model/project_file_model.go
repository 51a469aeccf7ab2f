package model

import (
	"time"

	"github.com/google/uuid"
)

// ProjectFile holds one synced file. (project_id, path) is unique: a sync
// replaces content in place instead of stacking rows.
type ProjectFile struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProjectId uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_project_file_path"`
	Path      string    `gorm:"type:varchar(1024);not null;uniqueIndex:idx_project_file_path"`
	Content   string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	Project Project `gorm:"foreignKey:ProjectId;constraint:OnDelete:CASCADE"`
}

func (ProjectFile) TableName() string {
	return "project_files"
}
