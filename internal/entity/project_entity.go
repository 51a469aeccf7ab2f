package entity

import (
	"time"

	"github.com/google/uuid"
)

type Project struct {
	Id        uuid.UUID
	Name      string
	Framework string
	Template  string
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}

type ProjectFile struct {
	Id        uuid.UUID
	ProjectId uuid.UUID
	Path      string
	Content   string
	CreatedAt time.Time
	UpdatedAt *time.Time
}

type ProjectVersion struct {
	Id         uuid.UUID
	ProjectId  uuid.UUID
	CommitHash string
	RepoName   string
	FileCount  int
	Metadata   map[string]interface{}
	CreatedAt  time.Time
}
