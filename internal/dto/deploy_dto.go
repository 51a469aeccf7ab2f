package dto

import (
	"time"

	"github.com/google/uuid"
)

type DeployRequest struct {
	ProjectId uuid.UUID `json:"project_id" validate:"required"`
	RepoName  string    `json:"repo_name"`
	Branch    string    `json:"branch"`
	Message   string    `json:"message"`
	Pages     bool      `json:"pages"`
}

type DeployResponse struct {
	ProjectId  uuid.UUID `json:"project_id"`
	RepoName   string    `json:"repo_name"`
	CommitHash string    `json:"commit_hash"`
	FileCount  int       `json:"file_count"`
}

type ProjectVersionView struct {
	Id         uuid.UUID `json:"id"`
	CommitHash string    `json:"commit_hash"`
	RepoName   string    `json:"repo_name"`
	FileCount  int       `json:"file_count"`
	CreatedAt  time.Time `json:"created_at"`
}

type ListVersionsResponse struct {
	Versions []ProjectVersionView `json:"versions"`
}
