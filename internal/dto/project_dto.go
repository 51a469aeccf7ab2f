package dto

import (
	"time"

	"github.com/google/uuid"
)

type ProjectSummary struct {
	Id        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Framework string     `json:"framework"`
	Template  string     `json:"template"`
	FileCount int64      `json:"file_count"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

type ListProjectsResponse struct {
	Projects []ProjectSummary `json:"projects"`
	Total    int64            `json:"total"`
}

type ProjectFileView struct {
	Path      string     `json:"path"`
	Content   string     `json:"content"`
	UpdatedAt *time.Time `json:"updated_at"`
}

type ShowProjectResponse struct {
	Id        uuid.UUID         `json:"id"`
	Name      string            `json:"name"`
	Framework string            `json:"framework"`
	Template  string            `json:"template"`
	Files     []ProjectFileView `json:"files"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt *time.Time        `json:"updated_at"`
}
