package dto

import (
	"github.com/google/uuid"
)

type SyncFileEntry struct {
	Path    string `json:"path" validate:"required"`
	Content string `json:"content"`
}

type SyncFilesRequest struct {
	ProjectId   string          `json:"projectId"`
	ProjectName string          `json:"projectName"`
	Framework   string          `json:"framework"`
	Template    string          `json:"template"`
	Files       []SyncFileEntry `json:"files" validate:"required,min=1,dive"`
}

type SyncFilesResponse struct {
	ProjectId uuid.UUID `json:"projectId"`
	FileCount int       `json:"fileCount"`
}

// PublishSyncedMessage rides the internal bus after a sync or deploy
// commits. EventType defaults to FILES_SYNCED when empty.
type PublishSyncedMessage struct {
	EventType string                 `json:"event_type,omitempty"`
	ProjectId uuid.UUID              `json:"project_id"`
	FileCount int                    `json:"file_count"`
	Data      map[string]interface{} `json:"data,omitempty"`
}
