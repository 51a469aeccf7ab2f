package entity

import (
	"time"

	"github.com/google/uuid"
)

type ChatSession struct {
	Id        uuid.UUID
	ProjectId uuid.UUID
	Title     string
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

type ChatMessage struct {
	Id        uuid.UUID
	SessionId uuid.UUID
	Role      string
	Content   string
	Metadata  map[string]interface{}
	CreatedAt time.Time
}

type ProviderConfig struct {
	Id        uuid.UUID
	Provider  string
	Model     string
	BaseURL   string
	Params    map[string]interface{}
	IsDefault bool
	CreatedAt time.Time
	UpdatedAt *time.Time
}
