package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateSessionRequest struct {
	ProjectId uuid.UUID `json:"project_id" validate:"required"`
	Title     string    `json:"title"`
}

type CreateSessionResponse struct {
	Id uuid.UUID `json:"id"`
}

type ChatMessageView struct {
	Id        uuid.UUID `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type SessionHistoryResponse struct {
	SessionId uuid.UUID         `json:"session_id"`
	Messages  []ChatMessageView `json:"messages"`
}

type StreamPromptRequest struct {
	SessionId uuid.UUID `json:"session_id" validate:"required"`
	Prompt    string    `json:"prompt" validate:"required"`
	Model     string    `json:"model"`
}
