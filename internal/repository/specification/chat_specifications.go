package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BySession filters chat messages by their session
type BySession struct {
	SessionID uuid.UUID
}

func (s BySession) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_id = ?", s.SessionID)
}

// ByProvider filters provider configs by provider name
type ByProvider struct {
	Provider string
}

func (s ByProvider) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("provider = ?", s.Provider)
}
