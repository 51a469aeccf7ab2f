package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ChatMessage struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	SessionId uuid.UUID      `gorm:"type:uuid;not null;index"`
	Role      string         `gorm:"type:varchar(16);not null"`
	Content   string         `gorm:"type:text"`
	Metadata  datatypes.JSON `gorm:"type:json"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`

	Session ChatSession `gorm:"foreignKey:SessionId;constraint:OnDelete:CASCADE"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
