package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/sellercenter-backend/pkg/enums"
)

// Media is an uploaded file in a user's library. An empty Folder means ungrouped.
type Media struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	UserID       uuid.UUID       `gorm:"column:user_id;type:uuid;not null;index"`
	FileName     string          `gorm:"column:file_name;not null"`
	OriginalName string          `gorm:"column:original_name;not null"`
	Path         string          `gorm:"column:path;not null;uniqueIndex"`
	URL          string          `gorm:"column:url;not null"`
	Type         enums.MediaType `gorm:"column:type;not null"`
	MimeType     string          `gorm:"column:mime_type;not null"`
	Width        int             `gorm:"column:width;not null;default:0"`
	Height       int             `gorm:"column:height;not null;default:0"`
	Duration     *int            `gorm:"column:duration"`
	Folder       string          `gorm:"column:folder;not null;default:'';index"`
	Size         int64           `gorm:"column:size;not null"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (Media) TableName() string {
	return "media"
}

func (m *Media) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
