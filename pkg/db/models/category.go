package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category is a node of the marketplace taxonomy. Roots have level 1 and no parent.
type Category struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	Name      string     `gorm:"column:name;not null"`
	NameEn    string     `gorm:"column:name_en;not null;default:''"`
	ParentID  *uuid.UUID `gorm:"column:parent_id;type:uuid;index"`
	Level     int        `gorm:"column:level;not null;default:1"`
	SortOrder int        `gorm:"column:sort_order;not null;default:0"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (c *Category) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
