package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductGroup is a seller defined collection; names are unique per user.
type ProductGroup struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	UserID      uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:ux_product_groups_user_name,priority:1"`
	Name        string    `gorm:"column:name;not null;uniqueIndex:ux_product_groups_user_name,priority:2"`
	Description string    `gorm:"column:description;not null;default:''"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (g *ProductGroup) BeforeCreate(*gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

// ProductToGroup joins products to groups.
type ProductToGroup struct {
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;primaryKey"`
	GroupID   uuid.UUID `gorm:"column:group_id;type:uuid;primaryKey;index"`
}

func (ProductToGroup) TableName() string {
	return "product_to_groups"
}
