package categories

import (
	"github.com/google/uuid"

	"github.com/angelmondragon/sellercenter-backend/pkg/db/models"
)

// CategoryDTO is one node as the product form renders it.
type CategoryDTO struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	NameEn    string     `json:"nameEn"`
	ParentID  *uuid.UUID `json:"parentId"`
	Level     int        `json:"level"`
	SortOrder int        `json:"sortOrder"`
}

// CategoryNode adds the cascader's lazy-load hint.
type CategoryNode struct {
	CategoryDTO
	HasChildren bool `json:"hasChildren"`
}

// CreateCategoryRequest is used by the seeder and admin tooling.
type CreateCategoryRequest struct {
	Name      string     `json:"name" validate:"required,notblank,max=100"`
	NameEn    string     `json:"nameEn" validate:"max=100"`
	ParentID  *uuid.UUID `json:"parentId"`
	SortOrder int        `json:"sortOrder"`
}

func FromModel(c *models.Category) CategoryDTO {
	return CategoryDTO{
		ID:        c.ID,
		Name:      c.Name,
		NameEn:    c.NameEn,
		ParentID:  c.ParentID,
		Level:     c.Level,
		SortOrder: c.SortOrder,
	}
}
