package groups

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/sellercenter-backend/pkg/db/models"
)

// MaxNameLength is counted in characters, not bytes.
const MaxNameLength = 50

type GroupDTO struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	ProductCount int64     `json:"productCount"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type CreateGroupRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"max=500"`
}

func fromModel(g *models.ProductGroup, count int64) GroupDTO {
	return GroupDTO{
		ID:           g.ID,
		Name:         g.Name,
		Description:  g.Description,
		ProductCount: count,
		CreatedAt:    g.CreatedAt,
		UpdatedAt:    g.UpdatedAt,
	}
}
