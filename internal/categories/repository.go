package categories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/sellercenter-backend/internal/repo"
	"github.com/angelmondragon/sellercenter-backend/pkg/db/models"
)

// Repository reads and writes the category tree.
type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// FindByID returns gorm.ErrRecordNotFound for unknown ids.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var c models.Category
	if err := r.DB(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// Children lists the direct children of parentID, or the roots when it is nil.
func (r *Repository) Children(ctx context.Context, parentID *uuid.UUID) ([]models.Category, error) {
	q := r.DB(ctx).Model(&models.Category{})
	if parentID == nil {
		q = q.Where("parent_id IS NULL")
	} else {
		q = q.Where("parent_id = ?", *parentID)
	}
	var rows []models.Category
	if err := q.Order("sort_order ASC").Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ParentsWithChildren returns which of ids have at least one child.
func (r *Repository) ParentsWithChildren(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]bool, error) {
	out := make(map[uuid.UUID]bool, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var parents []uuid.UUID
	if err := r.DB(ctx).
		Model(&models.Category{}).
		Distinct("parent_id").
		Where("parent_id IN ?", ids).
		Pluck("parent_id", &parents).Error; err != nil {
		return nil, err
	}
	for _, id := range parents {
		out[id] = true
	}
	return out, nil
}

// FindByName looks a node up by name under parentID; used for idempotent seeding.
func (r *Repository) FindByName(ctx context.Context, parentID *uuid.UUID, name string) (*models.Category, error) {
	q := r.DB(ctx).Where("name = ?", name)
	if parentID == nil {
		q = q.Where("parent_id IS NULL")
	} else {
		q = q.Where("parent_id = ?", *parentID)
	}
	var c models.Category
	if err := q.First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repository) Create(ctx context.Context, c *models.Category) error {
	return r.DB(ctx).Create(c).Error
}
