package groups

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/sellercenter-backend/internal/repo"
	"github.com/angelmondragon/sellercenter-backend/pkg/db/models"
)

const uniqueNameIndex = "ux_product_groups_user_name"

type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: r.Bind(tx)}
}

// groupRow is a group with its live product count.
type groupRow struct {
	models.ProductGroup
	ProductCount int64 `gorm:"column:product_count"`
}

// ListWithCounts returns the user's groups by name; soft-deleted products do not count.
func (r *Repository) ListWithCounts(ctx context.Context, userID uuid.UUID) ([]groupRow, error) {
	var rows []groupRow
	err := r.DB(ctx).
		Table("product_groups AS g").
		Select("g.*, COUNT(p.id) AS product_count").
		Joins("LEFT JOIN product_to_groups AS ptg ON ptg.group_id = g.id").
		Joins("LEFT JOIN products AS p ON p.id = ptg.product_id AND p.deleted_at IS NULL").
		Where("g.user_id = ?", userID).
		Group("g.id").
		Order("g.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) ExistsByName(ctx context.Context, userID uuid.UUID, name string) (bool, error) {
	var n int64
	if err := r.Owned(ctx, userID).Model(&models.ProductGroup{}).Where("name = ?", name).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *Repository) Create(ctx context.Context, g *models.ProductGroup) error {
	return r.DB(ctx).Create(g).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.ProductGroup, error) {
	var g models.ProductGroup
	if err := r.DB(ctx).Where("id = ?", id).First(&g).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

// Delete removes the join rows and then the group.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.DB(ctx).Where("group_id = ?", id).Delete(&models.ProductToGroup{}).Error; err != nil {
		return err
	}
	return r.DB(ctx).Where("id = ?", id).Delete(&models.ProductGroup{}).Error
}
