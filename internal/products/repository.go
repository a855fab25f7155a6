package product

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/sellercenter-backend/pkg/db/models"
	"github.com/angelmondragon/sellercenter-backend/pkg/enums"
)

// Repository handles persistence for products and their group joins.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a product repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

func (r *Repository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// FindAnyByID includes soft-deleted rows so callers can tell "deleted" from "missing".
func (r *Repository) FindAnyByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Unscoped().First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByID skips soft-deleted rows.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateColumns writes the given columns on a live row.
func (r *Repository) UpdateColumns(ctx context.Context, id uuid.UUID, columns map[string]any) error {
	if len(columns) == 0 {
		return nil
	}
	columns["updated_at"] = time.Now().UTC()
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Updates(columns).Error
}

// SoftDelete marks a live row deleted and reports whether it matched.
func (r *Repository) SoftDelete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{})
	return res.RowsAffected > 0, res.Error
}

// CountActive counts the user's non-deleted products, optionally narrowed to one status.
func (r *Repository) CountActive(ctx context.Context, userID uuid.UUID, status *enums.ProductStatus) (int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Product{}).Where("user_id = ?", userID)
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	var total int64
	err := q.Count(&total).Error
	return total, err
}

// CountNeedsOptimization counts live rows with pending optimization tasks.
func (r *Repository) CountNeedsOptimization(ctx context.Context, userID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("user_id = ? AND optimization_tasks > 0", userID).
		Count(&total).Error
	return total, err
}

// CategoryExists reports whether a category row exists.
func (r *Repository) CategoryExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Category{}).Where("id = ?", id).Count(&total).Error
	return total > 0, err
}

// CountOwnedGroups counts how many of ids are groups owned by userID.
func (r *Repository) CountOwnedGroups(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.ProductGroup{}).
		Where("user_id = ? AND id IN ?", userID, ids).
		Count(&total).Error
	return total, err
}

// ReplaceGroups deletes every join row of the product and inserts groupIDs.
func (r *Repository) ReplaceGroups(ctx context.Context, productID uuid.UUID, groupIDs []uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Delete(&models.ProductToGroup{}).Error; err != nil {
		return err
	}
	if len(groupIDs) == 0 {
		return nil
	}
	rows := make([]models.ProductToGroup, 0, len(groupIDs))
	for _, groupID := range groupIDs {
		rows = append(rows, models.ProductToGroup{ProductID: productID, GroupID: groupID})
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

// GroupIDsFor returns the group ids of each product.
func (r *Repository) GroupIDsFor(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
	out := make(map[uuid.UUID][]uuid.UUID, len(productIDs))
	if len(productIDs) == 0 {
		return out, nil
	}
	var rows []models.ProductToGroup
	if err := r.db.WithContext(ctx).
		Where("product_id IN ?", productIDs).
		Order("group_id").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ProductID] = append(out[row.ProductID], row.GroupID)
	}
	return out, nil
}

// GroupNamesFor returns the group names of each product, name ordered.
func (r *Repository) GroupNamesFor(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID][]string, error) {
	out := make(map[uuid.UUID][]string, len(productIDs))
	if len(productIDs) == 0 {
		return out, nil
	}
	type row struct {
		ProductID uuid.UUID
		Name      string
	}
	var rows []row
	if err := r.db.WithContext(ctx).
		Table("product_to_groups AS ptg").
		Select("ptg.product_id AS product_id, pg.name AS name").
		Joins("JOIN product_groups pg ON pg.id = ptg.group_id").
		Where("ptg.product_id IN ?", productIDs).
		Order("pg.name").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.ProductID] = append(out[r.ProductID], r.Name)
	}
	return out, nil
}

// CategoryNames maps category ids to display names.
func (r *Repository) CategoryNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	out := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []models.Category
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, c := range rows {
		out[c.ID] = c.Name
	}
	return out, nil
}

// TransitionStatus moves the user's live rows in ids from one status to another.
func (r *Repository) TransitionStatus(ctx context.Context, userID uuid.UUID, ids []uuid.UUID, from, to enums.ProductStatus) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("user_id = ? AND id IN ? AND status = ?", userID, ids, from).
		Updates(map[string]any{"status": to, "updated_at": time.Now().UTC()})
	return res.RowsAffected, res.Error
}

// SoftDeleteMany marks the user's live rows in ids deleted.
func (r *Repository) SoftDeleteMany(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND id IN ?", userID, ids).
		Delete(&models.Product{})
	return res.RowsAffected, res.Error
}

// FindOwned loads the user's live rows in ids, newest first.
func (r *Repository) FindOwned(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND id IN ?", userID, ids).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

// LoadOwner reads the quota owner. forUpdate serialises concurrent creates on
// postgres; sqlite already serialises writers.
func (r *Repository) LoadOwner(ctx context.Context, userID uuid.UUID, forUpdate bool) (*models.User, error) {
	q := r.db.WithContext(ctx)
	if forUpdate {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var user models.User
	if err := q.First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
