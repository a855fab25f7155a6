package media

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/sellercenter-backend/internal/repo"
	"github.com/angelmondragon/sellercenter-backend/pkg/db/models"
	"github.com/angelmondragon/sellercenter-backend/pkg/enums"
)

// Repository exposes media metadata persistence operations.
type Repository struct {
	repo.Base
}

// NewRepository constructs a media repository bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: r.Bind(tx)}
}

// Create persists a media record.
func (r *Repository) Create(ctx context.Context, m *models.Media) error {
	return r.DB(ctx).Create(m).Error
}

// FindByID retrieves a media record by ID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Media, error) {
	var m models.Media
	if err := r.DB(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// FindOwned returns the rows among ids that belong to userID.
func (r *Repository) FindOwned(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]models.Media, error) {
	var rows []models.Media
	if len(ids) == 0 {
		return rows, nil
	}
	if err := r.Owned(ctx, userID).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Delete removes a media record.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.DB(ctx).Where("id = ?", id).Delete(&models.Media{}).Error
}

func (r *Repository) DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.DB(ctx).Where("id IN ?", ids).Delete(&models.Media{})
	return res.RowsAffected, res.Error
}

type listQuery struct {
	userID    uuid.UUID
	folder    *string
	mediaType *enums.MediaType
	from      *time.Time
	until     *time.Time
	search    string
	offset    int
	limit     int
}

// List returns one page, newest first, and the filtered total.
func (r *Repository) List(ctx context.Context, q listQuery) ([]models.Media, int64, error) {
	db := r.Owned(ctx, q.userID).Model(&models.Media{})
	if q.folder != nil {
		db = db.Where("folder = ?", *q.folder)
	}
	if q.mediaType != nil {
		db = db.Where("type = ?", *q.mediaType)
	}
	if q.from != nil {
		db = db.Where("created_at >= ?", *q.from)
	}
	if q.until != nil {
		db = db.Where("created_at < ?", *q.until)
	}
	if q.search != "" {
		db = db.Where(`LOWER(original_name) LIKE ? ESCAPE '\'`, repo.LikePattern(q.search))
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.Media
	if err := db.Order("created_at DESC").Order("id DESC").Offset(q.offset).Limit(q.limit).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

type folderCount struct {
	Folder string `gorm:"column:folder"`
	Count  int64  `gorm:"column:count"`
}

// FolderCounts groups the user's media by folder name.
func (r *Repository) FolderCounts(ctx context.Context, userID uuid.UUID) ([]folderCount, error) {
	var rows []folderCount
	err := r.Owned(ctx, userID).
		Model(&models.Media{}).
		Select("folder, COUNT(*) AS count").
		Group("folder").
		Order("folder ASC").
		Scan(&rows).Error
	return rows, err
}

// SetFolder moves the given rows, or every row in fromFolder when ids is nil.
func (r *Repository) SetFolder(ctx context.Context, userID uuid.UUID, ids []uuid.UUID, fromFolder *string, folder string) (int64, error) {
	db := r.Owned(ctx, userID).Model(&models.Media{})
	if ids != nil {
		db = db.Where("id IN ?", ids)
	}
	if fromFolder != nil {
		db = db.Where("folder = ?", *fromFolder)
	}
	res := db.Update("folder", folder)
	return res.RowsAffected, res.Error
}

// ExistingPaths reports which storage keys are referenced by a row.
func (r *Repository) ExistingPaths(ctx context.Context, paths []string) (map[string]bool, error) {
	out := make(map[string]bool, len(paths))
	if len(paths) == 0 {
		return out, nil
	}
	var found []string
	if err := r.DB(ctx).Model(&models.Media{}).Where("path IN ?", paths).Pluck("path", &found).Error; err != nil {
		return nil, err
	}
	for _, p := range found {
		out[p] = true
	}
	return out, nil
}
