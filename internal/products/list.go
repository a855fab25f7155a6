package product

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/sellercenter-backend/internal/repo"
	"github.com/angelmondragon/sellercenter-backend/pkg/db/models"
	"github.com/angelmondragon/sellercenter-backend/pkg/enums"
	"github.com/angelmondragon/sellercenter-backend/pkg/pagination"
	"github.com/angelmondragon/sellercenter-backend/pkg/types"
)

// ListProductsInput carries the raw query parameters of the product table.
type ListProductsInput struct {
	UserID     uuid.UUID
	Status     string
	Search     string
	SearchType string
	CategoryID string
	GroupID    string
	FilterType string
	SortBy     string
	SortOrder  string
	Page       int
	PageSize   int
}

// sortColumns is the allow-list of sortable fields.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"price":     "price",
	"stock":     "stock",
	"title":     "title",
	"sales":     "sales",
	"views":     "views",
}

type listQuery struct {
	userID     uuid.UUID
	status     *enums.ProductStatus
	search     string
	searchType enums.SearchType
	searchID   uuid.UUID
	categoryID *uuid.UUID
	groupID    *uuid.UUID
	filter     *enums.ProductFilter
	sortColumn string
	sortDesc   bool
	page       pagination.Params
}

func parseListInput(in ListProductsInput) (listQuery, error) {
	q := listQuery{userID: in.UserID, sortColumn: "created_at", sortDesc: true}

	switch status := strings.TrimSpace(in.Status); status {
	case "", "all":
	default:
		parsed, err := enums.ParseProductStatus(status)
		if err != nil {
			return q, validationErr("status", "must be all or a valid product status")
		}
		q.status = &parsed
	}

	searchType, err := enums.ParseSearchType(strings.TrimSpace(in.SearchType))
	if err != nil {
		return q, validationErr("searchType", "must be one of title, sku, id")
	}
	q.searchType = searchType
	q.search = strings.TrimSpace(in.Search)
	if q.search != "" && searchType == enums.SearchTypeID {
		id, err := uuid.Parse(q.search)
		if err != nil {
			return q, validationErr("search", "must be a valid product id")
		}
		q.searchID = id
	}

	if q.categoryID, err = optionalUUID("categoryId", in.CategoryID); err != nil {
		return q, err
	}
	if q.groupID, err = optionalUUID("groupId", in.GroupID); err != nil {
		return q, err
	}

	if raw := strings.TrimSpace(in.FilterType); raw != "" {
		filter, err := enums.ParseProductFilter(raw)
		if err != nil {
			return q, validationErr("filterType", "must be one of soldout, presale, wholesale, flash")
		}
		q.filter = &filter
	}

	if raw := strings.TrimSpace(in.SortBy); raw != "" {
		column, ok := sortColumns[raw]
		if !ok {
			return q, validationErr("sortBy", "must be one of createdAt, updatedAt, price, stock, title, sales, views")
		}
		q.sortColumn = column
	}
	switch strings.ToLower(strings.TrimSpace(in.SortOrder)) {
	case "", "desc":
	case "asc":
		q.sortDesc = false
	default:
		return q, validationErr("sortOrder", "must be asc or desc")
	}

	q.page = pagination.Normalize(in.Page, in.PageSize)
	if q.page.PageSize > pagination.MaxPageSize {
		return q, validationErr("pageSize", "must be between 1 and 100")
	}
	return q, nil
}

func optionalUUID(field, raw string) (*uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, validationErr(field, "must be a valid UUID")
	}
	return &id, nil
}

func (q listQuery) apply(db *gorm.DB) *gorm.DB {
	db = db.Model(&models.Product{}).Where("user_id = ?", q.userID)
	if q.status != nil {
		db = db.Where("status = ?", *q.status)
	}
	if q.search != "" {
		switch q.searchType {
		case enums.SearchTypeSKU:
			db = db.Where(`sku LIKE ? ESCAPE '\'`, repo.LikePattern(q.search))
		case enums.SearchTypeID:
			db = db.Where("id = ?", q.searchID)
		default:
			db = db.Where(`LOWER(title) LIKE ? ESCAPE '\'`, repo.LikePattern(strings.ToLower(q.search)))
		}
	}
	if q.categoryID != nil {
		db = db.Where("category_id = ?", *q.categoryID)
	}
	if q.groupID != nil {
		db = db.Where("id IN (?)", db.Session(&gorm.Session{NewDB: true}).
			Model(&models.ProductToGroup{}).
			Select("product_id").
			Where("group_id = ?", *q.groupID))
	}
	if q.filter != nil {
		switch *q.filter {
		case enums.ProductFilterSoldOut:
			db = db.Where("stock <= 0")
		case enums.ProductFilterPresale:
			db = db.Where("presale_enabled = ?", true)
		case enums.ProductFilterWholesale:
			db = db.Where("wholesale_enabled = ?", true)
		case enums.ProductFilterFlash:
			db = db.Where("flash_sale_enabled = ?", true)
		}
	}
	return db
}

// List returns one page of the user's live products.
func (r *Repository) List(ctx context.Context, q listQuery) ([]models.Product, int64, error) {
	var total int64
	if err := q.apply(r.db.WithContext(ctx)).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	direction := " DESC"
	if !q.sortDesc {
		direction = " ASC"
	}
	var rows []models.Product
	err := q.apply(r.db.WithContext(ctx)).
		Order(q.sortColumn + direction).
		Order("id" + direction).
		Limit(q.page.PageSize).
		Offset(q.page.Offset()).
		Find(&rows).Error
	return rows, total, err
}

func newListPage(rows []models.Product, total int64, params pagination.Params) *types.Page[ProductListItem] {
	items := make([]ProductListItem, 0, len(rows))
	for i := range rows {
		items = append(items, newListItem(&rows[i]))
	}
	return &types.Page[ProductListItem]{
		Items:      items,
		Total:      total,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: params.TotalPages(total),
	}
}
