package product

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/sellercenter-backend/pkg/db"
	"github.com/angelmondragon/sellercenter-backend/pkg/db/models"
	"github.com/angelmondragon/sellercenter-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/sellercenter-backend/pkg/errors"
	"github.com/angelmondragon/sellercenter-backend/pkg/types"
)

// Service exposes seller product management operations. Every call is scoped to userID.
type Service interface {
	ListProducts(ctx context.Context, input ListProductsInput) (*types.Page[ProductListItem], error)
	GetProduct(ctx context.Context, userID, productID uuid.UUID) (*ProductDTO, error)
	CreateProduct(ctx context.Context, userID uuid.UUID, req CreateProductRequest) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, userID, productID uuid.UUID, req UpdateProductRequest) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, userID, productID uuid.UUID) error
	Batch(ctx context.Context, userID uuid.UUID, req BatchRequest) (*BatchResult, error)
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	now      func() time.Time
}

// NewService constructs a product service instance.
func NewService(repo *Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient, now: time.Now}, nil
}

func (s *service) ListProducts(ctx context.Context, input ListProductsInput) (*types.Page[ProductListItem], error) {
	q, err := parseListInput(input)
	if err != nil {
		return nil, err
	}
	rows, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}
	return newListPage(rows, total, q.page), nil
}

func (s *service) GetProduct(ctx context.Context, userID, productID uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindAnyByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	if product.DeletedAt.Valid {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if product.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "you do not have access to this product")
	}
	return s.detail(ctx, s.repo, product)
}

// CreateProduct checks quotas, category and groups inside the insert transaction.
func (s *service) CreateProduct(ctx context.Context, userID uuid.UUID, req CreateProductRequest) (*ProductDTO, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	status, err := parseStatus(req.Status)
	if err != nil {
		return nil, err
	}
	groupIDs := dedupeIDs(req.GroupIDs)

	product := &models.Product{
		UserID:           userID,
		CategoryID:       req.CategoryID,
		Title:            strings.TrimSpace(req.Title),
		Brand:            strings.TrimSpace(req.Brand),
		Model:            strings.TrimSpace(req.Model),
		SKU:              strings.TrimSpace(req.SKU),
		Barcode:          strings.TrimSpace(req.Barcode),
		Price:            req.Price,
		ComparePrice:     toNullDecimal(req.ComparePrice),
		CostPrice:        toNullDecimal(req.CostPrice),
		Currency:         defaultString(strings.ToUpper(strings.TrimSpace(req.Currency)), "USD"),
		RegionalPrices:   encodeJSON(req.RegionalPrices),
		WholesaleEnabled: req.WholesaleEnabled,
		WholesaleTiers:   encodeJSON(req.WholesaleTiers),
		PresaleEnabled:   req.PresaleEnabled,
		PresaleDays:      req.PresaleDays,
		FlashSaleEnabled: req.FlashSaleEnabled,
		Stock:            req.Stock,
		MinOrderQty:      defaultInt(req.MinOrderQty, 1),
		Unit:             defaultString(strings.TrimSpace(req.Unit), "piece"),
		Images:           encodeJSON(req.Images),
		MainImage:        req.MainImage,
		Video:            req.Video,
		VideoCover:       req.VideoCover,
		CountryImages:    encodeJSON(req.CountryImages),
		Description:      req.Description,
		ShortDescription: req.ShortDescription,
		CountryTitles:    encodeJSON(req.CountryTitles),
		Keywords:         encodeJSON(req.Keywords),
		CustomAttributes: encodeJSON(req.CustomAttributes),
		Qualifications:   encodeJSON(req.Qualifications),
		SelectedColors:   encodeJSON(req.SelectedColors),
		SelectedSizes:    encodeJSON(req.SelectedSizes),
		Weight:           toNullDecimal(req.Weight),
		PackageSize:      encodeJSON(req.PackageSize),
		ShippingTemplate: req.ShippingTemplate,
		DeliveryDays:     req.DeliveryDays,
		OriginCountry:    req.OriginCountry,
		Status:           status,
	}
	if product.MainImage == "" {
		if images := req.Images; len(images) > 0 {
			product.MainImage = images[0]
		}
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		if err := s.checkQuota(ctx, txRepo, userID, status); err != nil {
			return err
		}
		if err := checkCategory(ctx, txRepo, *req.CategoryID); err != nil {
			return err
		}
		if err := checkGroups(ctx, txRepo, userID, groupIDs); err != nil {
			return err
		}
		if err := txRepo.Create(ctx, product); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: insert product")
		}
		if err := txRepo.ReplaceGroups(ctx, product.ID, groupIDs); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: insert product groups")
		}
		return nil
	}); err != nil {
		return nil, pkgerrors.Internal(err, "create product")
	}

	created, err := s.repo.FindByID(ctx, product.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	return s.detail(ctx, s.repo, created)
}

// UpdateProduct applies a sparse patch. groupIds, when present, replaces every join row.
func (s *service) UpdateProduct(ctx context.Context, userID, productID uuid.UUID, req UpdateProductRequest) (*ProductDTO, error) {
	if _, err := s.loadMutable(ctx, userID, productID); err != nil {
		return nil, err
	}
	columns, err := buildUpdateColumns(req)
	if err != nil {
		return nil, err
	}
	var groupIDs []uuid.UUID
	if req.GroupIDs.Set {
		groupIDs = dedupeIDs(req.GroupIDs.Value)
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if req.CategoryID.Set && req.CategoryID.Value != nil {
			if err := checkCategory(ctx, txRepo, *req.CategoryID.Value); err != nil {
				return err
			}
		}
		if err := txRepo.UpdateColumns(ctx, productID, columns); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: update product")
		}
		if req.GroupIDs.Set {
			if err := checkGroups(ctx, txRepo, userID, groupIDs); err != nil {
				return err
			}
			if err := txRepo.ReplaceGroups(ctx, productID, groupIDs); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: replace product groups")
			}
		}
		return nil
	}); err != nil {
		return nil, pkgerrors.Internal(err, "update product")
	}

	updated, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	return s.detail(ctx, s.repo, updated)
}

// DeleteProduct soft-deletes the row and keeps its group joins.
func (s *service) DeleteProduct(ctx context.Context, userID, productID uuid.UUID) error {
	if _, err := s.loadMutable(ctx, userID, productID); err != nil {
		return err
	}
	ok, err := s.repo.SoftDelete(ctx, productID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete product")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeBusinessRule, "product has already been deleted")
	}
	return nil
}

// loadMutable runs the existence, ownership and deletion checks in that order.
func (s *service) loadMutable(ctx context.Context, userID, productID uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindAnyByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	if product.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "you do not have access to this product")
	}
	if product.DeletedAt.Valid {
		return nil, pkgerrors.New(pkgerrors.CodeBusinessRule, "product has already been deleted")
	}
	return product, nil
}

func (s *service) checkQuota(ctx context.Context, repo *Repository, userID uuid.UUID, status enums.ProductStatus) error {
	owner, err := repo.LoadOwner(ctx, userID, s.dbClient.IsPostgres())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeUnauthorized, "please log in first")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load quota owner")
	}

	if owner.ProductLimit > 0 {
		count, err := repo.CountActive(ctx, userID, nil)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count products")
		}
		if count >= int64(owner.ProductLimit) {
			return pkgerrors.Newf(pkgerrors.CodeBusinessRule, "product limit reached (%d/%d)", count, owner.ProductLimit)
		}
	}
	if status == enums.ProductStatusDraft && owner.DraftLimit > 0 {
		draft := enums.ProductStatusDraft
		count, err := repo.CountActive(ctx, userID, &draft)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count drafts")
		}
		if count >= int64(owner.DraftLimit) {
			return pkgerrors.Newf(pkgerrors.CodeBusinessRule, "draft limit reached (%d/%d)", count, owner.DraftLimit)
		}
	}
	return nil
}

func checkCategory(ctx context.Context, repo *Repository, categoryID uuid.UUID) error {
	ok, err := repo.CategoryExists(ctx, categoryID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check category")
	}
	if !ok {
		return validationErr("categoryId", "does not reference an existing category")
	}
	return nil
}

func checkGroups(ctx context.Context, repo *Repository, userID uuid.UUID, groupIDs []uuid.UUID) error {
	if len(groupIDs) == 0 {
		return nil
	}
	owned, err := repo.CountOwnedGroups(ctx, userID, groupIDs)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check groups")
	}
	if owned != int64(len(groupIDs)) {
		return validationErr("groupIds", "contains unknown groups")
	}
	return nil
}

func (s *service) detail(ctx context.Context, repo *Repository, product *models.Product) (*ProductDTO, error) {
	groups, err := repo.GroupIDsFor(ctx, []uuid.UUID{product.ID})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product groups")
	}
	return NewProductDTO(product, groups[product.ID]), nil
}

func dedupeIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func defaultString(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func defaultInt(v, fallback int) int {
	if v <= 0 {
		return fallback
	}
	return v
}
