package product

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/sellercenter-backend/pkg/db"
	"github.com/angelmondragon/sellercenter-backend/pkg/db/dbtest"
	"github.com/angelmondragon/sellercenter-backend/pkg/db/models"
	"github.com/angelmondragon/sellercenter-backend/pkg/enums"
)

type fixture struct {
	client   *db.Client
	repo     *Repository
	svc      Service
	category *models.Category
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	client := dbtest.New(t)
	repo := NewRepository(client.DB())
	svc, err := NewService(repo, client)
	require.NoError(t, err)

	category := &models.Category{Name: "服装", NameEn: "Apparel", Level: 1}
	require.NoError(t, client.DB().Create(category).Error)
	return &fixture{client: client, repo: repo, svc: svc, category: category}
}

func (f *fixture) user(t *testing.T, productLimit, draftLimit int) uuid.UUID {
	t.Helper()
	u := &models.User{
		Email:        uuid.NewString() + "@example.com",
		Name:         "Seller",
		PasswordHash: "hash",
		Role:         enums.UserRoleStudent,
		ProductLimit: productLimit,
		DraftLimit:   draftLimit,
		IsActive:     true,
	}
	require.NoError(t, f.client.DB().Create(u).Error)
	return u.ID
}

func (f *fixture) group(t *testing.T, userID uuid.UUID, name string) uuid.UUID {
	t.Helper()
	g := &models.ProductGroup{UserID: userID, Name: name}
	require.NoError(t, f.client.DB().Create(g).Error)
	return g.ID
}

func (f *fixture) request(title string) CreateProductRequest {
	categoryID := f.category.ID
	return CreateProductRequest{
		Title:      title,
		CategoryID: &categoryID,
		Price:      decimal.RequireFromString("19.90"),
		Stock:      10,
	}
}

func (f *fixture) create(t *testing.T, userID uuid.UUID, req CreateProductRequest) *ProductDTO {
	t.Helper()
	dto, err := f.svc.CreateProduct(context.Background(), userID, req)
	require.NoError(t, err)
	return dto
}

func (f *fixture) createWithStatus(t *testing.T, userID uuid.UUID, title string, status enums.ProductStatus) *ProductDTO {
	t.Helper()
	req := f.request(title)
	req.Status = string(status)
	return f.create(t, userID, req)
}

func (f *fixture) countRows(t *testing.T, userID uuid.UUID) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.client.DB().Unscoped().Model(&models.Product{}).Where("user_id = ?", userID).Count(&n).Error)
	return n
}
