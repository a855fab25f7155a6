package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	productsvc "github.com/angelmondragon/sellercenter-backend/internal/products"
	"github.com/angelmondragon/sellercenter-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/sellercenter-backend/pkg/errors"
	"github.com/angelmondragon/sellercenter-backend/pkg/types"
)

type stubProductService struct {
	listInput   productsvc.ListProductsInput
	getArgs     [2]uuid.UUID
	getErr      error
	batchResult *productsvc.BatchResult
	deleted     bool
	allowCreate bool
}

func (s *stubProductService) ListProducts(_ context.Context, in productsvc.ListProductsInput) (*types.Page[productsvc.ProductListItem], error) {
	s.listInput = in
	return &types.Page[productsvc.ProductListItem]{Items: []productsvc.ProductListItem{}, Page: in.Page, PageSize: in.PageSize}, nil
}

func (s *stubProductService) GetProduct(_ context.Context, userID, productID uuid.UUID) (*productsvc.ProductDTO, error) {
	s.getArgs = [2]uuid.UUID{userID, productID}
	if s.getErr != nil {
		return nil, s.getErr
	}
	return &productsvc.ProductDTO{ID: productID, UserID: userID, Title: "Linen shirt"}, nil
}

func (s *stubProductService) CreateProduct(_ context.Context, userID uuid.UUID, req productsvc.CreateProductRequest) (*productsvc.ProductDTO, error) {
	if s.allowCreate {
		return &productsvc.ProductDTO{ID: uuid.New(), UserID: userID, Title: req.Title}, nil
	}
	return nil, pkgerrors.Newf(pkgerrors.CodeBusinessRule, "product limit reached (%d/%d)", 3, 3)
}

func (s *stubProductService) UpdateProduct(context.Context, uuid.UUID, uuid.UUID, productsvc.UpdateProductRequest) (*productsvc.ProductDTO, error) {
	panic("unimplemented")
}

func (s *stubProductService) DeleteProduct(context.Context, uuid.UUID, uuid.UUID) error {
	s.deleted = true
	return nil
}

func (s *stubProductService) Batch(context.Context, uuid.UUID, productsvc.BatchRequest) (*productsvc.BatchResult, error) {
	return s.batchResult, nil
}

func TestProductHandlersRequireSession(t *testing.T) {
	svc := &stubProductService{}
	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	rec := httptest.NewRecorder()
	ProductList(svc, testLogger()).ServeHTTP(rec, req)
	env := expectError(t, rec, http.StatusUnauthorized, "UNAUTHORIZED")
	if env.Error != "please log in first" {
		t.Fatalf("unexpected message %q", env.Error)
	}
}

func TestProductListPassesQuery(t *testing.T) {
	svc := &stubProductService{}
	userID := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/api/products?status=published&search=%20sh%00irt%20&searchType=sku&filterType=presale&sortBy=price&sortOrder=asc&page=2&pageSize=50", nil)
	rec := httptest.NewRecorder()
	ProductList(svc, testLogger()).ServeHTTP(rec, authed(req, userID, nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", rec.Code, rec.Body.String())
	}
	in := svc.listInput
	if in.UserID != userID || in.Status != "published" || in.Search != "shirt" || in.SearchType != "sku" || in.FilterType != "presale" ||
		in.SortBy != "price" || in.SortOrder != "asc" || in.Page != 2 || in.PageSize != 50 {
		t.Fatalf("unexpected list input %+v", in)
	}
}

func TestProductListRejectsOversizedPage(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/products?pageSize=101", nil)
	rec := httptest.NewRecorder()
	ProductList(&stubProductService{}, testLogger()).ServeHTTP(rec, authed(req, uuid.New(), nil))
	expectError(t, rec, http.StatusBadRequest, "VALIDATION_ERROR")
}

func TestProductGet(t *testing.T) {
	userID, productID := uuid.New(), uuid.New()

	t.Run("invalid id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/products/nope", nil)
		rec := httptest.NewRecorder()
		ProductGet(&stubProductService{}, testLogger()).ServeHTTP(rec, authed(req, userID, map[string]string{"id": "nope"}))
		expectError(t, rec, http.StatusBadRequest, "VALIDATION_ERROR")
	})

	t.Run("forbidden", func(t *testing.T) {
		svc := &stubProductService{getErr: pkgerrors.New(pkgerrors.CodeForbidden, "no permission to access this product")}
		req := httptest.NewRequest(http.MethodGet, "/api/products/"+productID.String(), nil)
		rec := httptest.NewRecorder()
		ProductGet(svc, testLogger()).ServeHTTP(rec, authed(req, userID, map[string]string{"id": productID.String()}))
		expectError(t, rec, http.StatusForbidden, "FORBIDDEN")
	})

	t.Run("success", func(t *testing.T) {
		svc := &stubProductService{}
		req := httptest.NewRequest(http.MethodGet, "/api/products/"+productID.String(), nil)
		rec := httptest.NewRecorder()
		ProductGet(svc, testLogger()).ServeHTTP(rec, authed(req, userID, map[string]string{"id": productID.String()}))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 got %d", rec.Code)
		}
		if svc.getArgs != [2]uuid.UUID{userID, productID} {
			t.Fatalf("unexpected ids %v", svc.getArgs)
		}
		if env := decode(t, rec); !env.Success || !strings.Contains(string(env.Data), `"title":"Linen shirt"`) {
			t.Fatalf("unexpected envelope %s", rec.Body.String())
		}
	})
}

func TestProductCreateAnswers200(t *testing.T) {
	body := `{"title":"Shirt","categoryId":"` + uuid.NewString() + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(body))
	rec := httptest.NewRecorder()
	ProductCreate(&stubProductService{allowCreate: true}, testLogger()).ServeHTTP(rec, authed(req, uuid.New(), nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", rec.Code, rec.Body.String())
	}
	if data := string(decode(t, rec).Data); !strings.Contains(data, `"title":"Shirt"`) {
		t.Fatalf("unexpected product payload %s", data)
	}
}

func TestProductCreateSurfacesQuotaMessage(t *testing.T) {
	body := `{"title":"Shirt","categoryId":"` + uuid.NewString() + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(body))
	rec := httptest.NewRecorder()
	ProductCreate(&stubProductService{}, testLogger()).ServeHTTP(rec, authed(req, uuid.New(), nil))
	env := expectError(t, rec, http.StatusBadRequest, "BUSINESS_RULE_VIOLATION")
	if env.Error != "product limit reached (3/3)" {
		t.Fatalf("unexpected message %q", env.Error)
	}
}

func TestProductBatchExportWritesAttachment(t *testing.T) {
	svc := &stubProductService{batchResult: &productsvc.BatchResult{
		Action:         enums.BatchActionExport,
		RequestedCount: 3,
		AffectedCount:  2,
		Export: &productsvc.ExportFile{
			Filename:    "products-20240601093015.csv",
			ContentType: "text/csv; charset=utf-8",
			Body:        []byte("ID,Title\n"),
		},
	}}
	body := `{"action":"export","ids":["` + uuid.NewString() + `"],"format":"csv"}`
	req := httptest.NewRequest(http.MethodPost, "/api/products/batch", strings.NewReader(body))
	rec := httptest.NewRecorder()
	ProductBatch(svc, testLogger()).ServeHTTP(rec, authed(req, uuid.New(), nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Disposition"); got != `attachment; filename=products-20240601093015.csv` {
		t.Fatalf("unexpected disposition %q", got)
	}
	if rec.Header().Get("X-Requested-Count") != "3" || rec.Header().Get("X-Affected-Count") != "2" {
		t.Fatalf("unexpected count headers %v", rec.Header())
	}
	if rec.Body.String() != "ID,Title\n" {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
}

func TestProductBatchMutationUsesEnvelope(t *testing.T) {
	svc := &stubProductService{batchResult: &productsvc.BatchResult{Action: enums.BatchActionOffline, RequestedCount: 2, AffectedCount: 1}}
	body := `{"action":"offline","ids":["` + uuid.NewString() + `","` + uuid.NewString() + `"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/products/batch", strings.NewReader(body))
	rec := httptest.NewRecorder()
	ProductBatch(svc, testLogger()).ServeHTTP(rec, authed(req, uuid.New(), nil))

	env := decode(t, rec)
	if !env.Success || string(env.Data) != `{"action":"offline","requestedCount":2,"affectedCount":1}` {
		t.Fatalf("unexpected envelope %s", rec.Body.String())
	}
}

func TestProductDelete(t *testing.T) {
	svc := &stubProductService{}
	id := uuid.New()
	req := httptest.NewRequest(http.MethodDelete, "/api/products/"+id.String(), nil)
	rec := httptest.NewRecorder()
	ProductDelete(svc, testLogger()).ServeHTTP(rec, authed(req, uuid.New(), map[string]string{"id": id.String()}))
	if rec.Code != http.StatusOK || !svc.deleted {
		t.Fatalf("expected delete to succeed, got %d", rec.Code)
	}
}
