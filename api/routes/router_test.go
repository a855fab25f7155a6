package routes

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shirou/gopsutil/v3/disk"

	"github.com/angelmondragon/sellercenter-backend/internal/media"
	"github.com/angelmondragon/sellercenter-backend/internal/stats"
	"github.com/angelmondragon/sellercenter-backend/internal/users"
	pkgAuth "github.com/angelmondragon/sellercenter-backend/pkg/auth"
	"github.com/angelmondragon/sellercenter-backend/pkg/auth/session"
	"github.com/angelmondragon/sellercenter-backend/pkg/config"
	"github.com/angelmondragon/sellercenter-backend/pkg/enums"
	"github.com/angelmondragon/sellercenter-backend/pkg/logger"
	"github.com/angelmondragon/sellercenter-backend/pkg/metrics"
	"github.com/angelmondragon/sellercenter-backend/pkg/pagination"
	"github.com/angelmondragon/sellercenter-backend/pkg/types"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

type stubSessions struct{}

func (stubSessions) HasSession(context.Context, string) (bool, error) { return true, nil }

type stubStats struct{}

func (stubStats) Summary(_ context.Context, userID uuid.UUID) (*stats.Summary, error) {
	return &stats.Summary{Total: 7}, nil
}

type stubUsers struct {
	users.Service
}

func (stubUsers) List(_ context.Context, p pagination.Params) (*types.Page[users.UserDTO], error) {
	return &types.Page[users.UserDTO]{Items: []users.UserDTO{}, Page: p.Page, PageSize: p.PageSize}, nil
}

type stubMedia struct {
	media.Service
	uploads int
	moves   []media.MoveRequest
}

func (s *stubMedia) Upload(_ context.Context, in media.UploadInput) (*media.UploadResult, error) {
	s.uploads++
	return &media.UploadResult{MediaDTO: media.MediaDTO{ID: uuid.New(), OriginalName: in.FileName}}, nil
}

func (s *stubMedia) Move(_ context.Context, _ uuid.UUID, req media.MoveRequest) (*media.FolderChangeResult, error) {
	s.moves = append(s.moves, req)
	return &media.FolderChangeResult{}, nil
}

type tempVolume struct{ root string }

func (v tempVolume) Root() string { return v.root }

func (v tempVolume) Usage(context.Context) (*disk.UsageStat, error) {
	return &disk.UsageStat{Path: v.root}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:                 "secret",
			Issuer:                 "issuer",
			ExpirationMinutes:      60,
			RefreshTokenTTLMinutes: 120,
		},
		Storage: config.StorageConfig{PublicBaseURL: "/uploads"},
		Media:   config.MediaConfig{ImageMaxMB: 5, VideoMaxMB: 100},
	}
}

func newTestRouter(t *testing.T, cfg *config.Config) (http.Handler, string) {
	t.Helper()
	root := t.TempDir()
	reg := prometheus.NewRegistry()
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(Dependencies{
		Config:      cfg,
		Logger:      logg,
		DB:          stubPinger{},
		Redis:       stubPinger{},
		Sessions:    stubSessions{},
		Uploads:     tempVolume{root: root},
		HTTPMetrics: metrics.NewHTTPMetrics(reg),
		Gatherer:    reg,
		Stats:       stubStats{},
		Users:       stubUsers{},
	}), root
}

func bearer(t *testing.T, cfg *config.Config, role enums.UserRole) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   role,
		JTI:    session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return "Bearer " + token
}

func serve(router http.Handler, method, target, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthRoutesArePublic(t *testing.T) {
	router, _ := newTestRouter(t, testConfig())
	for _, path := range []string{"/health/live", "/health/ready"} {
		if rec := serve(router, http.MethodGet, path, ""); rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d body=%s", path, rec.Code, rec.Body.String())
		}
	}
}

func TestAPIRoutesRequireSession(t *testing.T) {
	router, _ := newTestRouter(t, testConfig())
	for _, path := range []string{"/api/products", "/api/products/stats", "/api/media", "/api/categories", "/api/product-groups", "/api/auth/session"} {
		rec := serve(router, http.MethodGet, path, "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401 got %d", path, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `"code":"UNAUTHORIZED"`) {
			t.Fatalf("%s: unexpected body %s", path, rec.Body.String())
		}
	}
}

func TestStatsRouteWinsOverProductID(t *testing.T) {
	cfg := testConfig()
	router, _ := newTestRouter(t, cfg)
	rec := serve(router, http.MethodGet, "/api/products/stats", bearer(t, cfg, enums.UserRoleStudent))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"total":7`) {
		t.Fatalf("expected stats payload, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestAdminUsersRequireTeacherOrAdmin(t *testing.T) {
	cfg := testConfig()
	router, _ := newTestRouter(t, cfg)

	if rec := serve(router, http.MethodGet, "/api/admin/users", bearer(t, cfg, enums.UserRoleStudent)); rec.Code != http.StatusForbidden {
		t.Fatalf("student: expected 403 got %d", rec.Code)
	}
	for _, role := range []enums.UserRole{enums.UserRoleTeacher, enums.UserRoleAdmin} {
		if rec := serve(router, http.MethodGet, "/api/admin/users?pageSize=5", bearer(t, cfg, role)); rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d body=%s", role, rec.Code, rec.Body.String())
		}
	}
}

func TestMissingServiceAnswersInternal(t *testing.T) {
	cfg := testConfig()
	router, _ := newTestRouter(t, cfg)
	rec := serve(router, http.MethodGet, "/api/product-groups", bearer(t, cfg, enums.UserRoleStudent))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", rec.Code)
	}
}

func TestUploadsServedWithoutListing(t *testing.T) {
	router, root := newTestRouter(t, testConfig())
	dir := filepath.Join(root, "media", "u1")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "logo.jpg"), []byte("jpeg-bytes"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	rec := serve(router, http.MethodGet, "/uploads/media/u1/logo.jpg", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "jpeg-bytes" {
		t.Fatalf("expected file, got %d %q", rec.Code, rec.Body.String())
	}
	if rec := serve(router, http.MethodGet, "/uploads/media/u1/", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected listing to be hidden, got %d", rec.Code)
	}
}

func TestMetricsEndpointExposesHTTPCounters(t *testing.T) {
	router, _ := newTestRouter(t, testConfig())
	serve(router, http.MethodGet, "/health/live", "")
	rec := serve(router, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "sellercenter_http_requests_total") {
		t.Fatalf("expected http counters, got %d", rec.Code)
	}
}

func TestMaxUploadBytes(t *testing.T) {
	if got := maxUploadBytes(config.MediaConfig{ImageMaxMB: 5, VideoMaxMB: 100}); got != 100<<20 {
		t.Fatalf("unexpected limit %d", got)
	}
	if got := maxUploadBytes(config.MediaConfig{ImageMaxMB: 8, VideoMaxMB: 2}); got != 8<<20 {
		t.Fatalf("unexpected limit %d", got)
	}
}

func TestMediaCreateAliases(t *testing.T) {
	cfg := testConfig()
	svc := &stubMedia{}
	reg := prometheus.NewRegistry()
	router := NewRouter(Dependencies{
		Config:      cfg,
		Logger:      logger.New(logger.Options{ServiceName: "test-routing", Output: io.Discard}),
		Sessions:    stubSessions{},
		Uploads:     tempVolume{root: t.TempDir()},
		HTTPMetrics: metrics.NewHTTPMetrics(reg),
		Gatherer:    reg,
		Media:       svc,
	})
	auth := bearer(t, cfg, enums.UserRoleStudent)

	for _, path := range []string{"/api/media", "/api/media/upload"} {
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		part, err := mw.CreateFormFile("file", "logo.png")
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		if _, err := part.Write([]byte("png")); err != nil {
			t.Fatalf("write part: %v", err)
		}
		if err := mw.Close(); err != nil {
			t.Fatalf("close writer: %v", err)
		}
		req := httptest.NewRequest(http.MethodPost, path, &body)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set("Authorization", auth)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d body=%s", path, rec.Code, rec.Body.String())
		}
	}
	if svc.uploads != 2 {
		t.Fatalf("expected both upload paths to reach the service, got %d", svc.uploads)
	}

	id := uuid.New()
	for _, path := range []string{"/api/media/folders", "/api/media/move"} {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{"ids":["`+id.String()+`"],"folder":"banners"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", auth)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d body=%s", path, rec.Code, rec.Body.String())
		}
	}
	if len(svc.moves) != 2 || svc.moves[0].Folder != "banners" || svc.moves[0].IDs[0] != id {
		t.Fatalf("unexpected moves %+v", svc.moves)
	}
}
