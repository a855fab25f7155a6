package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shirou/gopsutil/v3/disk"

	"github.com/angelmondragon/sellercenter-backend/pkg/config"
)

type pingFunc func(context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

type fixedUsage struct{ stat *disk.UsageStat }

func (f fixedUsage) Usage(context.Context) (*disk.UsageStat, error) { return f.stat, nil }

func TestHealthReady(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "dev"}}
	ok := pingFunc(func(context.Context) error { return nil })
	down := pingFunc(func(context.Context) error { return errors.New("connection refused") })

	t.Run("ready", func(t *testing.T) {
		rec := httptest.NewRecorder()
		uploads := fixedUsage{stat: &disk.UsageStat{Path: "/srv/uploads", Free: 1024, UsedPercent: 12.5}}
		HealthReady(cfg, testLogger(), ok, ok, uploads).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 got %d", rec.Code)
		}
		if body := rec.Body.String(); !strings.Contains(body, `"freeBytes":1024`) || !strings.Contains(body, `"status":"ready"`) {
			t.Fatalf("unexpected body %s", body)
		}
		if rec.Header().Get("X-SellerCenter-Env") != "dev" {
			t.Fatalf("missing env header")
		}
	})

	t.Run("redis down", func(t *testing.T) {
		rec := httptest.NewRecorder()
		HealthReady(cfg, testLogger(), ok, down, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
		env := expectError(t, rec, http.StatusInternalServerError, "INTERNAL_ERROR")
		if strings.Contains(env.Error, "connection refused") {
			t.Fatalf("internal detail leaked: %q", env.Error)
		}
	})
}
