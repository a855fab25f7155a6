package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/sellercenter-backend/api/middleware"
	"github.com/angelmondragon/sellercenter-backend/pkg/enums"
	"github.com/angelmondragon/sellercenter-backend/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
}

// authed attaches a session for userID and the given path params.
func authed(req *http.Request, userID uuid.UUID, params map[string]string) *http.Request {
	ctx := middleware.WithIdentity(req.Context(), userID, enums.UserRoleStudent, "sess-1")
	routeCtx := chi.NewRouteContext()
	for k, v := range params {
		routeCtx.URLParams.Add(k, v)
	}
	ctx = context.WithValue(ctx, chi.RouteCtxKey, routeCtx)
	return req.WithContext(ctx)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v body=%s", err, rec.Body.String())
	}
	return env
}

func expectError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) envelope {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("expected status %d got %d body=%s", status, rec.Code, rec.Body.String())
	}
	env := decode(t, rec)
	if env.Success || env.Code != code {
		t.Fatalf("expected error code %s got %+v", code, env)
	}
	return env
}
