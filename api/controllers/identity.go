package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/sellercenter-backend/api/middleware"
	"github.com/angelmondragon/sellercenter-backend/api/validators"
	pkgerrors "github.com/angelmondragon/sellercenter-backend/pkg/errors"
)

const maxPageNumber = 1 << 20

// currentUserID returns the session user or an UNAUTHORIZED error.
func currentUserID(r *http.Request) (uuid.UUID, error) {
	id := middleware.UserIDFromContext(r.Context())
	if id == uuid.Nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "please log in first")
	}
	return id, nil
}

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	return validators.ParsePathUUID(chi.URLParam(r, name), name)
}

func unavailable(name string) error {
	return pkgerrors.New(pkgerrors.CodeInternal, name+" unavailable")
}
