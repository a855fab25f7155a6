package controllers

import (
	"net/http"

	"github.com/angelmondragon/sellercenter-backend/api/responses"
	"github.com/angelmondragon/sellercenter-backend/api/validators"
	"github.com/angelmondragon/sellercenter-backend/internal/categories"
	pkgerrors "github.com/angelmondragon/sellercenter-backend/pkg/errors"
	"github.com/angelmondragon/sellercenter-backend/pkg/logger"
)

// CategoryChildren lists the children of parentId, or the roots when it is absent.
func CategoryChildren(svc categories.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("category service"))
			return
		}
		parentID, err := validators.ParseQueryUUID(r, "parentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		nodes, err := svc.Children(r.Context(), parentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, nodes)
	}
}

// CategoryPath returns the chain from the root down to id.
func CategoryPath(svc categories.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("category service"))
			return
		}
		id, err := validators.ParseQueryUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if id == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "id is required").
				WithDetails(map[string]any{"field": "id"}))
			return
		}

		path, err := svc.Path(r.Context(), *id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, path)
	}
}
