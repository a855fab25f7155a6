package product

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/sellercenter-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/sellercenter-backend/pkg/errors"
)

// MaxBatchIDs caps one batch request.
const MaxBatchIDs = 500

// BatchRequest is the body of POST /api/products/batch.
type BatchRequest struct {
	Action string      `json:"action" validate:"required"`
	IDs    []uuid.UUID `json:"ids" validate:"required,min=1,max=500"`
	Format string      `json:"format"`
	Locale string      `json:"locale" validate:"omitempty,oneof=zh en"`
}

// BatchResult reports partial application through the two counts. Export is
// set only for the export action.
type BatchResult struct {
	Action         enums.BatchAction `json:"action"`
	RequestedCount int               `json:"requestedCount"`
	AffectedCount  int               `json:"affectedCount"`
	Export         *ExportFile       `json:"-"`
}

// Batch applies action to the caller's live rows among req.IDs. Ids outside
// that set are skipped silently.
func (s *service) Batch(ctx context.Context, userID uuid.UUID, req BatchRequest) (*BatchResult, error) {
	action, err := enums.ParseBatchAction(strings.TrimSpace(req.Action))
	if err != nil {
		return nil, validationErr("action", "must be one of offline, online, delete, export")
	}
	ids := dedupeIDs(req.IDs)
	if len(ids) == 0 {
		return nil, validationErr("ids", "must contain at least one product id")
	}
	if len(ids) > MaxBatchIDs {
		return nil, validationErr("ids", "must contain at most 500 product ids")
	}

	result := &BatchResult{Action: action, RequestedCount: len(ids)}
	switch action {
	case enums.BatchActionOffline:
		result.AffectedCount, err = s.transition(ctx, userID, ids, enums.ProductStatusPublished, enums.ProductStatusOffline)
	case enums.BatchActionOnline:
		result.AffectedCount, err = s.transition(ctx, userID, ids, enums.ProductStatusOffline, enums.ProductStatusPublished)
	case enums.BatchActionDelete:
		err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
			n, err := s.repo.WithTx(tx).SoftDeleteMany(ctx, userID, ids)
			result.AffectedCount = int(n)
			return err
		})
		if err != nil {
			err = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "batch delete")
		}
	case enums.BatchActionExport:
		format, ferr := enums.ParseExportFormat(strings.ToLower(strings.TrimSpace(req.Format)))
		if ferr != nil {
			return nil, validationErr("format", "must be xlsx or csv")
		}
		result.Export, result.AffectedCount, err = s.export(ctx, userID, ids, format, req.Locale)
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) transition(ctx context.Context, userID uuid.UUID, ids []uuid.UUID, from, to enums.ProductStatus) (int, error) {
	var affected int64
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		n, err := s.repo.WithTx(tx).TransitionStatus(ctx, userID, ids, from, to)
		affected = n
		return err
	}); err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "batch status change")
	}
	return int(affected), nil
}
