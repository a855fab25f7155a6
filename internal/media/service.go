package media

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/angelmondragon/sellercenter-backend/internal/repo"
	"github.com/angelmondragon/sellercenter-backend/pkg/config"
	"github.com/angelmondragon/sellercenter-backend/pkg/db"
	pkgerrors "github.com/angelmondragon/sellercenter-backend/pkg/errors"
	"github.com/angelmondragon/sellercenter-backend/pkg/logger"
	"github.com/angelmondragon/sellercenter-backend/pkg/metrics"
	"github.com/angelmondragon/sellercenter-backend/pkg/types"
)

const maxFolderLength = 50

type fileStore interface {
	Put(ctx context.Context, key string, r io.Reader) (int64, error)
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// Service exposes the media library.
type Service interface {
	List(ctx context.Context, input ListInput) (*types.Page[MediaDTO], error)
	Upload(ctx context.Context, input UploadInput) (*UploadResult, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	BulkDelete(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (*BulkDeleteResult, error)
	Folders(ctx context.Context, userID uuid.UUID) ([]FolderDTO, error)
	RenameFolder(ctx context.Context, userID uuid.UUID, req RenameFolderRequest) (*FolderChangeResult, error)
	DeleteFolder(ctx context.Context, userID uuid.UUID, name string) (*FolderChangeResult, error)
	Move(ctx context.Context, userID uuid.UUID, req MoveRequest) (*FolderChangeResult, error)
}

type ServiceParams struct {
	Repo    *Repository
	DB      *db.Client
	Store   fileStore
	Config  config.MediaConfig
	Metrics *metrics.MediaMetrics
	Logger  *logger.Logger
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	store    fileStore
	cfg      config.MediaConfig
	metrics  *metrics.MediaMetrics
	logg     *logger.Logger
	now      func() time.Time
}

// NewService constructs a media service writing files through store.
func NewService(p ServiceParams) (Service, error) {
	if p.Repo == nil {
		return nil, fmt.Errorf("media repository required")
	}
	if p.DB == nil {
		return nil, fmt.Errorf("db client required")
	}
	if p.Store == nil {
		return nil, fmt.Errorf("file store required")
	}
	if p.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:     p.Repo,
		dbClient: p.DB,
		store:    p.Store,
		cfg:      p.Config,
		metrics:  p.Metrics,
		logg:     p.Logger,
		now:      time.Now,
	}, nil
}

func (s *service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if repo.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "media not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load media")
	}
	if m.UserID != userID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "no permission to delete this media")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete media")
	}
	if err := s.store.Delete(ctx, m.Path); err != nil {
		s.logg.Error(s.logg.WithField(ctx, "media_id", id.String()), "media.delete.file", err)
	}
	return nil
}

// BulkDelete removes the caller's rows among ids, then their files. File
// failures are logged together and do not fail the request.
func (s *service) BulkDelete(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (*BulkDeleteResult, error) {
	ids, err := boundedIDs(ids)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.FindOwned(ctx, userID, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load media")
	}
	owned := make([]uuid.UUID, len(rows))
	for i := range rows {
		owned[i] = rows[i].ID
	}

	var deleted int64
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		n, err := s.repo.WithTx(tx).DeleteByIDs(ctx, owned)
		deleted = n
		return err
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete media")
	}

	var fileErrs error
	for i := range rows {
		fileErrs = multierr.Append(fileErrs, s.store.Delete(ctx, rows[i].Path))
	}
	if fileErrs != nil {
		ctx = s.logg.WithField(ctx, "failed_files", len(multierr.Errors(fileErrs)))
		s.logg.Error(ctx, "media.bulk_delete.files", fileErrs)
	}
	return &BulkDeleteResult{RequestedCount: len(ids), DeletedCount: int(deleted)}, nil
}

func boundedIDs(ids []uuid.UUID) ([]uuid.UUID, error) {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	if len(out) == 0 {
		return nil, invalid("ids", "must contain at least one media id")
	}
	if len(out) > MaxBulkIDs {
		return nil, invalid("ids", fmt.Sprintf("must contain at most %d media ids", MaxBulkIDs))
	}
	return out, nil
}

// normalizeFolder maps "" and "ungrouped" to the empty folder.
func normalizeFolder(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" || strings.EqualFold(name, UngroupedFolder) {
		return "", nil
	}
	if utf8.RuneCountInString(name) > maxFolderLength {
		return "", invalid("folder", fmt.Sprintf("must be at most %d characters", maxFolderLength))
	}
	return name, nil
}

func invalid(field, msg string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, field+" "+msg).
		WithDetails(map[string]any{"field": field})
}
