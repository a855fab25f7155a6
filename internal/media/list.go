package media

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/sellercenter-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/sellercenter-backend/pkg/errors"
	"github.com/angelmondragon/sellercenter-backend/pkg/pagination"
	"github.com/angelmondragon/sellercenter-backend/pkg/types"
)

// ListInput configures media listing filters and pagination. Dates are whole
// UTC days; EndDate is inclusive.
type ListInput struct {
	UserID    uuid.UUID
	Folder    string
	Type      string
	StartDate *time.Time
	EndDate   *time.Time
	Search    string
	Page      int
	PageSize  int
}

func (s *service) List(ctx context.Context, in ListInput) (*types.Page[MediaDTO], error) {
	params := pagination.Normalize(in.Page, in.PageSize)
	if !params.Valid() {
		return nil, invalid("pageSize", "must be between 1 and 100")
	}

	q := listQuery{
		userID: in.UserID,
		search: strings.ToLower(strings.TrimSpace(in.Search)),
		offset: params.Offset(),
		limit:  params.PageSize,
	}
	if raw := strings.TrimSpace(in.Folder); raw != "" {
		folder, err := normalizeFolder(raw)
		if err != nil {
			return nil, err
		}
		q.folder = &folder
	}
	if raw := strings.TrimSpace(in.Type); raw != "" && raw != "all" {
		t, err := enums.ParseMediaType(raw)
		if err != nil {
			return nil, invalid("type", "must be image or video")
		}
		q.mediaType = &t
	}
	if in.StartDate != nil {
		from := in.StartDate.UTC()
		q.from = &from
	}
	if in.EndDate != nil {
		until := in.EndDate.UTC().AddDate(0, 0, 1)
		q.until = &until
	}
	if q.from != nil && q.until != nil && !q.from.Before(*q.until) {
		return nil, invalid("endDate", "must not be before startDate")
	}

	rows, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list media")
	}
	items := make([]MediaDTO, len(rows))
	for i := range rows {
		items[i] = FromModel(&rows[i])
	}
	return &types.Page[MediaDTO]{
		Items:      items,
		Total:      total,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: params.TotalPages(total),
	}, nil
}
