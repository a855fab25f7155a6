package groups

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/sellercenter-backend/internal/repo"
	"github.com/angelmondragon/sellercenter-backend/pkg/db"
	"github.com/angelmondragon/sellercenter-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/sellercenter-backend/pkg/errors"
)

var errDuplicateName = pkgerrors.New(pkgerrors.CodeBusinessRule, "group name already exists")

type Service interface {
	List(ctx context.Context, userID uuid.UUID) ([]GroupDTO, error)
	Create(ctx context.Context, userID uuid.UUID, req CreateGroupRequest) (*GroupDTO, error)
	Delete(ctx context.Context, userID, groupID uuid.UUID) error
}

type service struct {
	repo     *Repository
	dbClient *db.Client
}

func NewService(r *Repository, dbClient *db.Client) (Service, error) {
	if r == nil {
		return nil, fmt.Errorf("group repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: r, dbClient: dbClient}, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]GroupDTO, error) {
	rows, err := s.repo.ListWithCounts(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list product groups")
	}
	out := make([]GroupDTO, len(rows))
	for i := range rows {
		out[i] = fromModel(&rows[i].ProductGroup, rows[i].ProductCount)
	}
	return out, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, req CreateGroupRequest) (*GroupDTO, error) {
	name := strings.TrimSpace(req.Name)
	if n := utf8.RuneCountInString(name); n == 0 || n > MaxNameLength {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "name must be between 1 and %d characters", MaxNameLength).
			WithDetails(map[string]any{"field": "name"})
	}

	exists, err := s.repo.ExistsByName(ctx, userID, name)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check group name")
	}
	if exists {
		return nil, errDuplicateName
	}

	group := &models.ProductGroup{UserID: userID, Name: name, Description: strings.TrimSpace(req.Description)}
	if err := s.repo.Create(ctx, group); err != nil {
		// a concurrent create can still win the race to the unique index
		if db.IsUniqueViolation(err, uniqueNameIndex) {
			return nil, errDuplicateName
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product group")
	}
	dto := fromModel(group, 0)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, userID, groupID uuid.UUID) error {
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		group, err := txRepo.FindByID(ctx, groupID)
		if err != nil {
			if repo.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product group not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product group")
		}
		if group.UserID != userID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "no permission to delete this group")
		}
		if err := txRepo.Delete(ctx, groupID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete product group")
		}
		return nil
	})
	return pkgerrors.Internal(err, "delete product group")
}
