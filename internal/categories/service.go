package categories

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/angelmondragon/sellercenter-backend/internal/repo"
	"github.com/angelmondragon/sellercenter-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/sellercenter-backend/pkg/errors"
	"github.com/angelmondragon/sellercenter-backend/pkg/logger"
)

// MaxDepth bounds path traversal; deeper chains are treated as corrupt.
const MaxDepth = 16

type Service interface {
	Path(ctx context.Context, id uuid.UUID) ([]CategoryDTO, error)
	Children(ctx context.Context, parentID *uuid.UUID) ([]CategoryNode, error)
	Create(ctx context.Context, req CreateCategoryRequest) (*CategoryDTO, error)
	// Ensure returns the named child of parentID, creating it when missing.
	Ensure(ctx context.Context, req CreateCategoryRequest) (*CategoryDTO, bool, error)
}

type service struct {
	repo *Repository
	logg *logger.Logger
}

func NewService(r *Repository, logg *logger.Logger) (Service, error) {
	if r == nil {
		return nil, fmt.Errorf("category repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: r, logg: logg}, nil
}

// Path walks parent links from id up to the root and returns [root, ..., id].
func (s *service) Path(ctx context.Context, id uuid.UUID) ([]CategoryDTO, error) {
	leaf, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load category")
	}

	chain := []CategoryDTO{FromModel(leaf)}
	visited := map[uuid.UUID]struct{}{leaf.ID: {}}
	current := leaf
	for current.ParentID != nil {
		parentID := *current.ParentID
		if _, seen := visited[parentID]; seen {
			return nil, s.corrupt(ctx, id, "category tree contains a cycle")
		}
		if len(chain) >= MaxDepth {
			return nil, s.corrupt(ctx, id, "category tree exceeds maximum depth")
		}
		parent, err := s.repo.FindByID(ctx, parentID)
		if err != nil {
			if repo.IsNotFound(err) {
				return nil, s.corrupt(ctx, id, "category parent is missing")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load parent category")
		}
		visited[parent.ID] = struct{}{}
		chain = append(chain, FromModel(parent))
		current = parent
	}

	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

func (s *service) corrupt(ctx context.Context, id uuid.UUID, msg string) error {
	err := pkgerrors.New(pkgerrors.CodeInternal, msg)
	ctx = s.logg.WithField(ctx, "category_id", id.String())
	s.logg.Error(ctx, "categories.path.corrupt", err)
	return err
}

func (s *service) Children(ctx context.Context, parentID *uuid.UUID) ([]CategoryNode, error) {
	rows, err := s.repo.Children(ctx, parentID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list categories")
	}
	ids := make([]uuid.UUID, len(rows))
	for i := range rows {
		ids[i] = rows[i].ID
	}
	parents, err := s.repo.ParentsWithChildren(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list categories")
	}
	nodes := make([]CategoryNode, len(rows))
	for i := range rows {
		nodes[i] = CategoryNode{CategoryDTO: FromModel(&rows[i]), HasChildren: parents[rows[i].ID]}
	}
	return nodes, nil
}

func (s *service) Create(ctx context.Context, req CreateCategoryRequest) (*CategoryDTO, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required").
			WithDetails(map[string]any{"field": "name"})
	}
	row := &models.Category{
		Name:      name,
		NameEn:    strings.TrimSpace(req.NameEn),
		Level:     1,
		SortOrder: req.SortOrder,
	}
	if req.ParentID != nil {
		parent, err := s.repo.FindByID(ctx, *req.ParentID)
		if err != nil {
			if repo.IsNotFound(err) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "parentId does not exist").
					WithDetails(map[string]any{"field": "parentId"})
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load parent category")
		}
		if parent.Level >= MaxDepth {
			return nil, pkgerrors.New(pkgerrors.CodeBusinessRule, "category tree is too deep")
		}
		row.ParentID = &parent.ID
		row.Level = parent.Level + 1
	}
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create category")
	}
	dto := FromModel(row)
	return &dto, nil
}

func (s *service) Ensure(ctx context.Context, req CreateCategoryRequest) (*CategoryDTO, bool, error) {
	existing, err := s.repo.FindByName(ctx, req.ParentID, strings.TrimSpace(req.Name))
	switch {
	case err == nil:
		dto := FromModel(existing)
		return &dto, false, nil
	case !repo.IsNotFound(err):
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find category")
	}
	dto, err := s.Create(ctx, req)
	if err != nil {
		return nil, false, err
	}
	return dto, true, nil
}
