package stats

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/angelmondragon/sellercenter-backend/internal/repo"
	"github.com/angelmondragon/sellercenter-backend/pkg/db/models"
	"github.com/angelmondragon/sellercenter-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/sellercenter-backend/pkg/errors"
)

type Limits struct {
	ProductLimit int `json:"productLimit"`
	DraftLimit   int `json:"draftLimit"`
}

// Summary is the dashboard card set. Counts are taken independently and may
// skew under concurrent writes.
type Summary struct {
	Total     int64  `json:"total"`
	Draft     int64  `json:"draft"`
	Reviewing int64  `json:"reviewing"`
	Published int64  `json:"published"`
	Rejected  int64  `json:"rejected"`
	Offline   int64  `json:"offline"`
	Abnormal  int64  `json:"abnormal"`
	Limits    Limits `json:"limits"`
}

type productCounter interface {
	CountActive(ctx context.Context, userID uuid.UUID, status *enums.ProductStatus) (int64, error)
	CountNeedsOptimization(ctx context.Context, userID uuid.UUID) (int64, error)
}

type userLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type Service interface {
	Summary(ctx context.Context, userID uuid.UUID) (*Summary, error)
}

type service struct {
	products productCounter
	users    userLoader
}

func NewService(products productCounter, users userLoader) (Service, error) {
	if products == nil {
		return nil, fmt.Errorf("product counter required")
	}
	if users == nil {
		return nil, fmt.Errorf("user loader required")
	}
	return &service{products: products, users: users}, nil
}

func (s *service) Summary(ctx context.Context, userID uuid.UUID) (*Summary, error) {
	out := &Summary{}
	g, gctx := errgroup.WithContext(ctx)

	byStatus := map[enums.ProductStatus]*int64{
		enums.ProductStatusDraft:     &out.Draft,
		enums.ProductStatusReviewing: &out.Reviewing,
		enums.ProductStatusPublished: &out.Published,
		enums.ProductStatusRejected:  &out.Rejected,
		enums.ProductStatusOffline:   &out.Offline,
	}
	for status, dst := range byStatus {
		status, dst := status, dst
		g.Go(func() error {
			n, err := s.products.CountActive(gctx, userID, &status)
			*dst = n
			return err
		})
	}
	g.Go(func() error {
		n, err := s.products.CountActive(gctx, userID, nil)
		out.Total = n
		return err
	})
	g.Go(func() error {
		n, err := s.products.CountNeedsOptimization(gctx, userID)
		out.Abnormal = n
		return err
	})
	g.Go(func() error {
		user, err := s.users.FindByID(gctx, userID)
		if err != nil {
			return err
		}
		out.Limits = Limits{ProductLimit: user.ProductLimit, DraftLimit: user.DraftLimit}
		return nil
	})

	if err := g.Wait(); err != nil {
		if repo.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "please log in first")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "aggregate product stats")
	}
	return out, nil
}
