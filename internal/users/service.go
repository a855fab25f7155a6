package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/sellercenter-backend/pkg/config"
	"github.com/angelmondragon/sellercenter-backend/pkg/db"
	"github.com/angelmondragon/sellercenter-backend/pkg/db/models"
	"github.com/angelmondragon/sellercenter-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/sellercenter-backend/pkg/errors"
	"github.com/angelmondragon/sellercenter-backend/pkg/pagination"
	"github.com/angelmondragon/sellercenter-backend/pkg/types"
)

const tempPasswordLength = 12

// Service covers account provisioning and quota management for teachers and admins.
type Service interface {
	Create(ctx context.Context, actorRole enums.UserRole, req CreateUserRequest) (*CreateUserResult, error)
	List(ctx context.Context, params pagination.Params) (*types.Page[UserDTO], error)
	UpdateLimits(ctx context.Context, userID uuid.UUID, req UpdateLimitsRequest) (*UserDTO, error)
	Get(ctx context.Context, userID uuid.UUID) (*UserDTO, error)
}

type passwordHasher interface {
	Hash(password string) (string, error)
}

type service struct {
	repo   *Repository
	hasher passwordHasher
	quota  config.QuotaConfig
	genPwd func(int) (string, error)
}

// NewService wires the users service. genPassword produces temporary passwords.
func NewService(repo *Repository, hasher passwordHasher, quota config.QuotaConfig, genPassword func(int) (string, error)) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if hasher == nil {
		return nil, fmt.Errorf("password hasher required")
	}
	if genPassword == nil {
		return nil, fmt.Errorf("password generator required")
	}
	return &service{repo: repo, hasher: hasher, quota: quota, genPwd: genPassword}, nil
}

func (s *service) Create(ctx context.Context, actorRole enums.UserRole, req CreateUserRequest) (*CreateUserResult, error) {
	role := enums.UserRoleStudent
	if strings.TrimSpace(req.Role) != "" {
		parsed, err := enums.ParseUserRole(strings.TrimSpace(req.Role))
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "role must be student or teacher")
		}
		role = parsed
	}
	if !actorRole.CanManageUsers() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "insufficient role")
	}
	if role == enums.UserRoleAdmin || (role == enums.UserRoleTeacher && actorRole != enums.UserRoleAdmin) {
		return nil, pkgerrors.Newf(pkgerrors.CodeForbidden, "%s accounts cannot create %s accounts", actorRole, role)
	}

	password := req.Password
	var temp string
	if password == "" {
		generated, err := s.genPwd(tempPasswordLength)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate password")
		}
		password, temp = generated, generated
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	dto := CreateUserDTO{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: hash,
		Role:         role,
		ProductLimit: valueOr(req.ProductLimit, s.quota.DefaultProductLimit),
		DraftLimit:   valueOr(req.DraftLimit, s.quota.DefaultDraftLimit),
	}
	user, err := s.repo.Create(ctx, dto)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeBusinessRule, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
	}
	return &CreateUserResult{User: FromModel(user), TempPassword: temp}, nil
}

func (s *service) List(ctx context.Context, params pagination.Params) (*types.Page[UserDTO], error) {
	rows, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list users")
	}
	items := make([]UserDTO, 0, len(rows))
	for i := range rows {
		items = append(items, *FromModel(&rows[i]))
	}
	return &types.Page[UserDTO]{
		Items:      items,
		Total:      total,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: params.TotalPages(total),
	}, nil
}

func (s *service) UpdateLimits(ctx context.Context, userID uuid.UUID, req UpdateLimitsRequest) (*UserDTO, error) {
	if req.ProductLimit == nil || req.DraftLimit == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "productLimit and draftLimit are required")
	}
	ok, err := s.repo.UpdateLimits(ctx, userID, *req.ProductLimit, *req.DraftLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update limits")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	return s.Get(ctx, userID)
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (*UserDTO, error) {
	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return FromModel(user), nil
}

func (s *service) load(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	return user, nil
}

func valueOr(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}
