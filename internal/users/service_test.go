package users

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/sellercenter-backend/pkg/config"
	"github.com/angelmondragon/sellercenter-backend/pkg/db/dbtest"
	"github.com/angelmondragon/sellercenter-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/sellercenter-backend/pkg/errors"
	"github.com/angelmondragon/sellercenter-backend/pkg/pagination"
)

type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func newTestService(t *testing.T) (Service, *Repository) {
	t.Helper()
	client := dbtest.New(t)
	repo := NewRepository(client.DB())
	svc, err := NewService(repo, plainHasher{}, config.QuotaConfig{DefaultProductLimit: 100, DefaultDraftLimit: 20},
		func(int) (string, error) { return "Temp-Pass-123", nil })
	require.NoError(t, err)
	return svc, repo
}

func intPtr(v int) *int { return &v }

func TestCreateAppliesDefaultLimitsAndTempPassword(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	res, err := svc.Create(ctx, enums.UserRoleTeacher, CreateUserRequest{Email: " Student1@Example.com ", Name: "Student One"})
	require.NoError(t, err)
	assert.Equal(t, "student1@example.com", res.User.Email)
	assert.Equal(t, enums.UserRoleStudent, res.User.Role)
	assert.Equal(t, 100, res.User.ProductLimit)
	assert.Equal(t, 20, res.User.DraftLimit)
	assert.Equal(t, "Temp-Pass-123", res.TempPassword)

	stored, err := repo.FindByEmail(ctx, "student1@example.com")
	require.NoError(t, err)
	assert.Equal(t, "hashed:Temp-Pass-123", stored.PasswordHash)
	assert.True(t, stored.IsActive)
}

func TestCreateDuplicateEmailIsBusinessRule(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	req := CreateUserRequest{Email: "dup@example.com", Name: "Dup", Password: "longenough"}

	_, err := svc.Create(ctx, enums.UserRoleAdmin, req)
	require.NoError(t, err)
	_, err = svc.Create(ctx, enums.UserRoleAdmin, req)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeBusinessRule), "got %v", err)
}

func TestCreateRoleRules(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, enums.UserRoleTeacher, CreateUserRequest{Email: "t2@example.com", Name: "T", Role: "teacher"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))

	_, err = svc.Create(ctx, enums.UserRoleStudent, CreateUserRequest{Email: "s@example.com", Name: "S"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))

	res, err := svc.Create(ctx, enums.UserRoleAdmin, CreateUserRequest{Email: "t3@example.com", Name: "T", Role: "teacher", ProductLimit: intPtr(0)})
	require.NoError(t, err)
	assert.Equal(t, enums.UserRoleTeacher, res.User.Role)
	assert.Equal(t, 0, res.User.ProductLimit)
}

func TestUpdateLimits(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	res, err := svc.Create(ctx, enums.UserRoleAdmin, CreateUserRequest{Email: "q@example.com", Name: "Q"})
	require.NoError(t, err)

	updated, err := svc.UpdateLimits(ctx, res.User.ID, UpdateLimitsRequest{ProductLimit: intPtr(3), DraftLimit: intPtr(1)})
	require.NoError(t, err)
	assert.Equal(t, 3, updated.ProductLimit)
	assert.Equal(t, 1, updated.DraftLimit)

	_, err = svc.UpdateLimits(ctx, uuid.New(), UpdateLimitsRequest{ProductLimit: intPtr(1), DraftLimit: intPtr(1)})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestListPaginates(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		_, err := svc.Create(ctx, enums.UserRoleAdmin, CreateUserRequest{Email: email, Name: "X"})
		require.NoError(t, err)
	}

	page, err := svc.List(ctx, pagination.Normalize(2, 2))
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Total)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, 2, page.TotalPages)
}
