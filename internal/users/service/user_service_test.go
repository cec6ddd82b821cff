package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terraverde/terraverde-api/internal/apperror"
	"github.com/terraverde/terraverde-api/internal/platform/docstore"
	"github.com/terraverde/terraverde-api/internal/users/domain"
	"github.com/terraverde/terraverde-api/internal/users/repository"
)

var fixedNow = time.Date(2026, 4, 20, 12, 0, 0, 0, time.UTC)

func setupTestService(t *testing.T) (*UserService, *docstore.MemoryStore) {
	t.Helper()
	store := docstore.NewMemoryStore()
	svc := NewUserService(repository.NewUserRepository(store, "users"), nil, func() time.Time { return fixedNow })
	return svc, store
}

func ptr[T any](v T) *T { return &v }

func TestCreateUser(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupTestService(t)

	u, err := svc.Create(ctx, domain.CreateUserRequest{Name: " Ana ", Email: "Ana@Example.org", Role: "researcher"})
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "Ana", u.Name)
	assert.Equal(t, "ana@example.org", u.Email)
	assert.True(t, u.Active)
	assert.Equal(t, fixedNow, u.RegisteredAt)

	_, err = svc.Create(ctx, domain.CreateUserRequest{Name: "Other", Email: "ANA@example.org", Role: "user"})
	assert.ErrorIs(t, err, apperror.ErrConflict)
	assert.Equal(t, 409, apperror.Status(err))
}

func TestEmailUniqueness_RecordsWrittenElsewhere(t *testing.T) {
	ctx := context.Background()
	svc, store := setupTestService(t)
	store.Put("users", "legacy-1", map[string]any{"nombre": "Ana", "email": "Ana@Example.org", "rol": "admin"})
	store.Put("users", "legacy-2", map[string]any{"nombre": "Luis", "correo": "luis@example.org", "rol": "user"})

	for _, email := range []string{"Ana@Example.org", "ana@example.org", "luis@example.org"} {
		_, err := svc.Create(ctx, domain.CreateUserRequest{Name: "Dup", Email: email, Role: "user"})
		assert.ErrorIs(t, err, apperror.ErrConflict, email)
	}

	other, err := svc.Create(ctx, domain.CreateUserRequest{Name: "Eva", Email: "eva@example.org", Role: "user"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, other.ID, domain.UpdateUserRequest{Email: ptr("LUIS@example.org")})
	assert.ErrorIs(t, err, apperror.ErrConflict)

	// Re-saving a legacy record under its own address is not a conflict.
	_, err = svc.Update(ctx, "legacy-1", domain.UpdateUserRequest{Email: ptr("ana@example.org")})
	require.NoError(t, err)
}

func TestCreateUser_Validation(t *testing.T) {
	ctx := context.Background()
	svc, store := setupTestService(t)

	tests := []struct {
		name string
		req  domain.CreateUserRequest
	}{
		{"missing name", domain.CreateUserRequest{Email: "a@example.org", Role: "user"}},
		{"missing role", domain.CreateUserRequest{Name: "A", Email: "a@example.org"}},
		{"bad email", domain.CreateUserRequest{Name: "A", Email: "not-an-email", Role: "user"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.req)
			assert.ErrorIs(t, err, apperror.ErrValidation)
		})
	}

	docs, err := store.List(ctx, "users")
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestUpdateUser(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupTestService(t)

	ana, err := svc.Create(ctx, domain.CreateUserRequest{Name: "Ana", Email: "ana@example.org", Role: "researcher"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, domain.CreateUserRequest{Name: "Luis", Email: "luis@example.org", Role: "user"})
	require.NoError(t, err)

	t.Run("same email is not a conflict", func(t *testing.T) {
		u, err := svc.Update(ctx, ana.ID, domain.UpdateUserRequest{Email: ptr("ANA@example.org"), Institution: ptr("USFQ")})
		require.NoError(t, err)
		assert.Equal(t, "USFQ", u.Institution)
		assert.Equal(t, "researcher", u.Role)
	})

	t.Run("taken email", func(t *testing.T) {
		_, err := svc.Update(ctx, ana.ID, domain.UpdateUserRequest{Email: ptr("luis@example.org")})
		assert.ErrorIs(t, err, apperror.ErrConflict)
	})

	t.Run("blank name", func(t *testing.T) {
		_, err := svc.Update(ctx, ana.ID, domain.UpdateUserRequest{Name: ptr("  ")})
		assert.ErrorIs(t, err, apperror.ErrValidation)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.Update(ctx, "missing", domain.UpdateUserRequest{})
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

func TestDeleteUser_IsSoft(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupTestService(t)

	u, err := svc.Create(ctx, domain.CreateUserRequest{Name: "Ana", Email: "ana@example.org", Role: "admin"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, u.ID))

	got, err := svc.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)
	assert.Equal(t, fixedNow, got.DeletedAt)

	active, err := svc.List(ctx, domain.Filter{Active: ptr(true)})
	require.NoError(t, err)
	assert.Empty(t, active)

	restored, err := svc.Update(ctx, u.ID, domain.UpdateUserRequest{Active: ptr(true)})
	require.NoError(t, err)
	assert.True(t, restored.DeletedAt.IsZero())

	assert.ErrorIs(t, svc.Delete(ctx, "missing"), apperror.ErrNotFound)
}

func TestStatsAndRecent(t *testing.T) {
	ctx := context.Background()
	svc, store := setupTestService(t)

	store.Put("users", "old", map[string]any{"nombre": "Old", "rol": "admin", "fecha_registro": "2020-01-01", "activo": false})
	_, err := svc.Create(ctx, domain.CreateUserRequest{Name: "Ana", Email: "ana@example.org", Role: "researcher"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, domain.CreateUserRequest{Name: "Luis", Email: "luis@example.org", Role: "researcher"})
	require.NoError(t, err)

	st, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Stats{
		Total:           3,
		Active:          2,
		Inactive:        1,
		ByRole:          map[string]int{"admin": 1, "researcher": 2},
		RegisteredToday: 2,
	}, st)

	recent, err := svc.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "Ana", recent[0].Name)
	assert.Equal(t, "Luis", recent[1].Name)

	researchers, err := svc.List(ctx, domain.Filter{Role: "Researcher"})
	require.NoError(t, err)
	assert.Len(t, researchers, 2)
}
