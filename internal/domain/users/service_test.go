package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"stocktrack/internal/core/apperror"
	appctx "stocktrack/internal/core/context"
	"stocktrack/internal/core/id"
)

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeRepo struct {
	users map[id.ID]*User
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: make(map[id.ID]*User)}
}

func (r *fakeRepo) Create(_ context.Context, user *User) error {
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, userID id.ID) (*User, error) {
	u, ok := r.users[userID]
	if !ok {
		return nil, apperror.NewNotFound("user", userID)
	}
	cp := *u
	return &cp, nil
}

func (r *fakeRepo) GetByUsername(_ context.Context, username string) (*User, error) {
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("user", username)
}

func (r *fakeRepo) List(_ context.Context) ([]User, error) {
	out := make([]User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *fakeRepo) Update(_ context.Context, user *User) error {
	if _, ok := r.users[user.ID]; !ok {
		return apperror.NewNotFound("user", user.ID)
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, userID id.ID) error {
	delete(r.users, userID)
	return nil
}

func (r *fakeRepo) Count(_ context.Context) (int, error) {
	return len(r.users), nil
}

func adminCtx(adminID id.ID) context.Context {
	return appctx.WithUser(context.Background(), &appctx.UserContext{
		UserID:   adminID,
		Username: "boss",
		Role:     appctx.RoleAdmin,
	})
}

func newTestService() (*Service, *fakeRepo) {
	repo := newFakeRepo()
	return NewService(repo, fakeTxManager{}, DefaultServiceConfig()), repo
}

func TestCreate_HashesPassword(t *testing.T) {
	svc, _ := newTestService()
	ctx := adminCtx(id.New())

	user, err := svc.Create(ctx, CreateInput{Username: "alice", Password: "secret1", Role: RoleUser})
	require.NoError(t, err)

	assert.NotEqual(t, "secret1", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret1")))
	assert.True(t, user.IsActive)
}

func TestCreate_RejectsShortPassword(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Create(adminCtx(id.New()), CreateInput{Username: "alice", Password: "abc", Role: RoleUser})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestCreate_RejectsDuplicateUsername(t *testing.T) {
	svc, _ := newTestService()
	ctx := adminCtx(id.New())

	_, err := svc.Create(ctx, CreateInput{Username: "alice", Password: "secret1", Role: RoleUser})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateInput{Username: "alice", Password: "secret2", Role: RoleUser})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeDuplicate, appErr.Code)
}

func TestMutations_RequireAdmin(t *testing.T) {
	svc, repo := newTestService()
	target := NewUser("bob", "x", RoleUser)
	require.NoError(t, repo.Create(context.Background(), target))

	ctx := appctx.WithUser(context.Background(), &appctx.UserContext{
		UserID: id.New(), Username: "pleb", Role: appctx.RoleUser,
	})

	_, err := svc.Create(ctx, CreateInput{Username: "x", Password: "secret1", Role: RoleUser})
	assert.True(t, apperror.IsForbidden(err))

	err = svc.Delete(ctx, target.ID)
	assert.True(t, apperror.IsForbidden(err))

	err = svc.SetActive(ctx, target.ID, false)
	assert.True(t, apperror.IsForbidden(err))

	_, err = svc.List(ctx)
	assert.True(t, apperror.IsForbidden(err))
}

func TestSetActive_CannotBlockSelf(t *testing.T) {
	svc, repo := newTestService()
	adminID := id.New()
	admin := &User{ID: adminID, Username: "boss", Role: RoleAdmin, IsActive: true}
	require.NoError(t, repo.Create(context.Background(), admin))

	err := svc.SetActive(adminCtx(adminID), adminID, false)
	require.Error(t, err)
	assert.True(t, apperror.IsForbidden(err))

	// Unblocking yourself is a no-op risk-wise and stays allowed.
	require.NoError(t, svc.SetActive(adminCtx(adminID), adminID, true))
}

func TestDelete_CannotDeleteSelf(t *testing.T) {
	svc, repo := newTestService()
	adminID := id.New()
	admin := &User{ID: adminID, Username: "boss", Role: RoleAdmin, IsActive: true}
	require.NoError(t, repo.Create(context.Background(), admin))

	err := svc.Delete(adminCtx(adminID), adminID)
	require.Error(t, err)
	assert.True(t, apperror.IsForbidden(err))

	other := NewUser("bob", "x", RoleUser)
	require.NoError(t, repo.Create(context.Background(), other))
	require.NoError(t, svc.Delete(adminCtx(adminID), other.ID))
}

func TestEnsureDefaultAdmin(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	created, err := svc.EnsureDefaultAdmin(ctx, "admin", "admin")
	require.NoError(t, err)
	assert.True(t, created)

	admin, err := repo.GetByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, admin.Role)

	// Second run is a no-op.
	created, err = svc.EnsureDefaultAdmin(ctx, "admin", "admin")
	require.NoError(t, err)
	assert.False(t, created)
}
