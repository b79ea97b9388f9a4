package service

import (
	"context"
	"testing"

	"task_tracker/internal/model"
	"task_tracker/internal/repository"
	"task_tracker/internal/utils"

	"github.com/stretchr/testify/assert"
)

type fakeUserRepo struct {
	users  map[string]*model.User
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	if _, exists := f.users[user.Email]; exists {
		return repository.ErrDuplicateEmail
	}
	f.nextID++
	user.ID = f.nextID
	cp := *user
	f.users[user.Email] = &cp
	return nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	user, exists := f.users[email]
	if !exists {
		return nil, nil
	}
	cp := *user
	return &cp, nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id int) (*model.User, error) {
	for _, user := range f.users {
		if user.ID == id {
			cp := *user
			return &cp, nil
		}
	}
	return nil, nil
}

func TestAuthService_Register(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, utils.NewJWTUtil("secret", 1))

	user, err := svc.Register(context.Background(), "Alice", "alice@example.com", "password1", "")

	assert.NoError(t, err)
	assert.Equal(t, 1, user.ID)
	assert.Equal(t, model.RoleUser, user.Role) // empty role defaults to user
	assert.NotEqual(t, "password1", user.PasswordHash)
	assert.True(t, utils.CheckPasswordHash("password1", user.PasswordHash))
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, utils.NewJWTUtil("secret", 1))

	_, err := svc.Register(context.Background(), "Alice", "alice@example.com", "password1", "")
	assert.NoError(t, err)

	_, err = svc.Register(context.Background(), "Other Alice", "alice@example.com", "password2", "")
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestAuthService_Register_ExplicitAdminRole(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, utils.NewJWTUtil("secret", 1))

	user, err := svc.Register(context.Background(), "Root", "root@example.com", "password1", model.RoleAdmin)

	assert.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, user.Role)
}

func TestAuthService_RegisterThenLogin(t *testing.T) {
	repo := newFakeUserRepo()
	jwtUtil := utils.NewJWTUtil("secret", 1)
	svc := NewAuthService(repo, jwtUtil)

	user, err := svc.Register(context.Background(), "Alice", "alice@example.com", "password1", "")
	assert.NoError(t, err)

	token, err := svc.Login(context.Background(), "alice@example.com", "password1")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	// The token's decoded identity matches the created user
	claims, err := jwtUtil.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Role, claims.Role)
}

func TestAuthService_Login_UniformError(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, utils.NewJWTUtil("secret", 1))

	_, err := svc.Register(context.Background(), "Alice", "alice@example.com", "password1", "")
	assert.NoError(t, err)

	// Unknown email and wrong password yield the same error, so the caller
	// cannot tell which accounts exist
	_, unknownErr := svc.Login(context.Background(), "nobody@example.com", "password1")
	_, wrongPwErr := svc.Login(context.Background(), "alice@example.com", "wrongpass1")

	assert.ErrorIs(t, unknownErr, ErrInvalidCredentials)
	assert.ErrorIs(t, wrongPwErr, ErrInvalidCredentials)
	assert.Equal(t, unknownErr.Error(), wrongPwErr.Error())
}
