package auth

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testAccessExp = "1h"
	testSecret    = "test-secret-key-for-jwt"
)

type fakeUserRepo struct {
	users map[string]user.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]user.User)}
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (user.User, error) {
	u, ok := f.users[username]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) Create(ctx context.Context, newUser user.User) (user.User, error) {
	if _, ok := f.users[newUser.Username]; ok {
		return user.User{}, user.ErrUsernameExists
	}
	newUser.ID = "user-" + newUser.Username
	newUser.CreatedAt = time.Now()
	newUser.UpdatedAt = newUser.CreatedAt
	f.users[newUser.Username] = newUser
	return newUser, nil
}

func newTestService(t *testing.T) (auth.AuthService, *fakeUserRepo, jwt.Service) {
	t.Helper()
	repo := newFakeUserRepo()
	jwtService := jwt.NewJWTService(testSecret, testAccessExp)
	return NewAuthService(repo, jwtService), repo, jwtService
}

func TestCreateUserAndLogin(t *testing.T) {
	ctx := context.Background()
	svc, repo, jwtService := newTestService(t)

	created, err := svc.CreateUser(ctx, auth.CreateUserRequest{Username: "hr.admin", Password: "password123", Role: "admin"})
	require.NoError(t, err)
	assert.Equal(t, "hr.admin", created.Username)
	assert.Equal(t, "admin", created.Role)

	stored := repo.users["hr.admin"]
	assert.NotEqual(t, "password123", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("password123")))

	token, err := svc.Login(ctx, auth.LoginRequest{Username: "hr.admin", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, token.AccessToken)
	assert.Equal(t, "admin", token.Role)
	assert.Greater(t, token.AccessTokenExpiresIn, time.Now().Unix())

	decoded, err := jwtService.JWTAuth().Decode(token.AccessToken)
	require.NoError(t, err)
	claims := decoded.PrivateClaims()
	assert.Equal(t, "hr.admin", claims["username"])
	assert.Equal(t, "admin", claims["role"])
}

func TestCreateUser_KaryawanRole(t *testing.T) {
	svc, _, _ := newTestService(t)

	created, err := svc.CreateUser(context.Background(), auth.CreateUserRequest{Username: "budi", Password: "password123", Role: "karyawan"})
	require.NoError(t, err)
	assert.Equal(t, "employee", created.Role)
}

func TestCreateUser_Duplicate(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	req := auth.CreateUserRequest{Username: "budi", Password: "password123", Role: "employee"}
	_, err := svc.CreateUser(ctx, req)
	require.NoError(t, err)

	_, err = svc.CreateUser(ctx, req)
	assert.ErrorIs(t, err, user.ErrUsernameExists)
}

func TestCreateUser_Validation(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.CreateUser(context.Background(), auth.CreateUserRequest{Username: "x", Password: "short", Role: "boss"})

	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	fields := errs.ToMap()
	assert.Contains(t, fields, "username")
	assert.Contains(t, fields, "password")
	assert.Contains(t, fields, "role")
}

func TestLogin_InvalidCredentials(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	_, err := svc.CreateUser(ctx, auth.CreateUserRequest{Username: "budi", Password: "password123", Role: "employee"})
	require.NoError(t, err)

	tests := []struct {
		name string
		req  auth.LoginRequest
	}{
		{"wrong password", auth.LoginRequest{Username: "budi", Password: "wrong-password"}},
		{"unknown user", auth.LoginRequest{Username: "sari", Password: "password123"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(ctx, tt.req)
			assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
		})
	}
}

func TestLogin_MissingFields(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Login(context.Background(), auth.LoginRequest{})

	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Len(t, errs, 2)
}
