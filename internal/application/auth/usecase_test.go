package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Catalogo-api/internal/application/dto"
	"github.com/jhoicas/Catalogo-api/internal/domain"
	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
	"github.com/jhoicas/Catalogo-api/pkg/jwt"
)

type memUsers struct {
	byID map[string]*entity.User
}

func (r *memUsers) Create(_ context.Context, u *entity.User) error {
	cp := *u
	r.byID[u.ID] = &cp
	return nil
}

func (r *memUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	return r.byID[id], nil
}

func (r *memUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memUsers) Update(_ context.Context, u *entity.User) error {
	r.byID[u.ID] = u
	return nil
}

func (r *memUsers) List(_ context.Context, _, _ int) ([]*entity.User, int64, error) {
	out := make([]*entity.User, 0, len(r.byID))
	for _, u := range r.byID {
		out = append(out, u)
	}
	return out, int64(len(out)), nil
}

func newAuth() (*AuthUseCase, *memUsers) {
	repo := &memUsers{byID: map[string]*entity.User{}}
	return NewAuthUseCase(repo, JWTConfig{Secret: "test-secret", ExpMinutes: 60, Issuer: "catalogo-api"}), repo
}

func TestRegisterUser_PrimerUsuarioEsAdmin(t *testing.T) {
	uc, _ := newAuth()

	first, err := uc.RegisterUser(context.Background(), dto.RegisterRequest{Email: "Admin@Shop.jp", Password: "secreto123"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, first.Role)
	assert.Equal(t, "admin@shop.jp", first.Email)

	second, err := uc.RegisterUser(context.Background(), dto.RegisterRequest{Email: "ops@shop.jp", Password: "secreto123"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleViewer, second.Role)
}

func TestRegisterUser_EmailDuplicado(t *testing.T) {
	uc, _ := newAuth()
	_, err := uc.RegisterUser(context.Background(), dto.RegisterRequest{Email: "a@b.jp", Password: "secreto123"})
	require.NoError(t, err)

	_, err = uc.RegisterUser(context.Background(), dto.RegisterRequest{Email: "A@B.jp", Password: "otro12345"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestLogin_TokenConRol(t *testing.T) {
	uc, _ := newAuth()
	u, err := uc.RegisterUser(context.Background(), dto.RegisterRequest{Email: "a@b.jp", Password: "secreto123"})
	require.NoError(t, err)

	res, err := uc.Login(context.Background(), dto.LoginRequest{Email: "a@b.jp", Password: "secreto123"})
	require.NoError(t, err)

	claims, err := jwt.Parse("test-secret", res.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, entity.RoleAdmin, claims.Role)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	uc, repo := newAuth()
	u, err := uc.RegisterUser(context.Background(), dto.RegisterRequest{Email: "a@b.jp", Password: "secreto123"})
	require.NoError(t, err)

	_, err = uc.Login(context.Background(), dto.LoginRequest{Email: "a@b.jp", Password: "mala"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(context.Background(), dto.LoginRequest{Email: "nadie@b.jp", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	repo.byID[u.ID].Status = entity.UserStatusInactive
	_, err = uc.Login(context.Background(), dto.LoginRequest{Email: "a@b.jp", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
