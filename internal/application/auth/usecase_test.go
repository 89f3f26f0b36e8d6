package auth_test

import (
	"context"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/auth"
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/infrastructure/memory"
	"github.com/jhoicas/almacen-api/pkg/jwt"
)

const secret = "test-secret"

type fixture struct {
	uc    *auth.AuthUseCase
	users *memory.UserRepo
	role  *entity.Role
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	roles := memory.NewRoleRepository(store)
	role := &entity.Role{
		ID:          gofakeit.UUID(),
		Name:        entity.RoleSolicitante,
		IsSystem:    true,
		Permissions: entity.Permissions{entity.ModuleWorkOrders: {entity.ActionRead, entity.ActionWrite}},
	}
	require.NoError(t, roles.Create(context.Background(), role))
	users := memory.NewUserRepository(store)
	uc := auth.NewAuthUseCase(users, roles, auth.JWTConfig{Secret: secret, ExpMinutes: 5, Issuer: "almacen-test"})
	return &fixture{uc: uc, users: users, role: role}
}

func (f *fixture) register(t *testing.T, password string) *dto.UserResponse {
	t.Helper()
	u, err := f.uc.RegisterUser(context.Background(), dto.CreateUserRequest{
		Name:        gofakeit.Name(),
		Email:       gofakeit.Email(),
		DNI:         gofakeit.DigitN(8),
		Password:    password,
		RoleID:      f.role.ID,
		Permissions: entity.Permissions{entity.ModuleProducts: {entity.ActionRead}},
	})
	require.NoError(t, err)
	return u
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, "clave-segura")

	out, err := f.uc.Login(context.Background(), dto.LoginRequest{Email: "  " + u.Email + " ", Password: "clave-segura"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, out.User.ID)

	claims, err := jwt.Parse(secret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, f.role.ID, claims.RoleID)
	assert.Equal(t, entity.RoleSolicitante, claims.Role)
}

func TestLogin_Errores(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, "clave-segura")

	_, err := f.uc.Login(context.Background(), dto.LoginRequest{Email: u.Email, Password: "otra-clave"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = f.uc.Login(context.Background(), dto.LoginRequest{Email: "nadie@example.com", Password: "clave-segura"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	stored, err := f.users.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	stored.Active = false
	require.NoError(t, f.users.Update(context.Background(), stored))
	_, err = f.uc.Login(context.Background(), dto.LoginRequest{Email: u.Email, Password: "clave-segura"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	perms, err := f.uc.EffectivePermissions(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Empty(t, perms)
}

func TestRegister_Duplicados(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, "clave-segura")

	_, err := f.uc.RegisterUser(context.Background(), dto.CreateUserRequest{
		Name: "Otro", Email: u.Email, DNI: gofakeit.DigitN(9), Password: "clave-segura", RoleID: f.role.ID,
	})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	_, err = f.uc.RegisterUser(context.Background(), dto.CreateUserRequest{
		Name: "Otro", Email: gofakeit.Email(), DNI: u.DNI, Password: "clave-segura", RoleID: f.role.ID,
	})
	assert.ErrorIs(t, err, domain.ErrDNIAlreadyExists)

	_, err = f.uc.RegisterUser(context.Background(), dto.CreateUserRequest{
		Name: "Otro", Email: gofakeit.Email(), DNI: gofakeit.DigitN(9), Password: "corta", RoleID: f.role.ID,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProfile_PermisosEfectivos(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, "clave-segura")

	p, err := f.uc.Profile(context.Background(), u.ID)
	require.NoError(t, err)
	assert.True(t, p.EffectivePermissions.Allows(entity.ModuleWorkOrders, entity.ActionWrite))
	assert.True(t, p.EffectivePermissions.Allows(entity.ModuleProducts, entity.ActionRead))
	assert.False(t, p.EffectivePermissions.Allows(entity.ModuleProducts, entity.ActionDelete))

	_, err = f.uc.Profile(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestChangePassword(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, "clave-segura")
	ctx := context.Background()

	err := f.uc.ChangePassword(ctx, u.ID, dto.ChangePasswordRequest{CurrentPassword: "equivocada", NewPassword: "nueva-clave"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	err = f.uc.ChangePassword(ctx, u.ID, dto.ChangePasswordRequest{CurrentPassword: "clave-segura", NewPassword: "corta"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	require.NoError(t, f.uc.ChangePassword(ctx, u.ID, dto.ChangePasswordRequest{CurrentPassword: "clave-segura", NewPassword: "nueva-clave"}))
	_, err = f.uc.Login(ctx, dto.LoginRequest{Email: u.Email, Password: "nueva-clave"})
	assert.NoError(t, err)
}
