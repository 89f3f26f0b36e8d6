package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
	apphttp "github.com/jhoicas/almacen-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/almacen-api/pkg/jwt"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testRoleID    = "00000000-0000-0000-0000-000000000002"
	testIssuer    = "almacen-test"
	testExpMin    = 60
)

// buildTestApp arma una app mínima: AuthMiddleware + RequireRole + handler que responde 200.
func buildTestApp(allowedRoles ...string) *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequireRole(allowedRoles...),
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"ok": true, "role": apphttp.GetRole(c)})
		},
	)
	return app
}

func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testRoleID, role, testIssuer, testExpMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

func doGet(t *testing.T, app *fiber.App, path, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestRequireRole_AdminAccede(t *testing.T) {
	resp := doGet(t, buildTestApp(entity.RoleAdmin), "/protected", tokenForRole(t, entity.RoleAdmin))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, entity.RoleAdmin, body["role"])
}

func TestRequireRole_MultiRol(t *testing.T) {
	app := buildTestApp(entity.RoleAdmin, entity.RoleAlmacenero)
	resp := doGet(t, app, "/protected", tokenForRole(t, entity.RoleAlmacenero))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireRole_RolNoPermitido_403(t *testing.T) {
	resp := doGet(t, buildTestApp(entity.RoleAdmin), "/protected", tokenForRole(t, entity.RoleSolicitante))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "FORBIDDEN")
}

func TestRequireRole_TokenSinRol_401(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testRoleID, "", testIssuer, testExpMin)
	require.NoError(t, err)

	resp := doGet(t, buildTestApp(entity.RoleAdmin), "/protected", "Bearer "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_ROLE")
}

func TestAuthMiddleware_Rechazos(t *testing.T) {
	app := buildTestApp(entity.RoleAdmin)
	cases := map[string]string{
		"sin header":       "",
		"sin Bearer":       "Token abc",
		"token malformado": "Bearer token.invalido.aqui",
		"token vacío":      "Bearer   ",
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			resp := doGet(t, app, "/protected", header)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		})
	}
}

func TestAuthMiddleware_TokenExpirado(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testRoleID, entity.RoleAdmin, testIssuer, -1)
	require.NoError(t, err)

	resp := doGet(t, buildTestApp(entity.RoleAdmin), "/protected", "Bearer "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "TOKEN_EXPIRED")
}

func TestAuthMiddleware_ExtraeClaims(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id": apphttp.GetUserID(c),
			"role_id": apphttp.GetRoleID(c),
			"role":    apphttp.GetRole(c),
		})
	})

	resp := doGet(t, app, "/me", tokenForRole(t, entity.RoleAlmacenero))
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, testRoleID, body["role_id"])
	assert.Equal(t, entity.RoleAlmacenero, body["role"])
}

type fakeChecker struct {
	perms entity.Permissions
	err   error
	calls int
}

func (f *fakeChecker) EffectivePermissions(context.Context, string) (entity.Permissions, error) {
	f.calls++
	return f.perms, f.err
}

func buildPermApp(checker *fakeChecker) *fiber.App {
	app := fiber.New()
	app.Get("/receipts",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequirePermission(entity.ModuleReceipts, entity.ActionRead, checker, zerolog.Nop()),
		func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) },
	)
	return app
}

func TestRequirePermission(t *testing.T) {
	t.Run("admin no consulta permisos", func(t *testing.T) {
		checker := &fakeChecker{}
		resp := doGet(t, buildPermApp(checker), "/receipts", tokenForRole(t, entity.RoleAdmin))
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Zero(t, checker.calls)
	})

	t.Run("permiso presente", func(t *testing.T) {
		checker := &fakeChecker{perms: entity.Permissions{entity.ModuleReceipts: {entity.ActionRead}}}
		resp := doGet(t, buildPermApp(checker), "/receipts", tokenForRole(t, entity.RoleAlmacenero))
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, 1, checker.calls)
	})

	t.Run("permiso ausente", func(t *testing.T) {
		checker := &fakeChecker{perms: entity.Permissions{entity.ModuleReceipts: {entity.ActionWrite}}}
		resp := doGet(t, buildPermApp(checker), "/receipts", tokenForRole(t, entity.RoleSolicitante))
		defer resp.Body.Close()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("fallo del checker", func(t *testing.T) {
		checker := &fakeChecker{err: errors.New("conexión rechazada")}
		resp := doGet(t, buildPermApp(checker), "/receipts", tokenForRole(t, entity.RoleAlmacenero))
		defer resp.Body.Close()
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		body, _ := io.ReadAll(resp.Body)
		assert.Contains(t, string(body), "PERMISSION_CHECK_FAILED")
	})

	t.Run("sin token", func(t *testing.T) {
		resp := doGet(t, buildPermApp(&fakeChecker{}), "/receipts", "")
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}
