package usecase_test

import (
	"context"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/infrastructure/memory"
)

func TestRoleUseCase_RolesDelSistema(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	roles := memory.NewRoleRepository(store)
	users := memory.NewUserRepository(store)
	uc := usecase.NewRoleUseCase(roles, users)

	admin := &entity.Role{ID: gofakeit.UUID(), Name: entity.RoleAdmin, IsSystem: true, Permissions: entity.Permissions{}}
	require.NoError(t, roles.Create(ctx, admin))

	assert.ErrorIs(t, uc.Delete(ctx, admin.ID), domain.ErrSystemRole)

	rename := "superadmin"
	_, err := uc.Update(ctx, admin.ID, dto.UpdateRoleRequest{Name: &rename})
	assert.ErrorIs(t, err, domain.ErrSystemRole)

	out, err := uc.Update(ctx, admin.ID, dto.UpdateRoleRequest{Permissions: entity.Permissions{entity.ModuleReports: {entity.ActionRead}}})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, out.Name)
}

func TestRoleUseCase_CrearYBorrar(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	roles := memory.NewRoleRepository(store)
	users := memory.NewUserRepository(store)
	uc := usecase.NewRoleUseCase(roles, users)

	_, err := uc.Create(ctx, dto.CreateRoleRequest{Name: "compras", Permissions: entity.Permissions{entity.ModuleOrders: {"approve"}}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	role, err := uc.Create(ctx, dto.CreateRoleRequest{Name: "compras", Permissions: entity.Permissions{entity.ModuleOrders: {entity.ActionRead, entity.ActionWrite}}})
	require.NoError(t, err)

	_, err = uc.Create(ctx, dto.CreateRoleRequest{Name: "compras"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	require.NoError(t, users.Create(ctx, &entity.User{ID: gofakeit.UUID(), Name: gofakeit.Name(), Email: gofakeit.Email(), DNI: gofakeit.DigitN(8), RoleID: role.ID, Active: true}))
	assert.ErrorIs(t, uc.Delete(ctx, role.ID), domain.ErrConflict)
}

func TestOrderUseCase_TotalesYTransiciones(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	products := memory.NewProductRepository(store)
	uc := usecase.NewOrderUseCase(memory.NewOrderRepository(store), products)

	p := &entity.Product{ID: gofakeit.UUID(), Code: "P-1", Name: "Cemento 50kg", NameKey: "cemento 50kg", Activo: true}
	require.NoError(t, products.Create(ctx, p))

	in := dto.CreateOrderRequest{
		OrderNumber: "OC-" + gofakeit.DigitN(5),
		Supplier:    gofakeit.Company(),
		OrderDate:   "2024-02-01",
		Items: []dto.OrderItemRequest{
			{ProductID: p.ID, Quantity: decimal.NewFromInt(10), UnitPrice: decimal.RequireFromString("12.50")},
			{Description: "Flete", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(30)},
		},
	}
	order, err := uc.Create(ctx, "u1", in)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusPending, order.Status)
	assert.Equal(t, "155", order.Total.String())
	assert.Equal(t, "Cemento 50kg", order.Items[0].Description)

	_, err = uc.UpdateStatus(ctx, order.ID, entity.OrderStatusApproved)
	require.NoError(t, err)

	_, err = uc.Update(ctx, order.ID, in)
	assert.ErrorIs(t, err, domain.ErrConflict, "solo se editan órdenes pendientes")

	_, err = uc.UpdateStatus(ctx, order.ID, entity.OrderStatusPending)
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = uc.UpdateStatus(ctx, order.ID, entity.OrderStatusReceived)
	require.NoError(t, err)
	_, err = uc.UpdateStatus(ctx, order.ID, entity.OrderStatusCancelled)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestOrderUseCase_Validaciones(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	uc := usecase.NewOrderUseCase(memory.NewOrderRepository(store), memory.NewProductRepository(store))

	cases := map[string]dto.CreateOrderRequest{
		"sin ítems":            {OrderNumber: "OC-1", Supplier: "ACME"},
		"sin proveedor":        {OrderNumber: "OC-1", Items: []dto.OrderItemRequest{{Description: "x", Quantity: decimal.NewFromInt(1)}}},
		"cantidad cero":        {OrderNumber: "OC-1", Supplier: "ACME", Items: []dto.OrderItemRequest{{Description: "x"}}},
		"producto inexistente": {OrderNumber: "OC-1", Supplier: "ACME", Items: []dto.OrderItemRequest{{ProductID: "nope", Quantity: decimal.NewFromInt(1)}}},
		"entrega antes":        {OrderNumber: "OC-1", Supplier: "ACME", OrderDate: "2024-03-10", ExpectedDate: "2024-03-01", Items: []dto.OrderItemRequest{{Description: "x", Quantity: decimal.NewFromInt(1)}}},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := uc.Create(ctx, "u1", in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestProductUseCase_CRUD(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	uc := usecase.NewProductUseCase(memory.NewProductRepository(store))

	_, err := uc.Create(ctx, dto.CreateProductRequest{Code: " ", Name: "Tornillo"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	tornillo, err := uc.Create(ctx, dto.CreateProductRequest{
		Code:           "TOR-01",
		Name:           "Tornillo 8mm",
		StockActual:    decimal.NewFromInt(3),
		StockMinimo:    decimal.NewFromInt(5),
		PrecioUnitario: decimal.RequireFromString("0.25"),
		Ubicacion:      "A-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "unidad", tornillo.Unit)
	assert.True(t, tornillo.CostoPromedio.Equal(decimal.RequireFromString("0.25")))
	assert.True(t, tornillo.LowStock)

	_, err = uc.Create(ctx, dto.CreateProductRequest{Code: "TOR-01", Name: "Otro"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Create(ctx, dto.CreateProductRequest{Code: "TUE-01", Name: "Tuerca", StockActual: decimal.NewFromInt(50), Ubicacion: "B-2"})
	require.NoError(t, err)

	low, err := uc.List(ctx, dto.ProductListQuery{LowStock: true})
	require.NoError(t, err)
	require.Len(t, low.Items, 1)
	assert.Equal(t, tornillo.ID, low.Items[0].ID)

	search, err := uc.List(ctx, dto.ProductListQuery{Search: "tuer"})
	require.NoError(t, err)
	assert.Equal(t, 1, search.Page.Total)

	name := "Tornillo 10mm"
	updated, err := uc.Update(ctx, tornillo.ID, dto.UpdateProductRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	assert.True(t, updated.StockActual.Equal(decimal.NewFromInt(3)), "update no toca el stock")

	require.NoError(t, uc.Delete(ctx, tornillo.ID))
	got, err := uc.GetByID(ctx, tornillo.ID)
	require.NoError(t, err)
	assert.False(t, got.Activo)

	all, err := uc.List(ctx, dto.ProductListQuery{})
	require.NoError(t, err)
	assert.Len(t, all.Items, 1, "los inactivos no se listan por defecto")

	assert.ErrorIs(t, uc.Delete(ctx, gofakeit.UUID()), domain.ErrNotFound)
}

func TestUserUseCase_UpdateYDelete(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	users := memory.NewUserRepository(store)
	roles := memory.NewRoleRepository(store)
	uc := usecase.NewUserUseCase(users, roles)

	role := &entity.Role{ID: gofakeit.UUID(), Name: entity.RoleAlmacenero, IsSystem: true, Permissions: entity.Permissions{}}
	require.NoError(t, roles.Create(ctx, role))
	ana := &entity.User{ID: gofakeit.UUID(), Name: "Ana", Email: "ana@example.com", DNI: "30111222", RoleID: role.ID, Active: true}
	beto := &entity.User{ID: gofakeit.UUID(), Name: "Beto", Email: "beto@example.com", DNI: "30333444", RoleID: role.ID, Active: true}
	require.NoError(t, users.Create(ctx, ana))
	require.NoError(t, users.Create(ctx, beto))

	taken := "BETO@example.com "
	_, err := uc.Update(ctx, ana.ID, dto.UpdateUserRequest{Email: &taken})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	dni := beto.DNI
	_, err = uc.Update(ctx, ana.ID, dto.UpdateUserRequest{DNI: &dni})
	assert.ErrorIs(t, err, domain.ErrDNIAlreadyExists)

	missing := gofakeit.UUID()
	_, err = uc.Update(ctx, ana.ID, dto.UpdateUserRequest{RoleID: &missing})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	inactive := false
	out, err := uc.Update(ctx, ana.ID, dto.UpdateUserRequest{Active: &inactive})
	require.NoError(t, err)
	assert.False(t, out.Active)

	assert.ErrorIs(t, uc.Delete(ctx, ana.ID, ana.ID), domain.ErrConflict)
	require.NoError(t, uc.Delete(ctx, ana.ID, beto.ID))
	_, err = uc.GetByID(ctx, beto.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProjectUseCase(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	uc := usecase.NewProjectUseCase(memory.NewProjectRepository(store))

	_, err := uc.Create(ctx, dto.ProjectRequest{Code: "P-1", Name: "Obra", StartDate: "2026-03-01", EndDate: "2026-02-01"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, dto.ProjectRequest{Code: "P-1", Name: "Obra", Status: "terminado"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	p, err := uc.Create(ctx, dto.ProjectRequest{Code: "P-1", Name: "Obra", Client: gofakeit.Company(), StartDate: "2026-03-01"})
	require.NoError(t, err)
	assert.Equal(t, entity.ProjectStatusActive, p.Status)
	require.NotNil(t, p.StartDate)

	_, err = uc.Create(ctx, dto.ProjectRequest{Code: "P-1", Name: "Otra obra"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	closed, err := uc.Update(ctx, p.ID, dto.ProjectRequest{Code: "P-1", Name: "Obra", Status: entity.ProjectStatusClosed})
	require.NoError(t, err)
	assert.Equal(t, entity.ProjectStatusClosed, closed.Status)

	active, err := uc.List(ctx, entity.ProjectStatusActive, dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, active)

	require.NoError(t, uc.Delete(ctx, p.ID))
	assert.ErrorIs(t, uc.Delete(ctx, p.ID), domain.ErrNotFound)
}

func TestWarehouseUseCase(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	uc := usecase.NewWarehouseUseCase(memory.NewWarehouseRepository(store))

	_, err := uc.Create(ctx, dto.CreateWarehouseRequest{Name: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	wh, err := uc.Create(ctx, dto.CreateWarehouseRequest{Name: " Depósito norte ", Address: gofakeit.Street()})
	require.NoError(t, err)
	assert.Equal(t, "Depósito norte", wh.Name)
	assert.Equal(t, "1", wh.ID, "la clave la asigna la secuencia")

	addr := "Ruta 3 km 12"
	out, err := uc.Update(ctx, wh.ID, dto.UpdateWarehouseRequest{Address: &addr})
	require.NoError(t, err)
	assert.Equal(t, addr, out.Address)

	rc := &entity.Receipt{ID: gofakeit.UUID(), WarehouseID: wh.ID, Status: entity.ReceiptStatusPending, Source: entity.ReceiptSourceManual}
	require.NoError(t, memory.NewReceiptRepository(store).Create(ctx, rc))
	assert.ErrorIs(t, uc.Delete(ctx, wh.ID), domain.ErrConflict, "con remitos asociados no se borra")

	list, err := uc.List(ctx, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, 20, list.Page.Limit)
}
