package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/receipt"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/infrastructure/ingest"
	"github.com/jhoicas/almacen-api/internal/infrastructure/memory"
)

const testWarehouseID = "wh-central"

type receiptFixture struct {
	app      *fiber.App
	store    *memory.Store
	products *usecase.ProductUseCase
}

func newReceiptFixture(t *testing.T) *receiptFixture {
	t.Helper()
	store := memory.NewStore()
	warehouses := memory.NewWarehouseRepository(store)
	require.NoError(t, warehouses.Create(context.Background(), &entity.Warehouse{ID: testWarehouseID, Name: "Central"}))

	uc := receipt.NewUseCase(
		memory.NewTxRunner(store),
		memory.NewReceiptRepository(store),
		warehouses,
		receipt.Extractors{Text: ingest.NewTextExtractor()},
		receipt.Limits{TempDir: t.TempDir(), MaxDocumentBytes: 10 << 20, MaxTextBytes: 5 << 20},
		zerolog.Nop(),
	)
	h := NewReceiptHandler(uc, nil, NewMetrics())

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(LocalUserID, "user-1")
		c.Locals(LocalRole, entity.RoleAlmacenero)
		return c.Next()
	})
	app.Post("/api/receipts", h.Create)
	app.Post("/api/receipts/upload", h.Upload)
	app.Get("/api/receipts/:id", h.GetByID)

	return &receiptFixture{
		app:      app,
		store:    store,
		products: usecase.NewProductUseCase(memory.NewProductRepository(store)),
	}
}

func postJSON(t *testing.T, app *fiber.App, path, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func postFile(t *testing.T, app *fiber.App, filename string, content []byte, fields map[string]string) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/receipts/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeError(t *testing.T, resp *http.Response) dto.ErrorResponse {
	t.Helper()
	var e dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&e))
	return e
}

func TestReceiptHandler_Create_Bolt(t *testing.T) {
	f := newReceiptFixture(t)
	body := fmt.Sprintf(`{"warehouse_id":%q,"entry_date":"2024-01-01","products":[{"name":"Bolt","quantity":10,"unit_price":2}]}`, testWarehouseID)

	resp := postJSON(t, f.app, "/api/receipts", body)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var out dto.CreateReceiptResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, 1, out.ProductsCreated)
	assert.Equal(t, 0, out.ProductsUpdated)
	require.Len(t, out.Receipt.Products, 1)
	assert.Equal(t, entity.ReceiptSourceManual, out.Receipt.Source)

	p, err := f.products.GetByID(context.Background(), out.Receipt.Products[0].ProductID)
	require.NoError(t, err)
	assert.Equal(t, "Bolt", p.Name)
	assert.Equal(t, "10", p.StockActual.String())
}

func TestReceiptHandler_Create_WarehouseIDNumerico(t *testing.T) {
	f := newReceiptFixture(t)
	wh := &entity.Warehouse{Name: "Depósito norte"}
	require.NoError(t, memory.NewWarehouseRepository(f.store).Create(context.Background(), wh))
	require.Equal(t, "1", wh.ID)

	resp := postJSON(t, f.app, "/api/receipts",
		`{"warehouse_id":1,"entry_date":"2024-01-01","products":[{"name":"Bolt","quantity":10,"unit_price":2}]}`)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var out dto.CreateReceiptResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, 1, out.ProductsCreated)
	assert.Equal(t, "1", out.Receipt.WarehouseID)
	assert.False(t, out.Receipt.VerificationStatus)

	bad := postJSON(t, f.app, "/api/receipts",
		`{"warehouse_id":1.5,"entry_date":"2024-01-01","products":[{"name":"Bolt","quantity":1}]}`)
	defer bad.Body.Close()
	assert.Equal(t, http.StatusBadRequest, bad.StatusCode)
}

func TestReceiptHandler_Create_Validaciones(t *testing.T) {
	f := newReceiptFixture(t)
	cases := map[string]string{
		"sin productos":     fmt.Sprintf(`{"warehouse_id":%q,"entry_date":"2024-01-01","products":[]}`, testWarehouseID),
		"sin almacén":       `{"entry_date":"2024-01-01","products":[{"name":"Bolt","quantity":1}]}`,
		"cantidad cero":     fmt.Sprintf(`{"warehouse_id":%q,"entry_date":"2024-01-01","products":[{"name":"Bolt","quantity":0}]}`, testWarehouseID),
		"línea sin nombre":  fmt.Sprintf(`{"warehouse_id":%q,"entry_date":"2024-01-01","products":[{"quantity":3}]}`, testWarehouseID),
		"creado verificado": fmt.Sprintf(`{"warehouse_id":%q,"entry_date":"2024-01-01","status":"Verified","products":[{"name":"Bolt","quantity":1}]}`, testWarehouseID),
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			resp := postJSON(t, f.app, "/api/receipts", body)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, "VALIDATION", decodeError(t, resp).Code)
		})
	}
	assert.Empty(t, f.store.Movements(), "ninguna validación fallida debe escribir movimientos")
}

func TestReceiptHandler_Create_BodyInvalido(t *testing.T) {
	f := newReceiptFixture(t)
	resp := postJSON(t, f.app, "/api/receipts", `{"products":`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestReceiptHandler_Upload_CSV(t *testing.T) {
	f := newReceiptFixture(t)
	csv := "nombre;cantidad;precio_unitario\nTornillo 8mm;100;0,50\nArandela;40;\n"

	resp := postFile(t, f.app, "remito.csv", []byte(csv), map[string]string{
		"warehouse_id": testWarehouseID,
		"entry_date":   "2024-03-15",
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var out dto.CreateReceiptResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, 2, out.ProductsCreated)
	assert.Equal(t, entity.ReceiptSourceCSV, out.Receipt.Source)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), out.Receipt.EntryDate.UTC())
	assert.Len(t, f.store.Movements(), 2)
}

func TestReceiptHandler_Upload_TipoNoSoportado(t *testing.T) {
	f := newReceiptFixture(t)
	zip := []byte("PK\x03\x04\x14\x00\x00\x00\x08\x00")

	resp := postFile(t, f.app, "remito.zip", zip, map[string]string{"warehouse_id": testWarehouseID})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)
	assert.Equal(t, "UNSUPPORTED_FILE", decodeError(t, resp).Code)
}

func TestReceiptHandler_Upload_SinProductos(t *testing.T) {
	f := newReceiptFixture(t)

	resp := postFile(t, f.app, "remito.csv", []byte("nombre;cantidad\n"), map[string]string{"warehouse_id": testWarehouseID})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "EMPTY_EXTRACTION", decodeError(t, resp).Code)
}

func TestReceiptHandler_Upload_SinArchivo(t *testing.T) {
	f := newReceiptFixture(t)
	req := httptest.NewRequest(http.MethodPost, "/api/receipts/upload", strings.NewReader(""))
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "MISSING_FILE", decodeError(t, resp).Code)
}

func TestReceiptHandler_GetByID_NoExiste(t *testing.T) {
	f := newReceiptFixture(t)
	req := httptest.NewRequest(http.MethodGet, "/api/receipts/no-existe", nil)
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("%w: x", domain.ErrInvalidInput), fiber.StatusBadRequest, "VALIDATION"},
		{domain.ErrInsufficientStock, fiber.StatusBadRequest, "INSUFFICIENT_STOCK"},
		{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
		{domain.ErrUserNotFound, fiber.StatusNotFound, "NOT_FOUND"},
		{fmt.Errorf("%w: email", domain.ErrEmailAlreadyExists), fiber.StatusConflict, "EMAIL_EXISTS"},
		{domain.ErrSystemRole, fiber.StatusConflict, "SYSTEM_ROLE"},
		{domain.ErrUnsupportedFile, fiber.StatusUnsupportedMediaType, "UNSUPPORTED_FILE"},
		{domain.ErrFileTooLarge, fiber.StatusRequestEntityTooLarge, "FILE_TOO_LARGE"},
		{domain.ErrEmptyExtraction, fiber.StatusUnprocessableEntity, "EMPTY_EXTRACTION"},
		{fmt.Errorf("insert receipt: connection reset"), fiber.StatusInternalServerError, "INTERNAL"},
	}
	for _, tc := range cases {
		status, code := StatusFor(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
		assert.Equal(t, tc.code, code, tc.err.Error())
	}
}
