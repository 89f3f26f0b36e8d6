package receipt_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/receipt"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/infrastructure/memory"
)

const (
	warehouseID = "wh-1"
	userID      = "user-1"
)

type fixture struct {
	uc       *receipt.UseCase
	store    *memory.Store
	products *memory.ProductRepo
	orders   *memory.OrderRepo
	receipts *memory.ReceiptRepo
	tempDir  string
}

func newFixture(t *testing.T, extractors receipt.Extractors) *fixture {
	t.Helper()
	store := memory.NewStore()
	warehouses := memory.NewWarehouseRepository(store)
	require.NoError(t, warehouses.Create(context.Background(), &entity.Warehouse{ID: warehouseID, Name: "Central"}))
	receipts := memory.NewReceiptRepository(store)
	dir := t.TempDir()
	uc := receipt.NewUseCase(memory.NewTxRunner(store), receipts, warehouses, extractors,
		receipt.Limits{TempDir: dir, MaxDocumentBytes: 1 << 20, MaxTextBytes: 1 << 10}, zerolog.Nop())
	return &fixture{
		uc:       uc,
		store:    store,
		products: memory.NewProductRepository(store),
		orders:   memory.NewOrderRepository(store),
		receipts: receipts,
		tempDir:  dir,
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr(d decimal.Decimal) *decimal.Decimal { return &d }

func request(lines ...dto.ReceiptLineRequest) dto.CreateReceiptRequest {
	return dto.CreateReceiptRequest{WarehouseID: warehouseID, EntryDate: "2024-01-01", Products: lines}
}

func (f *fixture) seedProduct(t *testing.T, name, stock, cost string) *entity.Product {
	t.Helper()
	p := &entity.Product{
		ID:            gofakeit.UUID(),
		Code:          "P-" + gofakeit.LetterN(6),
		Name:          name,
		NameKey:       strings.ToLower(name),
		StockActual:   dec(stock),
		CostoPromedio: dec(cost),
		Activo:        true,
	}
	require.NoError(t, f.products.Create(context.Background(), p))
	return p
}

func TestCreate_UnRemitoConNLineas(t *testing.T) {
	f := newFixture(t, receipt.Extractors{})
	n := gofakeit.IntRange(2, 6)
	lines := make([]dto.ReceiptLineRequest, n)
	for i := range lines {
		lines[i] = dto.ReceiptLineRequest{
			Name:     fmt.Sprintf("%s %d", gofakeit.ProductName(), i),
			Quantity: decimal.NewFromInt(int64(gofakeit.IntRange(1, 50))),
		}
	}

	out, err := f.uc.Create(context.Background(), userID, request(lines...))
	require.NoError(t, err)

	assert.Equal(t, n, out.ProductsCreated)
	assert.Zero(t, out.ProductsUpdated)
	assert.Len(t, out.Receipt.Products, n)
	assert.Equal(t, entity.ReceiptStatusPending, out.Receipt.Status)
	assert.False(t, out.Receipt.VerificationStatus)

	stored, err := f.receipts.GetByID(context.Background(), out.Receipt.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Len(t, stored.Products, n)

	movs := f.store.Movements()
	require.Len(t, movs, n)
	for i, m := range movs {
		assert.Equal(t, entity.MovementTypeIngreso, m.Type)
		assert.Equal(t, out.Receipt.ID, m.ReferenceID)
		assert.True(t, m.StockBefore.IsZero())
		assert.True(t, m.StockAfter.Equal(lines[i].Quantity))
	}
	for _, l := range out.Receipt.Products {
		p, err := f.products.GetByID(context.Background(), l.ProductID)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(p.Code, "AUTO-"), p.Code)
		assert.Len(t, p.Code, len("AUTO-")+8)
	}
}

func TestCreate_ReusaProductoPorNombre(t *testing.T) {
	f := newFixture(t, receipt.Extractors{})
	existing := f.seedProduct(t, "bolt", "5", "1")

	out, err := f.uc.Create(context.Background(), userID, request(
		dto.ReceiptLineRequest{Name: "  BOLT ", Quantity: dec("10"), UnitPrice: ptr(dec("4"))},
	))
	require.NoError(t, err)
	assert.Zero(t, out.ProductsCreated)
	assert.Equal(t, 1, out.ProductsUpdated)

	p, err := f.products.GetByID(context.Background(), existing.ID)
	require.NoError(t, err)
	assert.Equal(t, "15", p.StockActual.String())
	assert.Equal(t, "4", p.PrecioUnitario.String())
	// (5*1 + 10*4) / 15 = 3
	assert.Equal(t, "3", p.CostoPromedio.String())
}

func TestCreate_MismoNombreNuevoEnDosLineas(t *testing.T) {
	f := newFixture(t, receipt.Extractors{})

	out, err := f.uc.Create(context.Background(), userID, request(
		dto.ReceiptLineRequest{Name: "Tuerca M8", Quantity: dec("3")},
		dto.ReceiptLineRequest{Name: "tuerca  m8", Quantity: dec("2")},
	))
	require.NoError(t, err)
	assert.Equal(t, 1, out.ProductsCreated)
	assert.Equal(t, 1, out.ProductsUpdated)
	assert.Equal(t, out.Receipt.Products[0].ProductID, out.Receipt.Products[1].ProductID)

	p, err := f.products.GetByID(context.Background(), out.Receipt.Products[0].ProductID)
	require.NoError(t, err)
	assert.Equal(t, "5", p.StockActual.String())
}

func TestCreate_PorProductID(t *testing.T) {
	f := newFixture(t, receipt.Extractors{})
	existing := f.seedProduct(t, "Cable 2mm", "1", "0")

	out, err := f.uc.Create(context.Background(), userID, request(
		dto.ReceiptLineRequest{ProductID: existing.ID, Name: "otro nombre", Quantity: dec("9")},
	))
	require.NoError(t, err)
	assert.Equal(t, existing.ID, out.Receipt.Products[0].ProductID)

	_, err = f.uc.Create(context.Background(), userID, request(
		dto.ReceiptLineRequest{ProductID: "no-existe", Quantity: dec("1")},
	))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreate_RollbackAnteFalloDeMovimiento(t *testing.T) {
	f := newFixture(t, receipt.Extractors{})
	existing := f.seedProduct(t, "clavo", "7", "0")
	f.store.FailOn("movements.create", errors.New("disk full"))

	_, err := f.uc.Create(context.Background(), userID, request(
		dto.ReceiptLineRequest{Name: "clavo", Quantity: dec("3")},
		dto.ReceiptLineRequest{Name: "martillo", Quantity: dec("1")},
	))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	p, err := f.products.GetByID(context.Background(), existing.ID)
	require.NoError(t, err)
	assert.Equal(t, "7", p.StockActual.String())
	list, err := f.receipts.List(context.Background(), "", "", 0, 0)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Empty(t, f.store.Movements())
}

func TestCreate_Validaciones(t *testing.T) {
	f := newFixture(t, receipt.Extractors{})
	cases := map[string]dto.CreateReceiptRequest{
		"sin almacén":         {EntryDate: "2024-01-01", Products: []dto.ReceiptLineRequest{{Name: "x", Quantity: dec("1")}}},
		"sin fecha":           {WarehouseID: warehouseID, Products: []dto.ReceiptLineRequest{{Name: "x", Quantity: dec("1")}}},
		"sin líneas":          request(),
		"cantidad cero":       request(dto.ReceiptLineRequest{Name: "x", Quantity: decimal.Zero}),
		"precio negativo":     request(dto.ReceiptLineRequest{Name: "x", Quantity: dec("1"), UnitPrice: ptr(dec("-1"))}),
		"fecha inválida":      {WarehouseID: warehouseID, EntryDate: "ayer", Products: []dto.ReceiptLineRequest{{Name: "x", Quantity: dec("1")}}},
		"estado inválido":     {WarehouseID: warehouseID, EntryDate: "2024-01-01", Status: "Done", Products: []dto.ReceiptLineRequest{{Name: "x", Quantity: dec("1")}}},
		"creado verificado":   {WarehouseID: warehouseID, EntryDate: "2024-01-01", Status: entity.ReceiptStatusVerified, Products: []dto.ReceiptLineRequest{{Name: "x", Quantity: dec("1")}}},
		"almacén inexistente": {WarehouseID: "otro", EntryDate: "2024-01-01", Products: []dto.ReceiptLineRequest{{Name: "x", Quantity: dec("1")}}},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.uc.Create(context.Background(), userID, in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
	assert.Empty(t, f.store.Movements())
}

func seedOrder(t *testing.T, f *fixture, status string) *entity.Order {
	t.Helper()
	o := &entity.Order{ID: gofakeit.UUID(), OrderNumber: "OC-" + gofakeit.DigitN(5), Supplier: gofakeit.Company(), Status: status, OrderDate: time.Now()}
	require.NoError(t, f.orders.Create(context.Background(), o))
	return o
}

func TestCreate_RecibeLaOrden(t *testing.T) {
	f := newFixture(t, receipt.Extractors{})
	order := seedOrder(t, f, entity.OrderStatusApproved)

	in := request(dto.ReceiptLineRequest{Name: "caño", Quantity: dec("2")})
	in.OrderID = order.ID
	_, err := f.uc.Create(context.Background(), userID, in)
	require.NoError(t, err)

	got, err := f.orders.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusReceived, got.Status)
}

func TestCreate_OrdenCancelada(t *testing.T) {
	f := newFixture(t, receipt.Extractors{})
	order := seedOrder(t, f, entity.OrderStatusCancelled)

	in := request(dto.ReceiptLineRequest{Name: "caño", Quantity: dec("2")})
	in.OrderID = order.ID
	_, err := f.uc.Create(context.Background(), userID, in)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Empty(t, f.store.Movements())
}

func TestUpdateStatus_VerificadoEsDefinitivo(t *testing.T) {
	f := newFixture(t, receipt.Extractors{})
	out, err := f.uc.Create(context.Background(), userID, request(dto.ReceiptLineRequest{Name: "x", Quantity: dec("1")}))
	require.NoError(t, err)

	rc, err := f.uc.UpdateStatus(context.Background(), out.Receipt.ID, entity.ReceiptStatusVerified)
	require.NoError(t, err)
	assert.True(t, rc.VerificationStatus)

	_, err = f.uc.UpdateStatus(context.Background(), out.Receipt.ID, entity.ReceiptStatusRejected)
	assert.ErrorIs(t, err, domain.ErrConflict)

	err = f.uc.Delete(context.Background(), userID, out.Receipt.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = f.uc.UpdateStatus(context.Background(), "no-existe", entity.ReceiptStatusVerified)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete_RevierteStock(t *testing.T) {
	f := newFixture(t, receipt.Extractors{})
	existing := f.seedProduct(t, "bolt", "5", "0")
	out, err := f.uc.Create(context.Background(), userID, request(dto.ReceiptLineRequest{Name: "bolt", Quantity: dec("10")}))
	require.NoError(t, err)

	require.NoError(t, f.uc.Delete(context.Background(), userID, out.Receipt.ID))

	p, err := f.products.GetByID(context.Background(), existing.ID)
	require.NoError(t, err)
	assert.Equal(t, "5", p.StockActual.String())
	_, err = f.uc.GetByID(context.Background(), out.Receipt.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	movs := f.store.Movements()
	require.Len(t, movs, 2)
	assert.Equal(t, entity.MovementTypeAjuste, movs[1].Type)
	assert.Equal(t, "-10", movs[1].Quantity.String())
}

func TestDelete_StockInsuficienteParaRevertir(t *testing.T) {
	f := newFixture(t, receipt.Extractors{})
	out, err := f.uc.Create(context.Background(), userID, request(dto.ReceiptLineRequest{Name: "bolt", Quantity: dec("10")}))
	require.NoError(t, err)
	pid := out.Receipt.Products[0].ProductID

	p, err := f.products.GetByID(context.Background(), pid)
	require.NoError(t, err)
	p.StockActual = dec("4")
	require.NoError(t, f.products.UpdateStock(context.Background(), p))

	err = f.uc.Delete(context.Background(), userID, out.Receipt.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
	_, err = f.uc.GetByID(context.Background(), out.Receipt.ID)
	assert.NoError(t, err)
}

func tempFiles(t *testing.T, dir string) []os.DirEntry {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	return entries
}

func TestIngestFile_EliminaTemporal(t *testing.T) {
	ok := receipt.ExtractorFunc(func(_ context.Context, r io.ReadSeeker, size int64) (*dto.ExtractedReceipt, error) {
		raw, err := io.ReadAll(r)
		require.NoError(t, err)
		assert.EqualValues(t, len(raw), size)
		return &dto.ExtractedReceipt{
			WarehouseID: "ignorado",
			EntryDate:   "2024-05-02",
			Products:    []dto.ReceiptLineRequest{{Name: "Arandela", Quantity: dec("12")}, {Quantity: dec("1")}},
		}, nil
	})
	f := newFixture(t, receipt.Extractors{Text: ok})

	out, err := f.uc.IngestFile(context.Background(), userID,
		receipt.Upload{Filename: "remito.csv", Size: 20, Content: strings.NewReader("nombre;cantidad\nArandela;12\n")},
		receipt.UploadFields{WarehouseID: warehouseID},
	)
	require.NoError(t, err)
	assert.Equal(t, entity.ReceiptSourceCSV, out.Receipt.Source)
	assert.Equal(t, warehouseID, out.Receipt.WarehouseID)
	assert.Len(t, out.Receipt.Products, 1, "la línea sin nombre se descarta")
	assert.Empty(t, tempFiles(t, f.tempDir))
}

func TestIngestFile_EliminaTemporalAnteError(t *testing.T) {
	failing := receipt.ExtractorFunc(func(context.Context, io.ReadSeeker, int64) (*dto.ExtractedReceipt, error) {
		return nil, errors.New("pdf corrupto")
	})
	f := newFixture(t, receipt.Extractors{PDF: failing})

	_, err := f.uc.IngestFile(context.Background(), userID,
		receipt.Upload{Filename: "remito.pdf", Size: 16, Content: strings.NewReader("%PDF-1.4\n%%EOF\n")},
		receipt.UploadFields{WarehouseID: warehouseID},
	)
	require.Error(t, err)
	assert.Empty(t, tempFiles(t, f.tempDir))
}

func TestIngestFile_Limites(t *testing.T) {
	f := newFixture(t, receipt.Extractors{Text: receipt.ExtractorFunc(func(context.Context, io.ReadSeeker, int64) (*dto.ExtractedReceipt, error) {
		return &dto.ExtractedReceipt{}, nil
	})})
	big := strings.Repeat("a;1\n", 400)

	t.Run("tamaño declarado", func(t *testing.T) {
		_, err := f.uc.IngestFile(context.Background(), userID,
			receipt.Upload{Filename: "r.csv", Size: int64(len(big)), Content: strings.NewReader(big)}, receipt.UploadFields{})
		assert.ErrorIs(t, err, domain.ErrFileTooLarge)
	})
	t.Run("tamaño real mayor al declarado", func(t *testing.T) {
		_, err := f.uc.IngestFile(context.Background(), userID,
			receipt.Upload{Filename: "r.csv", Size: 10, Content: strings.NewReader(big)}, receipt.UploadFields{})
		assert.ErrorIs(t, err, domain.ErrFileTooLarge)
	})
	t.Run("sin líneas", func(t *testing.T) {
		_, err := f.uc.IngestFile(context.Background(), userID,
			receipt.Upload{Filename: "r.csv", Size: 4, Content: strings.NewReader("a;1\n")}, receipt.UploadFields{WarehouseID: warehouseID})
		assert.ErrorIs(t, err, domain.ErrEmptyExtraction)
	})
	t.Run("imagen sin extractor", func(t *testing.T) {
		png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
		_, err := f.uc.IngestFile(context.Background(), userID,
			receipt.Upload{Filename: "r.png", Size: int64(len(png)), Content: strings.NewReader(string(png))}, receipt.UploadFields{})
		assert.ErrorIs(t, err, domain.ErrUnsupportedFile)
	})
	assert.Empty(t, tempFiles(t, f.tempDir))
}

func TestDetectKind(t *testing.T) {
	cases := []struct {
		head     string
		filename string
		kind     string
		ok       bool
	}{
		{"%PDF-1.7\n", "r.pdf", entity.ReceiptSourcePDF, true},
		{"\x89PNG\r\n\x1a\n", "foto", entity.ReceiptSourceImage, true},
		{"\xff\xd8\xff\xe0", "foto.jpg", entity.ReceiptSourceImage, true},
		{"nombre,cantidad\n", "r.csv", entity.ReceiptSourceCSV, true},
		{"3 tornillos\n", "r.txt", entity.ReceiptSourceCSV, true},
		{"nombre,cantidad\n", "r.exe", "", false},
		{"PK\x03\x04", "r.zip", "", false},
	}
	for _, tc := range cases {
		kind, err := receipt.DetectKind([]byte(tc.head), tc.filename)
		if !tc.ok {
			assert.ErrorIs(t, err, domain.ErrUnsupportedFile, tc.filename)
			continue
		}
		require.NoError(t, err, tc.filename)
		assert.Equal(t, tc.kind, kind, tc.filename)
	}
}
