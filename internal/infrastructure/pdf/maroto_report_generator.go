// Package pdf genera los documentos imprimibles del almacén con Maroto v2:
// reporte de inventario, comprobante de remito, vale de orden de trabajo y etiqueta QR.
//
// Layout común (A4):
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + subtítulo   │  Número / Fecha             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA con cabecera en color primario                       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES / FIRMAS                                           │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/report"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorAlert   = &props.Color{Red: 180, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoReportGenerator implementa report.PDFGenerator usando Maroto v2.
type MarotoReportGenerator struct {
	appName string
}

// NewMarotoReportGenerator construye el generador; appName aparece como autor.
func NewMarotoReportGenerator(appName string) *MarotoReportGenerator {
	return &MarotoReportGenerator{appName: appName}
}

var _ report.PDFGenerator = (*MarotoReportGenerator)(nil)

func (g *MarotoReportGenerator) a4(title string) core.Maroto {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		WithAuthor(g.appName, true).
		Build()
	return maroto.New(cfg)
}

func render(m core.Maroto) ([]byte, error) {
	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// InventoryPDF listado valorizado con marca de stock bajo.
func (g *MarotoReportGenerator) InventoryPDF(_ context.Context, rep *dto.InventoryReport) ([]byte, error) {
	m := g.a4("Reporte de inventario")
	m.AddRows(headerRow("REPORTE DE INVENTARIO", filtersLabel(rep.Filters), "", rep.GeneratedAt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow([]column{
		{"Código", 2, align.Left},
		{"Producto", 4, align.Left},
		{"Ubicación", 2, align.Left},
		{"Stock", 1, align.Right},
		{"P. Unit.", 1, align.Right},
		{"Valorizado", 2, align.Right},
	}))
	for _, r := range rep.Rows {
		color := (*props.Color)(nil)
		if r.LowStock {
			color = colorAlert
		}
		m.AddRows(row.New(6).Add(
			cell(r.Code, 2, align.Left, nil),
			cell(r.Name, 4, align.Left, nil),
			cell(nonEmpty(r.Ubicacion, "—"), 2, align.Left, nil),
			cell(r.StockActual.String(), 1, align.Right, color),
			cell(formatMoney(r.PrecioUnitario), 1, align.Right, nil),
			cell(formatMoney(r.Valorizado), 2, align.Right, nil),
		))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow([][2]string{
		{"Productos:", fmt.Sprintf("%d", rep.TotalProducts)},
		{"Con stock bajo:", fmt.Sprintf("%d", rep.LowStockCount)},
		{"VALOR TOTAL:", formatMoney(rep.TotalValue)},
	}))
	return render(m)
}

// ReceiptPDF comprobante de ingreso con sus líneas.
func (g *MarotoReportGenerator) ReceiptPDF(_ context.Context, rc *entity.Receipt, wh *entity.Warehouse) ([]byte, error) {
	m := g.a4("Remito " + rc.ID)
	sub := "Almacén: " + nonEmpty(wh.Name, wh.ID)
	if rc.OrderID != "" {
		sub += "   |   Orden: " + rc.OrderID
	}
	m.AddRows(headerRow("REMITO DE INGRESO", sub, shortID(rc.ID), rc.EntryDate))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(row.New(8).Add(col.New(12).Add(
		text.New(fmt.Sprintf("Estado: %s   |   Origen: %s   |   Verificado: %s",
			rc.Status, rc.Source, yesNo(rc.VerificationStatus)),
			props.Text{Size: 8, Top: 2, Color: colorGray}),
	)))

	m.AddRows(tableHeaderRow([]column{
		{"Cant.", 2, align.Center},
		{"Producto", 6, align.Left},
		{"P. Unit.", 2, align.Right},
		{"Subtotal", 2, align.Right},
	}))
	total := decimal.Zero
	for _, l := range rc.Products {
		price, sub := "—", "—"
		if l.UnitPrice != nil {
			s := l.Quantity.Mul(*l.UnitPrice)
			total = total.Add(s)
			price, sub = formatMoney(*l.UnitPrice), formatMoney(s)
		}
		m.AddRows(row.New(6).Add(
			cell(l.Quantity.String(), 2, align.Center, nil),
			cell(nonEmpty(l.ProductName, l.ProductID), 6, align.Left, nil),
			cell(price, 2, align.Right, nil),
			cell(sub, 2, align.Right, nil),
		))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow([][2]string{
		{"Líneas:", fmt.Sprintf("%d", len(rc.Products))},
		{"TOTAL:", formatMoney(total)},
	}))
	m.AddRows(signaturesRow("Entregó", "Recibió"))
	return render(m)
}

// WorkOrderPDF vale de materiales de una orden de trabajo.
func (g *MarotoReportGenerator) WorkOrderPDF(_ context.Context, wo *entity.WorkOrder, project *entity.Project) ([]byte, error) {
	m := g.a4("Orden de trabajo " + wo.Number)
	sub := fmt.Sprintf("Proyecto: %s %s", project.Code, project.Name)
	m.AddRows(headerRow("ORDEN DE TRABAJO", strings.TrimSpace(sub), wo.Number, wo.CreatedAt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(row.New(8).Add(col.New(12).Add(
		text.New("Estado: "+wo.Status+"   |   "+nonEmpty(wo.Notes, "Sin observaciones"),
			props.Text{Size: 8, Top: 2, Color: colorGray}),
	)))

	m.AddRows(tableHeaderRow([]column{
		{"Producto", 8, align.Left},
		{"Solicitado", 2, align.Right},
		{"Entregado", 2, align.Right},
	}))
	for _, it := range wo.Items {
		m.AddRows(row.New(6).Add(
			cell(nonEmpty(it.ProductName, it.ProductID), 8, align.Left, nil),
			cell(it.QuantityRequested.String(), 2, align.Right, nil),
			cell(it.QuantityDelivered.String(), 2, align.Right, nil),
		))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(signaturesRow("Solicitó", "Entregó"))
	return render(m)
}

// LabelPDF etiqueta de 100×50 mm: QR a la izquierda, código y nombre a la derecha.
func (g *MarotoReportGenerator) LabelPDF(_ context.Context, p *entity.Product, qrPayload string) ([]byte, error) {
	cfg := config.NewBuilder().
		WithDimensions(100, 50).
		WithLeftMargin(4).WithRightMargin(4).
		WithTopMargin(4).WithBottomMargin(4).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Etiqueta "+p.Code, true).
		Build()
	m := maroto.New(cfg)
	m.AddRows(row.New(40).Add(
		col.New(5).Add(code.NewQr(qrPayload, props.Rect{Percent: 95, Center: true})),
		col.New(7).Add(
			text.New(p.Code, props.Text{Style: fontstyle.Bold, Size: 12, Top: 4, Left: 2, Color: colorPrimary}),
			text.New(p.Name, props.Text{Size: 9, Top: 14, Left: 2}),
			text.New(nonEmpty(p.Ubicacion, ""), props.Text{Size: 8, Top: 30, Left: 2, Color: colorGray}),
		),
	))
	return render(m)
}

// ── Secciones ─────────────────────────────────────────────────────────────────

type column struct {
	label string
	size  int
	align align.Type
}

// headerRow: título + subtítulo (izq) y número + fecha (der).
func headerRow(title, subtitle, number string, date time.Time) core.Row {
	return row.New(18).Add(
		col.New(8).Add(
			text.New(title, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New(subtitle, props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(4).Add(
			text.New(number, props.Text{Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 2}),
			text.New("Fecha: "+date.Format("02/01/2006"), props.Text{Size: 8, Align: align.Right, Top: 10, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de tabla con fondo en color primario.
func tableHeaderRow(cols []column) core.Row {
	out := make([]core.Col, 0, len(cols))
	for _, c := range cols {
		out = append(out, col.New(c.size).Add(text.New(c.label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: c.align,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		})))
	}
	return row.New(8).Add(out...).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func cell(value string, size int, a align.Type, color *props.Color) core.Col {
	return col.New(size).Add(text.New(value, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1, Color: color}))
}

// totalsRow: pares etiqueta/valor alineados a la derecha.
func totalsRow(pairs [][2]string) core.Row {
	labels := make([]core.Component, 0, len(pairs))
	values := make([]core.Component, 0, len(pairs))
	for i, p := range pairs {
		top := float64(i * 6)
		labels = append(labels, text.New(p[0], props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top}))
		values = append(values, text.New(p[1], props.Text{Size: 9, Align: align.Right, Right: 1, Top: top}))
	}
	return row.New(float64(len(pairs)*6+4)).Add(
		col.New(6),
		col.New(3).Add(labels...),
		col.New(3).Add(values...),
	)
}

func signaturesRow(left, right string) core.Row {
	sign := func(label string) core.Col {
		return col.New(6).Add(
			text.New("______________________________", props.Text{Align: align.Center, Top: 16}),
			text.New(label, props.Text{Size: 8, Align: align.Center, Top: 21, Color: colorGray}),
		)
	}
	return row.New(30).Add(sign(left), sign(right))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func filtersLabel(f dto.InventoryReportQuery) string {
	parts := []string{}
	if f.Search != "" {
		parts = append(parts, "búsqueda: "+f.Search)
	}
	if f.Location != "" {
		parts = append(parts, "ubicación: "+f.Location)
	}
	if f.LowStock {
		parts = append(parts, "solo stock bajo")
	}
	if f.IncludeInactive {
		parts = append(parts, "incluye inactivos")
	}
	if len(parts) == 0 {
		return "Todos los productos activos"
	}
	return strings.Join(parts, "   |   ")
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func yesNo(b bool) string {
	if b {
		return "sí"
	}
	return "no"
}

func shortID(id string) string {
	if len(id) > 8 {
		return "N° " + strings.ToUpper(id[:8])
	}
	return "N° " + id
}

// formatMoney "$" + miles con punto y dos decimales con coma. Ej: 1234567.5 → "$1.234.567,50".
func formatMoney(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	s := d.StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + "$" + string(buf) + "," + frac
}
