// Package pdf genera la nota de devolución de una orden de venta.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: NOTA DE DEVOLUCIÓN     │  Orden + Fecha            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DATOS: Sucursal / Motivo                                    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Producto | Lote | Costo Unit. | Subtotal      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: unidades y costo devuelto                          │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
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

	"github.com/jhoicas/ServiceCenter-api/internal/application/orders"
	"github.com/jhoicas/ServiceCenter-api/internal/domain/entity"
)

var _ orders.ReturnNoteGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa orders.ReturnNoteGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateReturnNote genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateReturnNote(_ context.Context, ret *orders.SalesReturnDetail, orderCode string) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Nota de devolución "+orderCode, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(ret.Return, orderCode))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(infoRow(ret.Return))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableDetailRows(ret.Lines)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(ret.Lines))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(ret *entity.SalesReturn, orderCode string) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New("NOTA DE DEVOLUCIÓN", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("N° "+ret.ID, props.Text{Size: 7, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("Orden "+orderCode, props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 1,
			}),
			text.New("Fecha: "+ret.CreatedAt.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func infoRow(ret *entity.SalesReturn) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("Sucursal: "+ret.BranchID, props.Text{Size: 8, Top: 1, Color: colorGray}),
			text.New("Motivo: "+nonEmpty(ret.Reason, "-"), props.Text{Size: 8, Top: 6}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Producto", 4, align.Left),
		h("Lote", 3, align.Left),
		h("Costo Unit.", 2, align.Right),
		h("Subtotal", 2, align.Right),
	)
}

func tableDetailRows(lines []*entity.SalesReturnLine) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		lot := "sin lote"
		if l.LotID != nil {
			lot = *l.LotID
		}
		cost, subtotal := "-", "-"
		if l.UnitCost != nil {
			cost = "$" + formatMoney(l.UnitCost.StringFixed(0))
			subtotal = "$" + formatMoney(l.UnitCost.Mul(decimal.NewFromInt(l.Quantity)).StringFixed(0))
		}
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(strconv.FormatInt(l.Quantity, 10), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(4).Add(text.New(l.ProductID, props.Text{Size: 7, Top: 1, Left: 1})),
			col.New(3).Add(text.New(lot, props.Text{Size: 7, Top: 1, Left: 1, Color: colorGray})),
			col.New(2).Add(text.New(cost, props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(subtotal, props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

func totalsRow(lines []*entity.SalesReturnLine) core.Row {
	var units int64
	total := decimal.Zero
	for _, l := range lines {
		units += l.Quantity
		if l.UnitCost != nil {
			total = total.Add(l.UnitCost.Mul(decimal.NewFromInt(l.Quantity)))
		}
	}
	bold := props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1}
	return row.New(14).Add(
		col.New(6),
		col.New(3).Add(
			text.New("Unidades:", bold),
			text.New("Costo devuelto:", props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: 6}),
		),
		col.New(3).Add(
			text.New(strconv.FormatInt(units, 10), bold),
			text.New("$"+formatMoney(total.StringFixed(0)), props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Right: 1, Top: 6}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "1000000" → "1.000.000"
func formatMoney(s string) string {
	neg := len(s) > 0 && s[0] == '-'
	if neg {
		s = s[1:]
	}
	n := len(s)
	buf := make([]byte, 0, n+n/3+1)
	if neg {
		buf = append(buf, '-')
	}
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
