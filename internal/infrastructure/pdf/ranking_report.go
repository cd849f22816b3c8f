// Package pdf genera el reporte imprimible de un snapshot de ranking.
//
// Layout de la página A4 horizontal:
//
//	┌──────────────────────────────────────────────────────────────────┐
//	│  HEADER: Categoría + fecha de captura   │  QR al ranking origen   │
//	│  RESUMEN: artículos / oficiales / descuento promedio              │
//	│  ──────────────────────────────────────────────────────────────   │
//	│  TABLA: # | Artículo | Marca | Original | Venta | Dto% | Mega | …  │
//	│  ──────────────────────────────────────────────────────────────   │
//	│  FOOTER: id del snapshot                                          │
//	└──────────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"unicode/utf8"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorHeader  = &props.Cell{BackgroundColor: colorPrimary}
)

const maxNameRunes = 60

// ── Renderer ──────────────────────────────────────────────────────────────────

// RankingReportRenderer implementa ranking.ReportRenderer usando Maroto v2.
type RankingReportRenderer struct {
	sourceURL string
	printer   *message.Printer
}

// NewRankingReportRenderer construye el renderer. sourceURL se codifica en el QR del encabezado (vacío = sin QR).
func NewRankingReportRenderer(sourceURL string) *RankingReportRenderer {
	return &RankingReportRenderer{sourceURL: sourceURL, printer: message.NewPrinter(language.Japanese)}
}

// RenderSnapshot genera el PDF y devuelve sus bytes.
func (r *RankingReportRenderer) RenderSnapshot(_ context.Context, snap *entity.RankingSnapshot) ([]byte, error) {
	if snap == nil {
		return nil, fmt.Errorf("pdf: snapshot nil")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Horizontal).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle("Ranking "+snap.Category, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(r.headerRow(snap))
	m.AddRows(r.summaryRow(snap))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	m.AddRows(r.tableRows(snap.Items)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(row.New(6).Add(col.New(12).Add(
		text.New("Snapshot "+snap.ID, props.Text{Size: 6.5, Color: colorGray, Top: 1}),
	)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (r *RankingReportRenderer) headerRow(snap *entity.RankingSnapshot) core.Row {
	left := col.New(9).Add(
		text.New("RANKING "+snap.Category, props.Text{
			Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 1,
		}),
		text.New("Capturado: "+snap.TakenAt.UTC().Format("2006-01-02 15:04 UTC"), props.Text{
			Size: 9, Top: 10, Color: colorGray,
		}),
	)
	if r.sourceURL == "" {
		return row.New(20).Add(left, col.New(3))
	}
	return row.New(20).Add(left, col.New(3).Add(code.NewQr(r.sourceURL, props.Rect{Percent: 90, Center: true})))
}

func (r *RankingReportRenderer) summaryRow(snap *entity.RankingSnapshot) core.Row {
	official := 0
	var sum decimal.Decimal
	rated := 0
	for _, it := range snap.Items {
		if it.Item.IsOfficial {
			official++
		}
		if it.DiscountRate != nil {
			sum = sum.Add(*it.DiscountRate)
			rated++
		}
	}
	avg := "-"
	if rated > 0 {
		avg = sum.Div(decimal.NewFromInt(int64(rated))).StringFixed(1) + "%"
	}
	return row.New(8).Add(col.New(12).Add(
		text.New(r.printer.Sprintf("Artículos: %d   |   Tiendas oficiales: %d   |   Descuento promedio: %s",
			len(snap.Items), official, avg), props.Text{Size: 8, Top: 2, Color: colorGray}),
	))
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("#", 1, align.Center),
		h("Artículo", 4, align.Left),
		h("Marca", 2, align.Left),
		h("Original", 1, align.Right),
		h("Venta", 1, align.Right),
		h("Dto%", 1, align.Right),
		h("Mega", 1, align.Right),
		h("Vendidos", 1, align.Right),
	).WithStyle(colorHeader)
}

func (r *RankingReportRenderer) tableRows(items []entity.ItemSnapshot) []core.Row {
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 7.5, Align: a, Top: 1, Left: 1, Right: 1}))
	}
	out := make([]core.Row, 0, len(items))
	for _, it := range items {
		out = append(out, row.New(7).Add(
			cell(fmt.Sprint(it.Rank), 1, align.Center),
			cell(truncate(it.Item.Name, maxNameRunes), 4, align.Left),
			cell(nonEmpty(it.Item.BrandName, "-"), 2, align.Left),
			cell(r.yen(it.OriginalPrice), 1, align.Right),
			cell(r.yen(it.SalePrice), 1, align.Right),
			cell(percent(it.DiscountRate), 1, align.Right),
			cell(r.yen(it.MegaPrice), 1, align.Right),
			cell(r.count(it.Sold), 1, align.Right),
		))
	}
	return out
}

// ── helpers ───────────────────────────────────────────────────────────────────

// yen formatea con separador de miles: 1980 → "¥1,980".
func (r *RankingReportRenderer) yen(d *decimal.Decimal) string {
	if d == nil {
		return "-"
	}
	return r.printer.Sprintf("¥%d", d.IntPart())
}

func (r *RankingReportRenderer) count(n *int64) string {
	if n == nil {
		return "-"
	}
	return r.printer.Sprintf("%d", *n)
}

func percent(d *decimal.Decimal) string {
	if d == nil {
		return "-"
	}
	return d.StringFixed(1) + "%"
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// truncate corta s a max runas agregando "...".
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max-3]) + "..."
}
