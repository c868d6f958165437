package report

import (
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
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 180, Green: 30, Blue: 30}
)

func renderInventoryPDF(rep ProductReport) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(rep.Title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(row.New(14).Add(
		col.New(8).Add(text.New(rep.Title, props.Text{
			Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 2,
		})),
		col.New(4).Add(text.New("Generated "+rep.GeneratedAt.Format("2006-01-02 15:04"), props.Text{
			Size: 8, Align: align.Right, Color: colorGray, Top: 4,
		})),
	))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(headerRow())
	for _, r := range productRows(rep.Products) {
		m.AddRows(r)
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(row.New(8).Add(
		col.New(9).Add(text.New(fmt.Sprintf("%d products", len(rep.Products)), props.Text{
			Size: 9, Top: 2, Color: colorGray,
		})),
		col.New(3).Add(text.New("Stock value: "+rep.TotalValue, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 2,
		})),
	))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate inventory pdf: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2,
		}))
	}
	return row.New(8).Add(
		h("Name", 3, align.Left),
		h("SKU", 2, align.Left),
		h("Category", 2, align.Left),
		h("Stock", 1, align.Right),
		h("Min", 1, align.Right),
		h("Cost", 1, align.Right),
		h("Value", 2, align.Right),
	)
}

func productRows(items []ProductItem) []core.Row {
	out := make([]core.Row, 0, len(items))
	for _, p := range items {
		stockProps := props.Text{Size: 8, Align: align.Right, Top: 1}
		if p.IsLowStock {
			stockProps.Color = colorAlert
			stockProps.Style = fontstyle.Bold
		}
		out = append(out, row.New(6).Add(
			col.New(3).Add(text.New(p.Name, props.Text{Size: 8, Top: 1})),
			col.New(2).Add(text.New(p.SKU, props.Text{Size: 8, Top: 1})),
			col.New(2).Add(text.New(nonEmpty(p.Category, "-"), props.Text{Size: 8, Top: 1})),
			col.New(1).Add(text.New(strconv.Itoa(p.CurrentStock), stockProps)),
			col.New(1).Add(text.New(strconv.Itoa(p.MinStockLevel), props.Text{Size: 8, Align: align.Right, Top: 1})),
			col.New(1).Add(text.New(p.CostPrice, props.Text{Size: 8, Align: align.Right, Top: 1})),
			col.New(2).Add(text.New(p.StockValue, props.Text{Size: 8, Align: align.Right, Top: 1})),
		))
	}
	return out
}

func nonEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
