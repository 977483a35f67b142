package app

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

const barWidth = 40

// marketShareTab renders the brand share of total sales as proportions.
func (c *Console) marketShareTab() {
	groups, err := c.store.SalesByBrand()
	if err != nil {
		fmt.Fprintf(c.out, "report failed: %v\n", err)
		return
	}

	var total int64
	for _, g := range groups {
		total += g.Sales
	}
	if total == 0 {
		fmt.Fprintln(c.out, "no sales data")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(c.out)
	t.SetStyle(table.StyleLight)
	t.SetTitle("市场占比 — market share")
	t.AppendHeader(table.Row{"brand", "sales", "share"})
	for _, g := range groups {
		share := float64(g.Sales) / float64(total) * 100
		t.AppendRow(table.Row{g.Brand, g.Sales, fmt.Sprintf("%.1f%%", share)})
	}
	t.Render()
}

// brandBarTab renders total sales per brand as horizontal bars. The bar
// aggregation policy is brand-sum; the price-band variant lives in its own
// tab.
func (c *Console) brandBarTab() {
	groups, err := c.store.SalesByBrand()
	if err != nil {
		fmt.Fprintf(c.out, "report failed: %v\n", err)
		return
	}
	if len(groups) == 0 {
		fmt.Fprintln(c.out, "no sales data")
		return
	}

	var max int64
	for _, g := range groups {
		if g.Sales > max {
			max = g.Sales
		}
	}

	fmt.Fprintln(c.out, "\n手机销量 — sales by brand")
	for _, g := range groups {
		fmt.Fprintf(c.out, "%10s | %s %d\n", g.Brand, bar(g.Sales, max), g.Sales)
	}
}

// priceBandTab renders total sales per fixed price band.
func (c *Console) priceBandTab() {
	bands, err := c.store.SalesByPriceBand()
	if err != nil {
		fmt.Fprintf(c.out, "report failed: %v\n", err)
		return
	}

	var max int64
	for _, b := range bands {
		if b.Sales > max {
			max = b.Sales
		}
	}

	fmt.Fprintln(c.out, "\n价格区间销量 — sales by price band")
	for _, b := range bands {
		fmt.Fprintf(c.out, "%10s | %s %d\n", b.Label, bar(b.Sales, max), b.Sales)
	}
}

// scatterTab lists the price/sales correlation points, sorted by price. The
// sort only changes reading order, not the data.
func (c *Console) scatterTab() {
	points, err := c.store.PriceSalesPoints()
	if err != nil {
		fmt.Fprintf(c.out, "report failed: %v\n", err)
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(c.out)
	t.SetStyle(table.StyleLight)
	t.SetTitle("价格与销量 — price vs sales")
	t.AppendHeader(table.Row{"price", "sales"})
	for _, p := range points {
		t.AppendRow(table.Row{fmt.Sprintf("%.2f", p.Price), p.Sales})
	}
	t.Render()
}

func bar(value, max int64) string {
	if max <= 0 {
		return ""
	}
	n := int(value * barWidth / max)
	return strings.Repeat("█", n)
}
