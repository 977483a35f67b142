package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/jedib0t/go-pretty/v6/table"

	"phone-sales/models"
	"phone-sales/services"
)

// showDetail renders every field of one row and, when the row carries a real
// image URL, downloads the image beside the export directory. Fetch failures
// are reported and nothing else happens.
func (c *Console) showDetail() {
	title := c.prompt("title of row to view")
	if title == "" {
		return
	}

	rows, err := c.store.Search(models.ListingFilter{Title: title})
	if err != nil {
		fmt.Fprintf(c.out, "lookup failed: %v\n", err)
		return
	}

	var row *models.Listing
	for _, r := range rows {
		if r.Title == title {
			row = r
			break
		}
	}
	if row == nil {
		fmt.Fprintf(c.out, "no row titled %q\n", title)
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(c.out)
	t.SetStyle(table.StyleLight)
	t.SetTitle("查看详情")
	cells := row.Row()
	for i, h := range models.ColumnHeaders {
		t.AppendRow(table.Row{h, cells[i]})
	}
	t.Render()

	if row.Image == services.NoImage || row.Image == "" {
		fmt.Fprintln(c.out, "无图片")
		return
	}

	path, err := c.fetchImage(row.Image)
	if err != nil {
		fmt.Fprintf(c.out, "image fetch failed: %v\n", err)
		return
	}
	fmt.Fprintf(c.out, "image saved to %s\n", path)
}

// fetchImage downloads the listing thumbnail and writes it into the export
// directory.
func (c *Console) fetchImage(url string) (string, error) {
	client := resty.New()
	client.SetTimeout(30 * time.Second)

	res, err := client.R().Get(url)
	if err != nil {
		return "", err
	}
	if res.StatusCode() != 200 {
		return "", fmt.Errorf("unexpected status %d", res.StatusCode())
	}

	path := filepath.Join(c.cfg.ExportDir, fmt.Sprintf("listing_%d.jpg", time.Now().Unix()))
	if err := os.WriteFile(path, res.Body(), 0644); err != nil {
		return "", err
	}
	return path, nil
}
