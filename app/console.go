package app

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"phone-sales/config"
	"phone-sales/models"
	"phone-sales/storage"
	"phone-sales/utils"
)

// Console is the operator-facing workspace: a login gate followed by a
// tabbed menu over the shared store. Everything runs synchronously on the
// calling goroutine; a slow query simply blocks the prompt.
type Console struct {
	cfg    *config.Config
	store  *storage.Store
	auth   *Auth
	logger *utils.Logger

	in  *bufio.Scanner
	out io.Writer

	session models.Session
}

// NewConsole wires a console over the given store handle. The store is owned
// by the caller and released at caller teardown, not held ambiently.
func NewConsole(cfg *config.Config, store *storage.Store, logger *utils.Logger, in io.Reader, out io.Writer) *Console {
	return &Console{
		cfg:    cfg,
		store:  store,
		auth:   NewAuth(store),
		logger: logger,
		in:     bufio.NewScanner(in),
		out:    out,
	}
}

// Run drives the login gate and then the workspace until the operator quits
// or input ends.
func (c *Console) Run() error {
	if !c.loginGate() {
		return nil
	}
	c.workspace()
	return nil
}

// loginGate loops on login/register until a session is established or the
// operator gives up. Returns false when input ends without a login.
func (c *Console) loginGate() bool {
	for {
		fmt.Fprintln(c.out, "\n=== 手机销售数据分析 — login ===")
		fmt.Fprintln(c.out, "[1] login  [2] register  [0] quit")

		switch c.prompt("choice") {
		case "1":
			username := c.prompt("username")
			password := c.prompt("password")
			asAdmin := c.promptRole()

			sess, err := c.auth.Login(username, password, asAdmin)
			if err != nil {
				fmt.Fprintf(c.out, "login failed: %v\n", err)
				continue
			}
			c.session = sess
			role := "general user"
			if sess.IsAdmin {
				role = "admin"
			}
			fmt.Fprintf(c.out, "welcome %s (%s)\n", sess.Username, role)
			return true

		case "2":
			username := c.prompt("username")
			password := c.prompt("password")
			asAdmin := c.promptRole()

			if err := c.auth.Register(username, password, asAdmin); err != nil {
				fmt.Fprintf(c.out, "registration failed: %v\n", err)
				continue
			}
			fmt.Fprintln(c.out, "registered — you can log in now")

		case "0", "":
			return false
		}
	}
}

// workspace is the tabbed main menu. Every report tab re-queries the store
// at open time; nothing is cached between opens.
func (c *Console) workspace() {
	for {
		fmt.Fprintln(c.out, "\n=== workspace ===")
		fmt.Fprintln(c.out, "[1] listings  [2] market share  [3] sales by brand  [4] sales by price band  [5] price vs sales  [0] quit")

		switch c.prompt("tab") {
		case "1":
			c.listingsTab()
		case "2":
			c.marketShareTab()
		case "3":
			c.brandBarTab()
		case "4":
			c.priceBandTab()
		case "5":
			c.scatterTab()
		case "0", "":
			return
		}
	}
}

// listingsTab is the searchable grid plus the mutation actions. Mutation
// controls are only offered to admin sessions; this gating is advisory UI
// gating only — the store itself re-checks nothing.
func (c *Console) listingsTab() {
	c.showListings(nil)

	for {
		if c.session.IsAdmin {
			fmt.Fprintln(c.out, "[l] list  [s] search  [a] add  [u] update  [d] delete  [v] detail  [e] export  [b] back")
		} else {
			fmt.Fprintln(c.out, "[l] list  [s] search  [v] detail  [e] export  [b] back")
		}

		action := c.prompt("action")
		if !c.session.IsAdmin {
			switch action {
			case "a", "u", "d":
				fmt.Fprintln(c.out, "not available for general users")
				continue
			}
		}

		switch action {
		case "l":
			c.showListings(nil)
		case "s":
			c.searchListings()
		case "a":
			c.addListing()
		case "u":
			c.updateListing()
		case "d":
			c.deleteListing()
		case "v":
			c.showDetail()
		case "e":
			c.exportListings()
		case "b", "":
			return
		}
	}
}

// showListings renders rows in a grid; nil means "query everything".
func (c *Console) showListings(rows []*models.Listing) {
	if rows == nil {
		var err error
		rows, err = c.store.FetchAll()
		if err != nil {
			fmt.Fprintf(c.out, "load failed: %v\n", err)
			return
		}
	}

	t := table.NewWriter()
	t.SetOutputMirror(c.out)
	t.SetStyle(table.StyleLight)

	header := table.Row{"#"}
	for _, h := range models.ColumnHeaders {
		header = append(header, h)
	}
	t.AppendHeader(header)

	for i, l := range rows {
		row := table.Row{i + 1}
		for _, v := range l.Row() {
			row = append(row, v)
		}
		t.AppendRow(row)
	}
	t.Render()
	fmt.Fprintf(c.out, "%d rows\n", len(rows))
}

// searchListings reads the four optional criteria and runs the AND-combined
// search. A malformed price bound is an operator error: warn, run nothing.
func (c *Console) searchListings() {
	filter := models.ListingFilter{
		Title: c.prompt("title contains (empty = any)"),
		Brand: c.prompt("brand contains (empty = any)"),
	}

	ok := true
	filter.MinPrice, ok = c.promptPrice("min price (empty = none)")
	if !ok {
		return
	}
	filter.MaxPrice, ok = c.promptPrice("max price (empty = none)")
	if !ok {
		return
	}

	rows, err := c.store.Search(filter)
	if err != nil {
		fmt.Fprintf(c.out, "search failed: %v\n", err)
		return
	}
	c.showListings(rows)
}

// promptListing collects a full listing as one structured input and
// validates it as a whole before any store call. Only the title is
// mandatory; every other field may stay empty.
func (c *Console) promptListing(defaults *models.Listing) (*models.Listing, bool) {
	if defaults == nil {
		defaults = &models.Listing{}
	}

	l := &models.Listing{
		Image:             c.promptDefault("image url", defaults.Image),
		Title:             c.promptDefault("title", defaults.Title),
		Brand:             c.promptDefault("brand", defaults.Brand),
		Price:             c.promptDefault("price", defaults.Price),
		SalesText:         c.promptDefault("sales text", defaults.SalesText),
		Sales:             c.promptDefault("sales", defaults.Sales),
		ShopName:          c.promptDefault("shop name", defaults.ShopName),
		CommentsCountText: c.promptDefault("comments text", defaults.CommentsCountText),
		CommentsCount:     c.promptDefault("comments count", defaults.CommentsCount),
		Star:              c.promptDefault("star", defaults.Star),
	}

	if strings.TrimSpace(l.Title) == "" {
		fmt.Fprintln(c.out, "title is required")
		return nil, false
	}
	if l.Price != "" {
		if _, err := strconv.ParseFloat(l.Price, 64); err != nil {
			fmt.Fprintf(c.out, "price %q is not numeric\n", l.Price)
			return nil, false
		}
	}
	return l, true
}

func (c *Console) addListing() {
	l, ok := c.promptListing(nil)
	if !ok {
		return
	}
	if err := c.store.InsertListing(l); err != nil {
		fmt.Fprintf(c.out, "add failed: %v\n", err)
		return
	}
	c.showListings(nil)
}

func (c *Console) updateListing() {
	title := c.prompt("title of row to update")
	if title == "" {
		return
	}

	current, err := c.store.Search(models.ListingFilter{Title: title})
	if err != nil {
		fmt.Fprintf(c.out, "lookup failed: %v\n", err)
		return
	}

	var defaults *models.Listing
	for _, row := range current {
		if row.Title == title {
			defaults = row
			break
		}
	}
	if defaults == nil {
		fmt.Fprintf(c.out, "no row titled %q\n", title)
		return
	}

	l, ok := c.promptListing(defaults)
	if !ok {
		return
	}

	n, err := c.store.UpdateByTitle(title, l)
	if err != nil {
		fmt.Fprintf(c.out, "update failed: %v\n", err)
		return
	}
	fmt.Fprintf(c.out, "%d row(s) updated\n", n)
	c.showListings(nil)
}

func (c *Console) deleteListing() {
	title := c.prompt("title of row to delete")
	if title == "" {
		return
	}
	n, err := c.store.DeleteByTitle(title)
	if err != nil {
		fmt.Fprintf(c.out, "delete failed: %v\n", err)
		return
	}
	fmt.Fprintf(c.out, "%d row(s) deleted\n", n)
	c.showListings(nil)
}

// exportListings writes the full current store contents — not any filtered
// view — to a spreadsheet at the operator-chosen path.
func (c *Console) exportListings() {
	path := c.prompt("export path (empty = phone_sales.xlsx)")
	if path == "" {
		path = filepath.Join(c.cfg.ExportDir, "phone_sales.xlsx")
	}

	rows, err := c.store.FetchAll()
	if err != nil {
		fmt.Fprintf(c.out, "load failed: %v\n", err)
		return
	}
	if err := storage.ExportExcel(path, rows); err != nil {
		fmt.Fprintf(c.out, "export failed: %v\n", err)
		return
	}
	fmt.Fprintf(c.out, "exported %d rows to %s\n", len(rows), path)
}

func (c *Console) prompt(label string) string {
	fmt.Fprintf(c.out, "%s> ", label)
	if !c.in.Scan() {
		return ""
	}
	return strings.TrimSpace(c.in.Text())
}

func (c *Console) promptDefault(label, def string) string {
	if def != "" {
		label = fmt.Sprintf("%s [%s]", label, def)
	}
	v := c.prompt(label)
	if v == "" {
		return def
	}
	return v
}

func (c *Console) promptRole() bool {
	return c.prompt("role — [1] admin  [2] general user") == "1"
}

// promptPrice parses an optional price bound. The bool result is false when
// the input was present but not numeric; the caller aborts the operation.
func (c *Console) promptPrice(label string) (*float64, bool) {
	v := c.prompt(label)
	if v == "" {
		return nil, true
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		fmt.Fprintf(c.out, "%q is not a number — search aborted\n", v)
		return nil, false
	}
	return &f, true
}
