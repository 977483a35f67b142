package models

// Listing is one scraped phone listing as it is stored. The store is
// schema-on-write and loosely typed: every column is text, including the
// numeric ones. Price must parse to a float for range filters and the
// correlation view; Sales and CommentsCount hold normalized digit strings.
type Listing struct {
	Image             string
	Title             string
	Brand             string
	Price             string
	SalesText         string
	Sales             string
	ShopName          string
	CommentsCountText string
	CommentsCount     string
	Star              string
}

// ColumnHeaders is the display/export column order for listings.
var ColumnHeaders = []string{
	"image", "title", "brand", "price", "sales_text", "sales",
	"shop_name", "comments_count_text", "comments_count", "star",
}

// Row returns the listing's fields in ColumnHeaders order.
func (l *Listing) Row() []string {
	return []string{
		l.Image, l.Title, l.Brand, l.Price, l.SalesText, l.Sales,
		l.ShopName, l.CommentsCountText, l.CommentsCount, l.Star,
	}
}

// UserAccount is an application login. Passwords are stored and compared in
// clear text — a known limitation of this system, kept as-is.
type UserAccount struct {
	Username string
	Password string
}

// Session is the capability value produced by a successful login. IsAdmin
// only gates which console actions are offered; the store layer performs no
// role check of its own.
type Session struct {
	Username string
	IsAdmin  bool
}

// ListingFilter holds optional search criteria combined with logical AND.
// Nil price bounds mean "no bound"; an all-empty filter matches everything.
type ListingFilter struct {
	Title    string
	Brand    string
	MinPrice *float64
	MaxPrice *float64
}

// Empty reports whether no criterion is set.
func (f ListingFilter) Empty() bool {
	return f.Title == "" && f.Brand == "" && f.MinPrice == nil && f.MaxPrice == nil
}

// BrandSales is one group of the brand aggregation.
type BrandSales struct {
	Brand string
	Sales int64
}

// PriceBand is one bucket of the price-band aggregation.
type PriceBand struct {
	Label string
	Sales int64
}

// PricePoint is one point of the price/sales correlation view.
type PricePoint struct {
	Price float64
	Sales int64
}
