package storage

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"phone-sales/models"
)

// Store wraps the shared SQLite file used by both the collector and the
// operator console. The file is assumed to have a single writer at a time;
// nothing here guards against concurrent processes.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at path, creates the schema if
// missing, and seeds the default admin account.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("sqlite: ping: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("sqlite: migrate: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			username TEXT PRIMARY KEY,
			password TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS listings (
			image               TEXT,
			title               TEXT NOT NULL,
			brand               TEXT,
			price               TEXT,
			sales_text          TEXT,
			sales               TEXT,
			shop_name           TEXT,
			comments_count_text TEXT,
			comments_count      TEXT,
			star                TEXT
		);
	`)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`INSERT OR IGNORE INTO users (username, password) VALUES ('admin', 'admin')`)
	return err
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

const listingColumns = `image, title, brand, price, sales_text, sales,
	shop_name, comments_count_text, comments_count, star`

// InsertListing appends one listing row and commits immediately.
func (s *Store) InsertListing(l *models.Listing) error {
	_, err := s.db.Exec(`
		INSERT INTO listings (`+listingColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.Image, l.Title, l.Brand, l.Price, l.SalesText, l.Sales,
		l.ShopName, l.CommentsCountText, l.CommentsCount, l.Star,
	)
	if err != nil {
		return fmt.Errorf("sqlite: insert listing: %w", err)
	}
	return nil
}

// FetchAll returns every listing row in insertion order.
func (s *Store) FetchAll() ([]*models.Listing, error) {
	return s.queryListings(`SELECT `+listingColumns+` FROM listings`, nil)
}

// Search returns listings matching the filter, all criteria AND-combined.
// An empty filter falls back to the full listing. Price bounds compare
// against CAST(price AS REAL) and are inclusive.
func (s *Store) Search(f models.ListingFilter) ([]*models.Listing, error) {
	if f.Empty() {
		return s.FetchAll()
	}

	query := `SELECT ` + listingColumns + ` FROM listings WHERE 1=1`
	var args []any

	if f.Title != "" {
		query += " AND title LIKE ?"
		args = append(args, "%"+f.Title+"%")
	}
	if f.Brand != "" {
		query += " AND brand LIKE ?"
		args = append(args, "%"+f.Brand+"%")
	}
	if f.MinPrice != nil {
		query += " AND CAST(price AS REAL) >= ?"
		args = append(args, *f.MinPrice)
	}
	if f.MaxPrice != nil {
		query += " AND CAST(price AS REAL) <= ?"
		args = append(args, *f.MaxPrice)
	}

	return s.queryListings(query, args)
}

func (s *Store) queryListings(query string, args []any) ([]*models.Listing, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: query listings: %w", err)
	}
	defer rows.Close()

	var listings []*models.Listing
	for rows.Next() {
		l := &models.Listing{}
		if err := rows.Scan(
			&l.Image, &l.Title, &l.Brand, &l.Price, &l.SalesText, &l.Sales,
			&l.ShopName, &l.CommentsCountText, &l.CommentsCount, &l.Star,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scan listing: %w", err)
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

// UpdateByTitle rewrites every row whose title equals the given key. The
// listings table has no primary key, so duplicate titles are all affected.
// Returns the number of rows changed.
func (s *Store) UpdateByTitle(title string, l *models.Listing) (int64, error) {
	res, err := s.db.Exec(`
		UPDATE listings
		SET image = ?, title = ?, brand = ?, price = ?, sales_text = ?,
			sales = ?, shop_name = ?, comments_count_text = ?,
			comments_count = ?, star = ?
		WHERE title = ?`,
		l.Image, l.Title, l.Brand, l.Price, l.SalesText, l.Sales,
		l.ShopName, l.CommentsCountText, l.CommentsCount, l.Star,
		title,
	)
	if err != nil {
		return 0, fmt.Errorf("sqlite: update listing: %w", err)
	}
	return res.RowsAffected()
}

// DeleteByTitle removes every row whose title equals the given key and
// returns the number of rows removed.
func (s *Store) DeleteByTitle(title string) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM listings WHERE title = ?`, title)
	if err != nil {
		return 0, fmt.Errorf("sqlite: delete listing: %w", err)
	}
	return res.RowsAffected()
}

// Authenticate checks a general-user credential pair against the users
// table. Clear-text comparison, as stored.
func (s *Store) Authenticate(username, password string) (bool, error) {
	var found string
	err := s.db.QueryRow(
		`SELECT username FROM users WHERE username = ? AND password = ?`,
		username, password,
	).Scan(&found)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("sqlite: authenticate: %w", err)
	}
	return true, nil
}

// ErrUserExists is returned by Register for a duplicate username.
var ErrUserExists = fmt.Errorf("username already registered")

// Register inserts a new user account. A duplicate username is rejected with
// ErrUserExists and no row is written.
func (s *Store) Register(username, password string) error {
	var existing string
	err := s.db.QueryRow(`SELECT username FROM users WHERE username = ?`, username).Scan(&existing)
	if err == nil {
		return ErrUserExists
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("sqlite: register lookup: %w", err)
	}

	if _, err := s.db.Exec(
		`INSERT INTO users (username, password) VALUES (?, ?)`, username, password,
	); err != nil {
		return fmt.Errorf("sqlite: register insert: %w", err)
	}
	return nil
}

// UserCount returns the number of rows in the users table.
func (s *Store) UserCount() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("sqlite: user count: %w", err)
	}
	return n, nil
}

// SalesByBrand sums normalized sales per brand.
func (s *Store) SalesByBrand() ([]models.BrandSales, error) {
	rows, err := s.db.Query(`SELECT brand, SUM(CAST(sales AS INTEGER)) FROM listings GROUP BY brand`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: sales by brand: %w", err)
	}
	defer rows.Close()

	var groups []models.BrandSales
	for rows.Next() {
		var g models.BrandSales
		if err := rows.Scan(&g.Brand, &g.Sales); err != nil {
			return nil, fmt.Errorf("sqlite: scan brand group: %w", err)
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// priceBands are the fixed bucket boundaries of the price-band aggregation.
var priceBands = []struct {
	label string
	low   float64
	high  float64
}{
	{"0-1000", 0, 1000},
	{"1000-2000", 1000, 2000},
	{"2000-3000", 2000, 3000},
	{"3000-4000", 3000, 4000},
	{"4000-5000", 4000, 5000},
	{"5000+", 5000, -1},
}

// SalesByPriceBand sums normalized sales per fixed price band. Every band is
// present in the result, zero-sum bands included.
func (s *Store) SalesByPriceBand() ([]models.PriceBand, error) {
	bands := make([]models.PriceBand, 0, len(priceBands))
	for _, b := range priceBands {
		query := `SELECT COALESCE(SUM(CAST(sales AS INTEGER)), 0) FROM listings
			WHERE CAST(price AS REAL) >= ?`
		args := []any{b.low}
		if b.high >= 0 {
			query += ` AND CAST(price AS REAL) < ?`
			args = append(args, b.high)
		}

		var sum int64
		if err := s.db.QueryRow(query, args...).Scan(&sum); err != nil {
			return nil, fmt.Errorf("sqlite: price band %s: %w", b.label, err)
		}
		bands = append(bands, models.PriceBand{Label: b.label, Sales: sum})
	}
	return bands, nil
}

// PriceSalesPoints returns (price, sales) pairs for the correlation view,
// sorted by price. Unparsable sales values coerce to 0.
func (s *Store) PriceSalesPoints() ([]models.PricePoint, error) {
	rows, err := s.db.Query(`
		SELECT CAST(price AS REAL), COALESCE(CAST(sales AS INTEGER), 0)
		FROM listings ORDER BY CAST(price AS REAL)`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: price/sales points: %w", err)
	}
	defer rows.Close()

	var points []models.PricePoint
	for rows.Next() {
		var p models.PricePoint
		if err := rows.Scan(&p.Price, &p.Sales); err != nil {
			return nil, fmt.Errorf("sqlite: scan point: %w", err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}
