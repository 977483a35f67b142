package storage

import "phone-sales/models"

// ListingSink is the interface the collector writes scraped items through.
// Both the CSV file and the SQLite store receive every item.
type ListingSink interface {
	Append(l *models.Listing) error
	Close() error
}

// Append satisfies ListingSink for the Store.
func (s *Store) Append(l *models.Listing) error {
	return s.InsertListing(l)
}
