package catalog

import "time"

// Product is a sellable catalog entry. UnitPrice is expressed in the
// currency's minor unit so totals stay exact.
type Product struct {
	ID          string
	Name        string
	Description string
	UnitPrice   int64
	Stock       int
	Taxable     bool
	CategoryID  string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Category groups products for browsing and administration.
type Category struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
