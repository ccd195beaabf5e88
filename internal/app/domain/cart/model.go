package cart

import "time"

// Line is one cart entry: one product at one quantity added at one point in
// time. LineID is unique per addition and distinct from ProductID so that
// removals and daily-cap accounting can tell apart additions of the same
// product made on different days.
//
// The struct carries JSON tags because the full line list is serialized as a
// single blob into the key-value cart store and must round-trip unchanged.
type Line struct {
	LineID         string    `json:"line_id"`
	ProductID      string    `json:"product_id"`
	Description    string    `json:"description"`
	UnitPrice      int64     `json:"unit_price"`
	StockAvailable int       `json:"stock_available"`
	Taxable        bool      `json:"taxable"`
	Quantity       int       `json:"quantity"`
	AddedAt        time.Time `json:"added_at"`
}

// Totals is the computed money view of a cart. All amounts are minor
// currency units and Total is always exactly Subtotal + Tax.
type Totals struct {
	Subtotal int64
	Tax      int64
	Total    int64
}
