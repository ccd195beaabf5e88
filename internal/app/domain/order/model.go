package order

import "time"

// Status tracks an order through its lifecycle.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Order is a completed checkout. Amounts are minor currency units computed
// from the cart at checkout time.
type Order struct {
	ID         string
	CustomerID string
	Status     Status
	Subtotal   int64
	Tax        int64
	Total      int64
	PlacedAt   time.Time
	Lines      []Line
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Line is one purchased product within an order, captured with the price it
// was sold at.
type Line struct {
	ID          string
	OrderID     string
	ProductID   string
	Description string
	UnitPrice   int64
	Quantity    int
	Taxable     bool
	LineTotal   int64
}
