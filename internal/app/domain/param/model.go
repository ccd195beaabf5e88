package param

import "time"

// Parameter is a tunable business limit maintained by administrators. A
// parameter carries both a numeric and a text value because the backing
// collection is loosely typed; consumers pick whichever field applies.
type Parameter struct {
	ID           string
	Description  string
	NumericValue float64
	TextValue    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
