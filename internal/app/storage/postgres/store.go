package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/patitas/storefront/internal/app/domain/catalog"
	"github.com/patitas/storefront/internal/app/domain/customer"
	"github.com/patitas/storefront/internal/app/domain/order"
	"github.com/patitas/storefront/internal/app/domain/param"
	"github.com/patitas/storefront/internal/app/domain/user"
	"github.com/patitas/storefront/internal/app/storage"
)

// Store implements the storage interfaces backed by PostgreSQL.
type Store struct {
	db *sqlx.DB
}

var _ storage.ProductStore = (*Store)(nil)
var _ storage.CategoryStore = (*Store)(nil)
var _ storage.CustomerStore = (*Store)(nil)
var _ storage.UserStore = (*Store)(nil)
var _ storage.OrderStore = (*Store)(nil)
var _ storage.ParameterStore = (*Store)(nil)

// New creates a Store using the provided database handle.
func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

func notFound(err error, wrapped error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return wrapped
	}
	return err
}

// --- ProductStore -----------------------------------------------------------

type productRow struct {
	ID          string    `db:"id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	UnitPrice   int64     `db:"unit_price"`
	Stock       int       `db:"stock"`
	Taxable     bool      `db:"taxable"`
	CategoryID  string    `db:"category_id"`
	Active      bool      `db:"active"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r productRow) toDomain() catalog.Product {
	return catalog.Product(r)
}

func (s *Store) CreateProduct(ctx context.Context, p catalog.Product) (catalog.Product, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO store_products (id, name, description, unit_price, stock, taxable, category_id, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, p.ID, p.Name, p.Description, p.UnitPrice, p.Stock, p.Taxable, p.CategoryID, p.Active, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return catalog.Product{}, err
	}
	return p, nil
}

func (s *Store) UpdateProduct(ctx context.Context, p catalog.Product) (catalog.Product, error) {
	existing, err := s.GetProduct(ctx, p.ID)
	if err != nil {
		return catalog.Product{}, err
	}
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = time.Now().UTC()

	_, err = s.db.ExecContext(ctx, `
		UPDATE store_products
		SET name = $2, description = $3, unit_price = $4, stock = $5, taxable = $6, category_id = $7, active = $8, updated_at = $9
		WHERE id = $1
	`, p.ID, p.Name, p.Description, p.UnitPrice, p.Stock, p.Taxable, p.CategoryID, p.Active, p.UpdatedAt)
	if err != nil {
		return catalog.Product{}, err
	}
	return p, nil
}

func (s *Store) GetProduct(ctx context.Context, id string) (catalog.Product, error) {
	var row productRow
	err := s.db.GetContext(ctx, &row, `
		SELECT id, name, description, unit_price, stock, taxable, category_id, active, created_at, updated_at
		FROM store_products WHERE id = $1
	`, id)
	if err != nil {
		return catalog.Product{}, notFound(err, storage.ErrNotFound)
	}
	return row.toDomain(), nil
}

func (s *Store) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	var rows []productRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, name, description, unit_price, stock, taxable, category_id, active, created_at, updated_at
		FROM store_products ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	out := make([]catalog.Product, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

func (s *Store) ListProductsByCategory(ctx context.Context, categoryID string) ([]catalog.Product, error) {
	var rows []productRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, name, description, unit_price, stock, taxable, category_id, active, created_at, updated_at
		FROM store_products WHERE category_id = $1 ORDER BY name
	`, categoryID)
	if err != nil {
		return nil, err
	}
	out := make([]catalog.Product, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM store_products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// --- CategoryStore ----------------------------------------------------------

type categoryRow struct {
	ID          string    `db:"id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (s *Store) CreateCategory(ctx context.Context, c catalog.Category) (catalog.Category, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO store_categories (id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`, c.ID, c.Name, c.Description, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return catalog.Category{}, err
	}
	return c, nil
}

func (s *Store) UpdateCategory(ctx context.Context, c catalog.Category) (catalog.Category, error) {
	existing, err := s.GetCategory(ctx, c.ID)
	if err != nil {
		return catalog.Category{}, err
	}
	c.CreatedAt = existing.CreatedAt
	c.UpdatedAt = time.Now().UTC()

	_, err = s.db.ExecContext(ctx, `
		UPDATE store_categories SET name = $2, description = $3, updated_at = $4 WHERE id = $1
	`, c.ID, c.Name, c.Description, c.UpdatedAt)
	if err != nil {
		return catalog.Category{}, err
	}
	return c, nil
}

func (s *Store) GetCategory(ctx context.Context, id string) (catalog.Category, error) {
	var row categoryRow
	err := s.db.GetContext(ctx, &row, `
		SELECT id, name, description, created_at, updated_at FROM store_categories WHERE id = $1
	`, id)
	if err != nil {
		return catalog.Category{}, notFound(err, storage.ErrNotFound)
	}
	return catalog.Category(row), nil
}

func (s *Store) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	var rows []categoryRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, name, description, created_at, updated_at FROM store_categories ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	out := make([]catalog.Category, 0, len(rows))
	for _, r := range rows {
		out = append(out, catalog.Category(r))
	}
	return out, nil
}

func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM store_categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// --- CustomerStore ----------------------------------------------------------

type customerRow struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	Phone     string    `db:"phone"`
	Address   string    `db:"address"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (s *Store) CreateCustomer(ctx context.Context, c customer.Customer) (customer.Customer, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO store_customers (id, user_id, name, email, phone, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, c.ID, c.UserID, c.Name, c.Email, c.Phone, c.Address, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return customer.Customer{}, err
	}
	return c, nil
}

func (s *Store) UpdateCustomer(ctx context.Context, c customer.Customer) (customer.Customer, error) {
	existing, err := s.GetCustomer(ctx, c.ID)
	if err != nil {
		return customer.Customer{}, err
	}
	c.CreatedAt = existing.CreatedAt
	c.UpdatedAt = time.Now().UTC()

	_, err = s.db.ExecContext(ctx, `
		UPDATE store_customers
		SET user_id = $2, name = $3, email = $4, phone = $5, address = $6, updated_at = $7
		WHERE id = $1
	`, c.ID, c.UserID, c.Name, c.Email, c.Phone, c.Address, c.UpdatedAt)
	if err != nil {
		return customer.Customer{}, err
	}
	return c, nil
}

func (s *Store) GetCustomer(ctx context.Context, id string) (customer.Customer, error) {
	var row customerRow
	err := s.db.GetContext(ctx, &row, `
		SELECT id, user_id, name, email, phone, address, created_at, updated_at
		FROM store_customers WHERE id = $1
	`, id)
	if err != nil {
		return customer.Customer{}, notFound(err, storage.ErrNotFound)
	}
	return customer.Customer(row), nil
}

func (s *Store) GetCustomerByUser(ctx context.Context, userID string) (customer.Customer, error) {
	var row customerRow
	err := s.db.GetContext(ctx, &row, `
		SELECT id, user_id, name, email, phone, address, created_at, updated_at
		FROM store_customers WHERE user_id = $1
	`, userID)
	if err != nil {
		return customer.Customer{}, notFound(err, storage.ErrNotFound)
	}
	return customer.Customer(row), nil
}

func (s *Store) ListCustomers(ctx context.Context) ([]customer.Customer, error) {
	var rows []customerRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, user_id, name, email, phone, address, created_at, updated_at
		FROM store_customers ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	out := make([]customer.Customer, 0, len(rows))
	for _, r := range rows {
		out = append(out, customer.Customer(r))
	}
	return out, nil
}

func (s *Store) DeleteCustomer(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM store_customers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// --- UserStore --------------------------------------------------------------

type userRow struct {
	ID           string    `db:"id"`
	Email        string    `db:"email"`
	Name         string    `db:"name"`
	PasswordHash string    `db:"password_hash"`
	Role         string    `db:"role"`
	FailedLogins int       `db:"failed_logins"`
	Locked       bool      `db:"locked"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (r userRow) toDomain() user.User {
	return user.User{
		ID:           r.ID,
		Email:        r.Email,
		Name:         r.Name,
		PasswordHash: r.PasswordHash,
		Role:         user.Role(r.Role),
		FailedLogins: r.FailedLogins,
		Locked:       r.Locked,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func (s *Store) CreateUser(ctx context.Context, u user.User) (user.User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO store_users (id, email, name, password_hash, role, failed_logins, locked, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, u.ID, u.Email, u.Name, u.PasswordHash, string(u.Role), u.FailedLogins, u.Locked, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return user.User{}, err
	}
	return u, nil
}

func (s *Store) UpdateUser(ctx context.Context, u user.User) (user.User, error) {
	existing, err := s.GetUser(ctx, u.ID)
	if err != nil {
		return user.User{}, err
	}
	u.CreatedAt = existing.CreatedAt
	u.UpdatedAt = time.Now().UTC()

	_, err = s.db.ExecContext(ctx, `
		UPDATE store_users
		SET email = $2, name = $3, password_hash = $4, role = $5, failed_logins = $6, locked = $7, updated_at = $8
		WHERE id = $1
	`, u.ID, u.Email, u.Name, u.PasswordHash, string(u.Role), u.FailedLogins, u.Locked, u.UpdatedAt)
	if err != nil {
		return user.User{}, err
	}
	return u, nil
}

func (s *Store) GetUser(ctx context.Context, id string) (user.User, error) {
	var row userRow
	err := s.db.GetContext(ctx, &row, `
		SELECT id, email, name, password_hash, role, failed_logins, locked, created_at, updated_at
		FROM store_users WHERE id = $1
	`, id)
	if err != nil {
		return user.User{}, notFound(err, storage.ErrNotFound)
	}
	return row.toDomain(), nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	var row userRow
	err := s.db.GetContext(ctx, &row, `
		SELECT id, email, name, password_hash, role, failed_logins, locked, created_at, updated_at
		FROM store_users WHERE lower(email) = lower($1)
	`, email)
	if err != nil {
		return user.User{}, notFound(err, storage.ErrNotFound)
	}
	return row.toDomain(), nil
}

func (s *Store) ListUsers(ctx context.Context) ([]user.User, error) {
	var rows []userRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, email, name, password_hash, role, failed_logins, locked, created_at, updated_at
		FROM store_users ORDER BY email
	`)
	if err != nil {
		return nil, err
	}
	out := make([]user.User, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

// --- OrderStore -------------------------------------------------------------

type orderRow struct {
	ID         string    `db:"id"`
	CustomerID string    `db:"customer_id"`
	Status     string    `db:"status"`
	Subtotal   int64     `db:"subtotal"`
	Tax        int64     `db:"tax"`
	Total      int64     `db:"total"`
	PlacedAt   time.Time `db:"placed_at"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

type orderLineRow struct {
	ID          string `db:"id"`
	OrderID     string `db:"order_id"`
	ProductID   string `db:"product_id"`
	Description string `db:"description"`
	UnitPrice   int64  `db:"unit_price"`
	Quantity    int    `db:"quantity"`
	Taxable     bool   `db:"taxable"`
	LineTotal   int64  `db:"line_total"`
}

func (s *Store) CreateOrder(ctx context.Context, o order.Order) (order.Order, error) {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	o.CreatedAt = now
	o.UpdatedAt = now
	if o.PlacedAt.IsZero() {
		o.PlacedAt = now
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return order.Order{}, err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO store_orders (id, customer_id, status, subtotal, tax, total, placed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, o.ID, o.CustomerID, string(o.Status), o.Subtotal, o.Tax, o.Total, o.PlacedAt, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return order.Order{}, err
	}

	for i := range o.Lines {
		if o.Lines[i].ID == "" {
			o.Lines[i].ID = uuid.NewString()
		}
		o.Lines[i].OrderID = o.ID
		ln := o.Lines[i]
		_, err = tx.ExecContext(ctx, `
			INSERT INTO store_order_lines (id, order_id, product_id, description, unit_price, quantity, taxable, line_total)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, ln.ID, ln.OrderID, ln.ProductID, ln.Description, ln.UnitPrice, ln.Quantity, ln.Taxable, ln.LineTotal)
		if err != nil {
			return order.Order{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return order.Order{}, err
	}
	return o, nil
}

func (s *Store) UpdateOrder(ctx context.Context, o order.Order) (order.Order, error) {
	existing, err := s.GetOrder(ctx, o.ID)
	if err != nil {
		return order.Order{}, err
	}
	o.CreatedAt = existing.CreatedAt
	o.UpdatedAt = time.Now().UTC()

	_, err = s.db.ExecContext(ctx, `
		UPDATE store_orders
		SET customer_id = $2, status = $3, subtotal = $4, tax = $5, total = $6, placed_at = $7, updated_at = $8
		WHERE id = $1
	`, o.ID, o.CustomerID, string(o.Status), o.Subtotal, o.Tax, o.Total, o.PlacedAt, o.UpdatedAt)
	if err != nil {
		return order.Order{}, err
	}
	if o.Lines == nil {
		o.Lines = existing.Lines
	}
	return o, nil
}

func (s *Store) GetOrder(ctx context.Context, id string) (order.Order, error) {
	var row orderRow
	err := s.db.GetContext(ctx, &row, `
		SELECT id, customer_id, status, subtotal, tax, total, placed_at, created_at, updated_at
		FROM store_orders WHERE id = $1
	`, id)
	if err != nil {
		return order.Order{}, notFound(err, storage.ErrNotFound)
	}
	o := rowToOrder(row)
	lines, err := s.orderLines(ctx, id)
	if err != nil {
		return order.Order{}, err
	}
	o.Lines = lines
	return o, nil
}

func (s *Store) ListOrders(ctx context.Context) ([]order.Order, error) {
	var rows []orderRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, customer_id, status, subtotal, tax, total, placed_at, created_at, updated_at
		FROM store_orders ORDER BY placed_at
	`)
	if err != nil {
		return nil, err
	}
	return s.attachLines(ctx, rows)
}

func (s *Store) ListOrdersByCustomer(ctx context.Context, customerID string) ([]order.Order, error) {
	var rows []orderRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, customer_id, status, subtotal, tax, total, placed_at, created_at, updated_at
		FROM store_orders WHERE customer_id = $1 ORDER BY placed_at
	`, customerID)
	if err != nil {
		return nil, err
	}
	return s.attachLines(ctx, rows)
}

func (s *Store) attachLines(ctx context.Context, rows []orderRow) ([]order.Order, error) {
	out := make([]order.Order, 0, len(rows))
	for _, r := range rows {
		o := rowToOrder(r)
		lines, err := s.orderLines(ctx, r.ID)
		if err != nil {
			return nil, err
		}
		o.Lines = lines
		out = append(out, o)
	}
	return out, nil
}

func (s *Store) orderLines(ctx context.Context, orderID string) ([]order.Line, error) {
	var rows []orderLineRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, order_id, product_id, description, unit_price, quantity, taxable, line_total
		FROM store_order_lines WHERE order_id = $1 ORDER BY id
	`, orderID)
	if err != nil {
		return nil, err
	}
	out := make([]order.Line, 0, len(rows))
	for _, r := range rows {
		out = append(out, order.Line(r))
	}
	return out, nil
}

func rowToOrder(r orderRow) order.Order {
	return order.Order{
		ID:         r.ID,
		CustomerID: r.CustomerID,
		Status:     order.Status(r.Status),
		Subtotal:   r.Subtotal,
		Tax:        r.Tax,
		Total:      r.Total,
		PlacedAt:   r.PlacedAt,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

// --- ParameterStore ---------------------------------------------------------

type parameterRow struct {
	ID           string    `db:"id"`
	Description  string    `db:"description"`
	NumericValue float64   `db:"numeric_value"`
	TextValue    string    `db:"text_value"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (s *Store) CreateParameter(ctx context.Context, p param.Parameter) (param.Parameter, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO store_parameters (id, description, numeric_value, text_value, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, p.ID, p.Description, p.NumericValue, p.TextValue, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return param.Parameter{}, err
	}
	return p, nil
}

func (s *Store) UpdateParameter(ctx context.Context, p param.Parameter) (param.Parameter, error) {
	existing, err := s.GetParameter(ctx, p.ID)
	if err != nil {
		return param.Parameter{}, err
	}
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = time.Now().UTC()

	_, err = s.db.ExecContext(ctx, `
		UPDATE store_parameters
		SET description = $2, numeric_value = $3, text_value = $4, updated_at = $5
		WHERE id = $1
	`, p.ID, p.Description, p.NumericValue, p.TextValue, p.UpdatedAt)
	if err != nil {
		return param.Parameter{}, err
	}
	return p, nil
}

func (s *Store) GetParameter(ctx context.Context, id string) (param.Parameter, error) {
	var row parameterRow
	err := s.db.GetContext(ctx, &row, `
		SELECT id, description, numeric_value, text_value, created_at, updated_at
		FROM store_parameters WHERE id = $1
	`, id)
	if err != nil {
		return param.Parameter{}, notFound(err, storage.ErrNotFound)
	}
	return param.Parameter(row), nil
}

func (s *Store) ListParameters(ctx context.Context) ([]param.Parameter, error) {
	var rows []parameterRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, description, numeric_value, text_value, created_at, updated_at
		FROM store_parameters ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	out := make([]param.Parameter, 0, len(rows))
	for _, r := range rows {
		out = append(out, param.Parameter(r))
	}
	return out, nil
}

func (s *Store) DeleteParameter(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM store_parameters WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return storage.ErrNotFound
	}
	return nil
}
