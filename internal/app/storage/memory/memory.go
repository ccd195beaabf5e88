package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/patitas/storefront/internal/app/domain/catalog"
	"github.com/patitas/storefront/internal/app/domain/customer"
	"github.com/patitas/storefront/internal/app/domain/order"
	"github.com/patitas/storefront/internal/app/domain/param"
	"github.com/patitas/storefront/internal/app/domain/user"
	"github.com/patitas/storefront/internal/app/storage"
)

// Store is an in-memory implementation of the storage interfaces. It is safe
// for concurrent use and is primarily intended for tests and local
// development.
type Store struct {
	mu             sync.RWMutex
	nextID         int64
	products       map[string]catalog.Product
	categories     map[string]catalog.Category
	customers      map[string]customer.Customer
	customerByUser map[string]string
	users          map[string]user.User
	userByEmail    map[string]string
	orders         map[string]order.Order
	parameters     map[string]param.Parameter
	kv             map[string]string
}

var _ storage.ProductStore = (*Store)(nil)
var _ storage.CategoryStore = (*Store)(nil)
var _ storage.CustomerStore = (*Store)(nil)
var _ storage.UserStore = (*Store)(nil)
var _ storage.OrderStore = (*Store)(nil)
var _ storage.ParameterStore = (*Store)(nil)
var _ storage.KV = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{
		nextID:         1,
		products:       make(map[string]catalog.Product),
		categories:     make(map[string]catalog.Category),
		customers:      make(map[string]customer.Customer),
		customerByUser: make(map[string]string),
		users:          make(map[string]user.User),
		userByEmail:    make(map[string]string),
		orders:         make(map[string]order.Order),
		parameters:     make(map[string]param.Parameter),
		kv:             make(map[string]string),
	}
}

func (s *Store) nextIDLocked() string {
	id := s.nextID
	s.nextID++
	return fmt.Sprintf("%d", id)
}

// ProductStore implementation ------------------------------------------------

func (s *Store) CreateProduct(_ context.Context, p catalog.Product) (catalog.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == "" {
		p.ID = s.nextIDLocked()
	} else if _, exists := s.products[p.ID]; exists {
		return catalog.Product{}, fmt.Errorf("product %s already exists", p.ID)
	}

	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	s.products[p.ID] = p
	return p, nil
}

func (s *Store) UpdateProduct(_ context.Context, p catalog.Product) (catalog.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	original, ok := s.products[p.ID]
	if !ok {
		return catalog.Product{}, fmt.Errorf("product %s: %w", p.ID, storage.ErrNotFound)
	}
	p.CreatedAt = original.CreatedAt
	p.UpdatedAt = time.Now().UTC()
	s.products[p.ID] = p
	return p, nil
}

func (s *Store) GetProduct(_ context.Context, id string) (catalog.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return catalog.Product{}, fmt.Errorf("product %s: %w", id, storage.ErrNotFound)
	}
	return p, nil
}

func (s *Store) ListProducts(_ context.Context) ([]catalog.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]catalog.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	sortProducts(out)
	return out, nil
}

func (s *Store) ListProductsByCategory(_ context.Context, categoryID string) ([]catalog.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []catalog.Product
	for _, p := range s.products {
		if p.CategoryID == categoryID {
			out = append(out, p)
		}
	}
	sortProducts(out)
	return out, nil
}

func (s *Store) DeleteProduct(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return fmt.Errorf("product %s: %w", id, storage.ErrNotFound)
	}
	delete(s.products, id)
	return nil
}

// CategoryStore implementation -----------------------------------------------

func (s *Store) CreateCategory(_ context.Context, c catalog.Category) (catalog.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.ID == "" {
		c.ID = s.nextIDLocked()
	} else if _, exists := s.categories[c.ID]; exists {
		return catalog.Category{}, fmt.Errorf("category %s already exists", c.ID)
	}

	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	s.categories[c.ID] = c
	return c, nil
}

func (s *Store) UpdateCategory(_ context.Context, c catalog.Category) (catalog.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	original, ok := s.categories[c.ID]
	if !ok {
		return catalog.Category{}, fmt.Errorf("category %s: %w", c.ID, storage.ErrNotFound)
	}
	c.CreatedAt = original.CreatedAt
	c.UpdatedAt = time.Now().UTC()
	s.categories[c.ID] = c
	return c, nil
}

func (s *Store) GetCategory(_ context.Context, id string) (catalog.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.categories[id]
	if !ok {
		return catalog.Category{}, fmt.Errorf("category %s: %w", id, storage.ErrNotFound)
	}
	return c, nil
}

func (s *Store) ListCategories(_ context.Context) ([]catalog.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]catalog.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) DeleteCategory(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[id]; !ok {
		return fmt.Errorf("category %s: %w", id, storage.ErrNotFound)
	}
	delete(s.categories, id)
	return nil
}

// CustomerStore implementation -----------------------------------------------

func (s *Store) CreateCustomer(_ context.Context, c customer.Customer) (customer.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.ID == "" {
		c.ID = s.nextIDLocked()
	} else if _, exists := s.customers[c.ID]; exists {
		return customer.Customer{}, fmt.Errorf("customer %s already exists", c.ID)
	}

	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	s.customers[c.ID] = c
	if c.UserID != "" {
		s.customerByUser[c.UserID] = c.ID
	}
	return c, nil
}

func (s *Store) UpdateCustomer(_ context.Context, c customer.Customer) (customer.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	original, ok := s.customers[c.ID]
	if !ok {
		return customer.Customer{}, fmt.Errorf("customer %s: %w", c.ID, storage.ErrNotFound)
	}
	c.CreatedAt = original.CreatedAt
	c.UpdatedAt = time.Now().UTC()
	if original.UserID != "" && original.UserID != c.UserID {
		delete(s.customerByUser, original.UserID)
	}
	s.customers[c.ID] = c
	if c.UserID != "" {
		s.customerByUser[c.UserID] = c.ID
	}
	return c, nil
}

func (s *Store) GetCustomer(_ context.Context, id string) (customer.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.customers[id]
	if !ok {
		return customer.Customer{}, fmt.Errorf("customer %s: %w", id, storage.ErrNotFound)
	}
	return c, nil
}

func (s *Store) GetCustomerByUser(_ context.Context, userID string) (customer.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.customerByUser[userID]
	if !ok {
		return customer.Customer{}, fmt.Errorf("customer for user %s: %w", userID, storage.ErrNotFound)
	}
	return s.customers[id], nil
}

func (s *Store) ListCustomers(_ context.Context) ([]customer.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]customer.Customer, 0, len(s.customers))
	for _, c := range s.customers {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) DeleteCustomer(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.customers[id]
	if !ok {
		return fmt.Errorf("customer %s: %w", id, storage.ErrNotFound)
	}
	if c.UserID != "" {
		delete(s.customerByUser, c.UserID)
	}
	delete(s.customers, id)
	return nil
}

// UserStore implementation ---------------------------------------------------

func (s *Store) CreateUser(_ context.Context, u user.User) (user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(strings.TrimSpace(u.Email))
	if _, exists := s.userByEmail[email]; exists {
		return user.User{}, fmt.Errorf("user with email %s already exists", email)
	}
	if u.ID == "" {
		u.ID = s.nextIDLocked()
	} else if _, exists := s.users[u.ID]; exists {
		return user.User{}, fmt.Errorf("user %s already exists", u.ID)
	}

	now := time.Now().UTC()
	u.Email = email
	u.CreatedAt = now
	u.UpdatedAt = now
	s.users[u.ID] = u
	s.userByEmail[email] = u.ID
	return u, nil
}

func (s *Store) UpdateUser(_ context.Context, u user.User) (user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	original, ok := s.users[u.ID]
	if !ok {
		return user.User{}, fmt.Errorf("user %s: %w", u.ID, storage.ErrNotFound)
	}
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.CreatedAt = original.CreatedAt
	u.UpdatedAt = time.Now().UTC()
	if original.Email != u.Email {
		delete(s.userByEmail, original.Email)
		s.userByEmail[u.Email] = u.ID
	}
	s.users[u.ID] = u
	return u, nil
}

func (s *Store) GetUser(_ context.Context, id string) (user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return user.User{}, fmt.Errorf("user %s: %w", id, storage.ErrNotFound)
	}
	return u, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.userByEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return user.User{}, fmt.Errorf("user %s: %w", email, storage.ErrNotFound)
	}
	return s.users[id], nil
}

func (s *Store) ListUsers(_ context.Context) ([]user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]user.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// OrderStore implementation --------------------------------------------------

func (s *Store) CreateOrder(_ context.Context, o order.Order) (order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if o.ID == "" {
		o.ID = s.nextIDLocked()
	} else if _, exists := s.orders[o.ID]; exists {
		return order.Order{}, fmt.Errorf("order %s already exists", o.ID)
	}

	now := time.Now().UTC()
	o.CreatedAt = now
	o.UpdatedAt = now
	if o.PlacedAt.IsZero() {
		o.PlacedAt = now
	}
	o.Lines = cloneOrderLines(o.Lines)
	for i := range o.Lines {
		if o.Lines[i].ID == "" {
			o.Lines[i].ID = s.nextIDLocked()
		}
		o.Lines[i].OrderID = o.ID
	}
	s.orders[o.ID] = o
	return cloneOrder(o), nil
}

func (s *Store) UpdateOrder(_ context.Context, o order.Order) (order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	original, ok := s.orders[o.ID]
	if !ok {
		return order.Order{}, fmt.Errorf("order %s: %w", o.ID, storage.ErrNotFound)
	}
	o.CreatedAt = original.CreatedAt
	o.UpdatedAt = time.Now().UTC()
	o.Lines = cloneOrderLines(o.Lines)
	s.orders[o.ID] = o
	return cloneOrder(o), nil
}

func (s *Store) GetOrder(_ context.Context, id string) (order.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[id]
	if !ok {
		return order.Order{}, fmt.Errorf("order %s: %w", id, storage.ErrNotFound)
	}
	return cloneOrder(o), nil
}

func (s *Store) ListOrders(_ context.Context) ([]order.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]order.Order, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, cloneOrder(o))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlacedAt.Before(out[j].PlacedAt) })
	return out, nil
}

func (s *Store) ListOrdersByCustomer(_ context.Context, customerID string) ([]order.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []order.Order
	for _, o := range s.orders {
		if o.CustomerID == customerID {
			out = append(out, cloneOrder(o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlacedAt.Before(out[j].PlacedAt) })
	return out, nil
}

// ParameterStore implementation ----------------------------------------------

func (s *Store) CreateParameter(_ context.Context, p param.Parameter) (param.Parameter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == "" {
		p.ID = s.nextIDLocked()
	} else if _, exists := s.parameters[p.ID]; exists {
		return param.Parameter{}, fmt.Errorf("parameter %s already exists", p.ID)
	}

	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	s.parameters[p.ID] = p
	return p, nil
}

func (s *Store) UpdateParameter(_ context.Context, p param.Parameter) (param.Parameter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	original, ok := s.parameters[p.ID]
	if !ok {
		return param.Parameter{}, fmt.Errorf("parameter %s: %w", p.ID, storage.ErrNotFound)
	}
	p.CreatedAt = original.CreatedAt
	p.UpdatedAt = time.Now().UTC()
	s.parameters[p.ID] = p
	return p, nil
}

func (s *Store) GetParameter(_ context.Context, id string) (param.Parameter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.parameters[id]
	if !ok {
		return param.Parameter{}, fmt.Errorf("parameter %s: %w", id, storage.ErrNotFound)
	}
	return p, nil
}

func (s *Store) ListParameters(_ context.Context) ([]param.Parameter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]param.Parameter, 0, len(s.parameters))
	for _, p := range s.parameters {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) DeleteParameter(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.parameters[id]; !ok {
		return fmt.Errorf("parameter %s: %w", id, storage.ErrNotFound)
	}
	delete(s.parameters, id)
	return nil
}

// KV implementation ----------------------------------------------------------

func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.kv[key]
	return v, ok, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.kv[key] = value
	return nil
}

// helpers --------------------------------------------------------------------

func sortProducts(out []catalog.Product) {
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
}

func cloneOrder(o order.Order) order.Order {
	o.Lines = cloneOrderLines(o.Lines)
	return o
}

func cloneOrderLines(lines []order.Line) []order.Line {
	if lines == nil {
		return nil
	}
	return append([]order.Line(nil), lines...)
}
