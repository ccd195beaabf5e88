package storage

import (
	"context"
	"errors"

	"github.com/patitas/storefront/internal/app/domain/catalog"
	"github.com/patitas/storefront/internal/app/domain/customer"
	"github.com/patitas/storefront/internal/app/domain/order"
	"github.com/patitas/storefront/internal/app/domain/param"
	"github.com/patitas/storefront/internal/app/domain/user"
)

// ErrNotFound reports a missing record. Stores wrap it so callers can test
// with errors.Is regardless of the backing implementation.
var ErrNotFound = errors.New("not found")

// ProductStore persists catalog products.
type ProductStore interface {
	CreateProduct(ctx context.Context, p catalog.Product) (catalog.Product, error)
	UpdateProduct(ctx context.Context, p catalog.Product) (catalog.Product, error)
	GetProduct(ctx context.Context, id string) (catalog.Product, error)
	ListProducts(ctx context.Context) ([]catalog.Product, error)
	ListProductsByCategory(ctx context.Context, categoryID string) ([]catalog.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

// CategoryStore persists product categories.
type CategoryStore interface {
	CreateCategory(ctx context.Context, c catalog.Category) (catalog.Category, error)
	UpdateCategory(ctx context.Context, c catalog.Category) (catalog.Category, error)
	GetCategory(ctx context.Context, id string) (catalog.Category, error)
	ListCategories(ctx context.Context) ([]catalog.Category, error)
	DeleteCategory(ctx context.Context, id string) error
}

// CustomerStore persists storefront customer profiles.
type CustomerStore interface {
	CreateCustomer(ctx context.Context, c customer.Customer) (customer.Customer, error)
	UpdateCustomer(ctx context.Context, c customer.Customer) (customer.Customer, error)
	GetCustomer(ctx context.Context, id string) (customer.Customer, error)
	GetCustomerByUser(ctx context.Context, userID string) (customer.Customer, error)
	ListCustomers(ctx context.Context) ([]customer.Customer, error)
	DeleteCustomer(ctx context.Context, id string) error
}

// UserStore persists sign-in accounts.
type UserStore interface {
	CreateUser(ctx context.Context, u user.User) (user.User, error)
	UpdateUser(ctx context.Context, u user.User) (user.User, error)
	GetUser(ctx context.Context, id string) (user.User, error)
	GetUserByEmail(ctx context.Context, email string) (user.User, error)
	ListUsers(ctx context.Context) ([]user.User, error)
}

// OrderStore persists orders together with their lines.
type OrderStore interface {
	CreateOrder(ctx context.Context, o order.Order) (order.Order, error)
	UpdateOrder(ctx context.Context, o order.Order) (order.Order, error)
	GetOrder(ctx context.Context, id string) (order.Order, error)
	ListOrders(ctx context.Context) ([]order.Order, error)
	ListOrdersByCustomer(ctx context.Context, customerID string) ([]order.Order, error)
}

// ParameterStore persists system parameters.
type ParameterStore interface {
	CreateParameter(ctx context.Context, p param.Parameter) (param.Parameter, error)
	UpdateParameter(ctx context.Context, p param.Parameter) (param.Parameter, error)
	GetParameter(ctx context.Context, id string) (param.Parameter, error)
	ListParameters(ctx context.Context) ([]param.Parameter, error)
	DeleteParameter(ctx context.Context, id string) error
}

// KV is the durable string key-value contract backing the persisted cart
// blob. Get reports presence separately from errors so a missing key is not
// a failure; Set replaces any prior value.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}
