// Package orders turns carts into persisted orders and tracks their status.
package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/patitas/storefront/internal/app/domain/order"
	cartsvc "github.com/patitas/storefront/internal/app/services/cart"
	catalogsvc "github.com/patitas/storefront/internal/app/services/catalog"
	"github.com/patitas/storefront/internal/app/storage"
	"github.com/patitas/storefront/pkg/logger"
)

// ErrEmptyCart reports a checkout attempted with no cart lines.
var ErrEmptyCart = errors.New("cart is empty")

// Service creates orders from carts. Checkout leaves the cart intact so the
// customer can reorder or keep editing; clearing is the caller's choice.
type Service struct {
	orders  storage.OrderStore
	cart    *cartsvc.Service
	catalog *catalogsvc.Service
	log     *logger.Logger
}

func New(orders storage.OrderStore, cart *cartsvc.Service, catalog *catalogsvc.Service, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("orders")
	}
	return &Service{orders: orders, cart: cart, catalog: catalog, log: log}
}

// Checkout validates every cart line against current catalog stock, captures
// the cart's totals, decrements stock, and records a pending order. Stock is
// verified in full before any decrement so a failing line leaves the catalog
// untouched.
func (s *Service) Checkout(ctx context.Context, customerID string) (order.Order, error) {
	lines := s.cart.Items(ctx, customerID)
	if len(lines) == 0 {
		return order.Order{}, ErrEmptyCart
	}

	for _, ln := range lines {
		p, err := s.catalog.GetProduct(ctx, ln.ProductID)
		if err != nil {
			return order.Order{}, fmt.Errorf("product %s: %w", ln.ProductID, err)
		}
		if !p.Active {
			return order.Order{}, fmt.Errorf("product %s is no longer available", p.Name)
		}
		if p.Stock < ln.Quantity {
			return order.Order{}, fmt.Errorf("product %s: insufficient stock (%d available, %d requested)", p.Name, p.Stock, ln.Quantity)
		}
	}

	totals := s.cart.Totals(ctx, customerID)

	for _, ln := range lines {
		if err := s.catalog.DecrementStock(ctx, ln.ProductID, ln.Quantity); err != nil {
			return order.Order{}, fmt.Errorf("reserve stock: %w", err)
		}
	}

	o := order.Order{
		CustomerID: customerID,
		Status:     order.StatusPending,
		Subtotal:   totals.Subtotal,
		Tax:        totals.Tax,
		Total:      totals.Total,
	}
	for _, ln := range lines {
		o.Lines = append(o.Lines, order.Line{
			ProductID:   ln.ProductID,
			Description: ln.Description,
			UnitPrice:   ln.UnitPrice,
			Quantity:    ln.Quantity,
			Taxable:     ln.Taxable,
			LineTotal:   ln.UnitPrice * int64(ln.Quantity),
		})
	}

	created, err := s.orders.CreateOrder(ctx, o)
	if err != nil {
		return order.Order{}, fmt.Errorf("create order: %w", err)
	}
	s.log.WithField("order_id", created.ID).WithField("total", created.Total).Info("order placed")
	return created, nil
}

func (s *Service) Get(ctx context.Context, id string) (order.Order, error) {
	return s.orders.GetOrder(ctx, id)
}

// History lists a customer's orders.
func (s *Service) History(ctx context.Context, customerID string) ([]order.Order, error) {
	return s.orders.ListOrdersByCustomer(ctx, customerID)
}

func (s *Service) List(ctx context.Context) ([]order.Order, error) {
	return s.orders.ListOrders(ctx)
}

// UpdateStatus moves an order along pending -> completed or
// pending -> cancelled. Completed and cancelled are terminal.
func (s *Service) UpdateStatus(ctx context.Context, id string, status order.Status) (order.Order, error) {
	switch status {
	case order.StatusCompleted, order.StatusCancelled:
	default:
		return order.Order{}, fmt.Errorf("invalid target status %q", status)
	}

	o, err := s.orders.GetOrder(ctx, id)
	if err != nil {
		return order.Order{}, err
	}
	if o.Status != order.StatusPending {
		return order.Order{}, fmt.Errorf("order %s is already %s", id, o.Status)
	}

	o.Status = status
	updated, err := s.orders.UpdateOrder(ctx, o)
	if err != nil {
		return order.Order{}, fmt.Errorf("update order %s: %w", id, err)
	}
	s.log.WithField("order_id", id).WithField("status", string(status)).Info("order status changed")
	return updated, nil
}
