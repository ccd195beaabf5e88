package orders

import (
	"context"
	"errors"
	"testing"

	"github.com/patitas/storefront/internal/app/domain/catalog"
	"github.com/patitas/storefront/internal/app/domain/order"
	"github.com/patitas/storefront/internal/app/domain/param"
	cartsvc "github.com/patitas/storefront/internal/app/services/cart"
	catalogsvc "github.com/patitas/storefront/internal/app/services/catalog"
	"github.com/patitas/storefront/internal/app/services/params"
	"github.com/patitas/storefront/internal/app/storage/memory"
)

type fixture struct {
	cart    *cartsvc.Service
	catalog *catalogsvc.Service
	orders  *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.New()
	paramSvc := params.New(params.SourceFunc(func(ctx context.Context) ([]param.Parameter, error) {
		return []param.Parameter{{ID: "1", Description: "items per day", NumericValue: 10}}, nil
	}), memory.New(), nil)
	cart := cartsvc.New(store, paramSvc, nil, nil)
	cat := catalogsvc.New(store, store, nil)
	return &fixture{
		cart:    cart,
		catalog: cat,
		orders:  New(store, cart, cat, nil),
	}
}

func (f *fixture) seedProduct(t *testing.T, price int64, stock int, taxable bool) catalog.Product {
	t.Helper()
	p, err := f.catalog.CreateProduct(context.Background(), catalog.Product{
		Name:      "kibble",
		UnitPrice: price,
		Stock:     stock,
		Taxable:   taxable,
	})
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestCheckout(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.seedProduct(t, 10000, 5, true)

	if !f.cart.AddItem(ctx, "cust-1", p, 2) {
		t.Fatal("add rejected")
	}

	o, err := f.orders.Checkout(ctx, "cust-1")
	if err != nil {
		t.Fatal(err)
	}
	if o.Status != order.StatusPending {
		t.Fatalf("status = %s, want pending", o.Status)
	}
	if o.Subtotal != 20000 || o.Tax != 3800 || o.Total != 23800 {
		t.Fatalf("totals = %d/%d/%d, want 20000/3800/23800", o.Subtotal, o.Tax, o.Total)
	}
	if len(o.Lines) != 1 || o.Lines[0].LineTotal != 20000 {
		t.Fatalf("lines = %+v", o.Lines)
	}

	// Stock was reserved.
	got, _ := f.catalog.GetProduct(ctx, p.ID)
	if got.Stock != 3 {
		t.Fatalf("stock = %d, want 3", got.Stock)
	}

	// The cart is untouched by checkout.
	if items := f.cart.Items(ctx, "cust-1"); len(items) != 1 {
		t.Fatalf("cart lines after checkout = %d, want 1", len(items))
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	f := newFixture(t)
	if _, err := f.orders.Checkout(context.Background(), "cust-1"); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("err = %v, want ErrEmptyCart", err)
	}
}

func TestCheckoutRejectsStaleStock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.seedProduct(t, 1000, 3, true)

	f.cart.AddItem(ctx, "cust-1", p, 3)

	// Stock shrank after the cart was filled.
	p.Stock = 2
	if _, err := f.catalog.UpdateProduct(ctx, p); err != nil {
		t.Fatal(err)
	}

	if _, err := f.orders.Checkout(ctx, "cust-1"); err == nil {
		t.Fatal("checkout with stale stock accepted")
	}
	// No partial reservation happened.
	got, _ := f.catalog.GetProduct(ctx, p.ID)
	if got.Stock != 2 {
		t.Fatalf("stock = %d, want untouched 2", got.Stock)
	}
}

func TestCheckoutRejectsRetiredProduct(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.seedProduct(t, 1000, 5, true)

	f.cart.AddItem(ctx, "cust-1", p, 1)
	f.catalog.DeleteProduct(ctx, p.ID)

	if _, err := f.orders.Checkout(ctx, "cust-1"); err == nil {
		t.Fatal("checkout with retired product accepted")
	}
}

func TestHistoryAndStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.seedProduct(t, 1000, 10, false)

	f.cart.AddItem(ctx, "cust-1", p, 1)
	first, err := f.orders.Checkout(ctx, "cust-1")
	if err != nil {
		t.Fatal(err)
	}

	history, err := f.orders.History(ctx, "cust-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 1 || history[0].ID != first.ID {
		t.Fatalf("history = %+v", history)
	}
	if got, _ := f.orders.History(ctx, "cust-2"); len(got) != 0 {
		t.Fatalf("foreign history = %+v", got)
	}

	completed, err := f.orders.UpdateStatus(ctx, first.ID, order.StatusCompleted)
	if err != nil {
		t.Fatal(err)
	}
	if completed.Status != order.StatusCompleted {
		t.Fatalf("status = %s, want completed", completed.Status)
	}

	// Terminal states reject further transitions.
	if _, err := f.orders.UpdateStatus(ctx, first.ID, order.StatusCancelled); err == nil {
		t.Fatal("transition out of completed accepted")
	}
	// Pending is not a valid target.
	if _, err := f.orders.UpdateStatus(ctx, first.ID, order.StatusPending); err == nil {
		t.Fatal("transition to pending accepted")
	}
}
