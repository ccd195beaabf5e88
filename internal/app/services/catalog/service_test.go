package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/patitas/storefront/internal/app/domain/catalog"
	"github.com/patitas/storefront/internal/app/storage"
	"github.com/patitas/storefront/internal/app/storage/memory"
)

func newService() *Service {
	store := memory.New()
	return New(store, store, nil)
}

func TestProductLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	created, err := svc.CreateProduct(ctx, catalog.Product{Name: "kibble", UnitPrice: 10000, Stock: 5, Taxable: true})
	if err != nil {
		t.Fatal(err)
	}
	if created.ID == "" || !created.Active {
		t.Fatalf("created = %+v, want id set and active", created)
	}

	created.Stock = 8
	updated, err := svc.UpdateProduct(ctx, created)
	if err != nil {
		t.Fatal(err)
	}
	if updated.Stock != 8 {
		t.Fatalf("stock = %d, want 8", updated.Stock)
	}

	if err := svc.DeleteProduct(ctx, created.ID); err != nil {
		t.Fatal(err)
	}
	got, err := svc.GetProduct(ctx, created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Active {
		t.Fatal("deleted product still active")
	}
}

func TestProductValidation(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	cases := []catalog.Product{
		{Name: "", UnitPrice: 100, Stock: 1},
		{Name: "   ", UnitPrice: 100, Stock: 1},
		{Name: "kibble", UnitPrice: -1, Stock: 1},
		{Name: "kibble", UnitPrice: 100, Stock: -1},
		{Name: "kibble", UnitPrice: 100, Stock: 1, CategoryID: "missing"},
	}
	for i, p := range cases {
		if _, err := svc.CreateProduct(ctx, p); err == nil {
			t.Errorf("case %d: invalid product %+v accepted", i, p)
		}
	}
}

func TestListAvailableFiltersInactiveAndOutOfStock(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	inStock, _ := svc.CreateProduct(ctx, catalog.Product{Name: "kibble", UnitPrice: 100, Stock: 5})
	svc.CreateProduct(ctx, catalog.Product{Name: "empty", UnitPrice: 100, Stock: 0})
	retired, _ := svc.CreateProduct(ctx, catalog.Product{Name: "retired", UnitPrice: 100, Stock: 5})
	svc.DeleteProduct(ctx, retired.ID)

	available, err := svc.ListAvailable(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(available) != 1 || available[0].ID != inStock.ID {
		t.Fatalf("available = %+v, want only %s", available, inStock.ID)
	}
}

func TestDecrementStock(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	p, _ := svc.CreateProduct(ctx, catalog.Product{Name: "kibble", UnitPrice: 100, Stock: 3})

	if err := svc.DecrementStock(ctx, p.ID, 2); err != nil {
		t.Fatal(err)
	}
	if err := svc.DecrementStock(ctx, p.ID, 2); err == nil {
		t.Fatal("over-decrement accepted")
	}
	got, _ := svc.GetProduct(ctx, p.ID)
	if got.Stock != 1 {
		t.Fatalf("stock = %d, want 1 after rejected decrement", got.Stock)
	}

	if err := svc.DecrementStock(ctx, "missing", 1); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestCategoryInUseGuard(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	cat, err := svc.CreateCategory(ctx, catalog.Category{Name: "food"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CreateProduct(ctx, catalog.Product{Name: "kibble", UnitPrice: 100, Stock: 1, CategoryID: cat.ID}); err != nil {
		t.Fatal(err)
	}

	if err := svc.DeleteCategory(ctx, cat.ID); err == nil {
		t.Fatal("category with products deleted")
	}

	byCat, err := svc.ListByCategory(ctx, cat.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(byCat) != 1 {
		t.Fatalf("products in category = %d, want 1", len(byCat))
	}

	empty, _ := svc.CreateCategory(ctx, catalog.Category{Name: "toys"})
	if err := svc.DeleteCategory(ctx, empty.ID); err != nil {
		t.Fatalf("empty category delete failed: %v", err)
	}
}
