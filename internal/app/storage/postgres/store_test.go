package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/patitas/storefront/internal/app/domain/catalog"
	"github.com/patitas/storefront/internal/app/domain/order"
	"github.com/patitas/storefront/internal/app/storage"
)

func newStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return New(sqlx.NewDb(db, "sqlmock")), mock
}

func expectationsMet(t *testing.T, mock sqlmock.Sqlmock) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestCreateProductAssignsIDAndTimestamps(t *testing.T) {
	s, mock := newStore(t)
	mock.ExpectExec("INSERT INTO store_products").
		WithArgs(sqlmock.AnyArg(), "kibble", "dry food", int64(10000), 5, true, "c1", true, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	p, err := s.CreateProduct(context.Background(), catalog.Product{
		Name:        "kibble",
		Description: "dry food",
		UnitPrice:   10000,
		Stock:       5,
		Taxable:     true,
		CategoryID:  "c1",
		Active:      true,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.ID == "" {
		t.Fatal("no id assigned")
	}
	if p.CreatedAt.IsZero() || p.UpdatedAt.IsZero() {
		t.Fatalf("timestamps not set: %+v", p)
	}
	expectationsMet(t, mock)
}

func TestGetProductMapsRow(t *testing.T) {
	s, mock := newStore(t)
	now := time.Now().UTC()
	mock.ExpectQuery("SELECT .+ FROM store_products WHERE id").
		WithArgs("p1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "description", "unit_price", "stock", "taxable", "category_id", "active", "created_at", "updated_at",
		}).AddRow("p1", "kibble", "dry food", int64(10000), 5, true, "c1", true, now, now))

	p, err := s.GetProduct(context.Background(), "p1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if p.ID != "p1" || p.Name != "kibble" || p.UnitPrice != 10000 || p.Stock != 5 || !p.Taxable || !p.Active {
		t.Fatalf("product = %+v", p)
	}
	expectationsMet(t, mock)
}

func TestGetProductNotFound(t *testing.T) {
	s, mock := newStore(t)
	mock.ExpectQuery("SELECT .+ FROM store_products WHERE id").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	if _, err := s.GetProduct(context.Background(), "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	expectationsMet(t, mock)
}

func TestUpdateProductKeepsCreatedAt(t *testing.T) {
	s, mock := newStore(t)
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	mock.ExpectQuery("SELECT .+ FROM store_products WHERE id").
		WithArgs("p1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "description", "unit_price", "stock", "taxable", "category_id", "active", "created_at", "updated_at",
		}).AddRow("p1", "kibble", "", int64(10000), 5, true, "", true, created, created))
	mock.ExpectExec("UPDATE store_products").
		WillReturnResult(sqlmock.NewResult(0, 1))

	p, err := s.UpdateProduct(context.Background(), catalog.Product{
		ID:        "p1",
		Name:      "kibble deluxe",
		UnitPrice: 12000,
		Stock:     5,
		Taxable:   true,
		Active:    true,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !p.CreatedAt.Equal(created) {
		t.Fatalf("CreatedAt = %v, want original %v", p.CreatedAt, created)
	}
	if !p.UpdatedAt.After(created) {
		t.Fatalf("UpdatedAt = %v not after %v", p.UpdatedAt, created)
	}
	expectationsMet(t, mock)
}

func TestDeleteProductNotFound(t *testing.T) {
	s, mock := newStore(t)
	mock.ExpectExec("DELETE FROM store_products").
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := s.DeleteProduct(context.Background(), "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	expectationsMet(t, mock)
}

func TestCreateOrderCommitsOrderAndLines(t *testing.T) {
	s, mock := newStore(t)
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO store_orders").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO store_order_lines").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	o, err := s.CreateOrder(context.Background(), order.Order{
		CustomerID: "c1",
		Status:     order.StatusPending,
		Subtotal:   20000,
		Tax:        3800,
		Total:      23800,
		Lines: []order.Line{{
			ProductID:   "p1",
			Description: "kibble",
			UnitPrice:   10000,
			Quantity:    2,
			Taxable:     true,
			LineTotal:   20000,
		}},
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if o.ID == "" || o.PlacedAt.IsZero() {
		t.Fatalf("order = %+v", o)
	}
	if o.Lines[0].ID == "" || o.Lines[0].OrderID != o.ID {
		t.Fatalf("line not linked to order: %+v", o.Lines[0])
	}
	expectationsMet(t, mock)
}

func TestCreateOrderRollsBackOnLineFailure(t *testing.T) {
	s, mock := newStore(t)
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO store_orders").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO store_order_lines").
		WillReturnError(errors.New("constraint violation"))
	mock.ExpectRollback()

	_, err := s.CreateOrder(context.Background(), order.Order{
		CustomerID: "c1",
		Status:     order.StatusPending,
		Lines:      []order.Line{{ProductID: "p1", Quantity: 1}},
	})
	if err == nil {
		t.Fatal("expected error from failing line insert")
	}
	expectationsMet(t, mock)
}

func TestGetOrderAttachesLines(t *testing.T) {
	s, mock := newStore(t)
	now := time.Now().UTC()
	mock.ExpectQuery("SELECT .+ FROM store_orders WHERE id").
		WithArgs("o1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "customer_id", "status", "subtotal", "tax", "total", "placed_at", "created_at", "updated_at",
		}).AddRow("o1", "c1", "pending", int64(20000), int64(3800), int64(23800), now, now, now))
	mock.ExpectQuery("SELECT .+ FROM store_order_lines WHERE order_id").
		WithArgs("o1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "order_id", "product_id", "description", "unit_price", "quantity", "taxable", "line_total",
		}).AddRow("l1", "o1", "p1", "kibble", int64(10000), 2, true, int64(20000)))

	o, err := s.GetOrder(context.Background(), "o1")
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if o.Status != order.StatusPending || o.Total != 23800 {
		t.Fatalf("order = %+v", o)
	}
	if len(o.Lines) != 1 || o.Lines[0].ProductID != "p1" || o.Lines[0].LineTotal != 20000 {
		t.Fatalf("lines = %+v", o.Lines)
	}
	expectationsMet(t, mock)
}

func TestGetUserByEmailFoldsCase(t *testing.T) {
	s, mock := newStore(t)
	now := time.Now().UTC()
	mock.ExpectQuery("FROM store_users WHERE lower").
		WithArgs("Alice@Example.com").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "email", "name", "password_hash", "role", "failed_logins", "locked", "created_at", "updated_at",
		}).AddRow("u1", "alice@example.com", "Alice", "hash", "client", 0, false, now, now))

	u, err := s.GetUserByEmail(context.Background(), "Alice@Example.com")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if u.ID != "u1" || string(u.Role) != "client" {
		t.Fatalf("user = %+v", u)
	}
	expectationsMet(t, mock)
}
