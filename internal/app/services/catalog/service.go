// Package catalog manages the product and category inventory behind the
// storefront.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/patitas/storefront/internal/app/domain/catalog"
	"github.com/patitas/storefront/internal/app/storage"
	"github.com/patitas/storefront/pkg/logger"
)

// Service validates and persists products and categories. Stock adjustments
// go through DecrementStock so checkouts never drive stock negative.
type Service struct {
	products   storage.ProductStore
	categories storage.CategoryStore
	log        *logger.Logger
}

func New(products storage.ProductStore, categories storage.CategoryStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("catalog")
	}
	return &Service{products: products, categories: categories, log: log}
}

func (s *Service) validateProduct(ctx context.Context, p catalog.Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("product name is required")
	}
	if p.UnitPrice < 0 {
		return fmt.Errorf("unit price cannot be negative")
	}
	if p.Stock < 0 {
		return fmt.Errorf("stock cannot be negative")
	}
	if p.CategoryID != "" {
		if _, err := s.categories.GetCategory(ctx, p.CategoryID); err != nil {
			return fmt.Errorf("category %s: %w", p.CategoryID, err)
		}
	}
	return nil
}

func (s *Service) CreateProduct(ctx context.Context, p catalog.Product) (catalog.Product, error) {
	if err := s.validateProduct(ctx, p); err != nil {
		return catalog.Product{}, err
	}
	p.Active = true
	created, err := s.products.CreateProduct(ctx, p)
	if err != nil {
		return catalog.Product{}, fmt.Errorf("create product: %w", err)
	}
	s.log.WithField("product_id", created.ID).Info("product created")
	return created, nil
}

func (s *Service) UpdateProduct(ctx context.Context, p catalog.Product) (catalog.Product, error) {
	if err := s.validateProduct(ctx, p); err != nil {
		return catalog.Product{}, err
	}
	updated, err := s.products.UpdateProduct(ctx, p)
	if err != nil {
		return catalog.Product{}, fmt.Errorf("update product %s: %w", p.ID, err)
	}
	return updated, nil
}

// DeleteProduct deactivates rather than erases: order history keeps
// referencing the product by id.
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	p, err := s.products.GetProduct(ctx, id)
	if err != nil {
		return err
	}
	p.Active = false
	if _, err := s.products.UpdateProduct(ctx, p); err != nil {
		return fmt.Errorf("deactivate product %s: %w", id, err)
	}
	s.log.WithField("product_id", id).Info("product deactivated")
	return nil
}

func (s *Service) GetProduct(ctx context.Context, id string) (catalog.Product, error) {
	return s.products.GetProduct(ctx, id)
}

func (s *Service) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	return s.products.ListProducts(ctx)
}

// ListAvailable returns active products with stock, the set a customer can
// add to a cart.
func (s *Service) ListAvailable(ctx context.Context) ([]catalog.Product, error) {
	all, err := s.products.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	available := make([]catalog.Product, 0, len(all))
	for _, p := range all {
		if p.Active && p.Stock > 0 {
			available = append(available, p)
		}
	}
	return available, nil
}

func (s *Service) ListByCategory(ctx context.Context, categoryID string) ([]catalog.Product, error) {
	return s.products.ListProductsByCategory(ctx, categoryID)
}

// DecrementStock reduces a product's stock by quantity, failing without a
// write when the remaining stock is insufficient.
func (s *Service) DecrementStock(ctx context.Context, productID string, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("quantity must be positive")
	}
	p, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return err
	}
	if p.Stock < quantity {
		return fmt.Errorf("product %s: insufficient stock (%d available, %d requested)", productID, p.Stock, quantity)
	}
	p.Stock -= quantity
	if _, err := s.products.UpdateProduct(ctx, p); err != nil {
		return fmt.Errorf("decrement stock for %s: %w", productID, err)
	}
	return nil
}

func (s *Service) CreateCategory(ctx context.Context, c catalog.Category) (catalog.Category, error) {
	if strings.TrimSpace(c.Name) == "" {
		return catalog.Category{}, fmt.Errorf("category name is required")
	}
	created, err := s.categories.CreateCategory(ctx, c)
	if err != nil {
		return catalog.Category{}, fmt.Errorf("create category: %w", err)
	}
	s.log.WithField("category_id", created.ID).Info("category created")
	return created, nil
}

func (s *Service) UpdateCategory(ctx context.Context, c catalog.Category) (catalog.Category, error) {
	if strings.TrimSpace(c.Name) == "" {
		return catalog.Category{}, fmt.Errorf("category name is required")
	}
	updated, err := s.categories.UpdateCategory(ctx, c)
	if err != nil {
		return catalog.Category{}, fmt.Errorf("update category %s: %w", c.ID, err)
	}
	return updated, nil
}

// DeleteCategory refuses to remove a category that still has products.
func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	inUse, err := s.products.ListProductsByCategory(ctx, id)
	if err != nil {
		return err
	}
	if len(inUse) > 0 {
		return fmt.Errorf("category %s has %d products and cannot be deleted", id, len(inUse))
	}
	return s.categories.DeleteCategory(ctx, id)
}

func (s *Service) GetCategory(ctx context.Context, id string) (catalog.Category, error) {
	return s.categories.GetCategory(ctx, id)
}

func (s *Service) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	return s.categories.ListCategories(ctx)
}
