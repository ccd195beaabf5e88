// Package reports aggregates order history into sales summaries and keeps a
// daily snapshot series for dashboards.
package reports

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/patitas/storefront/internal/app/domain/order"
	"github.com/patitas/storefront/internal/app/storage"
	"github.com/patitas/storefront/pkg/logger"
)

// Summary aggregates the orders placed inside a window. Cancelled orders are
// excluded; amounts are minor currency units.
type Summary struct {
	From        time.Time     `json:"from"`
	To          time.Time     `json:"to"`
	OrderCount  int           `json:"order_count"`
	Subtotal    int64         `json:"subtotal"`
	Tax         int64         `json:"tax"`
	Revenue     int64         `json:"revenue"`
	TopProducts []ProductRank `json:"top_products"`
}

// ProductRank is a product's sold-quantity standing within a summary.
type ProductRank struct {
	ProductID   string `json:"product_id"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	Revenue     int64  `json:"revenue"`
}

const topProductLimit = 5

type Service struct {
	orders storage.OrderStore
	kv     storage.KV
	log    *logger.Logger
	now    func() time.Time
}

func New(orders storage.OrderStore, kv storage.KV, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("reports")
	}
	return &Service{orders: orders, kv: kv, log: log, now: time.Now}
}

// WithClock overrides the clock used for snapshot day keys. Test hook.
func (s *Service) WithClock(now func() time.Time) {
	s.now = now
}

// SalesSummary aggregates orders with PlacedAt in [from, to).
func (s *Service) SalesSummary(ctx context.Context, from, to time.Time) (Summary, error) {
	all, err := s.orders.ListOrders(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("list orders: %w", err)
	}

	sum := Summary{From: from, To: to}
	byProduct := make(map[string]*ProductRank)
	for _, o := range all {
		if o.Status == order.StatusCancelled {
			continue
		}
		if o.PlacedAt.Before(from) || !o.PlacedAt.Before(to) {
			continue
		}
		sum.OrderCount++
		sum.Subtotal += o.Subtotal
		sum.Tax += o.Tax
		sum.Revenue += o.Total
		for _, ln := range o.Lines {
			rank, ok := byProduct[ln.ProductID]
			if !ok {
				rank = &ProductRank{ProductID: ln.ProductID, Description: ln.Description}
				byProduct[ln.ProductID] = rank
			}
			rank.Quantity += ln.Quantity
			rank.Revenue += ln.LineTotal
		}
	}

	ranks := make([]ProductRank, 0, len(byProduct))
	for _, r := range byProduct {
		ranks = append(ranks, *r)
	}
	sort.Slice(ranks, func(i, j int) bool {
		if ranks[i].Quantity != ranks[j].Quantity {
			return ranks[i].Quantity > ranks[j].Quantity
		}
		return ranks[i].ProductID < ranks[j].ProductID
	})
	if len(ranks) > topProductLimit {
		ranks = ranks[:topProductLimit]
	}
	sum.TopProducts = ranks
	return sum, nil
}

// DailySummary covers one local calendar day.
func (s *Service) DailySummary(ctx context.Context, day time.Time) (Summary, error) {
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return s.SalesSummary(ctx, from, from.AddDate(0, 0, 1))
}

func snapshotKey(day time.Time) string {
	return "report:" + day.Format("2006-01-02")
}

// Snapshot computes the previous day's summary and stores it under its date
// key, replacing any earlier snapshot for that day.
func (s *Service) Snapshot(ctx context.Context) error {
	day := s.now().AddDate(0, 0, -1)
	sum, err := s.DailySummary(ctx, day)
	if err != nil {
		return err
	}
	blob, err := json.Marshal(sum)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := s.kv.Set(ctx, snapshotKey(day), string(blob)); err != nil {
		return fmt.Errorf("store snapshot: %w", err)
	}
	s.log.WithField("day", day.Format("2006-01-02")).WithField("orders", sum.OrderCount).Info("daily snapshot stored")
	return nil
}

// StoredSnapshot returns the persisted summary for a day, if one exists.
func (s *Service) StoredSnapshot(ctx context.Context, day time.Time) (Summary, bool, error) {
	raw, ok, err := s.kv.Get(ctx, snapshotKey(day))
	if err != nil {
		return Summary{}, false, fmt.Errorf("load snapshot: %w", err)
	}
	if !ok {
		return Summary{}, false, nil
	}
	var sum Summary
	if err := json.Unmarshal([]byte(raw), &sum); err != nil {
		return Summary{}, false, fmt.Errorf("decode snapshot: %w", err)
	}
	return sum, true, nil
}
