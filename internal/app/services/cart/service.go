// Package cart implements the storefront cart engine: line-item mutations
// guarded by stock and daily-cap checks, exact money totals, and
// write-through persistence of every change.
package cart

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/patitas/storefront/internal/app/domain/cart"
	"github.com/patitas/storefront/internal/app/domain/catalog"
	"github.com/patitas/storefront/internal/app/services/params"
	"github.com/patitas/storefront/internal/app/storage"
	"github.com/patitas/storefront/pkg/logger"
)

// Service owns the in-memory cart of every customer and is the only writer
// of the persisted blobs. Carts load lazily on first touch and every
// mutation persists before returning, so within one process the sequence of
// persisted writes follows the sequence of completed mutations.
type Service struct {
	store    *PersistedStore
	params   *params.Service
	notifier Notifier
	log      *logger.Logger
	now      func() time.Time

	mu    sync.Mutex
	carts map[string][]cart.Line

	// taxBP is the session-cached tax rate in basis points. Totals use the
	// cached value rather than re-fetching per call; RefreshTaxRate rereads
	// the parameter source.
	taxBP    int64
	taxBPSet bool
}

// New constructs the cart engine.
func New(kv storage.KV, paramSvc *params.Service, notifier Notifier, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("cart")
	}
	if notifier == nil {
		notifier = NewLogNotifier(log)
	}
	return &Service{
		store:    NewPersistedStore(kv, log),
		params:   paramSvc,
		notifier: notifier,
		log:      log,
		now:      time.Now,
		carts:    make(map[string][]cart.Line),
	}
}

// WithClock overrides the engine's clock. Used by tests to pin the
// day-bucket boundary.
func (s *Service) WithClock(now func() time.Time) {
	s.now = now
}

// linesLocked returns the owner's lines, loading them from the persisted
// store on first touch.
func (s *Service) linesLocked(ctx context.Context, owner string) []cart.Line {
	if lines, ok := s.carts[owner]; ok {
		return lines
	}
	lines := s.store.Load(ctx, owner)
	s.carts[owner] = lines
	return lines
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// todayQuantityLocked sums the quantities of every line added on the current
// calendar day, skipping the line with the excluded id.
func (s *Service) todayQuantityLocked(lines []cart.Line, excludeLineID string) int {
	today := s.now()
	total := 0
	for _, ln := range lines {
		if ln.LineID == excludeLineID {
			continue
		}
		if sameDay(ln.AddedAt, today) {
			total += ln.Quantity
		}
	}
	return total
}

// AddItem adds quantity units of the product to the owner's cart. The daily
// cap is re-fetched from the parameter source first so a concurrent admin
// change takes effect immediately. Returns false, with no mutation, when the
// cap or the product's stock would be exceeded. Adding a product already in
// the cart merges into the existing line and keeps its original AddedAt.
func (s *Service) AddItem(ctx context.Context, owner string, p catalog.Product, quantity int) bool {
	if quantity <= 0 {
		s.notifier.Notify(ctx, owner, SeverityError, "quantity must be at least 1")
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.linesLocked(ctx, owner)
	maxDaily := s.params.MaxDailyItems(ctx)

	todayTotal := s.todayQuantityLocked(lines, "")
	if todayTotal+quantity > maxDaily {
		s.notifier.Notify(ctx, owner, SeverityError,
			fmt.Sprintf("daily limit reached: only %d items per day allowed", maxDaily))
		return false
	}
	if quantity > p.Stock {
		s.notifier.Notify(ctx, owner, SeverityError, "insufficient stock")
		return false
	}

	for i := range lines {
		if lines[i].ProductID != p.ID {
			continue
		}
		newQuantity := lines[i].Quantity + quantity
		if newQuantity > lines[i].StockAvailable {
			s.notifier.Notify(ctx, owner, SeverityError, "insufficient stock")
			return false
		}
		if s.todayQuantityLocked(lines, lines[i].LineID)+newQuantity > maxDaily {
			s.notifier.Notify(ctx, owner, SeverityError,
				fmt.Sprintf("daily limit reached: only %d items per day allowed", maxDaily))
			return false
		}
		// Merge keeps AddedAt so the line stays in its original day bucket.
		lines[i].Quantity = newQuantity
		s.carts[owner] = lines
		s.store.Save(ctx, owner, lines)
		s.notifier.Notify(ctx, owner, SeveritySuccess, fmt.Sprintf("%s added to cart", p.Name))
		return true
	}

	lines = append(lines, cart.Line{
		LineID:         uuid.NewString(),
		ProductID:      p.ID,
		Description:    p.Name,
		UnitPrice:      p.UnitPrice,
		StockAvailable: p.Stock,
		Taxable:        p.Taxable,
		Quantity:       quantity,
		AddedAt:        s.now(),
	})
	s.carts[owner] = lines
	s.store.Save(ctx, owner, lines)
	s.notifier.Notify(ctx, owner, SeveritySuccess, fmt.Sprintf("%s added to cart", p.Name))
	return true
}

// RemoveItem removes the line with the given id, reporting whether a line
// was actually removed. Removing an absent line is a silent no-op; calling
// it twice equals calling it once.
func (s *Service) RemoveItem(ctx context.Context, owner, lineID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.linesLocked(ctx, owner)
	removed := ""
	kept := lines[:0]
	for _, ln := range lines {
		if ln.LineID == lineID {
			removed = ln.Description
			continue
		}
		kept = append(kept, ln)
	}
	s.carts[owner] = kept
	s.store.Save(ctx, owner, kept)
	if removed != "" {
		s.notifier.Notify(ctx, owner, SeverityInfo, fmt.Sprintf("%s removed from cart", removed))
	}
	return removed != ""
}

// UpdateQuantity sets a line's quantity, reporting whether the cart changed.
// Zero or negative removes the line. The stock ceiling and the re-fetched
// daily cap both apply; a rejected update leaves the cart untouched and
// returns false, as does updating an absent line.
func (s *Service) UpdateQuantity(ctx context.Context, owner, lineID string, newQuantity int) bool {
	if newQuantity <= 0 {
		return s.RemoveItem(ctx, owner, lineID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.linesLocked(ctx, owner)
	idx := -1
	for i := range lines {
		if lines[i].LineID == lineID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}

	if newQuantity > lines[idx].StockAvailable {
		s.notifier.Notify(ctx, owner, SeverityError, "insufficient stock")
		return false
	}

	maxDaily := s.params.MaxDailyItems(ctx)
	if s.todayQuantityLocked(lines, lineID)+newQuantity > maxDaily {
		s.notifier.Notify(ctx, owner, SeverityError,
			fmt.Sprintf("daily limit reached: only %d items per day allowed", maxDaily))
		return false
	}

	lines[idx].Quantity = newQuantity
	s.carts[owner] = lines
	s.store.Save(ctx, owner, lines)
	return true
}

// RemoveAll clears the owner's cart.
func (s *Service) RemoveAll(ctx context.Context, owner string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.linesLocked(ctx, owner)
	s.carts[owner] = nil
	s.store.Save(ctx, owner, nil)
	s.notifier.Notify(ctx, owner, SeverityInfo, "cart emptied")
}

// Items returns a copy of the owner's lines in insertion order.
func (s *Service) Items(ctx context.Context, owner string) []cart.Line {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.linesLocked(ctx, owner)
	return append([]cart.Line(nil), lines...)
}

// Subtotal is the sum of unit price times quantity over all lines, in minor
// currency units.
func (s *Service) Subtotal(ctx context.Context, owner string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return subtotal(s.linesLocked(ctx, owner))
}

// Tax sums the per-line tax of taxable lines using the session-cached rate.
func (s *Service) Tax(ctx context.Context, owner string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return tax(s.linesLocked(ctx, owner), s.taxBasisPointsLocked(ctx))
}

// Total is exactly Subtotal + Tax.
func (s *Service) Total(ctx context.Context, owner string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.linesLocked(ctx, owner)
	bp := s.taxBasisPointsLocked(ctx)
	return subtotal(lines) + tax(lines, bp)
}

// Totals returns subtotal, tax and total in one consistent snapshot.
func (s *Service) Totals(ctx context.Context, owner string) cart.Totals {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.linesLocked(ctx, owner)
	bp := s.taxBasisPointsLocked(ctx)
	sub := subtotal(lines)
	tx := tax(lines, bp)
	return cart.Totals{Subtotal: sub, Tax: tx, Total: sub + tx}
}

// TodayItemCount sums the quantities of lines added on the current calendar
// day.
func (s *Service) TodayItemCount(ctx context.Context, owner string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.todayQuantityLocked(s.linesLocked(ctx, owner), "")
}

// RemainingToday is the daily cap minus today's count. It can be negative
// when the cap shrank after items were added; callers clamp for display.
func (s *Service) RemainingToday(ctx context.Context, owner string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.linesLocked(ctx, owner)
	return s.params.MaxDailyItems(ctx) - s.todayQuantityLocked(lines, "")
}

// RefreshTaxRate rereads the tax rate from the parameter source, replacing
// the session-cached value used by Tax and Total.
func (s *Service) RefreshTaxRate(ctx context.Context) {
	rate := s.params.TaxRate(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.taxBP = rateToBasisPoints(rate)
	s.taxBPSet = true
}

func (s *Service) taxBasisPointsLocked(ctx context.Context) int64 {
	if !s.taxBPSet {
		s.taxBP = rateToBasisPoints(s.params.TaxRate(ctx))
		s.taxBPSet = true
	}
	return s.taxBP
}

// Money math -----------------------------------------------------------------
//
// Amounts are int64 minor currency units and the tax rate is applied in
// basis points with half-up rounding per taxable line, so totals match
// decimal currency arithmetic exactly for currency-precision inputs.

func rateToBasisPoints(rate float64) int64 {
	return int64(math.Round(rate * 10000))
}

func subtotal(lines []cart.Line) int64 {
	var total int64
	for _, ln := range lines {
		total += ln.UnitPrice * int64(ln.Quantity)
	}
	return total
}

func tax(lines []cart.Line, basisPoints int64) int64 {
	var total int64
	for _, ln := range lines {
		if !ln.Taxable {
			continue
		}
		lineAmount := ln.UnitPrice * int64(ln.Quantity)
		total += (lineAmount*basisPoints + 5000) / 10000
	}
	return total
}
