// Package params reads the system parameters that tune storefront behavior:
// the daily purchase cap, the login attempt limit and the tax rate. Reads are
// best-effort: any failure falls back to a hardcoded default and is logged,
// never surfaced to the caller.
package params

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/patitas/storefront/internal/app/domain/param"
	"github.com/patitas/storefront/internal/app/storage"
	"github.com/patitas/storefront/pkg/logger"
)

// Hardcoded fallbacks used whenever the parameter source is unreachable,
// has no matching entry, or holds an unparseable value.
const (
	DefaultMaxDailyItems    = 3
	DefaultMaxLoginAttempts = 3
	DefaultTaxRate          = 0.19
)

// Well-known parameter identifiers, matched when the description keyword
// finds nothing.
const (
	idMaxDailyItems    = "1"
	idMaxLoginAttempts = "2"
	idTaxRate          = "3"
)

// Keywords are the case-insensitive description substrings used to locate
// each parameter in the collection.
type Keywords struct {
	MaxDailyItems    string `yaml:"max_daily_items"`
	MaxLoginAttempts string `yaml:"max_login_attempts"`
	TaxRate          string `yaml:"tax_rate"`
}

// DefaultKeywords returns the keywords matching the seeded parameter
// descriptions.
func DefaultKeywords() Keywords {
	return Keywords{
		MaxDailyItems:    "items per day",
		MaxLoginAttempts: "failed attempts",
		TaxRate:          "tax",
	}
}

// Source provides the full parameter collection. Implementations: the local
// ParameterStore and a remote HTTP collection.
type Source interface {
	FetchAll(ctx context.Context) ([]param.Parameter, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context) ([]param.Parameter, error)

func (f SourceFunc) FetchAll(ctx context.Context) ([]param.Parameter, error) {
	return f(ctx)
}

// StoreSource reads parameters from the local store.
type StoreSource struct {
	store storage.ParameterStore
}

func NewStoreSource(store storage.ParameterStore) *StoreSource {
	return &StoreSource{store: store}
}

func (s *StoreSource) FetchAll(ctx context.Context) ([]param.Parameter, error) {
	return s.store.ListParameters(ctx)
}

// Service reads tunable limits from a Source and manages the parameter
// collection itself. Reads re-fetch on every call: the source of truth can
// change between actions, so callers needing freshness get it and callers
// needing session stability cache the result themselves.
type Service struct {
	source   Source
	store    storage.ParameterStore
	keywords Keywords
	log      *logger.Logger
}

// New constructs the parameter service. When source is nil the local store
// is used as the source.
func New(source Source, store storage.ParameterStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("params")
	}
	if source == nil && store != nil {
		source = NewStoreSource(store)
	}
	return &Service{
		source:   source,
		store:    store,
		keywords: DefaultKeywords(),
		log:      log,
	}
}

// WithKeywords overrides the description keywords, e.g. for a deployment
// whose parameter descriptions are in another language.
func (s *Service) WithKeywords(kw Keywords) {
	if strings.TrimSpace(kw.MaxDailyItems) != "" {
		s.keywords.MaxDailyItems = kw.MaxDailyItems
	}
	if strings.TrimSpace(kw.MaxLoginAttempts) != "" {
		s.keywords.MaxLoginAttempts = kw.MaxLoginAttempts
	}
	if strings.TrimSpace(kw.TaxRate) != "" {
		s.keywords.TaxRate = kw.TaxRate
	}
}

// MaxDailyItems returns the maximum total quantity a customer may add to the
// cart per calendar day. Falls back to DefaultMaxDailyItems.
func (s *Service) MaxDailyItems(ctx context.Context) int {
	p, ok := s.lookup(ctx, s.keywords.MaxDailyItems, idMaxDailyItems)
	if !ok {
		return DefaultMaxDailyItems
	}
	n := int(p.NumericValue)
	if n < 1 {
		s.log.WithField("parameter_id", p.ID).Warn("max daily items parameter out of range, using default")
		return DefaultMaxDailyItems
	}
	return n
}

// MaxLoginAttempts returns the number of consecutive failed logins before an
// account is locked. Falls back to DefaultMaxLoginAttempts.
func (s *Service) MaxLoginAttempts(ctx context.Context) int {
	p, ok := s.lookup(ctx, s.keywords.MaxLoginAttempts, idMaxLoginAttempts)
	if !ok {
		return DefaultMaxLoginAttempts
	}
	n := int(p.NumericValue)
	if n < 1 {
		s.log.WithField("parameter_id", p.ID).Warn("max login attempts parameter out of range, using default")
		return DefaultMaxLoginAttempts
	}
	return n
}

// TaxRate returns the tax rate as a fraction. The parameter stores a
// percentage (e.g. 19), preferring the text value over the numeric one.
// Falls back to DefaultTaxRate.
func (s *Service) TaxRate(ctx context.Context) float64 {
	p, ok := s.lookup(ctx, s.keywords.TaxRate, idTaxRate)
	if !ok {
		return DefaultTaxRate
	}
	percent := p.NumericValue
	if text := strings.TrimSpace(p.TextValue); text != "" {
		parsed, err := strconv.ParseFloat(text, 64)
		if err != nil {
			s.log.WithError(err).WithField("parameter_id", p.ID).Warn("tax rate text value unparseable, using default")
			return DefaultTaxRate
		}
		percent = parsed
	}
	if percent < 0 {
		s.log.WithField("parameter_id", p.ID).Warn("tax rate parameter negative, using default")
		return DefaultTaxRate
	}
	return percent / 100
}

func (s *Service) lookup(ctx context.Context, keyword, wellKnownID string) (param.Parameter, bool) {
	if s.source == nil {
		return param.Parameter{}, false
	}
	all, err := s.source.FetchAll(ctx)
	if err != nil {
		s.log.WithError(err).WithField("keyword", keyword).Warn("parameter fetch failed, using default")
		return param.Parameter{}, false
	}
	keyword = strings.ToLower(keyword)
	for _, p := range all {
		if strings.Contains(strings.ToLower(p.Description), keyword) || p.ID == wellKnownID {
			return p, true
		}
	}
	s.log.WithField("keyword", keyword).Warn("no matching parameter, using default")
	return param.Parameter{}, false
}

// Administration -------------------------------------------------------------

// Create adds a parameter after validating its value range.
func (s *Service) Create(ctx context.Context, p param.Parameter) (param.Parameter, error) {
	if s.store == nil {
		return param.Parameter{}, fmt.Errorf("parameter store not configured")
	}
	p.Description = strings.TrimSpace(p.Description)
	if p.Description == "" {
		return param.Parameter{}, fmt.Errorf("description is required")
	}
	if err := s.validate(p); err != nil {
		return param.Parameter{}, err
	}
	created, err := s.store.CreateParameter(ctx, p)
	if err != nil {
		return param.Parameter{}, err
	}
	s.log.WithField("parameter_id", created.ID).Info("parameter created")
	return created, nil
}

// Update replaces a parameter's description and values.
func (s *Service) Update(ctx context.Context, p param.Parameter) (param.Parameter, error) {
	if s.store == nil {
		return param.Parameter{}, fmt.Errorf("parameter store not configured")
	}
	p.Description = strings.TrimSpace(p.Description)
	if p.Description == "" {
		return param.Parameter{}, fmt.Errorf("description is required")
	}
	if err := s.validate(p); err != nil {
		return param.Parameter{}, err
	}
	updated, err := s.store.UpdateParameter(ctx, p)
	if err != nil {
		return param.Parameter{}, err
	}
	s.log.WithField("parameter_id", updated.ID).Info("parameter updated")
	return updated, nil
}

// Delete removes a parameter.
func (s *Service) Delete(ctx context.Context, id string) error {
	if s.store == nil {
		return fmt.Errorf("parameter store not configured")
	}
	if err := s.store.DeleteParameter(ctx, id); err != nil {
		return err
	}
	s.log.WithField("parameter_id", id).Info("parameter deleted")
	return nil
}

// Get retrieves a parameter by id.
func (s *Service) Get(ctx context.Context, id string) (param.Parameter, error) {
	if s.store == nil {
		return param.Parameter{}, fmt.Errorf("parameter store not configured")
	}
	return s.store.GetParameter(ctx, id)
}

// List returns the full parameter collection from the local store.
func (s *Service) List(ctx context.Context) ([]param.Parameter, error) {
	if s.store == nil {
		return nil, fmt.Errorf("parameter store not configured")
	}
	return s.store.ListParameters(ctx)
}

// validate applies the per-parameter value ranges: the integer caps must be
// between 1 and 10, the tax percentage between 0 and 50. Parameters that
// match none of the known keywords are accepted as-is.
func (s *Service) validate(p param.Parameter) error {
	desc := strings.ToLower(p.Description)
	switch {
	case strings.Contains(desc, strings.ToLower(s.keywords.MaxDailyItems)),
		strings.Contains(desc, strings.ToLower(s.keywords.MaxLoginAttempts)):
		n := int(p.NumericValue)
		if n < 1 || n > 10 {
			return fmt.Errorf("value must be between 1 and 10")
		}
	case strings.Contains(desc, strings.ToLower(s.keywords.TaxRate)):
		percent := p.NumericValue
		if text := strings.TrimSpace(p.TextValue); text != "" {
			parsed, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return fmt.Errorf("text value must be numeric: %w", err)
			}
			percent = parsed
		}
		if percent < 0 || percent > 50 {
			return fmt.Errorf("percentage must be between 0 and 50")
		}
	}
	return nil
}
