package params

import (
	"context"
	"fmt"
	"testing"

	"github.com/patitas/storefront/internal/app/domain/param"
	"github.com/patitas/storefront/internal/app/storage/memory"
)

func TestDefaultsWhenSourceFails(t *testing.T) {
	failing := SourceFunc(func(ctx context.Context) ([]param.Parameter, error) {
		return nil, fmt.Errorf("connection refused")
	})
	svc := New(failing, nil, nil)

	if got := svc.MaxDailyItems(context.Background()); got != DefaultMaxDailyItems {
		t.Fatalf("expected default %d, got %d", DefaultMaxDailyItems, got)
	}
	if got := svc.MaxLoginAttempts(context.Background()); got != DefaultMaxLoginAttempts {
		t.Fatalf("expected default %d, got %d", DefaultMaxLoginAttempts, got)
	}
	if got := svc.TaxRate(context.Background()); got != DefaultTaxRate {
		t.Fatalf("expected default %v, got %v", DefaultTaxRate, got)
	}
}

func TestDefaultsWhenNoMatch(t *testing.T) {
	empty := SourceFunc(func(ctx context.Context) ([]param.Parameter, error) {
		return []param.Parameter{{ID: "99", Description: "unrelated"}}, nil
	})
	svc := New(empty, nil, nil)

	if got := svc.MaxDailyItems(context.Background()); got != DefaultMaxDailyItems {
		t.Fatalf("expected default, got %d", got)
	}
}

func TestKeywordMatch(t *testing.T) {
	source := SourceFunc(func(ctx context.Context) ([]param.Parameter, error) {
		return []param.Parameter{
			{ID: "10", Description: "Maximum Items Per Day", NumericValue: 5},
			{ID: "11", Description: "Maximum failed attempts before lock", NumericValue: 4},
			{ID: "12", Description: "Sales tax percentage", NumericValue: 21},
		}, nil
	})
	svc := New(source, nil, nil)

	if got := svc.MaxDailyItems(context.Background()); got != 5 {
		t.Fatalf("expected 5, got %d", got)
	}
	if got := svc.MaxLoginAttempts(context.Background()); got != 4 {
		t.Fatalf("expected 4, got %d", got)
	}
	if got := svc.TaxRate(context.Background()); got != 0.21 {
		t.Fatalf("expected 0.21, got %v", got)
	}
}

func TestWellKnownIDFallbackMatch(t *testing.T) {
	source := SourceFunc(func(ctx context.Context) ([]param.Parameter, error) {
		return []param.Parameter{
			{ID: "1", Description: "productos por dia", NumericValue: 7},
		}, nil
	})
	svc := New(source, nil, nil)

	if got := svc.MaxDailyItems(context.Background()); got != 7 {
		t.Fatalf("expected id fallback to match, got %d", got)
	}
}

func TestTaxRatePrefersTextValue(t *testing.T) {
	source := SourceFunc(func(ctx context.Context) ([]param.Parameter, error) {
		return []param.Parameter{
			{ID: "3", Description: "tax rate", NumericValue: 0, TextValue: "19"},
		}, nil
	})
	svc := New(source, nil, nil)

	if got := svc.TaxRate(context.Background()); got != 0.19 {
		t.Fatalf("expected 0.19, got %v", got)
	}
}

func TestTaxRateUnparseableTextFallsBack(t *testing.T) {
	source := SourceFunc(func(ctx context.Context) ([]param.Parameter, error) {
		return []param.Parameter{
			{ID: "3", Description: "tax rate", TextValue: "nineteen"},
		}, nil
	})
	svc := New(source, nil, nil)

	if got := svc.TaxRate(context.Background()); got != DefaultTaxRate {
		t.Fatalf("expected default, got %v", got)
	}
}

func TestAdministration(t *testing.T) {
	store := memory.New()
	svc := New(nil, store, nil)

	created, err := svc.Create(context.Background(), param.Parameter{
		Description:  "Maximum items per day",
		NumericValue: 5,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected id to be generated")
	}

	if got := svc.MaxDailyItems(context.Background()); got != 5 {
		t.Fatalf("store-backed source should see the new value, got %d", got)
	}

	created.NumericValue = 8
	if _, err := svc.Update(context.Background(), created); err != nil {
		t.Fatalf("update: %v", err)
	}
	if got := svc.MaxDailyItems(context.Background()); got != 8 {
		t.Fatalf("expected 8 after update, got %d", got)
	}

	if err := svc.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := svc.MaxDailyItems(context.Background()); got != DefaultMaxDailyItems {
		t.Fatalf("expected default after delete, got %d", got)
	}
}

func TestValidationRanges(t *testing.T) {
	store := memory.New()
	svc := New(nil, store, nil)

	cases := []struct {
		name    string
		p       param.Parameter
		wantErr bool
	}{
		{"daily cap in range", param.Parameter{Description: "items per day", NumericValue: 10}, false},
		{"daily cap too high", param.Parameter{Description: "items per day", NumericValue: 11}, true},
		{"daily cap zero", param.Parameter{Description: "items per day", NumericValue: 0}, true},
		{"attempts in range", param.Parameter{Description: "failed attempts", NumericValue: 1}, false},
		{"tax in range", param.Parameter{Description: "tax percentage", NumericValue: 50}, false},
		{"tax too high", param.Parameter{Description: "tax percentage", NumericValue: 51}, true},
		{"tax text not numeric", param.Parameter{Description: "tax percentage", TextValue: "lots"}, true},
		{"empty description", param.Parameter{NumericValue: 3}, true},
		{"unrelated parameter unconstrained", param.Parameter{Description: "promo banner", NumericValue: 999}, false},
	}
	for _, tc := range cases {
		_, err := svc.Create(context.Background(), tc.p)
		if tc.wantErr && err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
		if !tc.wantErr && err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
	}
}
