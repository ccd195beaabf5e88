package params

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPSource(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer token" {
			t.Fatalf("expected auth header, got %q", got)
		}
		w.Write([]byte(`[
			{"id": 1, "description": "Maximum items per day", "numeric_value": 5},
			{"id": 3, "description": "Tax rate", "text_value": "19"}
		]`))
	}))
	defer server.Close()

	source, err := NewHTTPSource(server.Client(), server.URL, "token", nil)
	if err != nil {
		t.Fatalf("new source: %v", err)
	}

	all, err := source.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 parameters, got %d", len(all))
	}
	if all[0].ID != "1" || all[0].NumericValue != 5 {
		t.Fatalf("unexpected first parameter: %#v", all[0])
	}
	if all[1].TextValue != "19" {
		t.Fatalf("unexpected second parameter: %#v", all[1])
	}

	svc := New(source, nil, nil)
	if got := svc.MaxDailyItems(context.Background()); got != 5 {
		t.Fatalf("expected 5 via http source, got %d", got)
	}
	if got := svc.TaxRate(context.Background()); got != 0.19 {
		t.Fatalf("expected 0.19 via http source, got %v", got)
	}
}

func TestHTTPSourceErrors(t *testing.T) {
	if _, err := NewHTTPSource(nil, "", "", nil); err == nil {
		t.Fatalf("expected error for empty endpoint")
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	source, err := NewHTTPSource(server.Client(), server.URL, "", nil)
	if err != nil {
		t.Fatalf("new source: %v", err)
	}
	if _, err := source.FetchAll(context.Background()); err == nil {
		t.Fatalf("expected error for 500 response")
	}

	svc := New(source, nil, nil)
	if got := svc.MaxDailyItems(context.Background()); got != DefaultMaxDailyItems {
		t.Fatalf("failing source must degrade to default, got %d", got)
	}
}
