package params

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/patitas/storefront/internal/app/domain/param"
	"github.com/patitas/storefront/pkg/logger"
)

// HTTPSource fetches the parameter collection from a remote REST endpoint.
// The payload is a JSON array whose entries carry an id, a free-text
// description and either a numeric or a text value; gjson tolerates the
// loose typing (numeric ids, missing fields, values as strings).
type HTTPSource struct {
	client   *http.Client
	endpoint *url.URL
	apiKey   string
	log      *logger.Logger
}

// NewHTTPSource constructs a source using the provided endpoint.
func NewHTTPSource(client *http.Client, endpoint, apiKey string, log *logger.Logger) (*HTTPSource, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("parameter endpoint required")
	}
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse parameter endpoint: %w", err)
	}
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	if log == nil {
		log = logger.NewDefault("params-http-source")
	}
	return &HTTPSource{
		client:   client,
		endpoint: parsed,
		apiKey:   strings.TrimSpace(apiKey),
		log:      log,
	}, nil
}

var _ Source = (*HTTPSource)(nil)

// FetchAll retrieves and decodes the full parameter collection.
func (s *HTTPSource) FetchAll(ctx context.Context) ([]param.Parameter, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build parameter request: %w", err)
	}
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("parameter request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("parameter source status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read parameter response: %w", err)
	}
	parsed := gjson.ParseBytes(body)
	if !parsed.IsArray() {
		return nil, fmt.Errorf("parameter response is not a collection")
	}

	var out []param.Parameter
	parsed.ForEach(func(_, entry gjson.Result) bool {
		out = append(out, param.Parameter{
			ID:           entry.Get("id").String(),
			Description:  entry.Get("description").String(),
			NumericValue: entry.Get("numeric_value").Float(),
			TextValue:    entry.Get("text_value").String(),
		})
		return true
	})
	return out, nil
}
