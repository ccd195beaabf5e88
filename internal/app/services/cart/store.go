package cart

import (
	"context"
	"encoding/json"

	"github.com/patitas/storefront/internal/app/domain/cart"
	"github.com/patitas/storefront/internal/app/storage"
	"github.com/patitas/storefront/pkg/logger"
)

const keyPrefix = "cart:"

// PersistedStore serializes the full line list of each cart into the
// key-value backend. It is a pure serialization sink: failures are logged
// and swallowed so the in-memory cart stays authoritative for the session.
type PersistedStore struct {
	kv  storage.KV
	log *logger.Logger
}

// NewPersistedStore wraps a key-value backend.
func NewPersistedStore(kv storage.KV, log *logger.Logger) *PersistedStore {
	if log == nil {
		log = logger.NewDefault("cart-store")
	}
	return &PersistedStore{kv: kv, log: log}
}

// Load returns the previously saved line list for the owner, or an empty
// list when nothing was saved or the stored blob cannot be decoded. It never
// fails.
func (s *PersistedStore) Load(ctx context.Context, owner string) []cart.Line {
	raw, ok, err := s.kv.Get(ctx, keyPrefix+owner)
	if err != nil {
		s.log.WithError(err).WithField("owner", owner).Warn("cart load failed, starting empty")
		return nil
	}
	if !ok || raw == "" {
		return nil
	}
	var lines []cart.Line
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		s.log.WithError(err).WithField("owner", owner).Warn("cart blob corrupt, starting empty")
		return nil
	}
	return lines
}

// Save writes the full line list, replacing any prior value. Failures are
// logged and swallowed.
func (s *PersistedStore) Save(ctx context.Context, owner string, lines []cart.Line) {
	if lines == nil {
		lines = []cart.Line{}
	}
	raw, err := json.Marshal(lines)
	if err != nil {
		s.log.WithError(err).WithField("owner", owner).Warn("cart serialization failed")
		return
	}
	if err := s.kv.Set(ctx, keyPrefix+owner, string(raw)); err != nil {
		s.log.WithError(err).WithField("owner", owner).Warn("cart save failed, keeping in-memory state")
	}
}
