package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/matzehuels/drivetrain/pkg/cache"
	"github.com/matzehuels/drivetrain/pkg/observability"
)

// CacheStore keeps sessions in a cache backend. Expiry is the cache TTL, so
// Redis drops idle sessions on its own.
type CacheStore struct {
	cache cache.Cache
	keyer cache.Keyer
}

// NewCacheStore wraps c. A nil keyer uses the default keys.
func NewCacheStore(c cache.Cache, keyer cache.Keyer) *CacheStore {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	return &CacheStore{cache: c, keyer: keyer}
}

func (s *CacheStore) Get(ctx context.Context, id string) (*Session, error) {
	data, ok, err := s.cache.Get(ctx, s.keyer.SessionKey(id))
	if err != nil {
		return nil, err
	}
	if !ok {
		observability.Cache().OnCacheMiss(ctx, observability.KeySession)
		return nil, nil
	}
	observability.Cache().OnCacheHit(ctx, observability.KeySession)

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("parse session: %w", err)
	}
	if sess.IsExpired() {
		return nil, nil
	}
	return &sess, nil
}

func (s *CacheStore) Set(ctx context.Context, sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return s.Delete(ctx, sess.ID)
	}
	if err := s.cache.Set(ctx, s.keyer.SessionKey(sess.ID), data, ttl); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, observability.KeySession, len(data))
	return nil
}

func (s *CacheStore) Delete(ctx context.Context, id string) error {
	return s.cache.Delete(ctx, s.keyer.SessionKey(id))
}

var _ Store = (*CacheStore)(nil)
