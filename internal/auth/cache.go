package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

// CachingVerifier remembers successful verifications until the token
// expires or maxTTL passes, whichever comes first. Failures are never
// cached, so a token that failed once is checked again next time.
//
// Keys are SHA-256 digests of the token; raw tokens are not kept in memory.
type CachingVerifier struct {
	next   Verifier
	cache  *ristretto.Cache[string, Identity]
	maxTTL time.Duration
	now    func() time.Time
}

// NewCachingVerifier wraps next. maxKeys bounds the number of entries.
func NewCachingVerifier(next Verifier, maxKeys int64, maxTTL time.Duration) (*CachingVerifier, error) {
	c, err := ristretto.NewCache(&ristretto.Config[string, Identity]{
		NumCounters: maxKeys * 10,
		MaxCost:     maxKeys,
		BufferItems: 64,
		// Every entry costs 1, so MaxCost is simply the entry limit.
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("auth: creating token cache: %w", err)
	}

	return &CachingVerifier{
		next:   next,
		cache:  c,
		maxTTL: maxTTL,
		now:    time.Now,
	}, nil
}

func (v *CachingVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, verificationFailed(errEmptyToken)
	}

	key := cacheKey(token)
	if id, found := v.cache.Get(key); found {
		// ristretto evicts lazily; never hand out an identity past its expiry.
		if v.now().Before(id.ExpiresAt) {
			return &id, nil
		}
		v.cache.Del(key)
	}

	id, err := v.next.Verify(ctx, token)
	if err != nil {
		return nil, err
	}

	ttl := min(id.ExpiresAt.Sub(v.now()), v.maxTTL)
	if ttl > 0 {
		v.cache.SetWithTTL(key, *id, 1, ttl)
		v.cache.Wait()
	}

	return id, nil
}

// Close stops the cache's background goroutines.
func (v *CachingVerifier) Close() {
	v.cache.Close()
}

func cacheKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
