package kling

import (
	"testing"
	"time"
)

func TestTokenCache_HitAndRefresh(t *testing.T) {
	now := time.Unix(1700000000, 0)
	cache := NewTokenCache()
	cache.now = func() time.Time { return now }

	key := &APIKey{ID: "k1", AccessKey: "ak", SecretKey: "sk", Region: RegionGlobal, Purpose: PurposeAll, Enabled: true}

	first := cache.GetOrCreate(key)
	second := cache.GetOrCreate(key)
	if first != second {
		t.Error("expected cache hit to return the identical token")
	}

	// Still inside the validity window: cached token survives.
	now = now.Add(tokenLifetime - refreshBuffer - time.Second)
	if got := cache.GetOrCreate(key); got != first {
		t.Error("expected cached token while validity exceeds refresh buffer")
	}

	// Within the refresh buffer: token is regenerated early.
	now = now.Add(2 * time.Second)
	if got := cache.GetOrCreate(key); got == first {
		t.Error("expected proactive refresh inside the refresh buffer")
	}
}

func TestTokenCache_RetainPurgesRemovedKeys(t *testing.T) {
	now := time.Unix(1700000000, 0)
	cache := NewTokenCache()
	cache.now = func() time.Time { return now }

	key := &APIKey{ID: "k1", AccessKey: "ak", SecretKey: "old-secret", Enabled: true}
	old := cache.GetOrCreate(key)

	cache.Retain(map[string]bool{})

	// Re-added record with the same id but a different secret must sign
	// with the new secret, not serve the stale cached token.
	replaced := &APIKey{ID: "k1", AccessKey: "ak", SecretKey: "new-secret", Enabled: true}
	fresh := cache.GetOrCreate(replaced)
	if fresh == old {
		t.Error("expected purged entry to be re-signed with the new secret")
	}
	if fresh != SignToken("ak", "new-secret", now) {
		t.Error("expected token signed with the replacement secret")
	}
}
