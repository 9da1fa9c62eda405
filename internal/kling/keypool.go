// Package kling implements the outbound client for the Kling AI generation
// API: JWT credential signing, a rotating key pool, and a retrying
// request dispatcher.
package kling

import (
	"sync"
	"time"
)

// Region selects which Kling endpoint family a key is scoped to.
type Region string

const (
	RegionGlobal Region = "global"
	RegionCN     Region = "cn"
)

// Valid reports whether r is a known region.
func (r Region) Valid() bool {
	return r == RegionGlobal || r == RegionCN
}

// Purpose restricts which API families a key may serve.
type Purpose string

const (
	PurposeImage Purpose = "image"
	PurposeVideo Purpose = "video"
	PurposeAll   Purpose = "all"
)

// Valid reports whether p is a known purpose.
func (p Purpose) Valid() bool {
	return p == PurposeImage || p == PurposeVideo || p == PurposeAll
}

// Matches reports whether a key with purpose p can serve a request with
// purpose want. "all" on either side matches everything.
func (p Purpose) Matches(want Purpose) bool {
	return p == want || p == PurposeAll || want == PurposeAll
}

// APIKey is one configured credential pair plus its selection metadata.
// Only Enabled and RemainingUnits are mutated after load, and only by the
// pool's MarkExhausted; everything else is read-only.
type APIKey struct {
	ID             string     `json:"id"`
	AccessKey      string     `json:"access_key"`
	SecretKey      string     `json:"secret_key"`
	Region         Region     `json:"region"`
	Purpose        Purpose    `json:"purpose"`
	Enabled        bool       `json:"enabled"`
	RemainingUnits *float64   `json:"remaining_units,omitempty"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
}

// KeyStat is a secret-free snapshot of one key's state.
type KeyStat struct {
	ID             string     `json:"id"`
	Region         Region     `json:"region"`
	Purpose        Purpose    `json:"purpose"`
	Enabled        bool       `json:"enabled"`
	RemainingUnits *float64   `json:"remaining_units,omitempty"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
}

// KeyPool owns the authoritative key set and implements selection,
// rotation, and exhaustion policy. Safe for concurrent use.
type KeyPool struct {
	mu      sync.Mutex
	keys    []*APIKey
	cursors map[string]int
	tokens  *TokenCache
	now     func() time.Time
}

// NewKeyPool creates a pool over the given keys, sharing the token cache
// so that key removal can invalidate cached tokens.
func NewKeyPool(keys []*APIKey, tokens *TokenCache) *KeyPool {
	return &KeyPool{
		keys:    keys,
		cursors: make(map[string]int),
		tokens:  tokens,
		now:     time.Now,
	}
}

// UpdateKeys replaces the full key set. Cached tokens for IDs no longer
// present are purged so stale secrets are not served by id-reference.
func (p *KeyPool) UpdateKeys(keys []*APIKey) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.keys = keys
	if p.tokens == nil {
		return
	}

	live := make(map[string]bool, len(keys))
	for _, k := range keys {
		live[k.ID] = true
	}
	p.tokens.Retain(live)
}

// usable reports whether a key can be selected right now. Expiry is checked
// here, at selection time; there is no background sweeper.
func (p *KeyPool) usable(k *APIKey) bool {
	if !k.Enabled {
		return false
	}
	if k.ExpiresAt != nil && p.now().After(*k.ExpiresAt) {
		return false
	}
	return true
}

// GetAvailableKey selects a key for the given region and purpose.
// Selection widens in three tiers, each with its own round-robin cursor:
//  1. exact region + matching purpose
//  2. any region, matching purpose (group "{purpose}-any")
//  3. any usable key (group "any")
//
// Returns nil when no key is usable at all; callers must treat that as a
// hard failure, not something to retry.
func (p *KeyPool) GetAvailableKey(region Region, purpose Purpose) *APIKey {
	p.mu.Lock()
	defer p.mu.Unlock()

	var candidates []*APIKey
	for _, k := range p.keys {
		if p.usable(k) && k.Region == region && k.Purpose.Matches(purpose) {
			candidates = append(candidates, k)
		}
	}
	if len(candidates) > 0 {
		return p.pick(string(region)+"+"+string(purpose), candidates)
	}

	for _, k := range p.keys {
		if p.usable(k) && k.Purpose.Matches(purpose) {
			candidates = append(candidates, k)
		}
	}
	if len(candidates) > 0 {
		return p.pick(string(purpose)+"-any", candidates)
	}

	for _, k := range p.keys {
		if p.usable(k) {
			candidates = append(candidates, k)
		}
	}
	if len(candidates) > 0 {
		return p.pick("any", candidates)
	}

	return nil
}

// pick advances the rotation cursor for the group and returns the next
// candidate. Caller must hold p.mu.
func (p *KeyPool) pick(group string, candidates []*APIKey) *APIKey {
	idx := p.cursors[group] % len(candidates)
	p.cursors[group]++
	return candidates[idx]
}

// MarkExhausted disables the key with the given ID and zeroes its remaining
// units. The transition is one-way for the process lifetime; only a fresh
// UpdateKeys can bring a key back.
func (p *KeyPool) MarkExhausted(keyID string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, k := range p.keys {
		if k.ID == keyID {
			k.Enabled = false
			zero := 0.0
			k.RemainingUnits = &zero
			return
		}
	}
}

// KeyStats returns a snapshot of all keys without their secrets.
func (p *KeyPool) KeyStats() []KeyStat {
	p.mu.Lock()
	defer p.mu.Unlock()

	stats := make([]KeyStat, 0, len(p.keys))
	for _, k := range p.keys {
		stats = append(stats, KeyStat{
			ID:             k.ID,
			Region:         k.Region,
			Purpose:        k.Purpose,
			Enabled:        k.Enabled,
			RemainingUnits: k.RemainingUnits,
			ExpiresAt:      k.ExpiresAt,
		})
	}
	return stats
}

// AvailableCount returns how many keys are currently usable per region.
func (p *KeyPool) AvailableCount() map[Region]int {
	p.mu.Lock()
	defer p.mu.Unlock()

	counts := make(map[Region]int)
	for _, k := range p.keys {
		if p.usable(k) {
			counts[k.Region]++
		}
	}
	return counts
}
