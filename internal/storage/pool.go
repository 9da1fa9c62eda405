package storage

import (
	"github.com/mandalnilabja/klingate/internal/kling"
	"github.com/mandalnilabja/klingate/internal/storage/models"
)

// PoolKeys converts stored credentials into the dispatcher's key type.
// Only the fields the pool needs cross the boundary; names and timestamps
// stay in storage.
func PoolKeys(keys []*models.KlingKey) []*kling.APIKey {
	out := make([]*kling.APIKey, 0, len(keys))
	for _, k := range keys {
		out = append(out, &kling.APIKey{
			ID:             k.ID,
			AccessKey:      k.AccessKey,
			SecretKey:      k.SecretKey,
			Region:         kling.Region(k.Region),
			Purpose:        kling.Purpose(k.Purpose),
			Enabled:        k.Enabled,
			RemainingUnits: k.RemainingUnits,
			ExpiresAt:      k.ExpiresAt,
		})
	}
	return out
}
