package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/mandalnilabja/klingate/internal/kling"
)

// LoadKeys builds the Kling key set from the environment. Sources are tried
// in priority order; the first that yields at least one key wins:
//
//  1. KLING_API_KEYS, a JSON array of key records
//  2. KLING_ACCESS_KEY_n / KLING_SECRET_KEY_n (+ optional KLING_REGION_n,
//     KLING_PURPOSE_n), numbered from 1 until the first gap
//  3. KLING_ACCESS_KEY / KLING_SECRET_KEY single pair, plus the
//     purpose-scoped KLING_VIDEO_ACCESS_KEY / KLING_VIDEO_SECRET_KEY pair
//
// Invalid or partial entries are skipped with a warning; a bad entry never
// aborts the whole load.
func LoadKeys(logger *slog.Logger) []*kling.APIKey {
	if keys := keysFromJSON(logger); len(keys) > 0 {
		return keys
	}
	if keys := keysFromNumbered(logger); len(keys) > 0 {
		return keys
	}
	return keysFromPairs(logger)
}

func keysFromJSON(logger *slog.Logger) []*kling.APIKey {
	raw := os.Getenv("KLING_API_KEYS")
	if raw == "" {
		return nil
	}

	// Enabled is a pointer here so an omitted field means enabled, matching
	// how operators expect a plain {access_key, secret_key} entry to behave.
	var entries []struct {
		kling.APIKey
		Enabled *bool `json:"enabled"`
	}
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		logger.Warn("KLING_API_KEYS is not a valid JSON array, ignoring", "error", err)
		return nil
	}

	var keys []*kling.APIKey
	for i := range entries {
		entry := entries[i].APIKey
		if entry.AccessKey == "" || entry.SecretKey == "" {
			logger.Warn("skipping key entry without credentials", "index", i, "id", entry.ID)
			continue
		}
		if entry.ID == "" {
			entry.ID = fmt.Sprintf("env-json-%d", i+1)
		}
		entry.Enabled = entries[i].Enabled == nil || *entries[i].Enabled
		normalizeKey(&entry, logger)
		keys = append(keys, &entry)
	}
	return keys
}

func keysFromNumbered(logger *slog.Logger) []*kling.APIKey {
	var keys []*kling.APIKey
	for n := 1; ; n++ {
		access := os.Getenv(fmt.Sprintf("KLING_ACCESS_KEY_%d", n))
		secret := os.Getenv(fmt.Sprintf("KLING_SECRET_KEY_%d", n))
		if access == "" && secret == "" {
			break
		}
		if access == "" || secret == "" {
			logger.Warn("skipping numbered key with missing half", "index", n)
			continue
		}

		key := kling.APIKey{
			ID:        fmt.Sprintf("env-key-%d", n),
			AccessKey: access,
			SecretKey: secret,
			Region:    kling.Region(strings.ToLower(os.Getenv(fmt.Sprintf("KLING_REGION_%d", n)))),
			Purpose:   kling.Purpose(strings.ToLower(os.Getenv(fmt.Sprintf("KLING_PURPOSE_%d", n)))),
			Enabled:   true,
		}
		normalizeKey(&key, logger)
		keys = append(keys, &key)
	}
	return keys
}

func keysFromPairs(logger *slog.Logger) []*kling.APIKey {
	var keys []*kling.APIKey

	if access, secret := os.Getenv("KLING_ACCESS_KEY"), os.Getenv("KLING_SECRET_KEY"); access != "" && secret != "" {
		key := kling.APIKey{
			ID:        "env-primary",
			AccessKey: access,
			SecretKey: secret,
			Region:    kling.Region(strings.ToLower(os.Getenv("KLING_REGION"))),
			Purpose:   kling.PurposeAll,
			Enabled:   true,
		}
		normalizeKey(&key, logger)
		keys = append(keys, &key)
	}

	if access, secret := os.Getenv("KLING_VIDEO_ACCESS_KEY"), os.Getenv("KLING_VIDEO_SECRET_KEY"); access != "" && secret != "" {
		key := kling.APIKey{
			ID:        "env-video",
			AccessKey: access,
			SecretKey: secret,
			Region:    kling.Region(strings.ToLower(os.Getenv("KLING_REGION"))),
			Purpose:   kling.PurposeVideo,
			Enabled:   true,
		}
		normalizeKey(&key, logger)
		keys = append(keys, &key)
	}

	if len(keys) == 0 {
		logger.Warn("no Kling API keys configured; every request will fail with no-keys-available")
	}
	return keys
}

// normalizeKey fills defaults and downgrades unknown enum values.
func normalizeKey(key *kling.APIKey, logger *slog.Logger) {
	if key.Region == "" {
		key.Region = kling.RegionGlobal
	} else if !key.Region.Valid() {
		logger.Warn("unknown region on key, defaulting to global", "id", key.ID, "region", key.Region)
		key.Region = kling.RegionGlobal
	}
	if key.Purpose == "" {
		key.Purpose = kling.PurposeAll
	} else if !key.Purpose.Valid() {
		logger.Warn("unknown purpose on key, defaulting to all", "id", key.ID, "purpose", key.Purpose)
		key.Purpose = kling.PurposeAll
	}
}
