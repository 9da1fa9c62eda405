package config

import (
	"log/slog"
	"testing"

	"github.com/mandalnilabja/klingate/internal/kling"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestLoadKeys_JSONArray(t *testing.T) {
	t.Setenv("KLING_API_KEYS", `[
		{"id":"k1","access_key":"ak1","secret_key":"sk1","region":"cn","purpose":"video"},
		{"access_key":"ak2","secret_key":"sk2"},
		{"id":"broken","access_key":"","secret_key":"sk3"}
	]`)

	keys := LoadKeys(discardLogger())
	if len(keys) != 2 {
		t.Fatalf("expected 2 keys (broken entry skipped), got %d", len(keys))
	}

	if keys[0].ID != "k1" || keys[0].Region != kling.RegionCN || keys[0].Purpose != kling.PurposeVideo {
		t.Errorf("unexpected first key: %+v", keys[0])
	}
	if !keys[0].Enabled {
		t.Error("expected omitted enabled to default to true")
	}
	if keys[1].ID != "env-json-2" || keys[1].Region != kling.RegionGlobal || keys[1].Purpose != kling.PurposeAll {
		t.Errorf("expected defaults on second key, got %+v", keys[1])
	}
}

func TestLoadKeys_Numbered(t *testing.T) {
	t.Setenv("KLING_ACCESS_KEY_1", "ak1")
	t.Setenv("KLING_SECRET_KEY_1", "sk1")
	t.Setenv("KLING_REGION_1", "global")
	t.Setenv("KLING_ACCESS_KEY_2", "ak2")
	t.Setenv("KLING_SECRET_KEY_2", "sk2")
	t.Setenv("KLING_REGION_2", "cn")
	t.Setenv("KLING_PURPOSE_2", "image")

	keys := LoadKeys(discardLogger())
	if len(keys) != 2 {
		t.Fatalf("expected 2 keys, got %d", len(keys))
	}
	if keys[0].AccessKey != "ak1" || keys[0].Region != kling.RegionGlobal {
		t.Errorf("unexpected first key: %+v", keys[0])
	}
	if keys[1].Region != kling.RegionCN || keys[1].Purpose != kling.PurposeImage {
		t.Errorf("unexpected second key: %+v", keys[1])
	}
}

func TestLoadKeys_NumberedSkipsMissingHalf(t *testing.T) {
	t.Setenv("KLING_ACCESS_KEY_1", "ak1")
	// no KLING_SECRET_KEY_1: entry skipped, but numbering continues
	t.Setenv("KLING_ACCESS_KEY_2", "ak2")
	t.Setenv("KLING_SECRET_KEY_2", "sk2")

	keys := LoadKeys(discardLogger())
	if len(keys) != 1 {
		t.Fatalf("expected 1 key, got %d", len(keys))
	}
	if keys[0].AccessKey != "ak2" {
		t.Errorf("expected the complete pair to survive, got %+v", keys[0])
	}
}

func TestLoadKeys_SinglePair(t *testing.T) {
	t.Setenv("KLING_ACCESS_KEY", "ak")
	t.Setenv("KLING_SECRET_KEY", "sk")
	t.Setenv("KLING_REGION", "cn")

	keys := LoadKeys(discardLogger())
	if len(keys) != 1 {
		t.Fatalf("expected 1 key, got %d", len(keys))
	}
	if keys[0].ID != "env-primary" || keys[0].Region != kling.RegionCN || keys[0].Purpose != kling.PurposeAll {
		t.Errorf("unexpected key: %+v", keys[0])
	}
}

func TestLoadKeys_VideoPair(t *testing.T) {
	t.Setenv("KLING_VIDEO_ACCESS_KEY", "vak")
	t.Setenv("KLING_VIDEO_SECRET_KEY", "vsk")

	keys := LoadKeys(discardLogger())
	if len(keys) != 1 {
		t.Fatalf("expected 1 key, got %d", len(keys))
	}
	if keys[0].Purpose != kling.PurposeVideo {
		t.Errorf("expected video-scoped purpose, got %s", keys[0].Purpose)
	}
}

func TestLoadKeys_JSONTakesPriority(t *testing.T) {
	t.Setenv("KLING_API_KEYS", `[{"access_key":"json-ak","secret_key":"json-sk"}]`)
	t.Setenv("KLING_ACCESS_KEY_1", "numbered-ak")
	t.Setenv("KLING_SECRET_KEY_1", "numbered-sk")

	keys := LoadKeys(discardLogger())
	if len(keys) != 1 || keys[0].AccessKey != "json-ak" {
		t.Errorf("expected JSON source to win, got %+v", keys)
	}
}
