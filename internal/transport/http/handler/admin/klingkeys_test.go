package admin

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mandalnilabja/klingate/internal/kling"
	"github.com/mandalnilabja/klingate/internal/storage"
)

func newTestHandlers(t *testing.T) *Handlers {
	t.Helper()

	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open storage: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	return New(store, kling.New(kling.Config{}), nil, time.Now(), nil)
}

func TestCreateKlingKeySyncsPool(t *testing.T) {
	h := newTestHandlers(t)

	body := `{"name":"primary","access_key":"ak-1234567890","secret_key":"sk-secret","region":"global","purpose":"video"}`
	req := httptest.NewRequest(http.MethodPost, "/api/admin/keys", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.CreateKlingKey(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	// The response is a preview: masked access key, no secret anywhere.
	var preview storage.KlingKeyPreview
	if err := json.NewDecoder(rec.Body).Decode(&preview); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if preview.AccessKeyPreview == "ak-1234567890" {
		t.Error("access key must be masked in previews")
	}
	if strings.Contains(rec.Body.String(), "sk-secret") {
		t.Error("secret key must never appear in responses")
	}

	// The dispatcher pool picked the key up immediately.
	stats := h.Client.KeyStats()
	if len(stats) != 1 {
		t.Fatalf("expected 1 key in pool, got %d", len(stats))
	}
	if stats[0].ID != preview.ID || stats[0].Region != kling.RegionGlobal || !stats[0].Enabled {
		t.Errorf("unexpected pool stat: %+v", stats[0])
	}
}

func TestCreateKlingKeyRejectsBadInput(t *testing.T) {
	h := newTestHandlers(t)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/keys",
		strings.NewReader(`{"name":"incomplete","access_key":"ak-only"}`))
	rec := httptest.NewRecorder()
	h.CreateKlingKey(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing secret, got %d", rec.Code)
	}
}

func TestDisableAndDeleteKlingKey(t *testing.T) {
	h := newTestHandlers(t)

	key := &storage.KlingKey{
		AccessKey: "ak-abcdefgh",
		SecretKey: "sk-abcdefgh",
		Region:    "cn",
		Purpose:   "image",
		Enabled:   true,
	}
	if err := h.Storage.CreateKlingKey(key); err != nil {
		t.Fatalf("seed key: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/admin/keys/"+key.ID+"/disable", nil)
	req.SetPathValue("id", key.ID)
	rec := httptest.NewRecorder()
	h.SetKlingKeyEnabled(false)(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("disable: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	stats := h.Client.KeyStats()
	if len(stats) != 1 || stats[0].Enabled {
		t.Errorf("expected disabled key in pool after sync, got %+v", stats)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/admin/keys/"+key.ID, nil)
	req.SetPathValue("id", key.ID)
	rec = httptest.NewRecorder()
	h.DeleteKlingKey(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", rec.Code)
	}

	if stats := h.Client.KeyStats(); len(stats) != 0 {
		t.Errorf("expected empty pool after delete, got %+v", stats)
	}
}

func TestSyncKeepsEnvConfiguredKeys(t *testing.T) {
	h := newTestHandlers(t)

	envKey := &kling.APIKey{
		ID:        "env-1",
		AccessKey: "ak-env",
		SecretKey: "sk-env",
		Region:    kling.RegionGlobal,
		Purpose:   kling.PurposeAll,
		Enabled:   true,
	}
	h.StaticKeys = []*kling.APIKey{envKey}
	h.Client.UpdateKeys(h.StaticKeys)

	stored := &storage.KlingKey{
		AccessKey: "ak-db",
		SecretKey: "sk-db",
		Region:    "global",
		Purpose:   "video",
		Enabled:   true,
	}
	if err := h.Storage.CreateKlingKey(stored); err != nil {
		t.Fatalf("seed key: %v", err)
	}

	// A mutation on the stored key re-syncs the pool; the env-configured
	// key has no stored row and must survive the sync.
	req := httptest.NewRequest(http.MethodPost, "/api/admin/keys/"+stored.ID+"/disable", nil)
	req.SetPathValue("id", stored.ID)
	rec := httptest.NewRecorder()
	h.SetKlingKeyEnabled(false)(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("disable: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	stats := h.Client.KeyStats()
	if len(stats) != 2 {
		t.Fatalf("expected env + stored key in pool after sync, got %d: %+v", len(stats), stats)
	}
	var sawEnv bool
	for _, st := range stats {
		if st.ID == envKey.ID {
			sawEnv = true
			if !st.Enabled {
				t.Error("env-configured key must stay enabled")
			}
		}
	}
	if !sawEnv {
		t.Error("env-configured key missing from pool after admin mutation")
	}
}

func TestDeleteKlingKeyNotFound(t *testing.T) {
	h := newTestHandlers(t)

	req := httptest.NewRequest(http.MethodDelete, "/api/admin/keys/kk_missing", nil)
	req.SetPathValue("id", "kk_missing")
	rec := httptest.NewRecorder()
	h.DeleteKlingKey(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
