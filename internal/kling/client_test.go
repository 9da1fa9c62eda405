package kling

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mandalnilabja/klingate/internal/types"
)

// testServer records each request's bearer token and answers from a queue
// of canned envelopes.
type testServer struct {
	mu        sync.Mutex
	tokens    []string
	responses []types.Envelope
	srv       *httptest.Server
}

func newTestServer() *testServer {
	ts := &testServer{}
	ts.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ts.mu.Lock()
		ts.tokens = append(ts.tokens, strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "))
		var env types.Envelope
		if len(ts.responses) > 0 {
			env = ts.responses[0]
			ts.responses = ts.responses[1:]
		}
		ts.mu.Unlock()
		_ = json.NewEncoder(w).Encode(env)
	}))
	return ts
}

func (ts *testServer) calls() int {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return len(ts.tokens)
}

func newTestClient(ts *testServer, keys []*APIKey) (*Client, *[]time.Duration) {
	client := New(Config{
		Keys:          keys,
		DefaultRegion: RegionGlobal,
		BaseURLs: map[Region]string{
			RegionGlobal: ts.srv.URL,
			RegionCN:     ts.srv.URL,
		},
	})
	var delays []time.Duration
	client.sleep = func(ctx context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	}
	return client, &delays
}

func TestClient_Success(t *testing.T) {
	ts := newTestServer()
	defer ts.srv.Close()
	ts.responses = []types.Envelope{
		{Code: 0, RequestID: "req-1", Data: json.RawMessage(`{"task_id":"t1"}`)},
	}

	client, _ := newTestClient(ts, testKeys())
	env, err := client.Request(context.Background(), RequestOptions{
		Method: http.MethodPost,
		Path:   "/v1/images/generations",
		Body:   map[string]string{"prompt": "a cat"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if env.RequestID != "req-1" {
		t.Errorf("expected request id req-1, got %s", env.RequestID)
	}
	if ts.calls() != 1 {
		t.Errorf("expected 1 upstream call, got %d", ts.calls())
	}
}

func TestClient_ExhaustionRotatesKey(t *testing.T) {
	ts := newTestServer()
	defer ts.srv.Close()
	ts.responses = []types.Envelope{
		{Code: 1004, Message: "insufficient balance"},
		{Code: 0, RequestID: "req-2"},
	}

	keys := testKeys()
	client, _ := newTestClient(ts, keys)
	env, err := client.Request(context.Background(), RequestOptions{
		Method:  http.MethodPost,
		Path:    "/v1/images/generations",
		Body:    map[string]string{"prompt": "x"},
		Purpose: PurposeImage,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if env.Code != 0 {
		t.Errorf("expected success after rotation, got code %d", env.Code)
	}
	if ts.calls() != 2 {
		t.Fatalf("expected 2 upstream calls, got %d", ts.calls())
	}

	// The first key (A) must be disabled and the retry signed by B.
	if keys[0].Enabled {
		t.Error("expected key A disabled after exhaustion response")
	}
	if ts.tokens[0] == ts.tokens[1] {
		t.Error("expected the retry to use a different key's token")
	}
	wantB := SignTokenPrefixMatch(ts.tokens[1], "ak-b")
	if !wantB {
		t.Error("expected the retry token issued by key B")
	}
}

// SignTokenPrefixMatch checks that the token's payload names the issuer.
func SignTokenPrefixMatch(token, issuer string) bool {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return false
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return false
	}
	return strings.Contains(string(payload), `"iss":"`+issuer+`"`)
}

func TestClient_OtherErrorsAreTerminal(t *testing.T) {
	ts := newTestServer()
	defer ts.srv.Close()
	ts.responses = []types.Envelope{
		{Code: 1201, Message: "invalid parameter", RequestID: "req-3"},
	}

	keys := testKeys()
	client, _ := newTestClient(ts, keys)
	_, err := client.Request(context.Background(), RequestOptions{
		Method: http.MethodGet,
		Path:   "/v1/images/generations/t1",
	})

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Code != 1201 || apiErr.RequestID != "req-3" {
		t.Errorf("unexpected APIError: %+v", apiErr)
	}
	if ts.calls() != 1 {
		t.Errorf("expected no retries for application errors, got %d calls", ts.calls())
	}
	for _, k := range keys {
		if !k.Enabled {
			t.Errorf("application errors must not disable keys (key %s)", k.ID)
		}
	}
}

func TestClient_TransportFailureBackoff(t *testing.T) {
	ts := newTestServer()
	ts.srv.Close() // every attempt fails at the transport level

	client, delays := newTestClient(ts, testKeys())
	_, err := client.Request(context.Background(), RequestOptions{
		Method: http.MethodGet,
		Path:   "/v1/images/generations/t1",
	})
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}

	// maxRetries = 2: three attempts, backoff 1s then 2s between them.
	want := []time.Duration{1 * time.Second, 2 * time.Second}
	if len(*delays) != len(want) {
		t.Fatalf("expected %d backoff sleeps, got %d", len(want), len(*delays))
	}
	for i, d := range want {
		if (*delays)[i] != d {
			t.Errorf("backoff %d: expected %s, got %s", i, d, (*delays)[i])
		}
	}
}

func TestClient_NoKeysAvailable(t *testing.T) {
	ts := newTestServer()
	defer ts.srv.Close()

	client, delays := newTestClient(ts, nil)
	_, err := client.Request(context.Background(), RequestOptions{
		Method: http.MethodGet,
		Path:   "/v1/models",
	})
	if !errors.Is(err, ErrNoKeysAvailable) {
		t.Fatalf("expected ErrNoKeysAvailable, got %v", err)
	}
	if !strings.Contains(err.Error(), string(RegionGlobal)) {
		t.Errorf("expected error to name the region, got %q", err)
	}
	if len(*delays) != 0 {
		t.Error("no-keys failures must not be retried")
	}
	if ts.calls() != 0 {
		t.Error("no upstream call expected without a key")
	}
}

func TestClient_NoRetriesPolicy(t *testing.T) {
	ts := newTestServer()
	ts.srv.Close() // every attempt fails at the transport level

	client := New(Config{
		Keys:          testKeys(),
		DefaultRegion: RegionGlobal,
		MaxRetries:    NoRetries,
		BaseURLs: map[Region]string{
			RegionGlobal: ts.srv.URL,
			RegionCN:     ts.srv.URL,
		},
	})
	var delays []time.Duration
	client.sleep = func(ctx context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	}

	_, err := client.Request(context.Background(), RequestOptions{
		Method: http.MethodGet,
		Path:   "/v1/images/generations/t1",
	})
	if err == nil {
		t.Fatal("expected error from the single failing attempt")
	}
	if len(delays) != 0 {
		t.Errorf("NoRetries must mean a single attempt, saw %d backoff sleeps", len(delays))
	}
}

func TestClient_OnExhaustedCallback(t *testing.T) {
	ts := newTestServer()
	defer ts.srv.Close()
	ts.responses = []types.Envelope{
		{Code: 1005, Message: "invalid credential"},
		{Code: 0},
	}

	exhausted := make(chan string, 1)
	client := New(Config{
		Keys:          testKeys(),
		DefaultRegion: RegionGlobal,
		BaseURLs: map[Region]string{
			RegionGlobal: ts.srv.URL,
			RegionCN:     ts.srv.URL,
		},
		OnExhausted: func(keyID string) { exhausted <- keyID },
	})
	client.sleep = func(ctx context.Context, d time.Duration) error { return nil }

	if _, err := client.Request(context.Background(), RequestOptions{
		Method: http.MethodGet,
		Path:   "/v1/images/generations/t1",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	select {
	case id := <-exhausted:
		if id == "" {
			t.Error("callback received an empty key id")
		}
	case <-time.After(time.Second):
		t.Fatal("expected the exhaustion callback to fire")
	}
}

func TestClient_RequestData(t *testing.T) {
	ts := newTestServer()
	defer ts.srv.Close()
	ts.responses = []types.Envelope{
		{Code: 0, Data: json.RawMessage(`{"task_id":"task-9","task_status":"submitted"}`)},
	}

	client, _ := newTestClient(ts, testKeys())
	out, err := RequestData[struct {
		TaskID     string `json:"task_id"`
		TaskStatus string `json:"task_status"`
	}](context.Background(), client, RequestOptions{Method: http.MethodGet, Path: "/v1/x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.TaskID != "task-9" || out.TaskStatus != "submitted" {
		t.Errorf("unexpected decoded data: %+v", out)
	}
}
