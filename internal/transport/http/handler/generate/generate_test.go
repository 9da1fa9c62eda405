package generate

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/mandalnilabja/klingate/internal/generation"
	"github.com/mandalnilabja/klingate/internal/kling"
	"github.com/mandalnilabja/klingate/internal/types"
)

// stubUpstream answers from a queue of canned envelopes and counts calls.
type stubUpstream struct {
	mu        sync.Mutex
	calls     int
	responses []types.Envelope
	srv       *httptest.Server
}

func newStubUpstream(responses ...types.Envelope) *stubUpstream {
	s := &stubUpstream{responses: responses}
	s.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls++
		var env types.Envelope
		if len(s.responses) > 0 {
			env = s.responses[0]
			s.responses = s.responses[1:]
		}
		s.mu.Unlock()
		_ = json.NewEncoder(w).Encode(env)
	}))
	return s
}

func (s *stubUpstream) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func newTestHandlers(s *stubUpstream, keys []*kling.APIKey) *Handlers {
	client := kling.New(kling.Config{
		Keys:       keys,
		MaxRetries: 1,
		BaseURLs: map[kling.Region]string{
			kling.RegionGlobal: s.srv.URL,
			kling.RegionCN:     s.srv.URL,
		},
	})
	return New(generation.NewService(client), nil, nil)
}

func testKeys() []*kling.APIKey {
	return []*kling.APIKey{
		{ID: "k1", AccessKey: "ak-1", SecretKey: "sk-1", Region: kling.RegionGlobal, Purpose: kling.PurposeAll, Enabled: true},
	}
}

func TestCreateOmniVideo(t *testing.T) {
	s := newStubUpstream(types.Envelope{Code: 0, Data: json.RawMessage(`{"task_id":"t-1"}`)})
	defer s.srv.Close()
	h := newTestHandlers(s, testKeys())

	req := httptest.NewRequest(http.MethodPost, "/v1/videos/omni-video",
		strings.NewReader(`{"prompt":"a fox in the snow","duration":"5"}`))
	rec := httptest.NewRecorder()
	h.CreateOmniVideo(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created types.TaskCreated
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.TaskID != "t-1" {
		t.Errorf("expected task id t-1, got %q", created.TaskID)
	}
	if s.callCount() != 1 {
		t.Errorf("expected 1 upstream call, got %d", s.callCount())
	}
}

func TestCreateOmniVideo_MissingPrompt(t *testing.T) {
	s := newStubUpstream()
	defer s.srv.Close()
	h := newTestHandlers(s, testKeys())

	req := httptest.NewRequest(http.MethodPost, "/v1/videos/omni-video", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	h.CreateOmniVideo(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if s.callCount() != 0 {
		t.Error("invalid requests must not reach the upstream")
	}
}

func TestCreateOmniVideo_UnknownRegion(t *testing.T) {
	s := newStubUpstream()
	defer s.srv.Close()
	h := newTestHandlers(s, testKeys())

	req := httptest.NewRequest(http.MethodPost, "/v1/videos/omni-video?region=mars",
		strings.NewReader(`{"prompt":"x"}`))
	rec := httptest.NewRecorder()
	h.CreateOmniVideo(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown region, got %d", rec.Code)
	}
}

func TestCreateImage_NoKeysIs503(t *testing.T) {
	s := newStubUpstream()
	defer s.srv.Close()
	h := newTestHandlers(s, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/images/generations",
		strings.NewReader(`{"prompt":"a cat"}`))
	rec := httptest.NewRecorder()
	h.CreateImage(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 with an empty pool, got %d", rec.Code)
	}
	if s.callCount() != 0 {
		t.Error("no upstream call expected without a key")
	}
}

func TestUpstreamErrorSurfacesCode(t *testing.T) {
	s := newStubUpstream(types.Envelope{Code: 1201, Message: "invalid parameter", RequestID: "req-7"})
	defer s.srv.Close()
	h := newTestHandlers(s, testKeys())

	req := httptest.NewRequest(http.MethodPost, "/v1/images/generations",
		strings.NewReader(`{"prompt":"a cat"}`))
	rec := httptest.NewRecorder()
	h.CreateImage(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
	var body types.APIError
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if body.Error.Code == nil || *body.Error.Code != "1201" {
		t.Errorf("expected upstream code 1201 in response, got %+v", body.Error)
	}
	if body.Error.Message != "invalid parameter" {
		t.Errorf("expected upstream message passed through, got %q", body.Error.Message)
	}
}

func TestGetOmniVideoTask(t *testing.T) {
	s := newStubUpstream(types.Envelope{Code: 0, Data: json.RawMessage(
		`{"task_id":"t-2","task_status":"succeed","task_result":{"videos":[{"id":"v1","url":"https://cdn/v1.mp4","duration":"5"}]}}`)})
	defer s.srv.Close()
	h := newTestHandlers(s, testKeys())

	req := httptest.NewRequest(http.MethodGet, "/v1/videos/omni-video/t-2", nil)
	req.SetPathValue("id", "t-2")
	rec := httptest.NewRecorder()
	h.GetOmniVideoTask(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var task types.VideoTaskResult
	if err := json.NewDecoder(rec.Body).Decode(&task); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if task.TaskStatus.TaskStatus != types.TaskStatusSucceed {
		t.Errorf("expected succeed status, got %q", task.TaskStatus.TaskStatus)
	}
	if task.TaskResult == nil || len(task.TaskResult.Videos) != 1 {
		t.Fatalf("expected one video in result, got %+v", task.TaskResult)
	}
}

func TestLipSyncValidation(t *testing.T) {
	s := newStubUpstream()
	defer s.srv.Close()
	h := newTestHandlers(s, testKeys())

	cases := []struct {
		name string
		body string
	}{
		{"missing session", `{"face_choose":[{"face_id":"f1","audio_id":"a1"}]}`},
		{"empty faces", `{"session_id":"s1","face_choose":[]}`},
		{"face without audio", `{"session_id":"s1","face_choose":[{"face_id":"f1"}]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/videos/advanced-lip-sync",
				strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			h.CreateLipSync(rec, req)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", rec.Code)
			}
		})
	}
	if s.callCount() != 0 {
		t.Error("invalid requests must not reach the upstream")
	}
}

func TestElementIDMustBeNumeric(t *testing.T) {
	s := newStubUpstream()
	defer s.srv.Close()
	h := newTestHandlers(s, testKeys())

	req := httptest.NewRequest(http.MethodGet, "/v1/elements/abc", nil)
	req.SetPathValue("id", "abc")
	rec := httptest.NewRecorder()
	h.GetElement(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-numeric element id, got %d", rec.Code)
	}
}

func TestEstimateCost(t *testing.T) {
	s := newStubUpstream()
	defer s.srv.Close()
	h := newTestHandlers(s, testKeys())

	req := httptest.NewRequest(http.MethodPost, "/v1/cost/estimate",
		strings.NewReader(`{"kind":"omni_video","mode":"std","duration_sec":5}`))
	rec := httptest.NewRecorder()
	h.EstimateCost(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var est generation.CostEstimate
	if err := json.NewDecoder(rec.Body).Decode(&est); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if est.Units != 3.0 {
		t.Errorf("expected 3 units for 5s std text-to-video, got %v", est.Units)
	}
	if s.callCount() != 0 {
		t.Error("cost estimation must not call the upstream")
	}
}

func TestEstimateCost_UnknownKind(t *testing.T) {
	s := newStubUpstream()
	defer s.srv.Close()
	h := newTestHandlers(s, testKeys())

	req := httptest.NewRequest(http.MethodPost, "/v1/cost/estimate",
		strings.NewReader(`{"kind":"hologram"}`))
	rec := httptest.NewRecorder()
	h.EstimateCost(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
