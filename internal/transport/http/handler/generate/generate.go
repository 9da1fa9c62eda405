// Package generate exposes the Kling generation endpoints to API clients.
package generate

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/mandalnilabja/klingate/internal/generation"
	"github.com/mandalnilabja/klingate/internal/kling"
	"github.com/mandalnilabja/klingate/internal/storage"
	"github.com/mandalnilabja/klingate/internal/transport/http/middleware"
	"github.com/mandalnilabja/klingate/internal/types"
)

// Handlers holds the dependencies for generation HTTP handlers.
type Handlers struct {
	Service *generation.Service
	Storage storage.Storage
	Logger  *slog.Logger
}

// New creates a new instance of generation handlers.
func New(svc *generation.Service, store storage.Storage, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		Service: svc,
		Storage: store,
		Logger:  logger,
	}
}

// region parses the optional region query parameter. On an unknown value
// it writes a 400 and returns false.
func region(w http.ResponseWriter, r *http.Request) (kling.Region, bool) {
	v := r.URL.Query().Get("region")
	if v == "" {
		return "", true
	}
	reg := kling.Region(v)
	if !reg.Valid() {
		types.WriteError(w, http.StatusBadRequest, types.ErrInvalidRequest("unknown region: "+v))
		return "", false
	}
	return reg, true
}

// pagination parses pageNum/pageSize query parameters. Zero means
// "use the service default".
func pagination(r *http.Request) (pageNum, pageSize int) {
	pageNum, _ = strconv.Atoi(r.URL.Query().Get("pageNum"))
	pageSize, _ = strconv.Atoi(r.URL.Query().Get("pageSize"))
	return pageNum, pageSize
}

// writeUpstreamError maps dispatch errors to client responses. Credential
// pool depletion is 503 and not worth retrying immediately; upstream
// application errors surface as 502 with the upstream code attached.
func writeUpstreamError(w http.ResponseWriter, err error) {
	var apiErr *kling.APIError
	switch {
	case errors.Is(err, kling.ErrNoKeysAvailable):
		types.WriteError(w, http.StatusServiceUnavailable, types.ErrServiceUnavailable("no usable upstream credential"))
	case errors.As(err, &apiErr):
		types.WriteError(w, http.StatusBadGateway,
			types.NewAPIErrorWithCode(apiErr.Message, "upstream_error", strconv.Itoa(apiErr.Code)))
	default:
		types.WriteError(w, http.StatusBadGateway, types.ErrServer("upstream request failed"))
	}
}

// record persists a request log entry and the daily usage counters.
// Runs async so response latency does not depend on the database.
func (h *Handlers) record(r *http.Request, reg kling.Region, purpose kling.Purpose, start time.Time, units float64, err error) {
	if h.Storage == nil {
		return
	}
	if reg == "" {
		reg = kling.RegionGlobal
	}

	entry := &storage.RequestLog{
		RequestID:  middleware.GetRequestID(r.Context()),
		Path:       r.URL.Path,
		Method:     r.Method,
		Region:     string(reg),
		Purpose:    string(purpose),
		DurationMs: time.Since(start).Milliseconds(),
	}

	var apiErr *kling.APIError
	switch {
	case err == nil:
		entry.Outcome = storage.OutcomeSuccess
	case errors.Is(err, kling.ErrNoKeysAvailable):
		entry.Outcome = storage.OutcomeNoKeys
		entry.ErrorMessage = err.Error()
	case errors.As(err, &apiErr):
		entry.Outcome = storage.OutcomeAPIError
		entry.EnvelopeCode = apiErr.Code
		entry.ErrorMessage = apiErr.Message
		if apiErr.RequestID != "" {
			entry.RequestID = apiErr.RequestID
		}
	default:
		entry.Outcome = storage.OutcomeFailed
		entry.ErrorMessage = err.Error()
	}

	usage := &storage.DailyUsage{
		Date:         time.Now().UTC().Format("2006-01-02"),
		Path:         entry.Path,
		RequestCount: 1,
	}
	if err != nil {
		usage.ErrorCount = 1
	} else {
		usage.Units = units
	}

	go func() {
		if lerr := h.Storage.LogRequest(entry); lerr != nil {
			h.Logger.Warn("failed to persist request log", "error", lerr)
		}
		if uerr := h.Storage.UpdateDailyUsage(usage); uerr != nil {
			h.Logger.Warn("failed to update daily usage", "error", uerr)
		}
	}()
}
