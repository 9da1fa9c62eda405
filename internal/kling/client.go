package kling

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mandalnilabja/klingate/internal/metrics"
	"github.com/mandalnilabja/klingate/internal/types"
)

// Default dispatch policy. Matches what the Kling service tolerates; the
// exhausted codes are overridable through Config because they are
// service-assigned numbers, not a protocol constant.
const (
	DefaultMaxRetries     = 2
	DefaultRequestTimeout = 60 * time.Second

	// NoRetries disables retrying entirely. The zero value of
	// Config.MaxRetries selects DefaultMaxRetries, so a zero-retry
	// policy needs an explicit sentinel.
	NoRetries = -1

	// NoTimeout disables the per-attempt deadline; only the caller's
	// context bounds the request.
	NoTimeout time.Duration = -1
)

// DefaultExhaustedCodes are the envelope codes that mean "the key is the
// problem": insufficient account balance and invalid credential.
var DefaultExhaustedCodes = []int{1004, 1005}

// DefaultBaseURLs maps each region to its fixed endpoint base.
var DefaultBaseURLs = map[Region]string{
	RegionGlobal: "https://api.klingai.com",
	RegionCN:     "https://api-beijing.klingai.com",
}

// Config configures a Client. MaxRetries and RequestTimeout fall back to
// their defaults when zero; NoRetries and NoTimeout express the disabled
// policies.
type Config struct {
	Keys           []*APIKey
	DefaultRegion  Region
	MaxRetries     int
	RequestTimeout time.Duration
	ExhaustedCodes []int
	BaseURLs       map[Region]string // overrides DefaultBaseURLs per region
	Logger         *slog.Logger

	// OnExhausted, if set, is called with the key ID each time a key is
	// disabled for exhaustion. Called from a separate goroutine; the
	// dispatch loop does not wait for it.
	OnExhausted func(keyID string)
}

// RequestOptions describes one logical outbound call.
type RequestOptions struct {
	Method  string
	Path    string
	Body    any           // JSON-encoded for write methods only
	Region  Region        // empty = client default
	Purpose Purpose       // empty = all
	Timeout time.Duration // 0 = client default, NoTimeout = unbounded
}

// Client dispatches authenticated requests to the Kling API, rotating
// through the key pool on exhaustion and retrying transport failures with
// linear backoff. Construct one per process and share it; all methods are
// safe for concurrent use.
type Client struct {
	pool           *KeyPool
	tokens         *TokenCache
	httpClient     *http.Client
	defaultRegion  Region
	maxRetries     int
	requestTimeout time.Duration
	exhausted      map[int]bool
	baseURLs       map[Region]string
	logger         *slog.Logger
	onExhausted    func(keyID string)

	// sleep is the backoff wait, replaceable in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates a Client from cfg, filling unset fields with defaults.
func New(cfg Config) *Client {
	if cfg.DefaultRegion == "" {
		cfg.DefaultRegion = RegionGlobal
	}
	switch {
	case cfg.MaxRetries == 0:
		cfg.MaxRetries = DefaultMaxRetries
	case cfg.MaxRetries < 0:
		cfg.MaxRetries = 0
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if len(cfg.ExhaustedCodes) == 0 {
		cfg.ExhaustedCodes = DefaultExhaustedCodes
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	exhausted := make(map[int]bool, len(cfg.ExhaustedCodes))
	for _, code := range cfg.ExhaustedCodes {
		exhausted[code] = true
	}

	baseURLs := make(map[Region]string, len(DefaultBaseURLs))
	for region, url := range DefaultBaseURLs {
		baseURLs[region] = url
	}
	for region, url := range cfg.BaseURLs {
		if url != "" {
			baseURLs[region] = strings.TrimRight(url, "/")
		}
	}

	tokens := NewTokenCache()
	return &Client{
		pool:           NewKeyPool(cfg.Keys, tokens),
		tokens:         tokens,
		httpClient:     &http.Client{},
		defaultRegion:  cfg.DefaultRegion,
		maxRetries:     cfg.MaxRetries,
		requestTimeout: cfg.RequestTimeout,
		exhausted:      exhausted,
		baseURLs:       baseURLs,
		logger:         cfg.Logger,
		onExhausted:    cfg.OnExhausted,
		sleep:          sleepCtx,
	}
}

// UpdateKeys replaces the client's key set wholesale.
func (c *Client) UpdateKeys(keys []*APIKey) {
	c.pool.UpdateKeys(keys)
	c.publishKeyGauges()
}

// KeyStats returns a secret-free snapshot of the pool.
func (c *Client) KeyStats() []KeyStat {
	return c.pool.KeyStats()
}

// Request executes one logical call against the Kling API.
//
// Per attempt it selects a key, obtains its cached token, and issues the
// HTTP request under a hard timeout. Envelope code 0 returns the envelope;
// an exhaustion code disables the key and rotates to another; any other
// nonzero code is terminal and surfaces as *APIError. Transport failures
// (including timeout) back off 1s * (attempt+1) before the next attempt.
func (c *Client) Request(ctx context.Context, opts RequestOptions) (*types.Envelope, error) {
	region := opts.Region
	if region == "" {
		region = c.defaultRegion
	}
	purpose := opts.Purpose
	if purpose == "" {
		purpose = PurposeAll
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = c.requestTimeout
	}

	start := time.Now()
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		key := c.pool.GetAvailableKey(region, purpose)
		if key == nil {
			// Widening already happened inside the pool; nothing to retry.
			metrics.RequestsTotal.WithLabelValues(string(region), string(purpose), "no_keys").Inc()
			return nil, fmt.Errorf("%w for region %s", ErrNoKeysAvailable, region)
		}

		metrics.AttemptsTotal.WithLabelValues(string(key.Region)).Inc()
		env, err := c.attempt(ctx, key, timeout, opts)
		if err == nil && env != nil {
			switch {
			case env.Code == 0:
				metrics.RequestsTotal.WithLabelValues(string(region), string(purpose), "success").Inc()
				metrics.RequestDuration.WithLabelValues(string(region)).Observe(time.Since(start).Seconds())
				return env, nil

			case c.exhausted[env.Code]:
				c.pool.MarkExhausted(key.ID)
				c.publishKeyGauges()
				metrics.KeysExhaustedTotal.WithLabelValues(string(key.Region)).Inc()
				if c.onExhausted != nil {
					go c.onExhausted(key.ID)
				}
				lastErr = &ExhaustedError{KeyID: key.ID, Code: env.Code, Message: env.Message}
				c.logger.Warn("kling key exhausted, rotating",
					"key_id", key.ID, "code", env.Code, "attempt", attempt)
				continue

			default:
				// The request itself is the problem; retrying wastes quota.
				metrics.RequestsTotal.WithLabelValues(string(region), string(purpose), "api_error").Inc()
				return nil, &APIError{Code: env.Code, Message: env.Message, RequestID: env.RequestID}
			}
		}

		lastErr = err
		c.logger.Warn("kling request attempt failed",
			"key_id", key.ID, "path", opts.Path, "attempt", attempt, "error", err)

		if attempt < c.maxRetries {
			if serr := c.sleep(ctx, time.Duration(attempt+1)*time.Second); serr != nil {
				return nil, serr
			}
		}
	}

	metrics.RequestsTotal.WithLabelValues(string(region), string(purpose), "failed").Inc()
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, errors.New("kling API request failed after all retries")
}

// attempt issues a single HTTP request with one key under its own timeout.
// No pool or cache lock is held while the request is in flight.
func (c *Client) attempt(ctx context.Context, key *APIKey, timeout time.Duration, opts RequestOptions) (*types.Envelope, error) {
	token := c.tokens.GetOrCreate(key)

	url := c.baseURLs[key.Region] + opts.Path

	var body *bytes.Reader
	if opts.Body != nil && isWriteMethod(opts.Method) {
		encoded, err := json.Marshal(opts.Body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(encoded)
	} else {
		body = bytes.NewReader(nil)
	}

	attemptCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(attemptCtx, opts.Method, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if timeout > 0 && (errors.Is(err, context.DeadlineExceeded) || attemptCtx.Err() != nil) {
			return nil, fmt.Errorf("kling API request timeout after %s", timeout)
		}
		return nil, fmt.Errorf("kling API request: %w", err)
	}
	defer resp.Body.Close()

	var env types.Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode response envelope: %w", err)
	}
	return &env, nil
}

// RequestData performs a request and decodes the envelope data into T.
func RequestData[T any](ctx context.Context, c *Client, opts RequestOptions) (T, error) {
	var out T
	env, err := c.Request(ctx, opts)
	if err != nil {
		return out, err
	}
	if len(env.Data) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return out, fmt.Errorf("decode response data: %w", err)
	}
	return out, nil
}

func (c *Client) publishKeyGauges() {
	for region, count := range c.pool.AvailableCount() {
		metrics.AvailableKeys.WithLabelValues(string(region)).Set(float64(count))
	}
}

func isWriteMethod(method string) bool {
	return method == http.MethodPost || method == http.MethodPut || method == http.MethodPatch
}

// sleepCtx waits d or until ctx is done, whichever comes first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("backoff interrupted: %w", ctx.Err())
	case <-time.After(d):
		return nil
	}
}
