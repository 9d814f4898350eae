// Package api is the single point of contact with the campus events
// backend. It resolves the active base address, attaches credentials,
// serializes JSON both ways and maps failures onto the shared error
// taxonomy. Read operations are safe to repeat; write operations are
// issued exactly once per call — there is no automatic retry.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/campusevents/campus-client/internal/session"
	"github.com/campusevents/campus-client/pkg/apperrors"
	"github.com/campusevents/campus-client/pkg/httpclient"
	"github.com/campusevents/campus-client/pkg/logger"
)

var baseURLPattern = regexp.MustCompile(`^https?://`)

// Client talks to the backend REST API.
type Client struct {
	baseURL   string
	http      httpclient.Client
	sessions  session.Store
	limiter   *rate.Limiter
	collegeID string
	validate  *validator
}

// Options configures a Client.
type Options struct {
	// BaseURL is the resolved backend address.
	BaseURL string
	// HTTP is the credential-attaching transport.
	HTTP httpclient.Client
	// Sessions receives tokens returned by login/signup. The API
	// client is the only component that writes credentials.
	Sessions session.Store
	// RequestsPerSecond throttles outgoing calls when positive.
	RequestsPerSecond float64
	// CollegeID scopes event queries when the caller leaves it unset.
	CollegeID string
}

// New creates a Client. A base address that does not look like a URL
// is logged but still used: requests are attempted best-effort rather
// than failing up front.
func New(opts Options) *Client {
	base := opts.BaseURL
	if !baseURLPattern.MatchString(base) {
		logger.Warn("API base address looks malformed, attempting requests anyway",
			zap.String("base_url", base))
	}

	var limiter *rate.Limiter
	if opts.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}

	httpc := opts.HTTP
	if httpc == nil {
		httpc = httpclient.NewBearerClient(10*time.Second, nil)
	}

	return &Client{
		baseURL:   base,
		http:      httpc,
		sessions:  opts.Sessions,
		limiter:   limiter,
		collegeID: opts.CollegeID,
		validate:  newValidator(),
	}
}

// do performs a single request and decodes the JSON response into out
// (when non-nil). Non-2xx responses become *apperrors.APIError with
// the server-supplied message; transport failures become ErrNetwork.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	operation := method + " " + path
	requestID := uuid.NewString()
	start := time.Now()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.http.Do(req)
	duration := time.Since(start).Seconds()
	if err != nil {
		logger.LogAPICall(operation, "error", duration,
			zap.String("request_id", requestID),
			zap.Error(err))
		return apperrors.NetworkError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := decodeAPIError(resp)
		logger.LogAPICall(operation, "error", duration,
			zap.String("request_id", requestID),
			zap.Int("status_code", resp.StatusCode),
			zap.String("message", apiErr.Message))
		return apiErr
	}

	logger.LogAPICall(operation, "success", duration,
		zap.String("request_id", requestID),
		zap.Int("status_code", resp.StatusCode))

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// decodeAPIError extracts the server's {"error": "..."} message,
// tolerating empty and non-JSON bodies.
func decodeAPIError(resp *http.Response) *apperrors.APIError {
	var body struct {
		Error string `json:"error"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	return apperrors.NewAPIError(resp.StatusCode, body.Error)
}

// Health probes GET /health, useful for diagnosing target selection.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil, nil)
}
