package endpoint

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"ims-client/pkg/apierror"
	"ims-client/pkg/uid"
)

// TokenSource supplies the bearer token attached to outgoing requests.
// An empty token means no Authorization header is sent.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Config holds settings for the endpoint-resolution client.
type Config struct {
	// BaseURL is the configured backend base, which may be wrong (proxy
	// misconfiguration, stale env). Candidates are tried against it first.
	BaseURL string

	// FallbackURL is the absolute last-resort base, tried exactly once after
	// every candidate against BaseURL has failed.
	FallbackURL string

	// Timeout applies per attempt.
	Timeout time.Duration
}

// DefaultFallbackURL is the baked-in direct backend address used when no
// fallback is configured.
const DefaultFallbackURL = "http://localhost:8080/api"

// Client performs logical operations against a backend whose exact route
// prefix is uncertain: the same resource may be mounted at /items,
// /api/items, or a bare relative path depending on how the environment's
// proxy is set up. Each operation supplies an ordered candidate list; the
// client walks it sequentially and accepts the first response that carries a
// body. A response that resolves but carries no body is a soft failure and
// the next candidate is tried.
type Client struct {
	baseURL     string
	fallbackURL string
	httpClient  *http.Client
	tokens      TokenSource
}

// Request describes one logical operation.
type Request struct {
	// Op names the operation for logs and errors, e.g. "list items".
	Op string

	// Method is the HTTP verb.
	Method string

	// Candidates is the ordered list of route guesses for this operation.
	// The first candidate doubles as the route suffix for the direct
	// fallback attempt.
	Candidates []string

	// Body is JSON-encoded into the request body when non-nil.
	Body any
}

// New creates an endpoint-resolution client.
func New(cfg Config, tokens TokenSource) *Client {
	if cfg.FallbackURL == "" {
		cfg.FallbackURL = DefaultFallbackURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}

	log.Printf("[EndpointClient] Initialized with baseURL: %s (fallback: %s)", cfg.BaseURL, cfg.FallbackURL)
	return &Client{
		baseURL:     cfg.BaseURL,
		fallbackURL: cfg.FallbackURL,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		tokens:      tokens,
	}
}

// Do resolves and performs one logical operation, returning the raw response
// body of the first attempt that succeeds.
//
// Candidates are tried strictly one at a time against the configured base.
// If all of them fail, one more attempt is made against the fallback base
// using the first candidate's route. On total exhaustion the returned error
// wraps the FIRST failure encountered, so diagnostics point at the primary
// misconfiguration rather than the last exhausted fallback.
func (c *Client) Do(ctx context.Context, req Request) ([]byte, error) {
	if len(req.Candidates) == 0 {
		return nil, apierror.Validation(req.Op, "no candidate routes supplied")
	}

	var payload []byte
	if req.Body != nil {
		var err error
		payload, err = json.Marshal(req.Body)
		if err != nil {
			return nil, apierror.Validation(req.Op, fmt.Sprintf("unencodable request body: %v", err))
		}
	}

	var firstErr error
	for _, candidate := range req.Candidates {
		body, err := c.attempt(ctx, req, joinURL(c.baseURL, candidate), payload)
		if err == nil {
			return body, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}

	// Every candidate against the configured base failed. One direct
	// attempt against the fallback base, same logical route.
	directURL := joinURL(c.fallbackURL, req.Candidates[0])
	log.Printf("[EndpointClient] %s: all candidates failed, trying direct call %s", req.Op, directURL)

	body, err := c.attempt(ctx, req, directURL, payload)
	if err == nil {
		return body, nil
	}
	if firstErr == nil {
		firstErr = err
	}

	return nil, apierror.Exhausted(req.Op, firstErr)
}

// attempt performs a single HTTP request and enforces the body-present rule.
func (c *Client) attempt(ctx context.Context, req Request, url string, payload []byte) ([]byte, error) {
	tag := uid.NewShort()
	log.Printf("[EndpointClient] attempt %s: %s %s (%s)", tag, req.Method, url, req.Op)

	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, url, bodyReader)
	if err != nil {
		log.Printf("[EndpointClient] attempt %s: invalid request: %v", tag, err)
		return nil, apierror.Transient(req.Op, 0, err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			log.Printf("Warning: failed to read session token: %v", err)
		} else if token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		log.Printf("[EndpointClient] attempt %s failed: %v", tag, err)
		return nil, apierror.Transient(req.Op, 0, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("[EndpointClient] attempt %s failed reading body: %v", tag, err)
		return nil, apierror.Transient(req.Op, resp.StatusCode, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := serverMessage(body)
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		log.Printf("[EndpointClient] attempt %s failed: status %d: %s", tag, resp.StatusCode, msg)
		return nil, apierror.Transient(req.Op, resp.StatusCode,
			fmt.Errorf("backend returned status %d: %s", resp.StatusCode, msg))
	}

	// A resolvable endpoint that answers with nothing is as useless as a
	// missing one; the next candidate is tried.
	if len(bytes.TrimSpace(body)) == 0 {
		log.Printf("[EndpointClient] attempt %s soft-failed: status %d with empty body", tag, resp.StatusCode)
		return nil, apierror.Transient(req.Op, resp.StatusCode,
			fmt.Errorf("endpoint %s answered %d with no body", url, resp.StatusCode))
	}

	log.Printf("[EndpointClient] attempt %s ok: status %d, %d bytes", tag, resp.StatusCode, len(body))
	return body, nil
}

// serverMessage pulls a human-readable message out of a backend error body.
func serverMessage(body []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Error != "" {
		return payload.Error
	}
	return payload.Message
}

// joinURL glues a base URL and a candidate route. Bare relative candidates
// ("items") and absolute-path candidates ("/items") resolve the same way.
func joinURL(base, route string) string {
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(route, "/")
}
