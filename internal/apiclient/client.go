package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/park285/unicorn-chess/pkg/gamedto"
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status int
	gamedto.DomainError
}

func (e *APIError) Error() string {
	return fmt.Sprintf("unicorn chess api: status=%d code=%s: %s", e.Status, e.Code, e.Message)
}

type Client struct {
	baseURL string
	http    *fasthttp.Client
	locale  string

	defaultTimeout time.Duration
	retryMax       int
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.defaultTimeout = d }
}

func WithRetry(max int) Option {
	return func(c *Client) { c.retryMax = max }
}

// WithLocale sends Accept-Language on every request.
func WithLocale(locale string) Option {
	return func(c *Client) { c.locale = strings.TrimSpace(locale) }
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		http:           &fasthttp.Client{ReadTimeout: 10 * time.Second, WriteTimeout: 10 * time.Second, MaxConnsPerHost: 16},
		defaultTimeout: 10 * time.Second,
		retryMax:       3,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Health(ctx context.Context) (*gamedto.Health, error) {
	var out gamedto.Health
	if err := c.doJSON(ctx, fasthttp.MethodGet, "/healthz", nil, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Start(ctx context.Context, difficulty, locale string) (*gamedto.GameState, error) {
	var out gamedto.GameState
	req := gamedto.StartRequest{Difficulty: difficulty, Locale: locale}
	if err := c.doJSON(ctx, fasthttp.MethodPost, "/api/games", req, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) State(ctx context.Context, id string) (*gamedto.GameState, error) {
	var out gamedto.GameState
	if err := c.doJSON(ctx, fasthttp.MethodGet, gamePath(id, ""), nil, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Move(ctx context.Context, id, from, to, promotion string) (*gamedto.MoveSummary, error) {
	var out gamedto.MoveSummary
	req := gamedto.MoveRequest{From: from, To: to, Promotion: promotion}
	if err := c.doJSON(ctx, fasthttp.MethodPost, gamePath(id, "/moves"), req, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

// ComputerMove blocks server side for the computer's thinking delay.
func (c *Client) ComputerMove(ctx context.Context, id string) (*gamedto.MoveSummary, error) {
	var out gamedto.MoveSummary
	if err := c.doJSON(ctx, fasthttp.MethodPost, gamePath(id, "/computer"), nil, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Hint(ctx context.Context, id string) (*gamedto.Hint, error) {
	var out gamedto.Hint
	if err := c.doJSON(ctx, fasthttp.MethodPost, gamePath(id, "/hint"), nil, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Resign(ctx context.Context, id string) (*gamedto.GameState, error) {
	var out gamedto.GameState
	if err := c.doJSON(ctx, fasthttp.MethodPost, gamePath(id, "/resign"), nil, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

// Board fetches the rendered PNG.
func (c *Client) Board(ctx context.Context, id string, hint bool) ([]byte, error) {
	path := gamePath(id, "/board.png")
	if hint {
		path += "?hint=1"
	}
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer func() {
		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)
	}()
	req.Header.SetMethod(fasthttp.MethodGet)
	req.SetRequestURI(c.baseURL + path)
	if err := c.http.DoDeadline(req, resp, c.computeDeadline(ctx)); err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	if status := resp.StatusCode(); status != fasthttp.StatusOK {
		return nil, decodeError(status, resp.Body())
	}
	return append([]byte(nil), resp.Body()...), nil
}

func gamePath(id, suffix string) string {
	return "/api/games/" + url.PathEscape(strings.TrimSpace(id)) + suffix
}

func (c *Client) doJSON(ctx context.Context, method, path string, in any, out any, retry bool) error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer func() {
		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)
	}()

	req.Header.SetMethod(method)
	req.SetRequestURI(c.baseURL + path)
	req.Header.SetContentType("application/json")
	if c.locale != "" {
		req.Header.Set("Accept-Language", c.locale)
	}
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		req.SetBody(payload)
	}

	attempts := 1
	if retry && c.retryMax > 1 {
		attempts = c.retryMax
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := c.http.DoDeadline(req, resp, c.computeDeadline(ctx))
		if err != nil {
			lastErr = fmt.Errorf("request failed: %w", err)
			if attempt == attempts {
				return lastErr
			}
			if sleepErr := sleepWithContext(ctx, backoffDuration(attempt)); sleepErr != nil {
				return lastErr
			}
			continue
		}

		status := resp.StatusCode()
		if status < 200 || status >= 300 {
			lastErr = decodeError(status, resp.Body())
			if attempt == attempts || !shouldRetryStatus(status) {
				return lastErr
			}
			if sleepErr := sleepWithContext(ctx, backoffDuration(attempt)); sleepErr != nil {
				return lastErr
			}
			continue
		}

		if out != nil {
			env := gamedto.Envelope[any]{Body: out}
			if err := json.Unmarshal(resp.Body(), &env); err != nil {
				return fmt.Errorf("decode response: %w", err)
			}
		}
		return nil
	}

	if lastErr == nil {
		lastErr = errors.New("unknown error")
	}
	return lastErr
}

func decodeError(status int, body []byte) error {
	var env gamedto.Envelope[gamedto.DomainError]
	if err := json.Unmarshal(body, &env); err != nil || env.Body.Code == "" {
		return &APIError{Status: status, DomainError: gamedto.DomainError{Code: "http_error", Message: truncate(string(body), 512)}}
	}
	return &APIError{Status: status, DomainError: env.Body}
}

func (c *Client) computeDeadline(ctx context.Context) time.Time {
	clientDL := time.Now().Add(c.defaultTimeout)
	if dl, ok := ctx.Deadline(); ok && dl.Before(clientDL) {
		return dl
	}
	return clientDL
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func backoffDuration(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	if attempt > 6 {
		attempt = 6
	}
	return time.Duration(1<<uint(attempt-1)) * 100 * time.Millisecond
}

func shouldRetryStatus(code int) bool {
	switch code {
	case 429, 500, 502, 503, 504:
		return true
	}
	return false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
