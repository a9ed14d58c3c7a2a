package infrastructure

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// RemoteOptions configures a RemoteCompiler.
type RemoteOptions struct {
	URL      string
	Method   string // "get" sends the source as the text query parameter, "post" as the body
	Timeout  time.Duration
	Attempts int
	Backoff  time.Duration
}

// RemoteCompiler compiles LaTeX source through an HTTP compilation service
// such as latexonline.cc. The response body is the PDF.
type RemoteCompiler struct {
	url      string
	method   string
	http     *http.Client
	attempts int
	backoff  time.Duration
	logger   *zap.Logger
}

func NewRemoteCompiler(opts RemoteOptions, logger *zap.Logger) *RemoteCompiler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Attempts < 1 {
		opts.Attempts = 1
	}
	method := http.MethodGet
	if strings.EqualFold(opts.Method, "post") {
		method = http.MethodPost
	}
	return &RemoteCompiler{
		url:      opts.URL,
		method:   method,
		http:     &http.Client{Timeout: opts.Timeout},
		attempts: opts.Attempts,
		backoff:  opts.Backoff,
		logger:   logger.Named("remote"),
	}
}

// Compile sends source to the service and returns the response body.
func (c *RemoteCompiler) Compile(ctx context.Context, source string) ([]byte, error) {
	resp, err := c.doWithRetry(ctx, source)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newRemoteRequestError(c.url, c.attempts, err)
	}
	return body, nil
}

func (c *RemoteCompiler) newRequest(ctx context.Context, source string) (*http.Request, error) {
	if c.method == http.MethodPost {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, strings.NewReader(source))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-tex; charset=utf-8")
		return req, nil
	}

	u, err := url.Parse(c.url)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("text", source)
	u.RawQuery = q.Encode()
	return http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
}

// doWithRetry retries transport errors and 5xx responses with exponential
// backoff. A 4xx response is returned as an error right away.
func (c *RemoteCompiler) doWithRetry(ctx context.Context, source string) (*http.Response, error) {
	var lastErr error
	for i := 0; i < c.attempts; i++ {
		req, err := c.newRequest(ctx, source)
		if err != nil {
			return nil, newRemoteRequestError(c.url, i+1, err)
		}

		resp, err := c.http.Do(req)
		switch {
		case err != nil:
			lastErr = newRemoteRequestError(c.url, i+1, err)
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			return resp, nil
		default:
			drain(resp)
			lastErr = newRemoteStatusError(c.url, resp.StatusCode, i+1)
			if resp.StatusCode < 500 {
				return nil, lastErr
			}
		}
		c.logger.Warn("remote attempt failed", zap.Stringer("endpoint", c), zap.Int("attempt", i+1), zap.Error(lastErr))

		if i < c.attempts-1 {
			backoff := c.backoff * time.Duration(1<<i)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, newRemoteRequestError(c.url, i+1, ctx.Err())
			}
		}
	}
	return nil, lastErr
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	_ = resp.Body.Close()
}

// String describes the endpoint for logs.
func (c *RemoteCompiler) String() string {
	return fmt.Sprintf("%s %s", c.method, c.url)
}
