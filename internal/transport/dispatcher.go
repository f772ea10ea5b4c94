package transport

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/suar-net/relay/internal/request"
)

const maxResponseBodySize = 10 * 1024 * 1024 // 10 MB

// Config tunes the outbound HTTP client.
type Config struct {
	Scheme    string // "https" unless overridden
	UserAgent string
}

// Result is the shaped outcome of one dispatched descriptor.
type Result struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	Size       int64
	Duration   time.Duration
	Truncated  bool
}

// Dispatcher executes request descriptors over HTTP. It is the sole writer
// of a descriptor's execution timestamp: every dispatch marks the
// descriptor executed, so dispatching the same descriptor twice fails with
// request.ErrAlreadyExecuted before any network traffic happens.
type Dispatcher struct {
	client *http.Client
	cfg    Config
}

func NewDispatcher(cfg Config) *Dispatcher {
	if cfg.Scheme == "" {
		cfg.Scheme = "https"
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "suar-relay/1.0"
	}

	transport := &http.Transport{
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &Dispatcher{
		client: &http.Client{
			Transport: transport,
			// The relayed response should reflect the target server, not
			// wherever a redirect chain ends up.
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		cfg: cfg,
	}
}

// Dispatch sends the descriptor to its target. Arguments travel as a query
// string for query-only verbs and as a form-encoded body otherwise; a JSON
// body travels as application/json. The caller bounds the dispatch through
// ctx.
func (d *Dispatcher) Dispatch(ctx context.Context, desc *request.Descriptor) (*Result, error) {
	httpReq, err := d.newHTTPRequest(ctx, desc)
	if err != nil {
		return nil, err
	}

	if err := desc.MarkExecuted(); err != nil {
		return nil, err
	}
	startTime := time.Now()

	httpResp, err := d.client.Do(httpReq)
	duration := time.Since(startTime)
	if err != nil {
		return nil, fmt.Errorf("executing %s %s: %w", desc.Verb(), desc.Hostname(), err)
	}

	return shapeResult(httpResp, duration)
}

func (d *Dispatcher) newHTTPRequest(ctx context.Context, desc *request.Descriptor) (*http.Request, error) {
	target := &url.URL{
		Scheme: d.cfg.Scheme,
		Host:   desc.Hostname(),
		Path:   desc.Path(),
	}

	var bodyReader io.Reader
	var contentType string

	switch {
	case desc.Verb().QueryOnly():
		query := url.Values{}
		for k, v := range desc.Arguments() {
			query.Set(k, v)
		}
		target.RawQuery = query.Encode()
	case desc.HasJSONBody():
		body, _ := desc.JSONBody()
		bodyReader = strings.NewReader(body.Raw)
		contentType = "application/json"
	case len(desc.Arguments()) > 0:
		form := url.Values{}
		for k, v := range desc.Arguments() {
			form.Set(k, v)
		}
		bodyReader = strings.NewReader(form.Encode())
		contentType = "application/x-www-form-urlencoded"
	}

	httpReq, err := http.NewRequestWithContext(ctx, string(desc.Verb()), target.String(), bodyReader)
	if err != nil {
		return nil, fmt.Errorf("creating http request: %w", err)
	}
	httpReq.Header.Set("User-Agent", d.cfg.UserAgent)
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	return httpReq, nil
}

func shapeResult(resp *http.Response, duration time.Duration) (*Result, error) {
	defer resp.Body.Close()

	limitedReader := &io.LimitedReader{R: resp.Body, N: maxResponseBodySize}
	bodyBytes, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	return &Result{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       bodyBytes,
		Size:       int64(len(bodyBytes)),
		Duration:   duration,
		Truncated:  limitedReader.N <= 0,
	}, nil
}
