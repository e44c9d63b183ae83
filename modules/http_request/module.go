// Package http_request provides the 'http_request' handler, which performs a
// single HTTP request and exposes the response.
package http_request

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/specialistvlad/taskgrid/internal/ctxlog"
	"github.com/specialistvlad/taskgrid/internal/handlers"
)

// Module implements the handlers.Module interface for this package.
type Module struct {
	// Client performs the requests. Nil means a client with defaultTimeout.
	Client *http.Client
}

// Input defines the arguments for the http_request handler.
type Input struct {
	URL          string            `cty:"url"`
	Method       string            `cty:"method,optional"`
	Body         string            `cty:"body,optional"`
	Headers      map[string]string `cty:"headers,optional"`
	ExpectStatus *int              `cty:"expect_status"`
}

// Output defines the data structure returned by the handler.
type Output struct {
	StatusCode int    `cty:"status_code"`
	Body       string `cty:"body"`
}

const defaultTimeout = 30 * time.Second

func (m *Module) run(ctx context.Context, input *Input) (any, error) {
	method := strings.ToUpper(input.Method)
	if method == "" {
		method = http.MethodGet
	}
	logger := ctxlog.FromContext(ctx)
	logger.Info("Making HTTP request.", "method", method, "url", input.URL)

	var body io.Reader
	if input.Body != "" {
		body = strings.NewReader(input.Body)
	}
	req, err := http.NewRequestWithContext(ctx, method, input.URL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range input.Headers {
		req.Header.Set(k, v)
	}

	client := m.Client
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	logger.Info("Received HTTP response.", "status", resp.Status)

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if input.ExpectStatus != nil && resp.StatusCode != *input.ExpectStatus {
		return nil, fmt.Errorf("unexpected status code %d, want %d", resp.StatusCode, *input.ExpectStatus)
	}

	return &Output{StatusCode: resp.StatusCode, Body: string(bodyBytes)}, nil
}

// Register registers the handler with the registry.
func (m *Module) Register(h *handlers.Handlers) {
	h.RegisterHandler("http_request", handlers.Typed(m.run))
}
