// Package socketio provides the 'socketio' handler. It connects to a
// Socket.IO server, optionally emits an event, and waits for a reply event.
package socketio

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/specialistvlad/taskgrid/internal/ctxlog"
	"github.com/specialistvlad/taskgrid/internal/handlers"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// Module implements the handlers.Module interface for this package.
type Module struct{}

// Input defines the arguments for the socketio handler.
type Input struct {
	URL                string         `cty:"url"`
	Namespace          string         `cty:"namespace,optional"`
	OnEvent            string         `cty:"on_event"`
	EmitEvent          string         `cty:"emit_event,optional"`
	EmitData           map[string]any `cty:"emit_data,optional"`
	Timeout            time.Duration  `cty:"timeout,optional"`
	InsecureSkipVerify bool           `cty:"insecure_skip_verify,optional"`
}

// Output defines the data structure returned by the handler.
type Output struct {
	// ResponseData is the first argument of the awaited event, JSON encoded.
	ResponseData string `cty:"response_data"`
}

const defaultTimeout = 10 * time.Second

// opResult is a private struct to safely pass results through the done channel.
type opResult struct {
	value *Output
	err   error
}

func run(ctx context.Context, input *Input) (any, error) {
	logger := ctxlog.FromContext(ctx).With("url", input.URL, "onEvent", input.OnEvent, "emitEvent", input.EmitEvent)
	logger.Debug("Handler started.")
	defer logger.Debug("Handler finished.")

	if input.OnEvent == "" {
		return nil, errors.New("on_event must not be empty")
	}
	timeout := input.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	namespace := input.Namespace
	if namespace == "" {
		namespace = "/"
	}

	parsedURL, err := url.Parse(input.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("URL %q must be absolute", input.URL)
	}

	var isConnected atomic.Bool
	done := make(chan opResult, 1)
	finish := func(res opResult) {
		select {
		case done <- res:
		default:
		}
	}

	opCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	opts := socket.DefaultOptions()
	if parsedURL.Path != "" && parsedURL.Path != "/" {
		opts.SetPath(parsedURL.Path)
	}
	if input.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification.")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(namespace, opts)
	defer func() {
		logger.Debug("Disconnecting socket client.")
		io.Disconnect()
	}()

	io.On(types.EventName("connect"), func(...any) {
		isConnected.Store(true)
		logger.Info("Connected.", "namespace", namespace, "sid", io.Id())
		if input.EmitEvent != "" {
			logger.Info("Emitting event.", "event", input.EmitEvent)
			io.Emit(input.EmitEvent, input.EmitData)
		}
	})

	io.On(types.EventName("connect_error"), func(errs ...any) {
		err := errors.New("connection failed")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = fmt.Errorf("connection failed: %w", e)
			}
		}
		finish(opResult{err: err})
	})

	io.On(types.EventName(input.OnEvent), func(data ...any) {
		var payload any
		if len(data) > 0 {
			payload = data[0]
		}
		encoded, err := encodeResponse(payload)
		if err != nil {
			finish(opResult{err: err})
			return
		}
		finish(opResult{value: &Output{ResponseData: encoded}})
	})

	io.Connect()

	select {
	case <-opCtx.Done():
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if isConnected.Load() {
			return nil, fmt.Errorf("timed out after connecting while waiting for event '%s'", input.OnEvent)
		}
		return nil, errors.New("timed out while waiting for initial connection")
	case res := <-done:
		return res.value, res.err
	}
}

// encodeResponse renders an event payload as JSON so that it fits a single
// string output regardless of its shape.
func encodeResponse(payload any) (string, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode response data: %w", err)
	}
	return string(b), nil
}

// Register registers the handler with the registry.
func (m *Module) Register(h *handlers.Handlers) {
	h.RegisterHandler("socketio", handlers.Typed(run))
}
