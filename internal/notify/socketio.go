package notify

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/specialistvlad/taskgrid/internal/ctxlog"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// SocketEmitter is an Emitter backed by a Socket.IO client connection.
type SocketEmitter struct {
	emit       func(event string, args ...any)
	disconnect func()
}

var _ Emitter = (*SocketEmitter)(nil)

// Dial connects to the Socket.IO server at rawURL and waits until the
// namespace is joined or timeout elapses.
func Dial(ctx context.Context, rawURL, namespace string, timeout time.Duration) (*SocketEmitter, error) {
	logger := ctxlog.FromContext(ctx).With("url", rawURL, "namespace", namespace)

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse notify URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("notify URL %q must be absolute", rawURL)
	}
	if namespace == "" {
		namespace = "/"
	}

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	opts := socket.DefaultOptions()
	if parsedURL.Path != "" && parsedURL.Path != "/" {
		opts.SetPath(parsedURL.Path)
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(namespace, opts)

	connected := make(chan error, 1)
	signal := func(err error) {
		select {
		case connected <- err:
		default:
		}
	}
	io.On(types.EventName("connect"), func(...any) {
		logger.Info("Connected to notification server.", "sid", io.Id())
		signal(nil)
	})
	io.On(types.EventName("connect_error"), func(errs ...any) {
		err := errors.New("connection failed")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = fmt.Errorf("connection failed: %w", e)
			}
		}
		signal(err)
	})

	io.Connect()

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case err := <-connected:
		if err != nil {
			io.Disconnect()
			return nil, err
		}
	case <-timer.C:
		io.Disconnect()
		return nil, fmt.Errorf("timed out connecting to %s", rawURL)
	case <-ctx.Done():
		io.Disconnect()
		return nil, ctx.Err()
	}

	return &SocketEmitter{
		emit:       func(event string, args ...any) { io.Emit(event, args...) },
		disconnect: func() { io.Disconnect() },
	}, nil
}

// Emit implements Emitter.
func (s *SocketEmitter) Emit(event string, payload map[string]any) error {
	s.emit(event, payload)
	return nil
}

// Close disconnects from the server.
func (s *SocketEmitter) Close() error {
	s.disconnect()
	return nil
}
