// Package shell provides the 'shell' handler, which runs a command through
// `sh -c`.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"
	"time"

	"github.com/specialistvlad/taskgrid/internal/ctxlog"
	"github.com/specialistvlad/taskgrid/internal/handlers"
)

// Module implements the handlers.Module interface for this package.
type Module struct{}

// Input defines the arguments for the shell handler.
type Input struct {
	Command string            `cty:"command"`
	Dir     string            `cty:"dir,optional"`
	Env     map[string]string `cty:"env,optional"`
}

// Output defines the data structure returned by the handler.
type Output struct {
	ExitCode int    `cty:"exit_code"`
	Stdout   string `cty:"stdout"`
}

// maxStderr bounds how much stderr is quoted in a failure.
const maxStderr = 4096

const waitDelay = time.Second

func run(ctx context.Context, input *Input) (any, error) {
	if strings.TrimSpace(input.Command) == "" {
		return nil, errors.New("command must not be empty")
	}
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Running shell command.", "command", input.Command, "dir", input.Dir)

	cmd := exec.CommandContext(ctx, "sh", "-c", input.Command)
	cmd.Dir = input.Dir
	cmd.Env = mergeEnv(os.Environ(), input.Env)
	// Children of sh may hold the output pipes open after sh is killed.
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			msg := strings.TrimSpace(stderr.String())
			if len(msg) > maxStderr {
				msg = msg[len(msg)-maxStderr:]
			}
			if msg != "" {
				return nil, fmt.Errorf("command exited with code %d: %s", exitErr.ExitCode(), msg)
			}
			return nil, fmt.Errorf("command exited with code %d", exitErr.ExitCode())
		}
		return nil, fmt.Errorf("failed to run command: %w", err)
	}

	return &Output{ExitCode: 0, Stdout: stdout.String()}, nil
}

// mergeEnv overlays extra on base. Keys from extra are appended in sorted
// order so the resulting environment is deterministic.
func mergeEnv(base []string, extra map[string]string) []string {
	if len(extra) == 0 {
		return base
	}
	out := make([]string, 0, len(base)+len(extra))
	for _, kv := range base {
		k, _, _ := strings.Cut(kv, "=")
		if _, overridden := extra[k]; !overridden {
			out = append(out, kv)
		}
	}
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		out = append(out, k+"="+extra[k])
	}
	return out
}

// Register registers the handler with the registry.
func (m *Module) Register(h *handlers.Handlers) {
	h.RegisterHandler("shell", handlers.Typed(run))
}
