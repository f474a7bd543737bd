package executor

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	hyprctlBinary = "hyprctl"

	// queryTimeout bounds each hyprctl call; the sprite queries from its event loop
	queryTimeout = 500 * time.Millisecond
)

// ErrCommandNotFound is returned when the compositor CLI is not in PATH
var ErrCommandNotFound = errors.New("command not found in PATH")

// CommandRunner runs a JSON query against the compositor.
//
//go:generate mockgen -destination=mocks/runner_mock.go -package=mocks github.com/genricoloni/hyprsprite/internal/executor CommandRunner
type CommandRunner interface {
	// Query runs the compositor CLI in JSON mode for the given command
	// (e.g., "activeworkspace") and returns its stdout
	Query(ctx context.Context, command string) ([]byte, error)
}

// HyprctlRunner executes `hyprctl -j <command>`
type HyprctlRunner struct {
	logger  *zap.Logger
	binary  string
	timeout time.Duration
}

// NewHyprctlRunner resolves hyprctl in PATH. A missing binary is not fatal:
// every query then fails with ErrCommandNotFound and callers degrade.
func NewHyprctlRunner(logger *zap.Logger) *HyprctlRunner {
	path, err := exec.LookPath(hyprctlBinary)
	if err != nil {
		logger.Warn("hyprctl not found, compositor queries will fail", zap.Error(err))
		return &HyprctlRunner{logger: logger, timeout: queryTimeout}
	}
	logger.Debug("hyprctl detected", zap.String("path", path))
	return &HyprctlRunner{logger: logger, binary: path, timeout: queryTimeout}
}

// Query runs hyprctl in JSON mode. A call that outlives the query timeout
// is killed and reported as context.DeadlineExceeded.
func (r *HyprctlRunner) Query(ctx context.Context, command string) ([]byte, error) {
	if r.binary == "" {
		return nil, fmt.Errorf("%s: %w", hyprctlBinary, ErrCommandNotFound)
	}

	timeout := r.timeout
	if timeout <= 0 {
		timeout = queryTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, r.binary, "-j", command)
	// Do not wait on pipes held open by grandchildren after the kill
	cmd.WaitDelay = 100 * time.Millisecond
	var stderr strings.Builder
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil, fmt.Errorf("hyprctl -j %s timed out after %v: %w", command, timeout, context.DeadlineExceeded)
	}
	if err != nil {
		return nil, fmt.Errorf("hyprctl -j %s failed: %w (stderr: %s)",
			command, err, strings.TrimSpace(stderr.String()))
	}
	return out, nil
}
