package executor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/genricoloni/hyprsprite/internal/config"
	"go.uber.org/zap"
)

// ErrEntryPointMissing is returned when the sprite binary is not installed
var ErrEntryPointMissing = errors.New("sprite entry point not found")

// Launcher spawns sprite processes rooted at the installation directory
type Launcher struct {
	logger *zap.Logger
	dir    string
	entry  string
	runner string
}

// NewLauncher creates a launcher from the watcher configuration
func NewLauncher(logger *zap.Logger, cfg config.WatcherConfig) *Launcher {
	return &Launcher{
		logger: logger,
		dir:    cfg.Home,
		entry:  cfg.EntryPath(),
		runner: cfg.Runner,
	}
}

// CheckEntryPoint verifies the sprite entry point exists and is a regular file
func CheckEntryPoint(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrEntryPointMissing, path)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s is not a regular file", ErrEntryPointMissing, path)
	}
	return nil
}

// Command builds the process description for one sprite instance
func (l *Launcher) Command() *exec.Cmd {
	var cmd *exec.Cmd
	if l.runner != "" {
		cmd = exec.Command(l.runner, l.entry)
	} else {
		cmd = exec.Command(l.entry)
	}
	cmd.Dir = l.dir
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = os.Stderr
	detach(cmd)
	return cmd
}

// Launch starts a sprite and reaps it in the background. It does not wait
// for the sprite to exit; the sprite outlives the watcher's context.
func (l *Launcher) Launch(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cmd := l.Command()
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", filepath.Base(l.entry), err)
	}

	pid := cmd.Process.Pid
	l.logger.Info("Sprite launched",
		zap.Int("pid", pid),
		zap.String("entry", l.entry),
		zap.String("dir", l.dir))

	go func() {
		if err := cmd.Wait(); err != nil {
			l.logger.Warn("Sprite exited with error", zap.Int("pid", pid), zap.Error(err))
			return
		}
		l.logger.Debug("Sprite exited", zap.Int("pid", pid))
	}()

	return nil
}
