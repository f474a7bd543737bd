package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/genricoloni/hyprsprite/internal/clock"
	"github.com/genricoloni/hyprsprite/internal/config"
	"github.com/genricoloni/hyprsprite/internal/domain"
	"github.com/genricoloni/hyprsprite/internal/engine"
	"github.com/genricoloni/hyprsprite/internal/executor"
	"github.com/genricoloni/hyprsprite/internal/hyprctl"
	"github.com/genricoloni/hyprsprite/internal/session"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// AppOptions is the watcher's dependency graph
var AppOptions = fx.Options(
	// Logger configuration
	fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
		return &fxevent.ZapLogger{Logger: log}
	}),

	// Provide dependencies
	fx.Provide(
		newLogger,
		config.NewAppConfig,
		watcherConfig,
		fx.Annotate(clock.NewReal, fx.As(new(domain.Clock))),
		fx.Annotate(executor.NewHyprctlRunner, fx.As(new(executor.CommandRunner))),
		fx.Annotate(hyprctl.NewClient, fx.As(new(domain.Compositor))),
		fx.Annotate(executor.NewLauncher, fx.As(new(domain.Launcher))),
		session.NewLockMonitor,
		pauseReporter,
		engine.NewWatcher,
	),

	// Startup precondition, then lifecycle hooks
	fx.Invoke(verifyEntryPoint),
	fx.Invoke(registerHooks),
)

func main() {
	app := fx.New(AppOptions)
	if err := app.Err(); err != nil {
		// fx has already logged the failure
		fmt.Fprintln(os.Stderr, "hyprsprite-watcher:", err)
		os.Exit(1)
	}

	// Handle graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Start the application
	if err := app.Start(ctx); err != nil {
		panic(err)
	}

	// Wait for interrupt signal
	<-ctx.Done()

	// Stop the application gracefully
	if err := app.Stop(context.Background()); err != nil {
		panic(err)
	}
}

// newLogger creates a new zap logger instance
func newLogger() (*zap.Logger, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return logger, nil
}

func watcherConfig(cfg *config.AppConfig) config.WatcherConfig {
	return cfg.Watcher()
}

func pauseReporter(m *session.LockMonitor) domain.PauseReporter {
	return m
}

// verifyEntryPoint aborts startup when the sprite binary is not installed
func verifyEntryPoint(logger *zap.Logger, cfg config.WatcherConfig) error {
	path := cfg.EntryPath()
	if err := executor.CheckEntryPoint(path); err != nil {
		logger.Error("Sprite entry point missing", zap.String("path", path), zap.Error(err))
		return err
	}
	return nil
}

// registerHooks sets up application lifecycle hooks
func registerHooks(lc fx.Lifecycle, logger *zap.Logger, locks *session.LockMonitor, w *engine.Watcher) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("HyprSprite watcher started")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Shutting down")
			return nil
		},
	})
	lc.Append(fx.Hook{OnStart: locks.Start, OnStop: locks.Stop})
	lc.Append(fx.Hook{OnStart: w.Start, OnStop: w.Stop})
}
