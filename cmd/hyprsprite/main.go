package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/genricoloni/hyprsprite/internal/clock"
	"github.com/genricoloni/hyprsprite/internal/config"
	"github.com/genricoloni/hyprsprite/internal/domain"
	"github.com/genricoloni/hyprsprite/internal/executor"
	"github.com/genricoloni/hyprsprite/internal/frames"
	"github.com/genricoloni/hyprsprite/internal/hittest"
	"github.com/genricoloni/hyprsprite/internal/hyprctl"
	"github.com/genricoloni/hyprsprite/internal/monitor"
	"github.com/genricoloni/hyprsprite/internal/motion"
	"github.com/genricoloni/hyprsprite/internal/placement"
	"github.com/genricoloni/hyprsprite/internal/sprite"
	"github.com/genricoloni/hyprsprite/internal/ui"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// AppOptions is the sprite's dependency graph
var AppOptions = fx.Options(
	// Logger configuration
	fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
		return &fxevent.ZapLogger{Logger: log}
	}),

	// Provide dependencies
	fx.Provide(
		newLogger,
		config.NewAppConfig,
		spriteConfig,
		fx.Annotate(clock.NewReal, fx.As(new(domain.Clock))),
		newSequence,
		newHitTester,
		newPlacement,
		newMachine,
		fx.Annotate(executor.NewHyprctlRunner, fx.As(new(executor.CommandRunner))),
		hyprctl.NewClient,
		newGeometry,
		sprite.NewController,
		ui.NewWindow,
	),
)

func main() {
	var (
		logger *zap.Logger
		window *ui.Window
	)
	app := fx.New(AppOptions, fx.Populate(&logger, &window))
	if err := app.Err(); err != nil {
		fmt.Fprintln(os.Stderr, "hyprsprite:", err)
		os.Exit(1)
	}

	// Handle graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Start the application
	if err := app.Start(ctx); err != nil {
		panic(err)
	}

	// The window loop owns the main goroutine until it ends
	runErr := window.Run(ctx)
	if runErr != nil {
		logger.Error("Sprite window failed", zap.Error(runErr))
	}

	// Stop the application gracefully
	if err := app.Stop(context.Background()); err != nil {
		panic(err)
	}
	if runErr != nil {
		os.Exit(1)
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

func spriteConfig(cfg *config.AppConfig) config.SpriteConfig {
	return cfg.Sprite()
}

func newSequence(logger *zap.Logger, cfg config.SpriteConfig) *frames.Sequence {
	return frames.LoadSequence(cfg.FramesDir, cfg.Scale, logger)
}

func newHitTester(seq *frames.Sequence, cfg config.SpriteConfig) motion.HitTester {
	return hittest.New(seq, cfg.StrictHitTest, cfg.AlphaThreshold)
}

func newPlacement(cfg config.SpriteConfig) placement.Engine {
	return placement.New(cfg.Margin, cfg.Corner, cfg.WanderBox)
}

func newMachine(
	logger *zap.Logger,
	cfg config.SpriteConfig,
	engine placement.Engine,
	seq *frames.Sequence,
	hit motion.HitTester,
	clk domain.Clock,
) *motion.Machine {
	params := motion.Params{
		Wander:        cfg.Wander,
		IdleThreshold: cfg.IdleThreshold,
		BaseSpeed:     cfg.BaseSpeed,
		MaxSpeed:      cfg.MaxSpeed,
		SpeedScale:    cfg.SpeedScale,
		PauseMin:      cfg.PauseMin,
		PauseMax:      cfg.PauseMax,
	}
	rng := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), uint64(os.Getpid())))
	return motion.NewMachine(logger, params, engine, seq.Size(), hit, clk, rng)
}

// newGeometry prefers Hyprland's view of the monitors, which includes
// reserved areas, and falls back to raw display bounds.
func newGeometry(logger *zap.Logger, cfg config.SpriteConfig, clk domain.Clock, client *hyprctl.Client) sprite.Geometry {
	return monitor.NewProvider(logger, clk, cfg.GeometryTTL,
		monitor.NewHyprlandSource(client),
		monitor.NewScreenSource(),
	)
}
