package engine

import (
	"context"
	"sync"
	"time"

	"github.com/genricoloni/hyprsprite/internal/config"
	"github.com/genricoloni/hyprsprite/internal/domain"
	"go.uber.org/zap"
)

// Watcher keeps one sprite alive on every workspace the user visits.
// It polls the compositor at a fixed interval and launches a sprite when
// the active workspace has no window titled domain.WindowTitle.
type Watcher struct {
	logger     *zap.Logger
	cfg        config.WatcherConfig
	compositor domain.Compositor
	launcher   domain.Launcher
	pause      domain.PauseReporter
	clock      domain.Clock

	mu        sync.Mutex
	launched  map[int]time.Time // workspace -> last launch, for the spawn grace window
	wasPaused bool

	cancel context.CancelFunc
	done   chan struct{}
}

// NewWatcher creates a new presence watcher
func NewWatcher(
	logger *zap.Logger,
	cfg config.WatcherConfig,
	comp domain.Compositor,
	launcher domain.Launcher,
	pause domain.PauseReporter,
	clk domain.Clock,
) *Watcher {
	return &Watcher{
		logger:     logger,
		cfg:        cfg,
		compositor: comp,
		launcher:   launcher,
		pause:      pause,
		clock:      clk,
		launched:   make(map[int]time.Time),
	}
}

// Start launches the polling loop in a goroutine.
// It returns immediately (non-blocking).
func (w *Watcher) Start(ctx context.Context) error {
	w.logger.Info("Watcher starting...",
		zap.Duration("interval", w.cfg.PollInterval),
		zap.Duration("spawn_grace", w.cfg.SpawnGrace))

	// fx start contexts expire once startup completes, so the loop gets its own
	loopCtx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	w.done = make(chan struct{})

	go w.runLoop(loopCtx)
	return nil
}

// runLoop ticks once immediately, then on every poll interval
func (w *Watcher) runLoop(ctx context.Context) {
	defer close(w.done)

	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	w.Tick(ctx)
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Watcher loop stopped")
			return
		case <-ticker.C:
			w.Tick(ctx)
		}
	}
}

// Tick performs one poll. It reports whether a sprite was launched.
// Query failures degrade to "no active workspace" and "no sprites".
func (w *Watcher) Tick(ctx context.Context) bool {
	if w.paused() {
		return false
	}

	active, err := w.compositor.ActiveWorkspace(ctx)
	if err != nil {
		w.logger.Debug("Active workspace query failed", zap.Error(err))
		active = domain.NoWorkspace
	}
	if active < 0 {
		return false
	}

	occupied := w.occupied(ctx)
	if _, ok := occupied[active]; ok {
		return false
	}

	now := w.clock.Now()
	w.mu.Lock()
	w.pruneLocked(now)
	if last, ok := w.launched[active]; ok && w.cfg.SpawnGrace > 0 && now.Sub(last) < w.cfg.SpawnGrace {
		w.mu.Unlock()
		w.logger.Debug("Sprite launch still settling", zap.Int("workspace", active))
		return false
	}
	w.mu.Unlock()

	if err := w.launcher.Launch(ctx); err != nil {
		w.logger.Error("Failed to launch sprite", zap.Int("workspace", active), zap.Error(err))
		return false
	}

	w.mu.Lock()
	w.launched[active] = now
	w.mu.Unlock()

	w.logger.Info("Sprite spawned", zap.Int("workspace", active))
	return true
}

// occupied returns the workspaces that already show a sprite window
func (w *Watcher) occupied(ctx context.Context) map[int]struct{} {
	set := make(map[int]struct{})
	clients, err := w.compositor.Clients(ctx)
	if err != nil {
		w.logger.Debug("Client list query failed", zap.Error(err))
		return set
	}
	for _, c := range clients {
		if c.Title == domain.WindowTitle {
			set[c.WorkspaceID] = struct{}{}
		}
	}
	return set
}

func (w *Watcher) paused() bool {
	if w.pause == nil {
		return false
	}
	p := w.pause.Paused()

	w.mu.Lock()
	changed := p != w.wasPaused
	w.wasPaused = p
	w.mu.Unlock()

	if changed {
		w.logger.Info("Watcher pause changed", zap.Bool("paused", p))
	}
	return p
}

func (w *Watcher) pruneLocked(now time.Time) {
	for ws, t := range w.launched {
		if now.Sub(t) >= w.cfg.SpawnGrace {
			delete(w.launched, ws)
		}
	}
}

// Stop halts the polling loop and waits for an in-flight tick to finish
func (w *Watcher) Stop(ctx context.Context) error {
	w.logger.Info("Watcher stopping...")
	if w.cancel == nil {
		return nil
	}
	w.cancel()

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
