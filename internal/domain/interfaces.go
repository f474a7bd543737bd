package domain

import (
	"context"
	"time"
)

// Clock abstracts wall time so tick-driven logic can be tested deterministically
type Clock interface {
	Now() time.Time
}

// DisplaySource enumerates the monitors known to the windowing system
type DisplaySource interface {
	// Name identifies the source in logs (e.g., "hyprctl", "screenshot")
	Name() string

	// Displays returns every active monitor with its usable area.
	// An empty result with a nil error is treated as a failure by callers.
	Displays(ctx context.Context) ([]Display, error)
}

// Compositor answers the two questions the presence watcher asks each poll
type Compositor interface {
	// ActiveWorkspace returns the identifier of the focused workspace
	ActiveWorkspace(ctx context.Context) (int, error)

	// Clients returns every mapped client window
	Clients(ctx context.Context) ([]Client, error)
}

// Launcher starts a new sprite process
type Launcher interface {
	// Launch spawns one sprite instance and returns once it has started.
	// It does not wait for the child to exit.
	Launch(ctx context.Context) error
}

// PauseReporter reports whether spawning should be suspended
// (e.g., while the session is locked or going to sleep)
type PauseReporter interface {
	Paused() bool
}
