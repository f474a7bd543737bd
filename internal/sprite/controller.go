// Package sprite runs one sprite instance's event loop without touching the
// window system. The ui package feeds it pointer input once per frame and
// renders whatever it reports.
package sprite

import (
	"context"
	"errors"
	"image"
	"time"

	"github.com/genricoloni/hyprsprite/internal/config"
	"github.com/genricoloni/hyprsprite/internal/domain"
	"github.com/genricoloni/hyprsprite/internal/frames"
	"github.com/genricoloni/hyprsprite/internal/motion"
	"go.uber.org/zap"
)

// ErrQuit is returned by Update when the user picks Quit from the menu
var ErrQuit = errors.New("quit requested")

// placementSchedule lists the delays after startup at which the initial
// corner placement is attempted again. Compositors may report geometry for a
// new window only after it has been mapped, so a single attempt is not enough.
var placementSchedule = []time.Duration{
	0,
	60 * time.Millisecond,
	160 * time.Millisecond,
	320 * time.Millisecond,
	640 * time.Millisecond,
	1200 * time.Millisecond,
	2000 * time.Millisecond,
}

// Geometry resolves the usable rect of the monitor under a desktop point
type Geometry interface {
	ActiveRect(ctx context.Context, pointer image.Point) image.Rectangle

	// Invalidate drops cached geometry so the next lookup is fresh
	Invalidate()
}

// Input is one frame's worth of pointer state
type Input struct {
	Cursor   image.Point // window-local
	Origin   image.Point // window top-left in desktop coordinates
	Pressed  []motion.Button
	Released []motion.Button
}

// Global returns the cursor in desktop coordinates
func (in Input) Global() image.Point {
	return in.Origin.Add(in.Cursor)
}

// Controller drives the movement and animation timers, the delayed initial
// placement and the context menu.
type Controller struct {
	logger   *zap.Logger
	machine  *motion.Machine
	seq      *frames.Sequence
	geometry Geometry
	clock    domain.Clock

	stepPeriod  time.Duration
	framePeriod time.Duration

	started   time.Time
	lastStep  time.Time
	lastFrame time.Time
	nextRetry int
	drawn     bool
	drawRetry bool

	menu menu
}

// NewController creates a controller; the timers start now
func NewController(
	logger *zap.Logger,
	cfg config.SpriteConfig,
	machine *motion.Machine,
	seq *frames.Sequence,
	geometry Geometry,
	clock domain.Clock,
) *Controller {
	now := clock.Now()
	return &Controller{
		logger:      logger,
		machine:     machine,
		seq:         seq,
		geometry:    geometry,
		clock:       clock,
		stepPeriod:  cfg.StepPeriod,
		framePeriod: cfg.FramePeriod,
		started:     now,
		lastStep:    now,
		lastFrame:   now,
	}
}

// Update processes one frame: pointer events first, then any due placement
// retry, then the movement and animation drivers.
func (c *Controller) Update(ctx context.Context, in Input) error {
	global := in.Global()

	for _, b := range in.Pressed {
		if err := c.press(b, in.Cursor, global); err != nil {
			return err
		}
	}
	c.machine.Move(global)
	for _, b := range in.Released {
		c.machine.Release(b)
	}

	now := c.clock.Now()
	c.runPlacement(ctx, now, global)

	if now.Sub(c.lastStep) >= c.stepPeriod {
		c.lastStep = now
		c.machine.Tick(c.geometry.ActiveRect(ctx, global))
	}
	if now.Sub(c.lastFrame) >= c.framePeriod {
		c.lastFrame = now
		c.seq.Advance()
	}
	return nil
}

func (c *Controller) press(b motion.Button, local, global image.Point) error {
	if c.menu.open {
		if b == motion.ButtonPrimary && c.menu.hit(local) {
			c.logger.Info("Quit selected")
			return ErrQuit
		}
		c.menu.close()
		return nil
	}

	if c.machine.Press(b, local, global) == motion.ActionMenu {
		c.menu.openAt(local, c.machine.Size())
	}
	return nil
}

// runPlacement fires every scheduled retry that has come due plus the one
// requested by the first draw. Retries stop mattering once the user drags.
func (c *Controller) runPlacement(ctx context.Context, now time.Time, pointer image.Point) {
	due := c.drawRetry
	c.drawRetry = false
	for c.nextRetry < len(placementSchedule) && now.Sub(c.started) >= placementSchedule[c.nextRetry] {
		c.nextRetry++
		due = true
	}
	if !due || c.machine.UserMoved() {
		return
	}

	c.geometry.Invalidate()
	screen := c.geometry.ActiveRect(ctx, pointer)
	if c.machine.PlaceInitial(screen) {
		pos := c.machine.Position()
		c.logger.Debug("Initial placement",
			zap.Int("attempt", c.nextRetry),
			zap.Int("x", pos.X),
			zap.Int("y", pos.Y))
	}
}

// NotifyDrawn is called after every draw; the first one schedules one
// more placement attempt.
func (c *Controller) NotifyDrawn() {
	if c.drawn {
		return
	}
	c.drawn = true
	c.drawRetry = true
}

// Frame returns the frame to draw
func (c *Controller) Frame() *image.NRGBA {
	return c.seq.Current()
}

// Position returns the window's desired top-left in desktop coordinates
func (c *Controller) Position() image.Point {
	return c.machine.Position()
}

// Size returns the window size
func (c *Controller) Size() image.Point {
	return c.seq.Size()
}

// Mode returns the movement mode
func (c *Controller) Mode() motion.Mode {
	return c.machine.Mode()
}

// Menu reports whether the context menu is shown and, if so, the window-local
// rect of its single item.
func (c *Controller) Menu() (image.Rectangle, bool) {
	return c.menu.item, c.menu.open
}
