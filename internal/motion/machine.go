package motion

import (
	"image"
	"math"
	"math/rand/v2"
	"time"

	"github.com/genricoloni/hyprsprite/internal/domain"
	"github.com/genricoloni/hyprsprite/internal/placement"
	"go.uber.org/zap"
)

// Mode is the sprite's behavioral state
type Mode int

const (
	Idle Mode = iota
	Wandering
	Dragging
)

func (m Mode) String() string {
	switch m {
	case Idle:
		return "idle"
	case Wandering:
		return "wandering"
	case Dragging:
		return "dragging"
	default:
		return "unknown"
	}
}

// Button identifies a pointer button
type Button int

const (
	ButtonPrimary Button = iota
	ButtonSecondary
	ButtonMiddle
)

// Action tells the caller how a press was interpreted
type Action int

const (
	// ActionIgnore means the press should not be consumed
	ActionIgnore Action = iota
	// ActionDrag means a drag started
	ActionDrag
	// ActionMenu means the context menu should open
	ActionMenu
)

// HitTester gates pointer presses on visible sprite pixels
type HitTester interface {
	HitOK(p image.Point) bool
}

// Params tunes wandering. Only the shape (randomized pause, eased approach) matters.
type Params struct {
	Wander        bool
	IdleThreshold float64
	BaseSpeed     float64
	MaxSpeed      float64
	SpeedScale    float64
	PauseMin      time.Duration
	PauseMax      time.Duration
}

// DefaultParams returns the stock tuning with wandering enabled
func DefaultParams() Params {
	return Params{
		Wander:        true,
		IdleThreshold: 2,
		BaseSpeed:     2,
		MaxSpeed:      12,
		SpeedScale:    40,
		PauseMin:      2500 * time.Millisecond,
		PauseMax:      5 * time.Second,
	}
}

// Machine owns the sprite's position and mode. It is not safe for
// concurrent use; every call is expected from the single event loop.
type Machine struct {
	logger *zap.Logger
	params Params
	engine placement.Engine
	hit    HitTester
	clock  domain.Clock
	rng    *rand.Rand

	size       image.Point
	pos        image.Point
	mode       Mode
	target     image.Point
	dragOffset image.Point
	userMoved  bool
	lastWander time.Time
	pause      time.Duration
}

// NewMachine creates an idle machine at the origin for a sprite of the given size
func NewMachine(
	logger *zap.Logger,
	params Params,
	engine placement.Engine,
	size image.Point,
	hit HitTester,
	clock domain.Clock,
	rng *rand.Rand,
) *Machine {
	m := &Machine{
		logger: logger,
		params: params,
		engine: engine,
		hit:    hit,
		clock:  clock,
		rng:    rng,
		size:   size,
	}
	m.lastWander = clock.Now()
	m.pause = m.samplePause()
	return m
}

// Mode returns the current mode
func (m *Machine) Mode() Mode { return m.mode }

// Position returns the sprite's top-left corner in desktop coordinates
func (m *Machine) Position() image.Point { return m.pos }

// Size returns the sprite dimensions
func (m *Machine) Size() image.Point { return m.size }

// Target returns the wander target; meaningful only while Wandering
func (m *Machine) Target() image.Point { return m.target }

// UserMoved reports whether the user has ever dragged the sprite
func (m *Machine) UserMoved() bool { return m.userMoved }

// SetPosition moves the sprite without changing mode. The next tick clamps it.
func (m *Machine) SetPosition(p image.Point) { m.pos = p }

// PlaceInitial moves the sprite to the configured corner of screen unless
// the user has already moved it. It reports whether the placement happened.
func (m *Machine) PlaceInitial(screen image.Rectangle) bool {
	if m.userMoved {
		return false
	}
	m.pos = m.engine.Initial(screen, m.size)
	return true
}

// Tick advances mode-specific motion and then clamps the position to the
// full bounds of screen. The clamp runs in every mode.
func (m *Machine) Tick(screen image.Rectangle) {
	if m.params.Wander && m.mode != Dragging {
		now := m.clock.Now()
		if m.mode == Idle && now.Sub(m.lastWander) >= m.pause {
			m.startWander(now, screen)
		}
		if m.mode == Wandering {
			m.stepWander(now)
		}
	}
	m.pos = m.engine.Clamp(screen, m.pos, m.size)
}

func (m *Machine) startWander(now time.Time, screen image.Rectangle) {
	r := m.engine.TargetRange(screen, m.size)
	m.target = image.Pt(
		r.Min.X+m.rng.IntN(r.Dx()),
		r.Min.Y+m.rng.IntN(r.Dy()),
	)
	m.mode = Wandering
	m.lastWander = now
	m.pause = m.samplePause()

	m.logger.Debug("Wander started",
		zap.Int("fromX", m.pos.X),
		zap.Int("fromY", m.pos.Y),
		zap.Int("toX", m.target.X),
		zap.Int("toY", m.target.Y))
}

func (m *Machine) stepWander(now time.Time) {
	dx := float64(m.target.X - m.pos.X)
	dy := float64(m.target.Y - m.pos.Y)
	dist := math.Hypot(dx, dy)

	if dist <= m.params.IdleThreshold {
		m.mode = Idle
		m.lastWander = now
		m.logger.Debug("Wander finished", zap.Int("x", m.pos.X), zap.Int("y", m.pos.Y))
		return
	}

	speed := math.Min(m.params.MaxSpeed, m.params.BaseSpeed+dist/m.params.SpeedScale)
	m.pos.X += int(dx / dist * speed)
	m.pos.Y += int(dy / dist * speed)
}

// Press handles a pointer press at local (window) and global (desktop)
// coordinates. Presses failing the hit test are ignored.
func (m *Machine) Press(b Button, local, global image.Point) Action {
	if !m.hit.HitOK(local) {
		return ActionIgnore
	}
	switch b {
	case ButtonPrimary:
		m.mode = Dragging
		m.userMoved = true
		m.dragOffset = global.Sub(m.pos)
		m.logger.Debug("Drag started",
			zap.Int("offsetX", m.dragOffset.X),
			zap.Int("offsetY", m.dragOffset.Y))
		return ActionDrag
	case ButtonSecondary:
		return ActionMenu
	default:
		return ActionIgnore
	}
}

// Move tracks the pointer while dragging
func (m *Machine) Move(global image.Point) {
	if m.mode != Dragging {
		return
	}
	m.pos = global.Sub(m.dragOffset)
}

// Release ends a drag on primary button release
func (m *Machine) Release(b Button) {
	if b != ButtonPrimary || m.mode != Dragging {
		return
	}
	m.mode = Idle
	m.lastWander = m.clock.Now()
	m.pause = m.samplePause()
	m.logger.Debug("Drag finished", zap.Int("x", m.pos.X), zap.Int("y", m.pos.Y))
}

func (m *Machine) samplePause() time.Duration {
	lo, hi := m.params.PauseMin, m.params.PauseMax
	if hi <= lo {
		return lo
	}
	return lo + time.Duration(m.rng.Int64N(int64(hi-lo)))
}
