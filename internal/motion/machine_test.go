package motion

import (
	"image"
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/genricoloni/hyprsprite/internal/clock"
	"github.com/genricoloni/hyprsprite/internal/placement"
	"go.uber.org/zap"
)

var (
	screen = image.Rect(0, 0, 1920, 1080)
	size   = image.Pt(120, 100)
	epoch  = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
)

type hitFunc func(image.Point) bool

func (f hitFunc) HitOK(p image.Point) bool { return f(p) }

var (
	alwaysHit = hitFunc(func(image.Point) bool { return true })
	neverHit  = hitFunc(func(image.Point) bool { return false })
)

func newTestMachine(t *testing.T, params Params, engine placement.Engine, hit HitTester) (*Machine, *clock.Manual) {
	t.Helper()
	c := clock.NewManual(epoch)
	m := NewMachine(zap.NewNop(), params, engine, size, hit, c, rand.New(rand.NewPCG(1, 2)))
	return m, c
}

func distance(a, b image.Point) float64 {
	return math.Hypot(float64(a.X-b.X), float64(a.Y-b.Y))
}

func TestMode_String(t *testing.T) {
	for mode, want := range map[Mode]string{Idle: "idle", Wandering: "wandering", Dragging: "dragging", Mode(9): "unknown"} {
		if got := mode.String(); got != want {
			t.Errorf("Mode(%d).String() = %q, want %q", mode, got, want)
		}
	}
}

func TestPlaceInitial(t *testing.T) {
	m, _ := newTestMachine(t, DefaultParams(), placement.New(24, "bottom-right", 0), alwaysHit)

	if !m.PlaceInitial(screen) {
		t.Fatal("expected placement before any user interaction")
	}
	if want := image.Pt(1920-120-24, 1080-100-24); m.Position() != want {
		t.Errorf("Position = %v, want %v", m.Position(), want)
	}

	m.Press(ButtonPrimary, image.Pt(5, 5), m.Position().Add(image.Pt(5, 5)))
	m.Move(image.Pt(400, 400))
	m.Release(ButtonPrimary)

	before := m.Position()
	if m.PlaceInitial(screen) {
		t.Error("placement must be skipped once the user moved the sprite")
	}
	if m.Position() != before {
		t.Errorf("position changed from %v to %v", before, m.Position())
	}
}

func TestTick_IdleToWandering(t *testing.T) {
	engine := placement.New(24, "bottom-right", 300)
	m, c := newTestMachine(t, DefaultParams(), engine, alwaysHit)
	m.PlaceInitial(screen)

	m.Tick(screen)
	if m.Mode() != Idle {
		t.Fatalf("expected Idle before the pause elapsed, got %v", m.Mode())
	}

	c.Advance(5 * time.Second)
	m.Tick(screen)
	if m.Mode() != Wandering {
		t.Fatalf("expected Wandering after the pause, got %v", m.Mode())
	}

	r := engine.TargetRange(screen, size)
	if !m.Target().In(r) {
		t.Errorf("target %v outside wander range %v", m.Target(), r)
	}
}

func TestTick_PauseWithinRange(t *testing.T) {
	params := DefaultParams()
	m, c := newTestMachine(t, params, placement.New(24, "bottom-right", 0), alwaysHit)

	c.Advance(params.PauseMin - time.Millisecond)
	m.Tick(screen)
	if m.Mode() != Idle {
		t.Errorf("wandered before the minimum pause: %v", m.Mode())
	}

	c.Advance(params.PauseMax - params.PauseMin + time.Millisecond)
	m.Tick(screen)
	if m.Mode() != Wandering {
		t.Errorf("did not wander after the maximum pause: %v", m.Mode())
	}
}

func TestTick_WanderDisabled(t *testing.T) {
	params := DefaultParams()
	params.Wander = false
	m, c := newTestMachine(t, params, placement.New(24, "bottom-right", 300), alwaysHit)
	m.PlaceInitial(screen)
	start := m.Position()

	for i := 0; i < 100; i++ {
		c.Advance(time.Second)
		m.Tick(screen)
	}
	if m.Mode() != Idle || m.Position() != start {
		t.Errorf("expected a stationary idle sprite, got %v at %v", m.Mode(), m.Position())
	}
}

func TestTick_WanderConverges(t *testing.T) {
	tests := []struct {
		name   string
		start  image.Point
		target image.Point
	}{
		{"Far Diagonal", image.Pt(24, 24), image.Pt(1700, 900)},
		{"Horizontal", image.Pt(1000, 500), image.Pt(100, 500)},
		{"Short Hop", image.Pt(500, 500), image.Pt(503, 502)},
		{"Steep", image.Pt(800, 30), image.Pt(801, 950)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestMachine(t, DefaultParams(), placement.New(24, "bottom-right", 0), alwaysHit)
			m.SetPosition(tt.start)
			m.mode = Wandering
			m.target = tt.target

			prev := distance(m.Position(), tt.target)
			for i := 0; prev > m.params.IdleThreshold; i++ {
				if i > 10000 {
					t.Fatal("wander did not converge")
				}
				m.Tick(screen)
				d := distance(m.Position(), tt.target)
				if d >= prev {
					t.Fatalf("tick %d: distance did not decrease (%.3f -> %.3f)", i, prev, d)
				}
				if m.Mode() != Wandering {
					t.Fatalf("tick %d: left Wandering early at distance %.3f", i, d)
				}
				prev = d
			}

			m.Tick(screen)
			if m.Mode() != Idle {
				t.Errorf("expected Idle on the evaluation after arrival, got %v", m.Mode())
			}
		})
	}
}

func TestTick_SpeedIsCapped(t *testing.T) {
	m, _ := newTestMachine(t, DefaultParams(), placement.New(24, "bottom-right", 0), alwaysHit)
	m.SetPosition(image.Pt(24, 500))
	m.mode = Wandering
	m.target = image.Pt(1700, 500)

	m.Tick(screen)
	if step := m.Position().X - 24; step != 12 {
		t.Errorf("expected a capped step of 12px, got %d", step)
	}
}

func TestPress_FailedHitNeverDrags(t *testing.T) {
	m, _ := newTestMachine(t, DefaultParams(), placement.New(24, "bottom-right", 0), neverHit)
	m.PlaceInitial(screen)

	for _, b := range []Button{ButtonPrimary, ButtonSecondary, ButtonMiddle} {
		if got := m.Press(b, image.Pt(10, 10), image.Pt(1786, 966)); got != ActionIgnore {
			t.Errorf("button %d: expected ActionIgnore, got %v", b, got)
		}
		if m.Mode() == Dragging {
			t.Errorf("button %d: failed hit test started a drag", b)
		}
	}
	if m.UserMoved() {
		t.Error("failed hit test must not mark the sprite as user-moved")
	}
}

func TestPress_SecondaryOpensMenu(t *testing.T) {
	m, _ := newTestMachine(t, DefaultParams(), placement.New(24, "bottom-right", 0), alwaysHit)
	if got := m.Press(ButtonSecondary, image.Pt(1, 1), image.Pt(1, 1)); got != ActionMenu {
		t.Errorf("expected ActionMenu, got %v", got)
	}
	if m.Mode() != Idle {
		t.Errorf("menu must not change mode, got %v", m.Mode())
	}
}

func TestDrag_Lifecycle(t *testing.T) {
	m, _ := newTestMachine(t, DefaultParams(), placement.New(24, "bottom-right", 0), alwaysHit)
	m.SetPosition(image.Pt(500, 400))
	m.mode = Wandering
	m.target = image.Pt(900, 900)

	if got := m.Press(ButtonPrimary, image.Pt(30, 20), image.Pt(530, 420)); got != ActionDrag {
		t.Fatalf("expected ActionDrag, got %v", got)
	}
	if m.Mode() != Dragging || !m.UserMoved() {
		t.Fatalf("expected Dragging with user-moved flag, got %v/%v", m.Mode(), m.UserMoved())
	}

	m.Move(image.Pt(730, 620))
	if want := image.Pt(700, 600); m.Position() != want {
		t.Errorf("Position = %v, want pointer minus offset %v", m.Position(), want)
	}

	// No tick-driven motion while dragging
	m.Tick(screen)
	if want := image.Pt(700, 600); m.Position() != want {
		t.Errorf("tick moved a dragged sprite to %v", m.Position())
	}

	m.Release(ButtonSecondary)
	if m.Mode() != Dragging {
		t.Error("secondary release must not end a drag")
	}
	m.Release(ButtonPrimary)
	if m.Mode() != Idle {
		t.Errorf("expected Idle after release, got %v", m.Mode())
	}

	m.Move(image.Pt(0, 0))
	if want := image.Pt(700, 600); m.Position() != want {
		t.Errorf("pointer moves after release must be ignored, got %v", m.Position())
	}
}

func TestDrag_PastEdgeIsClampedOnTick(t *testing.T) {
	m, _ := newTestMachine(t, DefaultParams(), placement.New(24, "bottom-right", 0), alwaysHit)
	m.SetPosition(image.Pt(100, 100))
	m.Press(ButtonPrimary, image.Pt(10, 10), image.Pt(110, 110))

	m.Move(image.Pt(-500, 2000))
	if m.Position() != image.Pt(-510, 1990) {
		t.Fatalf("move should not be blocked, got %v", m.Position())
	}

	m.Tick(screen)
	if want := image.Pt(24, 1080-24-100); m.Position() != want {
		t.Errorf("Position after tick = %v, want clamped %v", m.Position(), want)
	}
}

func TestTick_AlwaysContained(t *testing.T) {
	screens := []image.Rectangle{
		image.Rect(0, 0, 1920, 1080),
		image.Rect(1920, -200, 4480, 1240),
		image.Rect(-1366, 0, 0, 768),
	}
	engine := placement.New(24, "top-left", 250)
	m, c := newTestMachine(t, DefaultParams(), engine, alwaysHit)
	rng := rand.New(rand.NewPCG(7, 7))

	for i := 0; i < 3000; i++ {
		s := screens[rng.IntN(len(screens))]
		switch rng.IntN(6) {
		case 0:
			global := image.Pt(rng.IntN(8000)-4000, rng.IntN(4000)-2000)
			m.Press(ButtonPrimary, image.Pt(3, 3), global)
		case 1:
			m.Move(image.Pt(rng.IntN(8000)-4000, rng.IntN(4000)-2000))
		case 2:
			m.Release(ButtonPrimary)
		}
		c.Advance(time.Duration(rng.IntN(500)) * time.Millisecond)

		m.Tick(s)
		if !engine.Contains(s, m.Position(), size) {
			t.Fatalf("iteration %d (%v): position %v escapes bounds %v", i, m.Mode(), m.Position(), engine.FullBounds(s))
		}
	}
}
