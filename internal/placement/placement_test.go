package placement

import (
	"image"
	"testing"
)

var (
	screen = image.Rect(0, 0, 1920, 1080)
	sprite = image.Pt(120, 100)
)

func TestParseCorner(t *testing.T) {
	tests := []struct {
		in   string
		want Corner
	}{
		{"top-left", TopLeft},
		{" Top-Right ", TopRight},
		{"bottom-left", BottomLeft},
		{"bottom-right", BottomRight},
		{"CENTER", Center},
		{"", BottomRight},
		{"upper-left", BottomRight},
		{"middle", BottomRight},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseCorner(tt.in); got != tt.want {
				t.Errorf("ParseCorner(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCornerPoint(t *testing.T) {
	e := New(24, "bottom-right", 0)

	tests := []struct {
		corner Corner
		want   image.Point
	}{
		{TopLeft, image.Pt(24, 24)},
		{TopRight, image.Pt(1920-120-24, 24)},
		{BottomLeft, image.Pt(24, 1080-100-24)},
		{BottomRight, image.Pt(1920-120-24, 1080-100-24)},
		{Center, image.Pt(960-60, 540-50)},
		{Corner("nowhere"), image.Pt(1920-120-24, 1080-100-24)},
	}

	for _, tt := range tests {
		t.Run(string(tt.corner), func(t *testing.T) {
			if got := e.CornerPoint(screen, sprite, tt.corner); got != tt.want {
				t.Errorf("CornerPoint(%s) = %v, want %v", tt.corner, got, tt.want)
			}
		})
	}
}

func TestCornerPoint_InsideShrunkRect(t *testing.T) {
	rects := []image.Rectangle{
		image.Rect(0, 0, 1920, 1080),
		image.Rect(1920, 0, 1920+2560, 1440),
		image.Rect(-1280, 200, 0, 1224),
		image.Rect(0, 30, 1366, 768),
	}
	margins := []int{0, 8, 24, 100}
	corners := []Corner{TopLeft, TopRight, BottomLeft, BottomRight, Center, "bogus"}

	for _, r := range rects {
		for _, m := range margins {
			e := Engine{Margin: m}
			shrunk := image.Rect(r.Min.X+m, r.Min.Y+m, r.Max.X-m, r.Max.Y-m)
			for _, c := range corners {
				p := e.CornerPoint(r, sprite, c)
				placed := image.Rectangle{Min: p, Max: p.Add(sprite)}
				if !placed.In(shrunk) {
					t.Errorf("rect %v margin %d corner %q: %v not inside %v", r, m, c, placed, shrunk)
				}
			}
		}
	}
}

func TestInitial_UsesConfiguredCorner(t *testing.T) {
	e := New(10, "top-right", 0)
	if got, want := e.Initial(screen, sprite), image.Pt(1920-120-10, 10); got != want {
		t.Errorf("Initial = %v, want %v", got, want)
	}
}

func TestFullBounds(t *testing.T) {
	e := Engine{Margin: 24}
	if got, want := e.FullBounds(screen), image.Rect(24, 24, 1896, 1056); got != want {
		t.Errorf("FullBounds = %v, want %v", got, want)
	}

	tiny := image.Rect(0, 0, 30, 30)
	got := e.FullBounds(tiny)
	if got.Dx() != 0 || got.Dy() != 0 || got.Min != image.Pt(15, 15) {
		t.Errorf("FullBounds of a rect smaller than twice the margin should collapse to its center, got %v", got)
	}
}

func TestWanderBox(t *testing.T) {
	tests := []struct {
		name   string
		engine Engine
		want   image.Rectangle
		ok     bool
	}{
		{"Disabled Zero", Engine{Margin: 24, Corner: BottomRight, WanderBox: 0}, image.Rectangle{}, false},
		{"Disabled Negative", Engine{Margin: 24, Corner: BottomRight, WanderBox: -50}, image.Rectangle{}, false},
		{"Bottom Right", Engine{Margin: 24, Corner: BottomRight, WanderBox: 300}, image.Rect(1596, 756, 1896, 1056), true},
		{"Top Left", Engine{Margin: 24, Corner: TopLeft, WanderBox: 300}, image.Rect(24, 24, 324, 324), true},
		{"Top Right", Engine{Margin: 24, Corner: TopRight, WanderBox: 300}, image.Rect(1596, 24, 1896, 324), true},
		{"Bottom Left", Engine{Margin: 24, Corner: BottomLeft, WanderBox: 300}, image.Rect(24, 756, 324, 1056), true},
		{"Center", Engine{Margin: 24, Corner: Center, WanderBox: 300}, image.Rect(810, 390, 1110, 690), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.engine.WanderBox(screen)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("WanderBox = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWanderBounds_DisabledBoxUsesFullBounds(t *testing.T) {
	for _, side := range []int{0, -1, -400} {
		e := Engine{Margin: 16, Corner: TopLeft, WanderBox: side}
		if got, want := e.WanderBounds(screen), e.FullBounds(screen); got != want {
			t.Errorf("side %d: WanderBounds = %v, want full bounds %v", side, got, want)
		}
	}
}

func TestTargetRange(t *testing.T) {
	t.Run("Box Larger Than Sprite", func(t *testing.T) {
		e := Engine{Margin: 24, Corner: BottomRight, WanderBox: 300}
		got := e.TargetRange(screen, sprite)
		want := image.Rect(1596, 756, 1596+180+1, 756+200+1)
		if got != want {
			t.Errorf("TargetRange = %v, want %v", got, want)
		}
	})

	t.Run("Box Smaller Than Sprite", func(t *testing.T) {
		e := Engine{Margin: 24, Corner: TopLeft, WanderBox: 50}
		got := e.TargetRange(screen, sprite)
		if got != image.Rect(24, 24, 25, 25) {
			t.Errorf("expected a single legal point at the box origin, got %v", got)
		}
	})

	t.Run("Every Target Satisfies Clamp", func(t *testing.T) {
		for _, e := range []Engine{
			{Margin: 24, Corner: BottomRight, WanderBox: 0},
			{Margin: 24, Corner: TopRight, WanderBox: 250},
			{Margin: 0, Corner: Center, WanderBox: 5000},
		} {
			tr := e.TargetRange(screen, sprite)
			for _, p := range []image.Point{tr.Min, {tr.Max.X - 1, tr.Max.Y - 1}} {
				if !e.Contains(screen, p, sprite) {
					t.Errorf("engine %+v: target %v violates the clamp", e, p)
				}
				if e.Clamp(screen, p, sprite) != p {
					t.Errorf("engine %+v: clamp moved target %v", e, p)
				}
			}
		}
	})
}

func TestClamp(t *testing.T) {
	e := Engine{Margin: 24}

	tests := []struct {
		name string
		pos  image.Point
		want image.Point
	}{
		{"Inside", image.Pt(500, 500), image.Pt(500, 500)},
		{"Past Left Top", image.Pt(-300, 3), image.Pt(24, 24)},
		{"Past Right Bottom", image.Pt(5000, 5000), image.Pt(1896-120, 1056-100)},
		{"On Edge", image.Pt(1896-120, 24), image.Pt(1896-120, 24)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Clamp(screen, tt.pos, sprite)
			if got != tt.want {
				t.Errorf("Clamp(%v) = %v, want %v", tt.pos, got, tt.want)
			}
			if !e.Contains(screen, got, sprite) {
				t.Errorf("clamped position %v is not contained", got)
			}
		})
	}
}

func TestClamp_SpriteLargerThanBounds(t *testing.T) {
	e := Engine{Margin: 24}
	small := image.Rect(0, 0, 100, 100)
	got := e.Clamp(small, image.Pt(0, 0), sprite)
	// Right/bottom rule wins: x = 76 - 120
	if got != image.Pt(76-120, 76-100) {
		t.Errorf("Clamp = %v, want right/bottom aligned %v", got, image.Pt(76-120, 76-100))
	}
}
