// Package placement computes where the sprite may sit on a monitor: named
// corners, the optional wander box and the hard containment bounds.
//
// All rectangles follow image.Rectangle conventions: Min is inclusive and
// Max is exclusive, so a sprite of width w at x is contained in b when
// b.Min.X <= x and x+w <= b.Max.X.
package placement

import (
	"image"
	"strings"
)

// Corner names an anchor on a monitor
type Corner string

const (
	TopLeft     Corner = "top-left"
	TopRight    Corner = "top-right"
	BottomLeft  Corner = "bottom-left"
	BottomRight Corner = "bottom-right"
	Center      Corner = "center"
)

// ParseCorner maps a configured name to a Corner. Unknown names fall back to BottomRight.
func ParseCorner(name string) Corner {
	switch c := Corner(strings.ToLower(strings.TrimSpace(name))); c {
	case TopLeft, TopRight, BottomLeft, BottomRight, Center:
		return c
	default:
		return BottomRight
	}
}

// Engine computes target positions for a sprite on a given screen rect
type Engine struct {
	Margin    int
	Corner    Corner
	WanderBox int
}

// New creates an engine from raw configuration values
func New(margin int, corner string, wanderBox int) Engine {
	return Engine{
		Margin:    margin,
		Corner:    ParseCorner(corner),
		WanderBox: wanderBox,
	}
}

// CornerPoint returns the top-left position that puts a sprite of the given size
// at corner c of r, offset inward by the margin. Center ignores the margin.
func (e Engine) CornerPoint(r image.Rectangle, size image.Point, c Corner) image.Point {
	m := e.Margin
	left := r.Min.X + m
	top := r.Min.Y + m
	right := r.Max.X - size.X - m
	bottom := r.Max.Y - size.Y - m

	switch c {
	case TopLeft:
		return image.Pt(left, top)
	case TopRight:
		return image.Pt(right, top)
	case BottomLeft:
		return image.Pt(left, bottom)
	case Center:
		return image.Pt(r.Min.X+r.Dx()/2-size.X/2, r.Min.Y+r.Dy()/2-size.Y/2)
	default:
		return image.Pt(right, bottom)
	}
}

// Initial returns the default placement for a sprite of the given size
func (e Engine) Initial(r image.Rectangle, size image.Point) image.Point {
	return e.CornerPoint(r, size, e.Corner)
}

// FullBounds is r shrunk by the margin on all four sides. When the margin
// exceeds half the rect, the axis collapses to its midpoint.
func (e Engine) FullBounds(r image.Rectangle) image.Rectangle {
	return inset(r, e.Margin)
}

// WanderBox returns the square wander region anchored at the default corner.
// ok is false when the configured side is zero or negative.
func (e Engine) WanderBox(r image.Rectangle) (box image.Rectangle, ok bool) {
	side := e.WanderBox
	if side <= 0 {
		return image.Rectangle{}, false
	}
	m := e.Margin

	var left, top int
	switch e.Corner {
	case TopLeft:
		left, top = r.Min.X+m, r.Min.Y+m
	case TopRight:
		left, top = r.Max.X-m-side, r.Min.Y+m
	case BottomLeft:
		left, top = r.Min.X+m, r.Max.Y-m-side
	case Center:
		left, top = r.Min.X+r.Dx()/2-side/2, r.Min.Y+r.Dy()/2-side/2
	default:
		left, top = r.Max.X-m-side, r.Max.Y-m-side
	}
	return image.Rect(left, top, left+side, top+side), true
}

// WanderBounds is the wander box when enabled, otherwise the full bounds
func (e Engine) WanderBounds(r image.Rectangle) image.Rectangle {
	if box, ok := e.WanderBox(r); ok {
		return box
	}
	return e.FullBounds(r)
}

// TargetRange returns the rectangle of top-left points from which a sprite of
// the given size lies inside both the wander bounds and the full bounds.
// Sampling wander targets from it guarantees the clamp never pulls the sprite
// away from its target. The range collapses to a single point on an axis
// where the sprite does not fit.
func (e Engine) TargetRange(r image.Rectangle, size image.Point) image.Rectangle {
	b := e.WanderBounds(r).Intersect(e.FullBounds(r))
	if b.Empty() {
		b = e.FullBounds(r)
	}
	maxX := b.Max.X - size.X
	if maxX < b.Min.X {
		maxX = b.Min.X
	}
	maxY := b.Max.Y - size.Y
	if maxY < b.Min.Y {
		maxY = b.Min.Y
	}
	// Max is exclusive, +1 keeps the last legal position reachable
	return image.Rect(b.Min.X, b.Min.Y, maxX+1, maxY+1)
}

// Clamp forces a sprite of the given size at pos into the full bounds of r.
// Each axis is raised to the left/top edge first and then lowered so the far
// edge fits, so a sprite larger than the bounds ends up aligned to the
// right/bottom edge.
func (e Engine) Clamp(r image.Rectangle, pos, size image.Point) image.Point {
	b := e.FullBounds(r)
	return image.Pt(
		min(max(pos.X, b.Min.X), b.Max.X-size.X),
		min(max(pos.Y, b.Min.Y), b.Max.Y-size.Y),
	)
}

// Contains reports whether a sprite of the given size at pos satisfies the clamp
func (e Engine) Contains(r image.Rectangle, pos, size image.Point) bool {
	b := e.FullBounds(r)
	return pos.X >= b.Min.X && pos.X+size.X <= b.Max.X &&
		pos.Y >= b.Min.Y && pos.Y+size.Y <= b.Max.Y
}

func inset(r image.Rectangle, n int) image.Rectangle {
	if r.Dx() < 2*n {
		mid := r.Min.X + r.Dx()/2
		r.Min.X, r.Max.X = mid, mid
	} else {
		r.Min.X += n
		r.Max.X -= n
	}
	if r.Dy() < 2*n {
		mid := r.Min.Y + r.Dy()/2
		r.Min.Y, r.Max.Y = mid, mid
	} else {
		r.Min.Y += n
		r.Max.Y -= n
	}
	return r
}
