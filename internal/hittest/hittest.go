package hittest

import (
	"image"

	"github.com/genricoloni/hyprsprite/internal/frames"
)

// Tester decides whether a window-local point lands on the sprite
type Tester struct {
	frames    *frames.Sequence
	strict    bool
	threshold uint8
}

// New creates a tester over the given sequence. In strict mode only pixels
// with alpha above threshold count as hits.
func New(seq *frames.Sequence, strict bool, threshold uint8) *Tester {
	return &Tester{frames: seq, strict: strict, threshold: threshold}
}

// HitOK reports whether p (window-local) is on visible sprite content.
// Non-strict testers accept every point.
func (t *Tester) HitOK(p image.Point) bool {
	if !t.strict {
		return true
	}
	return t.alphaAt(p) > t.threshold
}

func (t *Tester) alphaAt(p image.Point) uint8 {
	f := t.frames.Current()
	if !p.In(f.Bounds()) {
		return 0
	}
	return f.NRGBAAt(p.X, p.Y).A
}
