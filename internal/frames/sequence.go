package frames

import "image"

// Sequence is an ordered, non-empty, immutable list of equally sized frames
// with a cyclic display index.
type Sequence struct {
	frames []*image.NRGBA
	idx    int
}

// NewSequence wraps frames. An empty input is replaced by the placeholder so
// the sequence is never empty.
func NewSequence(frames []*image.NRGBA) *Sequence {
	if len(frames) == 0 {
		frames = []*image.NRGBA{Placeholder()}
	}
	own := make([]*image.NRGBA, len(frames))
	copy(own, frames)
	return &Sequence{frames: own}
}

// Len returns the number of frames
func (s *Sequence) Len() int {
	return len(s.frames)
}

// Index returns the current display index
func (s *Sequence) Index() int {
	return s.idx
}

// Current returns the frame at the display index
func (s *Sequence) Current() *image.NRGBA {
	return s.frames[s.idx]
}

// At returns frame i
func (s *Sequence) At(i int) *image.NRGBA {
	return s.frames[i]
}

// Size returns the common frame dimensions
func (s *Sequence) Size() image.Point {
	return s.frames[0].Bounds().Size()
}

// Advance moves to the next frame, wrapping at the end, and returns the new index
func (s *Sequence) Advance() int {
	s.idx = (s.idx + 1) % len(s.frames)
	return s.idx
}
