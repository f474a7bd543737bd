package sprite

import "image"

// Menu item metrics, sized for ebiten's 6x16 debug font
const (
	MenuLabel   = "Quit"
	MenuPadding = 4
	menuGlyphW  = 6
	menuGlyphH  = 16
)

type menu struct {
	open bool
	item image.Rectangle
}

// openAt shows the menu with its top-left at p, shifted so it stays inside
// a window of the given size where possible.
func (m *menu) openAt(p image.Point, window image.Point) {
	w := len(MenuLabel)*menuGlyphW + 2*MenuPadding
	h := menuGlyphH + 2*MenuPadding

	x := max(0, min(p.X, window.X-w))
	y := max(0, min(p.Y, window.Y-h))
	m.item = image.Rect(x, y, x+w, y+h)
	m.open = true
}

func (m *menu) close() {
	m.open = false
	m.item = image.Rectangle{}
}

func (m *menu) hit(p image.Point) bool {
	return m.open && p.In(m.item)
}
