// Package ui hosts the sprite in an undecorated, transparent, always-on-top
// ebiten window.
package ui

import (
	"context"
	"errors"
	"image"
	"image/color"
	"time"

	"github.com/genricoloni/hyprsprite/internal/config"
	"github.com/genricoloni/hyprsprite/internal/domain"
	"github.com/genricoloni/hyprsprite/internal/motion"
	"github.com/genricoloni/hyprsprite/internal/sprite"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"go.uber.org/zap"
)

const x11Class = "hyprsprite"

var (
	menuFill   = color.NRGBA{R: 0x22, G: 0x22, B: 0x22, A: 230}
	menuBorder = color.NRGBA{R: 0xee, G: 0xee, B: 0xee, A: 255}
)

var buttons = []struct {
	key    ebiten.MouseButton
	button motion.Button
}{
	{ebiten.MouseButtonLeft, motion.ButtonPrimary},
	{ebiten.MouseButtonRight, motion.ButtonSecondary},
	{ebiten.MouseButtonMiddle, motion.ButtonMiddle},
}

// Window implements ebiten.Game around a sprite controller
type Window struct {
	logger *zap.Logger
	ctrl   *sprite.Controller
	tps    int

	ctx    context.Context
	images map[*image.NRGBA]*ebiten.Image
	placed image.Point
	moved  bool
}

// NewWindow creates the window adapter. The tick rate follows the movement step.
func NewWindow(logger *zap.Logger, cfg config.SpriteConfig, ctrl *sprite.Controller) *Window {
	tps := int(time.Second / cfg.StepPeriod)
	if tps < 1 {
		tps = 1
	}
	return &Window{
		logger: logger,
		ctrl:   ctrl,
		tps:    tps,
		images: make(map[*image.NRGBA]*ebiten.Image),
	}
}

// Run blocks on the ebiten loop until the context is cancelled, Quit is
// chosen or the window is closed. Must be called from the main goroutine.
func (w *Window) Run(ctx context.Context) error {
	w.ctx = ctx
	size := w.ctrl.Size()

	ebiten.SetWindowDecorated(false)
	ebiten.SetWindowFloating(true)
	ebiten.SetWindowTitle(domain.WindowTitle)
	ebiten.SetWindowSize(size.X, size.Y)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeDisabled)
	ebiten.SetTPS(w.tps)

	w.logger.Info("Sprite window starting",
		zap.Int("width", size.X),
		zap.Int("height", size.Y),
		zap.Int("tps", w.tps))

	err := ebiten.RunGameWithOptions(w, &ebiten.RunGameOptions{
		ScreenTransparent: true,
		SkipTaskbar:       true,
		X11ClassName:      x11Class,
		X11InstanceName:   x11Class,
	})
	if errors.Is(err, sprite.ErrQuit) {
		return nil
	}
	return err
}

// Update implements ebiten.Game
func (w *Window) Update() error {
	if w.ctx.Err() != nil {
		return ebiten.Termination
	}

	cx, cy := ebiten.CursorPosition()
	wx, wy := ebiten.WindowPosition()
	in := sprite.Input{
		Cursor: image.Pt(cx, cy),
		Origin: image.Pt(wx, wy),
	}
	for _, b := range buttons {
		if inpututil.IsMouseButtonJustPressed(b.key) {
			in.Pressed = append(in.Pressed, b.button)
		}
		if inpututil.IsMouseButtonJustReleased(b.key) {
			in.Released = append(in.Released, b.button)
		}
	}

	if err := w.ctrl.Update(w.ctx, in); err != nil {
		return err
	}

	if pos := w.ctrl.Position(); !w.moved || pos != w.placed {
		ebiten.SetWindowPosition(pos.X, pos.Y)
		w.placed = pos
		w.moved = true
	}
	return nil
}

// Draw implements ebiten.Game
func (w *Window) Draw(screen *ebiten.Image) {
	screen.DrawImage(w.texture(w.ctrl.Frame()), nil)

	if item, open := w.ctrl.Menu(); open {
		x, y := float32(item.Min.X), float32(item.Min.Y)
		dx, dy := float32(item.Dx()), float32(item.Dy())
		vector.DrawFilledRect(screen, x, y, dx, dy, menuFill, false)
		vector.StrokeRect(screen, x, y, dx, dy, 1, menuBorder, false)
		ebitenutil.DebugPrintAt(screen, sprite.MenuLabel, item.Min.X+sprite.MenuPadding, item.Min.Y+sprite.MenuPadding)
	}

	w.ctrl.NotifyDrawn()
}

// Layout implements ebiten.Game
func (w *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	size := w.ctrl.Size()
	return size.X, size.Y
}

// texture returns the GPU copy of a frame, uploading it on first use
func (w *Window) texture(f *image.NRGBA) *ebiten.Image {
	if img, ok := w.images[f]; ok {
		return img
	}
	img := ebiten.NewImageFromImage(f)
	w.images[f] = img
	return img
}
