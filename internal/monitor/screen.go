package monitor

import (
	"context"
	"fmt"
	"image"

	"github.com/genricoloni/hyprsprite/internal/domain"
	"github.com/kbinani/screenshot"
)

// fallbackDisplay is used when no source reports any monitor
var fallbackDisplay = domain.Display{
	Name:    "fallback",
	Bounds:  image.Rect(0, 0, 1920, 1080),
	Usable:  image.Rect(0, 0, 1920, 1080),
	Primary: true,
}

// ScreenSource reads display bounds from the X server (XWayland under
// Hyprland). It knows nothing about bars, so Usable equals Bounds.
type ScreenSource struct{}

// NewScreenSource creates a screenshot-backed display source
func NewScreenSource() *ScreenSource {
	return &ScreenSource{}
}

// Name identifies the source in logs
func (s *ScreenSource) Name() string { return "screenshot" }

// Displays lists active displays; display 0 is the primary
func (s *ScreenSource) Displays(ctx context.Context) ([]domain.Display, error) {
	n := screenshot.NumActiveDisplays()
	if n <= 0 {
		return nil, fmt.Errorf("%w: screenshot reported %d displays", ErrNoDisplays, n)
	}

	displays := make([]domain.Display, 0, n)
	for i := 0; i < n; i++ {
		bounds := screenshot.GetDisplayBounds(i)
		if bounds.Empty() {
			continue
		}
		displays = append(displays, domain.Display{
			Name:    fmt.Sprintf("display-%d", i),
			Bounds:  bounds,
			Usable:  bounds,
			Primary: i == 0,
		})
	}
	return displays, nil
}
