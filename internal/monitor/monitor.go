package monitor

import (
	"context"
	"errors"
	"image"
	"time"

	"github.com/genricoloni/hyprsprite/internal/domain"
	"go.uber.org/zap"
)

// ErrNoDisplays is returned by sources that found no usable monitor
var ErrNoDisplays = errors.New("no displays detected")

// Provider answers "which usable rectangle is the sprite on" for the event
// loop. Sources are tried in order and the result is cached for ttl, so
// per-tick lookups do not spawn processes. Not safe for concurrent use.
type Provider struct {
	logger  *zap.Logger
	clock   domain.Clock
	ttl     time.Duration
	sources []domain.DisplaySource

	cached     []domain.Display
	fetchedAt  time.Time
	lastSource string
}

// NewProvider creates a caching geometry provider
func NewProvider(logger *zap.Logger, clock domain.Clock, ttl time.Duration, sources ...domain.DisplaySource) *Provider {
	return &Provider{
		logger:  logger,
		clock:   clock,
		ttl:     ttl,
		sources: sources,
	}
}

// Displays returns the current monitor list. It never returns an empty
// slice: on total failure the last good list is kept, and before any
// success a single 1920x1080 display is assumed.
func (p *Provider) Displays(ctx context.Context) []domain.Display {
	now := p.clock.Now()
	if p.cached != nil && now.Sub(p.fetchedAt) < p.ttl {
		return p.cached
	}
	p.fetchedAt = now

	for _, src := range p.sources {
		displays, err := src.Displays(ctx)
		if err == nil && len(displays) == 0 {
			err = ErrNoDisplays
		}
		if err != nil {
			p.logger.Debug("Display source failed", zap.String("source", src.Name()), zap.Error(err))
			continue
		}
		if src.Name() != p.lastSource {
			p.logger.Info("Display geometry source selected",
				zap.String("source", src.Name()),
				zap.Int("displays", len(displays)))
			p.lastSource = src.Name()
		}
		p.cached = displays
		return displays
	}

	if p.cached == nil {
		p.logger.Warn("No display source available, falling back to 1920x1080")
		p.cached = []domain.Display{fallbackDisplay}
	}
	return p.cached
}

// ActiveRect returns the usable rectangle of the display under pointer,
// falling back to the primary display and then to the first one
func (p *Provider) ActiveRect(ctx context.Context, pointer image.Point) image.Rectangle {
	return Select(p.Displays(ctx), pointer).Usable
}

// Invalidate forces the next lookup to query the sources
func (p *Provider) Invalidate() {
	p.fetchedAt = time.Time{}
}

// Select picks the display containing pointer, else the primary, else the first
func Select(displays []domain.Display, pointer image.Point) domain.Display {
	if len(displays) == 0 {
		return fallbackDisplay
	}
	for _, d := range displays {
		if pointer.In(d.Bounds) {
			return d
		}
	}
	for _, d := range displays {
		if d.Primary {
			return d
		}
	}
	return displays[0]
}
