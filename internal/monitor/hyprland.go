package monitor

import (
	"context"

	"github.com/genricoloni/hyprsprite/internal/domain"
	"github.com/genricoloni/hyprsprite/internal/hyprctl"
)

// HyprlandSource reads monitors, including reserved bar areas, from hyprctl
type HyprlandSource struct {
	client *hyprctl.Client
}

// NewHyprlandSource creates a hyprctl-backed display source
func NewHyprlandSource(client *hyprctl.Client) *HyprlandSource {
	return &HyprlandSource{client: client}
}

// Name identifies the source in logs
func (s *HyprlandSource) Name() string { return "hyprctl" }

// Displays lists enabled monitors; the focused one is primary
func (s *HyprlandSource) Displays(ctx context.Context) ([]domain.Display, error) {
	return s.client.Monitors(ctx)
}
