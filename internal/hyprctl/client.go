// Package hyprctl queries Hyprland state through the hyprctl JSON interface.
package hyprctl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/genricoloni/hyprsprite/internal/domain"
	"github.com/genricoloni/hyprsprite/internal/executor"
)

// ErrMalformed is returned when hyprctl output cannot be interpreted
var ErrMalformed = errors.New("malformed hyprctl output")

// Client wraps a CommandRunner with typed Hyprland queries
type Client struct {
	runner executor.CommandRunner
}

// NewClient creates a hyprctl client
func NewClient(runner executor.CommandRunner) *Client {
	return &Client{runner: runner}
}

type workspaceRef struct {
	ID *int `json:"id"`
}

type clientJSON struct {
	Title     string       `json:"title"`
	Workspace workspaceRef `json:"workspace"`
}

type monitorJSON struct {
	Name      string  `json:"name"`
	X         int     `json:"x"`
	Y         int     `json:"y"`
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	Scale     float64 `json:"scale"`
	Transform int     `json:"transform"`
	Reserved  []int   `json:"reserved"`
	Focused   bool    `json:"focused"`
	Disabled  bool    `json:"disabled"`
}

// ActiveWorkspace returns the id of the focused workspace
func (c *Client) ActiveWorkspace(ctx context.Context) (int, error) {
	out, err := c.runner.Query(ctx, "activeworkspace")
	if err != nil {
		return domain.NoWorkspace, err
	}

	var ws workspaceRef
	if err := json.Unmarshal(out, &ws); err != nil {
		return domain.NoWorkspace, fmt.Errorf("%w: activeworkspace: %v", ErrMalformed, err)
	}
	if ws.ID == nil {
		return domain.NoWorkspace, fmt.Errorf("%w: activeworkspace has no id", ErrMalformed)
	}
	return *ws.ID, nil
}

// Clients returns every mapped client that has a workspace. Entries without
// a workspace id are skipped, except sprite windows: a sprite whose workspace
// is unknown fails the whole call so the watcher never counts it as absent.
func (c *Client) Clients(ctx context.Context) ([]domain.Client, error) {
	out, err := c.runner.Query(ctx, "clients")
	if err != nil {
		return nil, err
	}

	var raw []clientJSON
	if err := json.Unmarshal(out, &raw); err != nil {
		return nil, fmt.Errorf("%w: clients: %v", ErrMalformed, err)
	}

	clients := make([]domain.Client, 0, len(raw))
	for i, cj := range raw {
		if cj.Workspace.ID == nil {
			if cj.Title == domain.WindowTitle {
				return nil, fmt.Errorf("%w: sprite client %d has no workspace id", ErrMalformed, i)
			}
			continue
		}
		clients = append(clients, domain.Client{Title: cj.Title, WorkspaceID: *cj.Workspace.ID})
	}
	return clients, nil
}

// Monitors returns every enabled monitor in layout coordinates. The usable
// area excludes the reserved edges (bars, docks) Hyprland reports.
func (c *Client) Monitors(ctx context.Context) ([]domain.Display, error) {
	out, err := c.runner.Query(ctx, "monitors")
	if err != nil {
		return nil, err
	}

	var raw []monitorJSON
	if err := json.Unmarshal(out, &raw); err != nil {
		return nil, fmt.Errorf("%w: monitors: %v", ErrMalformed, err)
	}

	displays := make([]domain.Display, 0, len(raw))
	for _, m := range raw {
		if m.Disabled {
			continue
		}
		displays = append(displays, m.display())
	}
	return displays, nil
}

// display converts pixel dimensions to logical layout size. Odd transforms
// are 90/270 degree rotations and swap the axes.
func (m monitorJSON) display() domain.Display {
	scale := m.Scale
	if scale <= 0 {
		scale = 1
	}
	w := int(math.Round(float64(m.Width) / scale))
	h := int(math.Round(float64(m.Height) / scale))
	if m.Transform%2 == 1 {
		w, h = h, w
	}

	bounds := image.Rect(m.X, m.Y, m.X+w, m.Y+h)
	usable := bounds
	if len(m.Reserved) == 4 {
		x0, y0 := bounds.Min.X+m.Reserved[0], bounds.Min.Y+m.Reserved[1]
		x1, y1 := bounds.Max.X-m.Reserved[2], bounds.Max.Y-m.Reserved[3]
		// Reservations that swallow the monitor are ignored
		if x0 < x1 && y0 < y1 {
			usable = image.Rectangle{Min: image.Pt(x0, y0), Max: image.Pt(x1, y1)}
		}
	}

	return domain.Display{
		Name:    m.Name,
		Bounds:  bounds,
		Usable:  usable,
		Primary: m.Focused,
	}
}
