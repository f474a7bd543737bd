package domain

import "image"

// WindowTitle is the title every sprite window carries. The watcher matches
// client titles against it, so it must be identical across instances.
const WindowTitle = "HyprSprite"

// Display describes one monitor in desktop coordinates
type Display struct {
	// Name of the output (e.g., "DP-1")
	Name string
	// Bounds is the full monitor rectangle
	Bounds image.Rectangle
	// Usable is Bounds minus reserved areas such as bars and docks
	Usable image.Rectangle
	// Primary marks the fallback monitor when the pointer is on none
	Primary bool
}

// Client is a window as reported by the compositor
type Client struct {
	Title       string
	WorkspaceID int
}

// NoWorkspace is returned in place of a workspace id when none could be determined
const NoWorkspace = -1
