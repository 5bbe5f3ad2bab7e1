// Package screen defines what the router needs from a TUI screen.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/englifish/englifish/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// StatusProvider supplies the right-hand side of the header, such as the
// running score.
type StatusProvider interface {
	Status() string
}

// Revealer is notified when the screens above it are popped.
type Revealer interface {
	Revealed() tea.Cmd
}

// EscapeHandler screens handle Esc themselves instead of being popped.
type EscapeHandler interface {
	HandlesEscape() bool
}
