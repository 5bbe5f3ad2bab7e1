package home

import (
	"charm.land/lipgloss/v2"

	"github.com/englifish/englifish/internal/ui/theme"
)

// MascotVariant selects which mascot art to display.
type MascotVariant int

const (
	MascotIdle  MascotVariant = iota // Default blue fish
	MascotAlert                      // Orange, open mouth: content failed to load
)

const mascotIdle = `   ,-----.
  / ◉     \  /|
 <    ‿    >=<
  \       /  \|
   '-----'`

const mascotAlert = `   ,-----.    !
  / ◉     \  /|
 <    o    >=<
  \       /  \|
   '-----'`

// RenderMascot returns the mascot ASCII art for the given variant.
func RenderMascot(variant ...MascotVariant) string {
	v := MascotIdle
	if len(variant) > 0 {
		v = variant[0]
	}

	art := mascotIdle
	fg := theme.ArcadeCyan
	if v == MascotAlert {
		art = mascotAlert
		fg = theme.Accent
	}

	return lipgloss.NewStyle().
		Foreground(fg).
		Render(art)
}
