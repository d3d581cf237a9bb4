// Package theme holds the fixed color palettes the renderer draws with.
// Palettes are selected by index from the settings store; the table itself
// is immutable after init.
package theme

import "image/color"

var (
	black      = color.RGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xFF}
	white      = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	orange     = color.RGBA{R: 0xFF, G: 0x8C, B: 0x00, A: 0xFF}
	green      = color.RGBA{R: 0x00, G: 0xC8, B: 0x50, A: 0xFF}
	grayLight  = color.RGBA{R: 0x7A, G: 0x7A, B: 0x7A, A: 0xFF}
	grayMedium = color.RGBA{R: 0x50, G: 0x50, B: 0x50, A: 0xFF}
	grayDark   = color.RGBA{R: 0x28, G: 0x28, B: 0x28, A: 0xFF}
)

// Theme is one complete palette. Field roles mirror how the screens use
// them: Primary fills headers and active indicators, Surface backs the
// status bar, the Text* trio covers label emphasis levels.
type Theme struct {
	Name string

	Primary   color.RGBA
	Secondary color.RGBA
	Accent    color.RGBA

	Background color.RGBA
	Surface    color.RGBA
	Card       color.RGBA

	TextPrimary   color.RGBA
	TextSecondary color.RGBA
	TextDisabled  color.RGBA

	Success color.RGBA
	Warning color.RGBA
	Error   color.RGBA
	Info    color.RGBA

	Border    color.RGBA
	Highlight color.RGBA
	Disabled  color.RGBA
}

// Dark themes only. The panel is battery powered, light backgrounds cost
// real runtime.
var registry = []Theme{
	{
		Name:          "Orange Focus",
		Primary:       orange,
		Secondary:     green,
		Accent:        orange,
		Background:    black,
		Surface:       grayDark,
		Card:          grayMedium,
		TextPrimary:   white,
		TextSecondary: grayLight,
		TextDisabled:  grayMedium,
		Success:       green,
		Warning:       orange,
		Error:         orange,
		Info:          green,
		Border:        grayMedium,
		Highlight:     orange,
		Disabled:      grayDark,
	},
	{
		Name:          "Green Focus",
		Primary:       green,
		Secondary:     orange,
		Accent:        green,
		Background:    black,
		Surface:       grayDark,
		Card:          grayMedium,
		TextPrimary:   white,
		TextSecondary: grayLight,
		TextDisabled:  grayMedium,
		Success:       green,
		Warning:       orange,
		Error:         orange,
		Info:          green,
		Border:        grayMedium,
		Highlight:     green,
		Disabled:      grayDark,
	},
}

// Count returns the number of selectable themes.
func Count() int {
	return len(registry)
}

// ByIndex returns the theme at index, clamping out of range requests to
// the nearest valid entry. A bad persisted index must never take the UI
// down.
func ByIndex(index int) Theme {
	if index < 0 {
		index = 0
	}
	if index >= len(registry) {
		index = len(registry) - 1
	}

	return registry[index]
}

// Name returns the display name for a theme index.
func Name(index int) string {
	return ByIndex(index).Name
}
