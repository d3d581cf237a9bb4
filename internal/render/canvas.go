// Package render draws the dashboard into an offscreen RGBA frame and
// dispatches per-screen draw routines. Display backends only ever see the
// finished frame.
package render

import (
	"image"
	"image/color"
	"image/draw"
	"strings"
	"unicode/utf8"

	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/inconsolata"
	"golang.org/x/image/math/fixed"
)

// Design resolution of the panel. Backends scale if their hardware
// differs.
const (
	Width  = 300
	Height = 168
)

// FontSize selects one of the two bundled monospace faces.
type FontSize int

const (
	FontSmall  FontSize = iota // 7x13 basicfont
	FontMedium                 // 8x16 inconsolata
)

func face(size FontSize) font.Face {
	if size == FontMedium {
		return inconsolata.Regular8x16
	}

	return basicfont.Face7x13
}

func advance(size FontSize) int {
	if size == FontMedium {
		return 8
	}

	return 7
}

func lineHeight(size FontSize) int {
	if size == FontMedium {
		return 16
	}

	return 13
}

// Canvas is a pixel buffer with the handful of primitives the screens
// need. Not safe for concurrent use; the device loop owns it.
type Canvas struct {
	img *image.RGBA
}

func NewCanvas() *Canvas {
	return &Canvas{img: image.NewRGBA(image.Rect(0, 0, Width, Height))}
}

// Image exposes the backing frame for display backends.
func (c *Canvas) Image() *image.RGBA {
	return c.img
}

// Clear fills the whole frame with one color.
func (c *Canvas) Clear(col color.RGBA) {
	draw.Draw(c.img, c.img.Bounds(), &image.Uniform{C: col}, image.Point{}, draw.Src)
}

// FillRect fills the rectangle, clipped to the frame.
func (c *Canvas) FillRect(x, y, w, h int, col color.RGBA) {
	rect := image.Rect(x, y, x+w, y+h).Intersect(c.img.Bounds())
	if rect.Empty() {
		return
	}
	draw.Draw(c.img, rect, &image.Uniform{C: col}, image.Point{}, draw.Src)
}

// HLine draws a one pixel horizontal rule.
func (c *Canvas) HLine(x, y, w int, col color.RGBA) {
	c.FillRect(x, y, w, 1, col)
}

// DrawString renders text with its top-left corner at (x, y).
func (c *Canvas) DrawString(x, y int, text string, col color.RGBA, size FontSize) {
	f := face(size)
	metrics := f.Metrics()
	drawer := font.Drawer{
		Dst:  c.img,
		Src:  &image.Uniform{C: col},
		Face: f,
		Dot:  fixed.P(x, y+metrics.Ascent.Round()),
	}
	drawer.DrawString(text)
}

// StringWidth returns the pixel width of text in the given face. Both
// faces are monospace so this is a plain multiply over runes, not bytes.
func (c *Canvas) StringWidth(text string, size FontSize) int {
	return utf8.RuneCountInString(text) * advance(size)
}

// DrawCentered renders text horizontally centered in [x, x+w).
func (c *Canvas) DrawCentered(x, y, w int, text string, col color.RGBA, size FontSize) {
	offset := (w - c.StringWidth(text, size)) / 2
	if offset < 0 {
		offset = 0
	}
	c.DrawString(x+offset, y, text, col, size)
}

// DrawWrapped word-wraps text into a column of maxWidth pixels starting at
// (x, y) and returns the y coordinate below the last line.
func (c *Canvas) DrawWrapped(x, y, maxWidth int, text string, col color.RGBA, size FontSize) int {
	cols := maxWidth / advance(size)
	if cols < 1 {
		cols = 1
	}

	wrapped := wordwrap.String(text, cols)
	for _, line := range strings.Split(wrapped, "\n") {
		c.DrawString(x, y, line, col, size)
		y += lineHeight(size)
	}

	return y
}

// DrawBar renders a horizontal progress bar: track plus filled portion of
// percent (0-100).
func (c *Canvas) DrawBar(x, y, w, h, percent int, track, fill color.RGBA) {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	c.FillRect(x, y, w, h, track)
	filled := w * percent / 100
	if filled > 0 {
		c.FillRect(x, y, filled, h, fill)
	}
}
