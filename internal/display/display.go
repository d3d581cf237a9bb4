// Package display abstracts the panel output. Backends take finished RGBA
// frames from the renderer and put them on real or simulated hardware.
package display

import (
	"errors"
	"image"
)

var (
	errUnknownBackend = errors.New("unknown display backend")
	errUnsupported    = errors.New("display backend not supported on this platform")
	errFramebuffer    = errors.New("failed to open framebuffer")
	errEPaper         = errors.New("failed to initialize e-paper panel")
)

// Display is the output side of the device loop. Flush pushes one finished
// frame; SetBrightness is a no-op on panels without a backlight.
type Display interface {
	Flush(frame *image.RGBA) error
	SetBrightness(percent int) error
	Close() error
}

// Open creates the named backend. "auto" tries the framebuffer first and
// falls back to the terminal simulator, so the same binary runs on the
// panel and on a dev box.
func Open(kind string) (Display, error) {
	switch kind {
	case "fb":
		return NewFrameBuffer("/dev/fb0")
	case "epd":
		return NewEPaper()
	case "term":
		return NewTerm(), nil
	case "auto", "":
		if fb, err := NewFrameBuffer("/dev/fb0"); err == nil {
			return fb, nil
		}

		return NewTerm(), nil
	default:
		return nil, errUnknownBackend
	}
}

// scaleRGBA resamples src into a w by h frame with nearest neighbour. Used
// by backends whose hardware resolution differs from the render canvas.
func scaleRGBA(src *image.RGBA, w, h int) *image.RGBA {
	srcW := src.Bounds().Dx()
	srcH := src.Bounds().Dy()
	if srcW == w && srcH == h {
		return src
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	for dy := range h {
		sy := dy * srcH / h
		for dx := range w {
			sx := dx * srcW / w
			dst.SetRGBA(dx, dy, src.RGBAAt(sx, sy))
		}
	}

	return dst
}
