package display

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"log/slog"
	"time"

	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/devices/v3/waveshare2in13v4"
	"periph.io/x/host/v3"
)

// E-ink cannot keep up with the 1s redraw cadence and wears out when
// hammered, so frames inside this window are dropped.
const epdMinFlushInterval = 2 * time.Second

// EPaper drives a Waveshare 2.13" HAT. Frames are downscaled, thresholded
// to 1-bit and rotated into the panel's portrait orientation.
type EPaper struct {
	port      spi.PortCloser
	dev       *waveshare2in13v4.Dev
	lastFlush time.Time
}

func NewEPaper() (*EPaper, error) {
	if _, err := host.Init(); err != nil {
		return nil, errors.Join(err, errEPaper)
	}

	port, err := spireg.Open("")
	if err != nil {
		return nil, errors.Join(err, errEPaper)
	}

	opts := waveshare2in13v4.EPD2in13v4
	dev, err := waveshare2in13v4.NewHat(port, &opts)
	if err != nil {
		_ = port.Close()

		return nil, errors.Join(err, errEPaper)
	}

	if err := dev.Init(); err != nil {
		_ = port.Close()

		return nil, errors.Join(err, errEPaper)
	}
	if err := dev.Clear(color.White); err != nil {
		_ = port.Close()

		return nil, errors.Join(err, errEPaper)
	}

	slog.Debug("E-paper panel initialized", slog.String("bounds", dev.Bounds().String()))

	return &EPaper{port: port, dev: dev}, nil
}

func (e *EPaper) Flush(frame *image.RGBA) error {
	now := time.Now()
	if now.Sub(e.lastFlush) < epdMinFlushInterval {
		return nil
	}
	e.lastFlush = now

	bounds := e.dev.Bounds()
	// Panel reports portrait bounds; render landscape then rotate.
	landscape := toGray(scaleRGBA(frame, bounds.Dy(), bounds.Dx()))
	portrait := rotateGray(landscape)

	img := image1bit.NewVerticalLSB(bounds)
	draw.Draw(img, img.Bounds(), portrait, image.Point{}, draw.Src)

	return e.dev.Draw(bounds, img, image.Point{})
}

// SetBrightness is a no-op, e-ink has no backlight.
func (e *EPaper) SetBrightness(int) error { return nil }

func (e *EPaper) Close() error {
	var errs []error
	if err := e.dev.Clear(color.White); err != nil {
		errs = append(errs, err)
	}
	if err := e.dev.Halt(); err != nil {
		errs = append(errs, err)
	}
	if err := e.port.Close(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// toGray converts a color frame to thresholded grayscale. Luma above the
// midpoint becomes white so the dark dashboard themes invert cleanly.
func toGray(src *image.RGBA) *image.Gray {
	bounds := src.Bounds()
	dst := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			px := src.RGBAAt(x, y)
			luma := (299*int(px.R) + 587*int(px.G) + 114*int(px.B)) / 1000
			if luma >= 128 {
				dst.SetGray(x, y, color.Gray{Y: 255})
			} else {
				dst.SetGray(x, y, color.Gray{Y: 0})
			}
		}
	}

	return dst
}

// rotateGray turns a landscape frame 90 degrees clockwise into portrait.
func rotateGray(src *image.Gray) *image.Gray {
	w := src.Bounds().Dx()
	h := src.Bounds().Dy()
	dst := image.NewGray(image.Rect(0, 0, h, w))
	for y := range w {
		for x := range h {
			dst.SetGray(x, y, src.GrayAt(y, h-1-x))
		}
	}

	return dst
}
