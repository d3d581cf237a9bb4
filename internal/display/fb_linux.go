//go:build linux

package display

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"unsafe"
)

const fbioGetVScreenInfo = 0x4600

// The kernel writes the full fb_var_screeninfo struct. A raw buffer large
// enough for every kernel layout avoids an out of bounds write on arm; the
// fields we care about sit at fixed offsets.
type fbVarScreenInfo [160]byte

// FrameBuffer drives a memory mapped /dev/fb device and, when one exists,
// the matching sysfs backlight.
type FrameBuffer struct {
	file *os.File
	mem  []byte

	width  int
	height int
	bpp    int

	backlightPath string
	backlightMax  int
}

func NewFrameBuffer(device string) (*FrameBuffer, error) {
	file, err := os.OpenFile(device, os.O_RDWR, 0)
	if err != nil {
		return nil, errors.Join(err, errFramebuffer)
	}

	var info fbVarScreenInfo
	_, _, errno := syscall.Syscall(
		syscall.SYS_IOCTL,
		file.Fd(),
		uintptr(fbioGetVScreenInfo),
		uintptr(unsafe.Pointer(&info[0])),
	)
	if errno != 0 {
		_ = file.Close()

		return nil, errors.Join(fmt.Errorf("FBIOGET_VSCREENINFO: %w", errno), errFramebuffer)
	}

	fb := &FrameBuffer{
		file:   file,
		width:  int(binary.LittleEndian.Uint32(info[0:4])),
		height: int(binary.LittleEndian.Uint32(info[4:8])),
		bpp:    int(binary.LittleEndian.Uint32(info[24:28])),
	}

	size := fb.width * fb.height * fb.bpp / 8
	mem, err := syscall.Mmap(int(file.Fd()), 0, size,
		syscall.PROT_READ|syscall.PROT_WRITE, syscall.MAP_SHARED)
	if err != nil {
		_ = file.Close()

		return nil, errors.Join(err, errFramebuffer)
	}
	fb.mem = mem

	fb.findBacklight()

	slog.Debug("Framebuffer opened",
		slog.String("device", device),
		slog.Int("width", fb.width),
		slog.Int("height", fb.height),
		slog.Int("bpp", fb.bpp))

	return fb, nil
}

// findBacklight locates the first sysfs backlight. Missing backlight is
// normal on headless test rigs, brightness just becomes a no-op.
func (fb *FrameBuffer) findBacklight() {
	matches, err := filepath.Glob("/sys/class/backlight/*/brightness")
	if err != nil || len(matches) == 0 {
		return
	}

	fb.backlightPath = matches[0]
	fb.backlightMax = 255

	raw, err := os.ReadFile(filepath.Join(filepath.Dir(matches[0]), "max_brightness"))
	if err != nil {
		return
	}
	if maxVal, err := strconv.Atoi(strings.TrimSpace(string(raw))); err == nil && maxVal > 0 {
		fb.backlightMax = maxVal
	}
}

// Flush copies the frame into the mapped device memory, scaling when the
// panel resolution differs from the render canvas. Only 32bpp panels get
// the scaling path; odd depths receive a best effort prefix copy.
func (fb *FrameBuffer) Flush(frame *image.RGBA) error {
	if fb.bpp != 32 {
		n := min(len(fb.mem), len(frame.Pix))
		copy(fb.mem[:n], frame.Pix[:n])

		return nil
	}

	scaled := scaleRGBA(frame, fb.width, fb.height)
	copy(fb.mem, scaled.Pix)

	return nil
}

func (fb *FrameBuffer) SetBrightness(percent int) error {
	if fb.backlightPath == "" {
		return nil
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	value := fb.backlightMax * percent / 100

	return os.WriteFile(fb.backlightPath, []byte(strconv.Itoa(value)), 0o644)
}

func (fb *FrameBuffer) Close() error {
	var errs []error
	if fb.mem != nil {
		if err := syscall.Munmap(fb.mem); err != nil {
			errs = append(errs, err)
		}
	}
	if fb.file != nil {
		if err := fb.file.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
