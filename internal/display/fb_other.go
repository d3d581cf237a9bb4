//go:build !linux

package display

import "image"

// FrameBuffer only exists on Linux. The stub keeps the factory compiling
// everywhere; Open falls through to the terminal simulator.
type FrameBuffer struct{}

func NewFrameBuffer(string) (*FrameBuffer, error) {
	return nil, errUnsupported
}

func (fb *FrameBuffer) Flush(*image.RGBA) error { return errUnsupported }
func (fb *FrameBuffer) SetBrightness(int) error { return errUnsupported }
func (fb *FrameBuffer) Close() error            { return nil }
