// Package hw holds the hardware-facing touch inputs: capacitive pads on
// GPIO and the I2C touch controller. Everything funnels into the plain
// raw-reading channel shape the touch mapper polls.
package hw

import (
	"errors"
	"sync"

	"periph.io/x/host/v3"
)

var (
	errHostInit   = errors.New("failed to initialize peripheral host")
	errPinUnknown = errors.New("unknown gpio pin")
)

var hostOnce sync.Once

// Init loads the periph host drivers. Safe to call from every constructor;
// only the first call does work.
func Init() error {
	var initErr error
	hostOnce.Do(func() {
		if _, err := host.Init(); err != nil {
			initErr = errors.Join(err, errHostInit)
		}
	})

	return initErr
}
