package hw

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
)

// Raw values reported by a digital pad. The mapper treats readings under
// its threshold as touched, so a low pin maps to zero.
const (
	gpioRawTouched = 0
	gpioRawIdle    = 100
)

// GPIOPad reads a capacitive touch breakout wired to a digital pin. The
// breakout pulls the line low while touched.
type GPIOPad struct {
	pin gpio.PinIO
}

func NewGPIOPad(name string) (*GPIOPad, error) {
	if err := Init(); err != nil {
		return nil, err
	}

	pin := gpioreg.ByName(name)
	if pin == nil {
		return nil, fmt.Errorf("%w: %s", errPinUnknown, name)
	}
	if err := pin.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("configure %s: %w", name, err)
	}

	return &GPIOPad{pin: pin}, nil
}

func (p *GPIOPad) Read() (int, error) {
	if p.pin.Read() == gpio.Low {
		return gpioRawTouched, nil
	}

	return gpioRawIdle, nil
}
