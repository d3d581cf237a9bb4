package hw

import (
	"errors"
	"sync"
	"time"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
)

// GT1151 register map.
const (
	capTouchAddr   = 0x14
	regTouchStatus = 0x814E
	regTouchData   = 0x814F
)

var errCapTouch = errors.New("failed to open touch controller")

// Point is one coordinate report from the touch controller.
type Point struct {
	X int
	Y int
}

// CapTouch polls a GT1151 capacitive touch controller over I2C. It reports
// coordinates; the bridge turns them into zone pad touches.
type CapTouch struct {
	bus i2c.BusCloser
	dev *i2c.Dev

	maxX int
	maxY int
}

func NewCapTouch(busName string, maxX, maxY int) (*CapTouch, error) {
	if err := Init(); err != nil {
		return nil, err
	}

	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, errors.Join(err, errCapTouch)
	}

	return &CapTouch{
		bus:  bus,
		dev:  &i2c.Dev{Bus: bus, Addr: capTouchAddr},
		maxX: maxX,
		maxY: maxY,
	}, nil
}

func (c *CapTouch) Close() error {
	return c.bus.Close()
}

func (c *CapTouch) read(reg uint16, n int) ([]byte, error) {
	w := []byte{byte(reg >> 8), byte(reg & 0xFF)}
	r := make([]byte, n)
	if err := c.dev.Tx(w, r); err != nil {
		return nil, err
	}

	return r, nil
}

func (c *CapTouch) write(reg uint16, b byte) error {
	return c.dev.Tx([]byte{byte(reg >> 8), byte(reg & 0xFF), b}, nil)
}

// Poll reads one coordinate if a touch is pending. Returns nil without
// error when nothing is touching the panel.
func (c *CapTouch) Poll() (*Point, error) {
	status, err := c.read(regTouchStatus, 1)
	if err != nil {
		return nil, err
	}
	if status[0]&0x80 == 0 {
		return nil, nil
	}

	count := int(status[0] & 0x0F)
	if count < 1 || count > 5 {
		_ = c.write(regTouchStatus, 0x00)

		return nil, nil
	}

	data, err := c.read(regTouchData, count*8)
	if err != nil {
		return nil, err
	}
	_ = c.write(regTouchStatus, 0x00)

	x := int(data[1]) | int(data[2])<<8
	y := int(data[3]) | int(data[4])<<8
	if x < 0 || x > c.maxX || y < 0 || y > c.maxY {
		return nil, nil
	}

	return &Point{X: x, Y: y}, nil
}

// SyntheticPad is a zone channel fed by coordinate input instead of a real
// pad. A routed touch holds it down for one hold window.
type SyntheticPad struct {
	mu    sync.Mutex
	until time.Time
}

const syntheticHold = 120 * time.Millisecond

func (p *SyntheticPad) Read() (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if time.Now().Before(p.until) {
		return gpioRawTouched, nil
	}

	return gpioRawIdle, nil
}

func (p *SyntheticPad) touch(d time.Duration) {
	p.mu.Lock()
	p.until = time.Now().Add(d)
	p.mu.Unlock()
}

// Bridge converts coordinate touches into per-zone pad state so the mapper
// can treat a coordinate controller and discrete pads identically.
type Bridge struct {
	pads []*SyntheticPad
}

func NewBridge(zones int) *Bridge {
	bridge := &Bridge{pads: make([]*SyntheticPad, zones)}
	for i := range bridge.pads {
		bridge.pads[i] = &SyntheticPad{}
	}

	return bridge
}

// Pad returns the synthetic channel for a zone index.
func (b *Bridge) Pad(index int) *SyntheticPad {
	return b.pads[index]
}

// Route presses the pad for the zone containing the point. zoneAt is the
// mapper's hit test; points outside every zone are dropped.
func (b *Bridge) Route(x, y int, zoneAt func(x, y int) (int, bool)) {
	index, ok := zoneAt(x, y)
	if !ok || index < 0 || index >= len(b.pads) {
		return
	}
	b.pads[index].touch(syntheticHold)
}
