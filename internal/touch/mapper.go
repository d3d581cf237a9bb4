// Package touch maps fixed screen rectangles onto raw capacitive input
// channels and classifies readings into press, release, long-press and
// swipe events. One poll per device tick; all state lives here.
package touch

import (
	"log/slog"
	"time"
)

const (
	// MaxZones bounds the zone table, same budget as the pad wiring.
	MaxZones = 8
	// DefaultThreshold is the raw reading below which a pad counts as
	// touched. Lower raw value = more touched.
	DefaultThreshold = 40
	// Debounce is the minimum interval between accepted reads per zone.
	Debounce = 50 * time.Millisecond
	// LongPressAfter is how long a pad must be held for a long press.
	LongPressAfter = time.Second
	// SwipeWindow is the maximum gap between two zone presses that still
	// classifies as a swipe.
	SwipeWindow = 500 * time.Millisecond
	// SwipeMinDistance is the minimum center distance between the two
	// zones of a swipe, in pixels.
	SwipeMinDistance = 50
)

// Channel delivers the raw reading for one logical touch input.
type Channel interface {
	Read() (int, error)
}

// Zone is a fixed screen rectangle bound to one input channel.
type Zone struct {
	X, Y, W, H int
	Channel    Channel
	Name       string
	Enabled    bool
}

func (z Zone) contains(x, y int) bool {
	return x >= z.X && x < z.X+z.W && y >= z.Y && y < z.Y+z.H
}

func (z Zone) centerX() int { return z.X + z.W/2 }
func (z Zone) centerY() int { return z.Y + z.H/2 }

// state is the transient per-zone tracking re-evaluated every poll.
type state struct {
	pressed        bool
	pressedAt      time.Time
	lastReadAt     time.Time
	lastValue      int
	longPressFired bool
}

// Mapper polls all enabled zones and holds at most one pending event.
// Multiple zones firing within one poll overwrite each other, last write
// wins; see the design notes before changing that.
type Mapper struct {
	zones     [MaxZones]Zone
	states    [MaxZones]state
	pending   Event
	threshold int

	// previous press, for swipe pairing
	lastPressZone int
	lastPressAt   time.Time
}

func NewMapper() *Mapper {
	return &Mapper{
		threshold:     DefaultThreshold,
		lastPressZone: -1,
	}
}

// Configure installs a zone. Indexes outside the table are ignored.
func (m *Mapper) Configure(index, x, y, w, h int, channel Channel, name string) {
	if index < 0 || index >= MaxZones {
		return
	}

	m.zones[index] = Zone{X: x, Y: y, W: w, H: h, Channel: channel, Name: name, Enabled: true}
	m.states[index] = state{}
}

// SetEnabled toggles a zone without losing its configuration.
func (m *Mapper) SetEnabled(index int, enabled bool) {
	if index < 0 || index >= MaxZones {
		return
	}
	m.zones[index].Enabled = enabled
}

// SetThreshold adjusts the touched/untouched cutoff, driven by the
// touch_sensitivity setting.
func (m *Mapper) SetThreshold(threshold int) {
	if threshold > 0 {
		m.threshold = threshold
	}
}

// Zones returns a snapshot of the configured zone table.
func (m *Mapper) Zones() []Zone {
	out := make([]Zone, MaxZones)
	copy(out, m.zones[:])

	return out
}

// ZoneAt returns the index of the smallest enabled zone containing the
// point. Zones overlap (the settings corner sits inside the header), the
// most specific one wins.
func (m *Mapper) ZoneAt(x, y int) (int, bool) {
	best := -1
	bestArea := 0
	for i, zone := range m.zones {
		if !zone.Enabled || zone.Channel == nil || !zone.contains(x, y) {
			continue
		}
		area := zone.W * zone.H
		if best == -1 || area < bestArea {
			best = i
			bestArea = area
		}
	}

	return best, best != -1
}

// IsPressed reports the live pressed state of a zone.
func (m *Mapper) IsPressed(index int) bool {
	if index < 0 || index >= MaxZones {
		return false
	}

	return m.states[index].pressed
}

// Poll reads every enabled zone once and updates the pending event slot.
// Reads inside a zone's debounce window are skipped entirely.
func (m *Mapper) Poll(now time.Time) {
	for i := range m.zones {
		zone := &m.zones[i]
		if !zone.Enabled || zone.Channel == nil {
			continue
		}

		zs := &m.states[i]
		if now.Sub(zs.lastReadAt) < Debounce {
			continue
		}

		raw, err := zone.Channel.Read()
		if err != nil {
			slog.Debug("Touch channel read failed",
				slog.String("zone", zone.Name), slog.String("error", err.Error()))

			continue
		}

		zs.lastReadAt = now
		zs.lastValue = raw

		touched := raw < m.threshold
		switch {
		case touched && !zs.pressed:
			m.onPressEdge(i, now)
		case !touched && zs.pressed:
			m.onReleaseEdge(i, now)
		case touched && zs.pressed:
			m.onHeld(i, now)
		}
	}
}

// PopEvent returns the pending event and clears the slot. At most one
// event is delivered per call; None means nothing happened.
func (m *Mapper) PopEvent() Event {
	event := m.pending
	m.pending = Event{Kind: None, Zone: -1}

	return event
}

// Reset clears all transient state, e.g. after waking the display.
func (m *Mapper) Reset() {
	for i := range m.states {
		m.states[i] = state{}
	}
	m.pending = Event{Kind: None, Zone: -1}
	m.lastPressZone = -1
}

func (m *Mapper) onPressEdge(index int, now time.Time) {
	zs := &m.states[index]
	zs.pressed = true
	zs.pressedAt = now
	zs.longPressFired = false

	// Two presses on distinct zones inside the swipe window pair up into
	// a swipe, direction taken from the travel between zone centers.
	if m.lastPressZone >= 0 && m.lastPressZone != index &&
		now.Sub(m.lastPressAt) <= SwipeWindow {
		if kind, ok := m.classifySwipe(m.lastPressZone, index); ok {
			m.emit(kind, index, now)
			m.lastPressZone = index
			m.lastPressAt = now

			return
		}
	}

	m.lastPressZone = index
	m.lastPressAt = now
	m.emit(Press, index, now)
}

func (m *Mapper) onReleaseEdge(index int, now time.Time) {
	zs := &m.states[index]
	zs.pressed = false

	held := now.Sub(zs.pressedAt)
	if held >= LongPressAfter && !zs.longPressFired {
		m.emit(LongPress, index, now)

		return
	}

	m.emit(Release, index, now)
}

func (m *Mapper) onHeld(index int, now time.Time) {
	zs := &m.states[index]
	if zs.longPressFired {
		return
	}
	if now.Sub(zs.pressedAt) < LongPressAfter {
		return
	}

	// Fires at most once per press span.
	zs.longPressFired = true
	m.emit(LongPress, index, now)
}

func (m *Mapper) classifySwipe(from, to int) (Kind, bool) {
	src, dst := m.zones[from], m.zones[to]
	dx := dst.centerX() - src.centerX()
	dy := dst.centerY() - src.centerY()

	abs := func(v int) int {
		if v < 0 {
			return -v
		}

		return v
	}

	if abs(dx) < SwipeMinDistance && abs(dy) < SwipeMinDistance {
		return None, false
	}

	if abs(dx) >= abs(dy) {
		if dx > 0 {
			return SwipeRight, true
		}

		return SwipeLeft, true
	}
	if dy > 0 {
		return SwipeDown, true
	}

	return SwipeUp, true
}

func (m *Mapper) emit(kind Kind, index int, now time.Time) {
	zone := m.zones[index]
	m.pending = Event{
		Kind:     kind,
		Zone:     index,
		ZoneName: zone.Name,
		At:       now,
		X:        zone.centerX(),
		Y:        zone.centerY(),
	}
}
