package screen

import (
	"log/slog"
	"time"
)

// refreshInterval is how long a screen may go without a redraw even when
// nothing marked it dirty. Sensor values and the clock drift underneath us.
const refreshInterval = time.Second

// Navigator owns the registry and the active index. It is not safe for
// concurrent use; the device loop is the only caller.
type Navigator struct {
	screens     [Total]Screen
	active      int
	prior       int
	navigatedAt time.Time
	lastRedraw  time.Time
}

func NewNavigator(now time.Time) *Navigator {
	return &Navigator{
		screens:     newRegistry(),
		navigatedAt: now,
		lastRedraw:  now,
	}
}

// Active returns a copy of the currently active screen. Exactly one screen
// is active at all times.
func (n *Navigator) Active() Screen {
	return n.screens[n.active]
}

// Prior returns the index that was active before the last switch.
func (n *Navigator) Prior() ID {
	return ID(n.prior)
}

// Screens returns a snapshot of the registry, in navigation order.
func (n *Navigator) Screens() []Screen {
	out := make([]Screen, Total)
	copy(out, n.screens[:])

	return out
}

// SetEnabled toggles a screen in or out of the navigation cycle. Disabling
// the active screen is allowed; it stays visible until the next switch.
func (n *Navigator) SetEnabled(id ID, enabled bool) {
	if id < 0 || int(id) >= Total {
		return
	}
	n.screens[id].Enabled = enabled
}

// SwitchTo activates the requested screen. Requests for an out of range or
// disabled screen are ignored; a bad navigation request must never crash
// or wedge the device.
func (n *Navigator) SwitchTo(id ID, now time.Time) {
	index := int(id)
	if index < 0 || index >= Total || !n.screens[index].Enabled {
		slog.Debug("Ignoring switch to invalid screen", slog.Int("index", index))

		return
	}

	n.prior = n.active
	n.active = index
	n.screens[index].Dirty = true
	n.navigatedAt = now

	slog.Debug("Switched screen",
		slog.String("from", ID(n.prior).String()),
		slog.String("to", ID(n.active).String()))
}

// Next advances to the next enabled screen, wrapping around. When every
// other screen is disabled the active one is kept; the probe count is
// bounded by the registry size so this can never spin.
func (n *Navigator) Next(now time.Time) {
	next := n.active
	for range Total {
		next = (next + 1) % Total
		if n.screens[next].Enabled {
			break
		}
	}
	if next != n.active {
		n.SwitchTo(ID(next), now)
	}
}

// Previous steps back to the prior enabled screen, wrapping around.
func (n *Navigator) Previous(now time.Time) {
	prev := n.active
	for range Total {
		prev = (prev - 1 + Total) % Total
		if n.screens[prev].Enabled {
			break
		}
	}
	if prev != n.active {
		n.SwitchTo(ID(prev), now)
	}
}

// RefreshActive forces a redraw of the active screen on the next tick.
func (n *Navigator) RefreshActive() {
	n.screens[n.active].Dirty = true
}

// NavigatedAt reports when the active screen last changed. The device loop
// uses it for the auto-advance and idle timers.
func (n *Navigator) NavigatedAt() time.Time {
	return n.navigatedAt
}

// Tick reports whether a redraw is due, either because the active screen
// is dirty or because the refresh interval elapsed. When it returns true
// the dirty flag is cleared and the screen stamped, so calling it again
// without further state changes returns false.
func (n *Navigator) Tick(now time.Time) bool {
	active := &n.screens[n.active]
	if !active.Dirty && now.Sub(n.lastRedraw) <= refreshInterval {
		return false
	}

	active.Dirty = false
	active.LastUpdate = now
	n.lastRedraw = now

	return true
}
