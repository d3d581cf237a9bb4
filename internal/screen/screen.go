// Package screen implements the screen registry and navigator: the ordered
// set of dashboard screens, which one is active, and when the active one
// needs a redraw.
package screen

import "time"

// ID identifies one screen. Values double as the registry index, the
// declaration order here is the navigation order.
type ID int

const (
	Dashboard ID = iota
	Network
	System
	Sensors
	Settings
	About
)

// Total is the number of registered screens.
const Total = int(About) + 1

func (id ID) String() string {
	if id < 0 || int(id) >= Total {
		return "unknown"
	}

	return defs[id].name
}

// Screen is the mutable per-screen record held by the registry.
type Screen struct {
	ID          ID
	Name        string
	ShortName   string
	Description string
	Enabled     bool
	LastUpdate  time.Time
	Dirty       bool
}

type screenDef struct {
	name        string
	shortName   string
	description string
}

var defs = [Total]screenDef{
	Dashboard: {"Dashboard", "Home", "Main launcher screen"},
	Network:   {"Network", "WiFi", "Network status and connectivity"},
	System:    {"System", "Sys", "System monitoring and stats"},
	Sensors:   {"Sensors", "Data", "Sensor readings and data"},
	Settings:  {"Settings", "Set", "Configuration and preferences"},
	About:     {"About", "Info", "Device info and credits"},
}

func newRegistry() [Total]Screen {
	var screens [Total]Screen
	for i := range Total {
		screens[i] = Screen{
			ID:          ID(i),
			Name:        defs[i].name,
			ShortName:   defs[i].shortName,
			Description: defs[i].description,
			Enabled:     true,
			Dirty:       true,
		}
	}

	return screens
}
