package sensors

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Battery reads the sysfs power supply exposed by the board's fuel gauge.
// Boards without one report a healthy constant so battery-driven UI does
// not flap.
type Battery struct {
	capacityPath string
	voltagePath  string
}

const (
	fallbackBatteryPct  = 100
	fallbackBatteryVolt = 5.0
)

func NewBattery() *Battery {
	b := &Battery{}

	matches, err := filepath.Glob("/sys/class/power_supply/*/capacity")
	if err != nil || len(matches) == 0 {
		return b
	}
	b.capacityPath = matches[0]
	b.voltagePath = filepath.Join(filepath.Dir(matches[0]), "voltage_now")

	return b
}

// Read returns charge percent and pack voltage.
func (b *Battery) Read() (int, float64) {
	if b.capacityPath == "" {
		return fallbackBatteryPct, fallbackBatteryVolt
	}

	pct := readSysfsInt(b.capacityPath, fallbackBatteryPct)
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}

	// voltage_now is in microvolts.
	volt := float64(readSysfsInt(b.voltagePath, 0)) / 1e6

	return pct, volt
}

func readSysfsInt(path string, fallback int) int {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fallback
	}
	value, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil {
		return fallback
	}

	return value
}
