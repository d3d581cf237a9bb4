package render

import (
	"fmt"
	"image/color"
	"time"

	"github.com/dustin/go-humanize"
	"paneld/internal/config"
	"paneld/internal/screen"
	"paneld/internal/theme"
)

func (d *Dispatcher) drawDashboard(nav *screen.Navigator, palette theme.Theme, now time.Time) {
	d.header(palette, "Dashboard")

	d.canvas.DrawCentered(0, 38, Width, now.Format("15:04:05"), palette.TextPrimary, FontMedium)
	d.canvas.DrawCentered(0, 56, Width, now.Format("Mon 02 Jan 2006"), palette.TextSecondary, FontSmall)

	// Launcher cards: one tile per enabled screen after this one.
	x, y := 15, 78
	for _, scr := range nav.Screens() {
		if scr.ID == screen.Dashboard || !scr.Enabled {
			continue
		}
		d.canvas.FillRect(x, y, 50, 34, palette.Card)
		d.canvas.DrawCentered(x, y+10, 50, scr.ShortName, palette.TextPrimary, FontSmall)
		x += 56
		if x+50 > Width {
			x = 15
			y += 40
		}
	}

	d.canvas.DrawString(15, 130, "Swipe or touch edges to navigate", palette.TextSecondary, FontSmall)
}

func (d *Dispatcher) drawNetwork(palette theme.Theme, snap Snapshot) {
	d.header(palette, "Network")

	y := 40
	status := "offline"
	statusColor := palette.Error
	if snap.Online {
		status = "connected"
		statusColor = palette.Success
	}

	d.canvas.DrawString(15, y, "Status: "+status, statusColor, FontSmall)
	y += 15
	d.canvas.DrawString(15, y, "Host: "+snap.Hostname, palette.Info, FontSmall)
	y += 15
	if snap.SSID != "" {
		d.canvas.DrawString(15, y, "SSID: "+snap.SSID, palette.Info, FontSmall)
		y += 15
	}
	d.canvas.DrawString(15, y, "IP: "+snap.IP, palette.Info, FontSmall)
	y += 15
	d.canvas.DrawString(15, y, fmt.Sprintf("Iface: %s", snap.Interface), palette.TextSecondary, FontSmall)
	y += 20

	if snap.RSSI != 0 {
		d.canvas.DrawString(15, y, fmt.Sprintf("Signal: %d dBm", snap.RSSI), palette.Info, FontSmall)
		d.canvas.DrawBar(150, y+2, 100, 8, signalQuality(snap.RSSI), palette.Surface, palette.Success)
	}
}

// signalQuality maps RSSI dBm to a rough 0-100 scale: -50 or better is
// full, -100 is dead.
func signalQuality(rssi int) int {
	if rssi >= -50 {
		return 100
	}
	if rssi <= -100 {
		return 0
	}

	return 2 * (rssi + 100)
}

func (d *Dispatcher) drawSystem(palette theme.Theme, snap Snapshot) {
	d.header(palette, "System")

	y := 42
	d.canvas.DrawString(15, y, fmt.Sprintf("CPU: %.0f%%", snap.CPUPercent), palette.Info, FontSmall)
	d.canvas.DrawBar(150, y+2, 100, 8, int(snap.CPUPercent), palette.Surface, palette.Warning)
	y += 20

	d.canvas.DrawString(15, y, fmt.Sprintf("Memory: %.0f%%", snap.MemPercent), palette.Info, FontSmall)
	d.canvas.DrawBar(150, y+2, 100, 8, int(snap.MemPercent), palette.Surface, palette.Warning)
	y += 20

	d.canvas.DrawString(15, y, fmt.Sprintf("Temp: %.1fC", snap.TempC), palette.Info, FontSmall)
	y += 20

	d.canvas.DrawString(15, y, "Uptime: "+humanize.RelTime(time.Now().Add(-snap.Uptime), time.Now(), "", ""), palette.Success, FontSmall)
}

func (d *Dispatcher) drawSensors(palette theme.Theme, snap Snapshot) {
	d.header(palette, "Sensors")

	y := 40
	d.canvas.DrawString(15, y, fmt.Sprintf("Temperature: %.1f C", snap.TempC), palette.Info, FontSmall)
	y += 15
	d.canvas.DrawString(15, y, fmt.Sprintf("Battery: %d%% (%.2fV)", snap.BatteryPct, snap.BatteryVolt), palette.Info, FontSmall)
	y += 15
	d.canvas.DrawBar(15, y, 120, 8, snap.BatteryPct, palette.Surface, batteryColor(palette, snap.BatteryPct))
	y += 18

	d.drawMiniGraph(15, y, 270, 40, snap.TempHistory, palette)

	if len(snap.TempHistory) >= 2 {
		stats := fmt.Sprintf("min %.1f  avg %.1f  max %.1f",
			snap.TempLow, snap.TempAvg, snap.TempHigh)
		d.canvas.DrawString(15, y+44, stats, palette.TextSecondary, FontSmall)
	}
}

func batteryColor(palette theme.Theme, pct int) color.RGBA {
	switch {
	case pct <= 20:
		return palette.Error
	case pct <= 50:
		return palette.Warning
	default:
		return palette.Success
	}
}

// drawMiniGraph plots the history as a strip of vertical bars scaled
// between the series min and max.
func (d *Dispatcher) drawMiniGraph(x, y, w, h int, data []float64, palette theme.Theme) {
	d.canvas.FillRect(x, y, w, h, palette.Surface)
	if len(data) < 2 {
		d.canvas.DrawCentered(x, y+h/2-6, w, "collecting...", palette.TextDisabled, FontSmall)

		return
	}

	low, high := data[0], data[0]
	for _, v := range data {
		if v < low {
			low = v
		}
		if v > high {
			high = v
		}
	}
	span := high - low
	if span == 0 {
		span = 1
	}

	barW := w / len(data)
	if barW < 1 {
		barW = 1
	}
	for i, v := range data {
		barH := int(float64(h-2) * (v - low) / span)
		if barH < 1 {
			barH = 1
		}
		d.canvas.FillRect(x+i*barW, y+h-barH, barW, barH, palette.Secondary)
	}
}

func (d *Dispatcher) drawSettings(palette theme.Theme) {
	d.header(palette, "Settings")

	y := 34
	for i := range config.FieldCount {
		field := config.Field(i)
		rowColor := palette.TextSecondary
		if field == d.selected {
			d.canvas.FillRect(10, y-1, Width-20, 12, palette.Surface)
			rowColor = palette.TextPrimary
			d.canvas.DrawString(12, y, ">", palette.Accent, FontSmall)
		}
		d.canvas.DrawString(22, y, field.Label(), rowColor, FontSmall)
		value := d.store.FieldValue(field)
		d.canvas.DrawString(Width-30-d.canvas.StringWidth(value, FontSmall), y, value, palette.Info, FontSmall)
		y += 12
	}

	d.canvas.DrawString(15, y+2, "Touch header to save", palette.TextSecondary, FontSmall)
}

func (d *Dispatcher) drawAbout(palette theme.Theme, snap Snapshot) {
	d.header(palette, "About")

	y := 40
	d.canvas.DrawString(15, y, "paneld touch dashboard", palette.TextPrimary, FontSmall)
	y += 15
	d.canvas.DrawString(15, y, "Version: "+d.version, palette.Info, FontSmall)
	y += 20

	d.canvas.DrawString(15, y, "Host: "+snap.Hostname, palette.Info, FontSmall)
	y += 15
	d.canvas.DrawString(15, y, "Uptime: "+humanize.RelTime(time.Now().Add(-snap.Uptime), time.Now(), "", ""), palette.Success, FontSmall)
	y += 15
	d.canvas.DrawString(15, y, fmt.Sprintf("Memory: %.0f%% used", snap.MemPercent), palette.Warning, FontSmall)
	y += 20

	d.canvas.DrawString(15, y, "WiFi + Touch + Web + OTA", palette.Success, FontSmall)
}
