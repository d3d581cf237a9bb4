package render

import (
	"image"
	"strconv"
	"time"

	"paneld/internal/config"
	"paneld/internal/screen"
	"paneld/internal/theme"
)

// Snapshot carries the live values the screens print. The device loop
// fills it from the sensor poller and network prober; render stays free of
// data-source imports.
type Snapshot struct {
	CPUPercent  float64
	MemPercent  float64
	TempC       float64
	BatteryPct  int
	BatteryVolt float64
	Uptime      time.Duration

	Hostname  string
	Interface string
	IP        string
	SSID      string
	RSSI      int
	Online    bool

	TempHistory []float64
	TempLow     float64
	TempHigh    float64
	TempAvg     float64
	FPS         int
}

// Dispatcher renders the active screen plus the shared status bar into its
// canvas whenever the navigator signals a redraw.
type Dispatcher struct {
	canvas  *Canvas
	store   *config.Store
	version string

	// settings screen cursor
	selected config.Field

	// transient press highlight, drawn until the deadline passes
	feedbackRect  image.Rectangle
	feedbackUntil time.Time
}

func NewDispatcher(store *config.Store, version string) *Dispatcher {
	return &Dispatcher{
		canvas:  NewCanvas(),
		store:   store,
		version: version,
	}
}

// Frame returns the last rendered frame.
func (d *Dispatcher) Frame() *image.RGBA {
	return d.canvas.Image()
}

// Selected returns the settings screen cursor position.
func (d *Dispatcher) Selected() config.Field {
	return d.selected
}

// SelectNext moves the settings cursor to the next row, wrapping.
func (d *Dispatcher) SelectNext() {
	d.selected = config.Field((int(d.selected) + 1) % config.FieldCount)
}

// Feedback schedules a brief highlight of the touched zone. The overlay is
// timed state drawn by subsequent frames, the loop never blocks for it.
func (d *Dispatcher) Feedback(x, y, w, h int, now time.Time) {
	d.feedbackRect = image.Rect(x, y, x+w, y+h)
	d.feedbackUntil = now.Add(80 * time.Millisecond)
}

// FeedbackActive reports whether a highlight overlay is still pending, so
// the loop keeps redrawing until it fades.
func (d *Dispatcher) FeedbackActive(now time.Time) bool {
	return now.Before(d.feedbackUntil)
}

// Draw renders the full frame: active screen, status bar, then any
// feedback overlay.
func (d *Dispatcher) Draw(nav *screen.Navigator, snap Snapshot, now time.Time) {
	settings := d.store.Settings()
	palette := theme.ByIndex(settings.ThemeIndex)
	active := nav.Active()

	d.canvas.Clear(palette.Background)

	switch active.ID {
	case screen.Dashboard:
		d.drawDashboard(nav, palette, now)
	case screen.Network:
		d.drawNetwork(palette, snap)
	case screen.System:
		d.drawSystem(palette, snap)
	case screen.Sensors:
		d.drawSensors(palette, snap)
	case screen.Settings:
		d.drawSettings(palette)
	case screen.About:
		d.drawAbout(palette, snap)
	}

	d.drawStatusBar(nav, palette, settings, snap)

	if now.Before(d.feedbackUntil) {
		r := d.feedbackRect
		d.canvas.FillRect(r.Min.X, r.Min.Y, r.Dx(), r.Dy(), palette.Highlight)
	}
}

// header paints the screen title band across the top.
func (d *Dispatcher) header(palette theme.Theme, title string) {
	d.canvas.FillRect(0, 0, Width, 30, palette.Primary)
	d.canvas.DrawCentered(0, 8, Width, title, palette.TextPrimary, FontMedium)
}

const statusBarY = Height - 13

func (d *Dispatcher) drawStatusBar(nav *screen.Navigator, palette theme.Theme, settings config.Settings, snap Snapshot) {
	d.canvas.FillRect(0, statusBarY, Width, 13, palette.Surface)

	// Navigation hints at the edges.
	d.canvas.DrawString(5, statusBarY, "<", palette.TextSecondary, FontSmall)
	d.canvas.DrawString(Width-12, statusBarY, ">", palette.TextSecondary, FontSmall)

	// One dot per enabled screen, the active one in primary.
	screens := nav.Screens()
	activeID := nav.Active().ID
	x := Width/2 - len(screens)*3
	for _, scr := range screens {
		if !scr.Enabled {
			x += 6
			continue
		}
		dot := palette.Disabled
		if scr.ID == activeID {
			dot = palette.Primary
		}
		d.canvas.FillRect(x, statusBarY+5, 3, 3, dot)
		x += 6
	}

	// Theme name on the right, doubles as the toggle hint.
	name := theme.Name(settings.ThemeIndex)
	d.canvas.DrawString(Width-18-d.canvas.StringWidth(name, FontSmall), statusBarY,
		"^"+name, palette.TextPrimary, FontSmall)

	if settings.ShowFPS && snap.FPS > 0 {
		d.canvas.DrawString(20, statusBarY, strconv.Itoa(snap.FPS), palette.TextSecondary, FontSmall)
	}
}
