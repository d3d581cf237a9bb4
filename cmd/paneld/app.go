package main

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"paneld/internal/config"
	"paneld/internal/display"
	"paneld/internal/hw"
	"paneld/internal/netinfo"
	"paneld/internal/ota"
	"paneld/internal/render"
	"paneld/internal/screen"
	"paneld/internal/sensors"
	"paneld/internal/store"
	"paneld/internal/theme"
	"paneld/internal/touch"
	"paneld/internal/web"
)

const (
	// pollInterval paces the cooperative loop: touch polling, timers and
	// redraw checks all run off this tick.
	pollInterval     = 20 * time.Millisecond
	netProbeInterval = 15 * time.Second
	capTouchInterval = 25 * time.Millisecond
	dbWriteTimeout   = 5 * time.Second
)

// zoneTable is the fixed touch layout. The settings corner overlaps the
// header; hit testing prefers the smaller zone.
var zoneTable = []struct {
	x, y, w, h int
	name       string
}{
	{0, 0, 100, 168, "nav_left"},
	{200, 0, 100, 168, "nav_right"},
	{0, 0, 300, 40, "header"},
	{0, 128, 300, 40, "status"},
	{50, 40, 200, 88, "content"},
	{250, 0, 50, 30, "settings"},
}

// mergedChannel fans several raw inputs into one zone: the lowest reading
// wins, so a touch on any wired source registers.
type mergedChannel []touch.Channel

func (m mergedChannel) Read() (int, error) {
	best := -1
	var lastErr error
	for _, channel := range m {
		raw, err := channel.Read()
		if err != nil {
			lastErr = err

			continue
		}
		if best == -1 || raw < best {
			best = raw
		}
	}
	if best == -1 {
		return 0, lastErr
	}

	return best, nil
}

// App is the main application container. One cooperative loop owns the
// navigator, mapper and renderer; everything crossing a goroutine boundary
// goes through channels or the status mutex.
type App struct {
	settings   *config.Store
	readings   *store.Readings
	panel      display.Display
	updater    *ota.Updater
	nav        *screen.Navigator
	mapper     *touch.Mapper
	dispatcher *render.Dispatcher
	poller     *sensors.Poller
	bridge     *hw.Bridge

	configUpdates   chan config.Settings
	settingsApplied chan struct{}
	restartRequests chan struct{}
	netUpdates      chan netinfo.Info
	simDone         <-chan struct{}

	probeInFlight atomic.Bool

	statusMu sync.Mutex
	status   web.Status

	net           netinfo.Info
	lastSample    sensors.Sample
	interactionAt time.Time
	nextProbe     time.Time
	asleep        bool

	frames    int
	fps       int
	fpsWindow time.Time
}

// NewApp wires the core together. padPins optionally names a GPIO pin per
// zone for boards with discrete touch pads; empty entries are skipped. To
// actually start the device loop you must call Run().
func NewApp(settings *config.Store, readings *store.Readings, panel display.Display,
	configUpdates chan config.Settings, padPins []string, version string,
) *App {
	now := time.Now()
	app := &App{
		settings:        settings,
		readings:        readings,
		panel:           panel,
		updater:         ota.New(version),
		nav:             screen.NewNavigator(now),
		mapper:          touch.NewMapper(),
		dispatcher:      render.NewDispatcher(settings, version),
		poller:          sensors.NewPoller(),
		bridge:          hw.NewBridge(len(zoneTable)),
		configUpdates:   configUpdates,
		settingsApplied: make(chan struct{}, 1),
		restartRequests: make(chan struct{}, 1),
		netUpdates:      make(chan netinfo.Info, 1),
		interactionAt:   now,
		fpsWindow:       now,
	}

	var simPads []*display.Pad
	if term, ok := panel.(*display.Term); ok {
		simPads = term.Pads()
		app.simDone = term.Done()
	}

	for i, def := range zoneTable {
		merged := mergedChannel{app.bridge.Pad(i)}
		if simPads != nil {
			merged = append(merged, simPads[i])
		}
		if i < len(padPins) && padPins[i] != "" {
			pad, errPad := hw.NewGPIOPad(padPins[i])
			if errPad != nil {
				slog.Warn("Skipping touch pad",
					slog.String("pin", padPins[i]), slog.String("error", errPad.Error()))
			} else {
				merged = append(merged, pad)
			}
		}
		app.mapper.Configure(i, def.x, def.y, def.w, def.h, merged, def.name)
	}

	return app
}

// Run is the device loop. It returns when the context ends, the operator
// quits the simulator, or a restart is requested.
func (app *App) Run(ctx context.Context) error {
	app.applySettings()
	app.nav.RefreshActive()

	if term, ok := app.panel.(*display.Term); ok {
		go app.routeSimTouches(ctx, term)
	} else {
		go app.pollCapTouch(ctx)
	}

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-app.simDone:
			slog.Info("Simulator closed, shutting down")

			return nil
		case <-app.restartRequests:
			slog.Info("Restart requested, exiting for the supervisor")

			return nil
		case settings := <-app.configUpdates:
			// External config file edit.
			app.settings.Replace(settings)
			app.applySettings()
			app.nav.RefreshActive()
		case <-app.settingsApplied:
			app.applySettings()
			app.nav.RefreshActive()
		case info := <-app.netUpdates:
			app.net = info
		case now := <-ticker.C:
			app.tick(ctx, now)
		}
	}
}

// tick is one pass of the cooperative loop.
func (app *App) tick(ctx context.Context, now time.Time) {
	app.mapper.Poll(now)
	if event := app.mapper.PopEvent(); event.Kind != touch.None {
		app.handleTouch(event, now)
	}

	settings := app.settings.Settings()

	if timeout := time.Duration(settings.ScreenTimeout) * time.Second; timeout > 0 &&
		!app.asleep && now.Sub(app.interactionAt) >= timeout {
		app.sleep()
	}

	if app.poller.Due(now) {
		sample := app.poller.Sample(now, time.Duration(settings.SensorInterval)*time.Second)
		app.lastSample = sample
		if settings.SensorLogging {
			go app.logSample(ctx, sample)
		}
	}

	if settings.WifiEnabled && now.After(app.nextProbe) &&
		app.probeInFlight.CompareAndSwap(false, true) {
		app.nextProbe = now.Add(netProbeInterval)
		go app.probeNetwork(ctx)
	}

	if settings.AutoTheme {
		app.applyAutoTheme(now)
	}

	if settings.AutoAdvance && !app.asleep {
		delay := time.Duration(settings.AutoAdvanceDelay) * time.Second
		if now.Sub(app.nav.NavigatedAt()) >= delay && now.Sub(app.interactionAt) >= delay {
			app.nav.Next(now)
		}
	}

	if !app.asleep && (app.nav.Tick(now) || app.dispatcher.FeedbackActive(now)) {
		app.dispatcher.Draw(app.nav, app.snapshot(), now)
		if err := app.panel.Flush(app.dispatcher.Frame()); err != nil {
			slog.Error("Display flush failed", slog.String("error", err.Error()))
		}
		app.frames++
	}

	if now.Sub(app.fpsWindow) >= time.Second {
		app.fps = app.frames
		app.frames = 0
		app.fpsWindow = now
	}

	app.publishStatus()
}

// handleTouch routes one classified event. A touch on a sleeping panel
// only wakes it; the action is swallowed.
func (app *App) handleTouch(event touch.Event, now time.Time) {
	app.interactionAt = now

	if app.asleep {
		app.wake(now)

		return
	}

	settings := app.settings.Settings()
	if settings.TouchFeedback && event.Zone >= 0 {
		zone := app.mapper.Zones()[event.Zone]
		app.dispatcher.Feedback(zone.X, zone.Y, zone.W, zone.H, now)
		app.nav.RefreshActive()
	}

	switch {
	case event.Kind.IsSwipe():
		if !settings.SwipeEnabled {
			return
		}
		switch event.Kind {
		case touch.SwipeLeft:
			app.nav.Next(now)
		case touch.SwipeRight:
			app.nav.Previous(now)
		default:
			app.nav.RefreshActive()
		}
	case event.Kind == touch.LongPress:
		// Long press anywhere is the home gesture.
		app.nav.SwitchTo(screen.Dashboard, now)
	case event.Kind == touch.Press:
		app.handlePress(event, now)
	}
}

func (app *App) handlePress(event touch.Event, now time.Time) {
	onSettings := app.nav.Active().ID == screen.Settings

	switch event.ZoneName {
	case "nav_left":
		if onSettings {
			app.settings.Adjust(app.dispatcher.Selected(), -1)
			app.applySettings()
			app.nav.RefreshActive()
		} else {
			app.nav.Previous(now)
		}
	case "nav_right":
		if onSettings {
			app.settings.Adjust(app.dispatcher.Selected(), +1)
			app.applySettings()
			app.nav.RefreshActive()
		} else {
			app.nav.Next(now)
		}
	case "header":
		if onSettings {
			if err := app.settings.Save(); err != nil {
				slog.Error("Failed to save settings", slog.String("error", err.Error()))
			} else {
				slog.Info("Settings saved")
			}
		} else {
			next := (app.settings.Settings().ThemeIndex + 1) % theme.Count()
			app.settings.SetThemeIndex(next)
		}
		app.nav.RefreshActive()
	case "settings":
		app.nav.SwitchTo(screen.Settings, now)
	case "content":
		switch {
		case onSettings:
			app.dispatcher.SelectNext()
			app.nav.RefreshActive()
		case app.nav.Active().ID == screen.Dashboard:
			app.nav.Next(now)
		default:
			app.nav.RefreshActive()
		}
	case "status":
		app.nav.RefreshActive()
	}
}

// applySettings pushes the current record into the subsystems that cache
// derived state.
func (app *App) applySettings() {
	settings := app.settings.Settings()
	app.mapper.SetThreshold(settings.TouchSensitivity)
	config.SetLogLevel(settings.LogLevel)

	if !app.asleep {
		if err := app.panel.SetBrightness(settings.Brightness); err != nil {
			slog.Warn("Failed to set brightness", slog.String("error", err.Error()))
		}
	}
}

// applyAutoTheme picks the palette by wall clock: the warm theme during
// the day, the dim one at night.
func (app *App) applyAutoTheme(now time.Time) {
	target := 1
	if hour := now.Hour(); hour >= 7 && hour < 19 {
		target = 0
	}

	if app.settings.Settings().ThemeIndex != target {
		app.settings.SetThemeIndex(target)
		app.nav.RefreshActive()
	}
}

func (app *App) sleep() {
	app.asleep = true
	if err := app.panel.SetBrightness(0); err != nil {
		slog.Warn("Failed to blank display", slog.String("error", err.Error()))
	}
	slog.Debug("Display sleeping")
}

func (app *App) wake(now time.Time) {
	app.asleep = false
	app.interactionAt = now
	app.mapper.Reset()
	app.nav.RefreshActive()
	if err := app.panel.SetBrightness(app.settings.Settings().Brightness); err != nil {
		slog.Warn("Failed to restore brightness", slog.String("error", err.Error()))
	}
	slog.Debug("Display woken")
}

func (app *App) snapshot() render.Snapshot {
	low, high, avg := app.poller.History().TempStats()

	return render.Snapshot{
		CPUPercent:  app.lastSample.CPUPercent,
		MemPercent:  app.lastSample.MemPercent,
		TempC:       app.lastSample.TempC,
		BatteryPct:  app.lastSample.BatteryPct,
		BatteryVolt: app.lastSample.BatteryVolt,
		Uptime:      time.Duration(app.lastSample.Uptime) * time.Second,
		Hostname:    app.net.Hostname,
		Interface:   app.net.Interface,
		IP:          app.net.IP,
		SSID:        app.net.SSID,
		RSSI:        app.net.RSSI,
		Online:      app.net.Online,
		TempHistory: app.poller.History().Temps(),
		TempLow:     low,
		TempHigh:    high,
		TempAvg:     avg,
		FPS:         app.fps,
	}
}

// logSample writes one reading to the durable log off the device loop.
func (app *App) logSample(ctx context.Context, sample sensors.Sample) {
	writeCtx, cancel := context.WithTimeout(ctx, dbWriteTimeout)
	defer cancel()

	if err := app.readings.Insert(writeCtx, sample); err != nil {
		slog.Error("Failed to log sensor reading", slog.String("error", err.Error()))
	}
}

func (app *App) probeNetwork(ctx context.Context) {
	defer app.probeInFlight.Store(false)

	info := netinfo.Probe(ctx)
	select {
	case app.netUpdates <- info:
	case <-ctx.Done():
	}
}

// routeSimTouches feeds simulator mouse clicks through the zone bridge.
func (app *App) routeSimTouches(ctx context.Context, term *display.Term) {
	for {
		select {
		case <-ctx.Done():
			return
		case point := <-term.Touches():
			app.bridge.Route(point.X, point.Y, app.mapper.ZoneAt)
		}
	}
}

// pollCapTouch drives the I2C touch controller when one is present.
func (app *App) pollCapTouch(ctx context.Context) {
	controller, err := hw.NewCapTouch("1", render.Width, render.Height)
	if err != nil {
		slog.Warn("Touch controller unavailable", slog.String("error", err.Error()))

		return
	}
	defer controller.Close()

	ticker := time.NewTicker(capTouchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			point, errPoll := controller.Poll()
			if errPoll != nil {
				slog.Debug("Touch poll failed", slog.String("error", errPoll.Error()))

				continue
			}
			if point != nil {
				app.bridge.Route(point.X, point.Y, app.mapper.ZoneAt)
			}
		}
	}
}

// publishStatus refreshes the snapshot the web layer serves.
func (app *App) publishStatus() {
	settings := app.settings.Settings()

	app.statusMu.Lock()
	app.status = web.Status{
		Version:   app.updater.Version(),
		Screen:    app.nav.Active().Name,
		Sample:    app.lastSample,
		Network:   app.net,
		ThemeName: theme.Name(settings.ThemeIndex),
	}
	app.statusMu.Unlock()
}

// Status is the web layer's view of the panel. Safe for concurrent use.
func (app *App) Status() web.Status {
	app.statusMu.Lock()
	defer app.statusMu.Unlock()

	return app.status
}

// NotifySettingsApplied tells the loop that the web layer replaced the
// settings record.
func (app *App) NotifySettingsApplied() {
	select {
	case app.settingsApplied <- struct{}{}:
	default:
	}
}

// RequestRestart asks the loop to exit so the supervisor restarts us.
func (app *App) RequestRestart() {
	select {
	case app.restartRequests <- struct{}{}:
	default:
	}
}

var errOTADisabled = errors.New("ota updates are disabled in settings")

// ApplyUpdate runs a self-update and schedules a restart on success.
func (app *App) ApplyUpdate(ctx context.Context) (string, error) {
	if !app.settings.Settings().OTAEnabled {
		return "", errOTADisabled
	}

	version, err := app.updater.Apply(ctx)
	if err != nil {
		return "", err
	}

	app.RequestRestart()

	return version, nil
}
