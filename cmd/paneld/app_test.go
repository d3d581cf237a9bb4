package main

import (
	"errors"
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"paneld/internal/config"
	"paneld/internal/screen"
	"paneld/internal/sensors"
	"paneld/internal/store"
	"paneld/internal/touch"
)

type fakeDisplay struct {
	brightness int
	flushes    int
}

func (f *fakeDisplay) Flush(*image.RGBA) error { f.flushes++; return nil }
func (f *fakeDisplay) SetBrightness(percent int) error {
	f.brightness = percent

	return nil
}
func (f *fakeDisplay) Close() error { return nil }

type memPersister struct {
	saved  config.Settings
	writes int
}

func (m *memPersister) Read() (config.Settings, error) { return config.Defaults(), nil }
func (m *memPersister) Write(s config.Settings) error {
	m.saved = s
	m.writes++

	return nil
}

type fixedChannel int

func (f fixedChannel) Read() (int, error) { return int(f), nil }

type failingChannel struct{}

func (failingChannel) Read() (int, error) { return 0, errors.New("dead pad") }

func newTestApp(t *testing.T) (*App, *fakeDisplay, *memPersister) {
	t.Helper()

	db, err := store.Open(t.Context(), "", true)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	persister := &memPersister{}
	settings := config.NewStore(persister)
	panel := &fakeDisplay{}
	app := NewApp(settings, store.NewReadings(db), panel, make(chan config.Settings), nil, "test")

	return app, panel, persister
}

func TestMergedChannelLowestWins(t *testing.T) {
	merged := mergedChannel{fixedChannel(90), fixedChannel(10), fixedChannel(50)}
	raw, err := merged.Read()
	require.NoError(t, err)
	require.Equal(t, 10, raw)
}

func TestMergedChannelSkipsFailures(t *testing.T) {
	merged := mergedChannel{failingChannel{}, fixedChannel(30)}
	raw, err := merged.Read()
	require.NoError(t, err)
	require.Equal(t, 30, raw)

	allDead := mergedChannel{failingChannel{}}
	_, err = allDead.Read()
	require.Error(t, err)
}

func TestPressNavigates(t *testing.T) {
	app, _, _ := newTestApp(t)
	now := time.Now()

	app.handlePress(touch.Event{Kind: touch.Press, Zone: 1, ZoneName: "nav_right"}, now)
	require.Equal(t, screen.Network, app.nav.Active().ID)

	app.handlePress(touch.Event{Kind: touch.Press, Zone: 0, ZoneName: "nav_left"}, now)
	require.Equal(t, screen.Dashboard, app.nav.Active().ID)
}

func TestSettingsCornerOpensSettings(t *testing.T) {
	app, _, _ := newTestApp(t)

	app.handlePress(touch.Event{Kind: touch.Press, Zone: 5, ZoneName: "settings"}, time.Now())
	require.Equal(t, screen.Settings, app.nav.Active().ID)
}

func TestNavAdjustsOnSettingsScreen(t *testing.T) {
	app, _, _ := newTestApp(t)
	now := time.Now()
	app.nav.SwitchTo(screen.Settings, now)

	before := app.settings.Settings().Brightness
	app.handlePress(touch.Event{Kind: touch.Press, Zone: 1, ZoneName: "nav_right"}, now)
	require.Equal(t, before+5, app.settings.Settings().Brightness)
	// Still on settings, the press adjusted instead of navigating.
	require.Equal(t, screen.Settings, app.nav.Active().ID)
}

func TestHeaderSavesOnSettingsScreen(t *testing.T) {
	app, _, persister := newTestApp(t)
	now := time.Now()
	app.nav.SwitchTo(screen.Settings, now)
	app.settings.SetBrightness(55)

	app.handlePress(touch.Event{Kind: touch.Press, Zone: 2, ZoneName: "header"}, now)
	require.Equal(t, 1, persister.writes)
	require.Equal(t, 55, persister.saved.Brightness)
}

func TestHeaderCyclesThemeElsewhere(t *testing.T) {
	app, _, _ := newTestApp(t)
	before := app.settings.Settings().ThemeIndex

	app.handlePress(touch.Event{Kind: touch.Press, Zone: 2, ZoneName: "header"}, time.Now())
	require.NotEqual(t, before, app.settings.Settings().ThemeIndex)
}

func TestTouchWhileAsleepOnlyWakes(t *testing.T) {
	app, panel, _ := newTestApp(t)
	now := time.Now()
	app.sleep()
	require.Equal(t, 0, panel.brightness)

	app.handleTouch(touch.Event{Kind: touch.Press, Zone: 1, ZoneName: "nav_right"}, now)

	// Woke up, did not navigate.
	require.False(t, app.asleep)
	require.Equal(t, screen.Dashboard, app.nav.Active().ID)
	require.Equal(t, app.settings.Settings().Brightness, panel.brightness)
}

func TestLongPressGoesHome(t *testing.T) {
	app, _, _ := newTestApp(t)
	now := time.Now()
	app.nav.SwitchTo(screen.About, now)

	app.handleTouch(touch.Event{Kind: touch.LongPress, Zone: 4, ZoneName: "content"}, now)
	require.Equal(t, screen.Dashboard, app.nav.Active().ID)
}

func TestSwipeDisabledIgnored(t *testing.T) {
	app, _, _ := newTestApp(t)
	now := time.Now()
	app.settings.SetSwipeEnabled(false)

	app.handleTouch(touch.Event{Kind: touch.SwipeLeft, Zone: 1, ZoneName: "nav_right"}, now)
	require.Equal(t, screen.Dashboard, app.nav.Active().ID)
}

func TestSnapshotCarriesTemperatureStats(t *testing.T) {
	app, _, _ := newTestApp(t)
	history := app.poller.History()
	history.Push(sensors.Sample{TempC: 30})
	history.Push(sensors.Sample{TempC: 40})

	snap := app.snapshot()
	require.Equal(t, 30.0, snap.TempLow)
	require.Equal(t, 40.0, snap.TempHigh)
	require.Equal(t, 35.0, snap.TempAvg)
	require.Len(t, snap.TempHistory, 2)
}

func TestAutoThemeFollowsClock(t *testing.T) {
	app, _, _ := newTestApp(t)

	noon := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	app.applyAutoTheme(noon)
	require.Equal(t, 0, app.settings.Settings().ThemeIndex)

	midnight := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	app.applyAutoTheme(midnight)
	require.Equal(t, 1, app.settings.Settings().ThemeIndex)
}
