package config_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"paneld/internal/config"
)

// memPersister is an in-memory Persister standing in for the viper loader.
type memPersister struct {
	mu      sync.Mutex
	saved   *config.Settings
	readErr error
}

func (m *memPersister) Read() (config.Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.readErr != nil {
		return config.Settings{}, m.readErr
	}
	if m.saved == nil {
		return config.Defaults(), nil
	}

	return *m.saved, nil
}

func (m *memPersister) Write(s config.Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = &s

	return nil
}

func TestBrightnessClamp(t *testing.T) {
	store := config.NewStore(&memPersister{})

	store.SetBrightness(150)
	require.Equal(t, 100, store.Settings().Brightness)

	store.SetBrightness(-10)
	require.Equal(t, 0, store.Settings().Brightness)
}

func TestSetterClamps(t *testing.T) {
	store := config.NewStore(&memPersister{})

	store.SetTouchSensitivity(5)
	require.Equal(t, 10, store.Settings().TouchSensitivity)
	store.SetTouchSensitivity(500)
	require.Equal(t, 80, store.Settings().TouchSensitivity)

	store.SetAutoAdvanceDelay(0)
	require.Equal(t, 1, store.Settings().AutoAdvanceDelay)
	store.SetAutoAdvanceDelay(120)
	require.Equal(t, 60, store.Settings().AutoAdvanceDelay)

	store.SetThemeIndex(99)
	require.Equal(t, 1, store.Settings().ThemeIndex)
	store.SetThemeIndex(-1)
	require.Equal(t, 0, store.Settings().ThemeIndex)
}

func TestLoadEmptyStorageKeepsDefaults(t *testing.T) {
	store := config.NewStore(&memPersister{})
	store.Load()

	require.Equal(t, config.Defaults(), store.Settings())
}

func TestStagedChangesLostWithoutSave(t *testing.T) {
	persister := &memPersister{}
	store := config.NewStore(persister)
	store.Load()

	store.SetBrightness(55)
	require.Equal(t, 55, store.Settings().Brightness)

	// No Save() call: a reload returns the last saved value, not 55.
	store.Load()
	require.Equal(t, config.Defaults().Brightness, store.Settings().Brightness)
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	persister := &memPersister{}
	store := config.NewStore(persister)

	store.SetBrightness(55)
	store.SetAutoAdvance(false)
	require.NoError(t, store.Save())

	store.SetBrightness(90)
	store.Load()

	require.Equal(t, 55, store.Settings().Brightness)
	require.False(t, store.Settings().AutoAdvance)
}

func TestStorageUnavailableKeepsInMemoryState(t *testing.T) {
	persister := &memPersister{readErr: errors.New("nvs open failed")}
	store := config.NewStore(persister)

	store.SetBrightness(42)
	store.Load()

	require.Equal(t, 42, store.Settings().Brightness)
}

func TestReplaceClampsPersistedGarbage(t *testing.T) {
	store := config.NewStore(&memPersister{})

	garbage := config.Defaults()
	garbage.Brightness = 9000
	garbage.ThemeIndex = -3
	garbage.TouchSensitivity = 0
	garbage.WebListenAddr = ""
	store.Replace(garbage)

	settings := store.Settings()
	require.Equal(t, 100, settings.Brightness)
	require.Equal(t, 0, settings.ThemeIndex)
	require.Equal(t, 10, settings.TouchSensitivity)
	require.Equal(t, config.Defaults().WebListenAddr, settings.WebListenAddr)
}

func TestConcurrentReadersAndWriters(t *testing.T) {
	store := config.NewStore(&memPersister{})
	record := config.Defaults()

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(3)
		go func() {
			defer wg.Done()
			for range 100 {
				_ = store.Settings().WebListenAddr
				_ = store.FieldValue(config.FieldBrightness)
			}
		}()
		go func() {
			defer wg.Done()
			for range 100 {
				store.Replace(record)
				store.Adjust(config.FieldBrightness, 1)
			}
		}()
		go func() {
			defer wg.Done()
			for range 100 {
				store.SetThemeIndex(1)
				_ = store.Save()
			}
		}()
	}
	wg.Wait()

	settings := store.Settings()
	require.Equal(t, config.Defaults().WebListenAddr, settings.WebListenAddr)
	require.LessOrEqual(t, settings.Brightness, 100)
}

func TestAdjustFields(t *testing.T) {
	store := config.NewStore(&memPersister{})

	store.Adjust(config.FieldBrightness, 1)
	require.Equal(t, 85, store.Settings().Brightness)
	store.Adjust(config.FieldBrightness, -1)
	require.Equal(t, 80, store.Settings().Brightness)

	store.Adjust(config.FieldAutoTheme, 1)
	require.False(t, store.Settings().AutoTheme)

	store.Adjust(config.FieldThemeIndex, 1)
	require.Equal(t, 1, store.Settings().ThemeIndex)
	store.Adjust(config.FieldThemeIndex, 1)
	require.Equal(t, 0, store.Settings().ThemeIndex, "theme cycles")

	require.Equal(t, "80%", store.FieldValue(config.FieldBrightness))
	require.Equal(t, "OFF", store.FieldValue(config.FieldAutoTheme))
}
