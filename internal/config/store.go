package config

import (
	"fmt"
	"log/slog"
	"sync"

	"paneld/internal/theme"
)

// Persister is the storage adapter the store saves through. Loader is the
// real implementation; tests substitute an in-memory one.
type Persister interface {
	Read() (Settings, error)
	Write(Settings) error
}

// Store owns the in-memory settings record. Mutations go through the
// clamped setters and stay staged until Save; Load discards anything not
// yet saved. Safe for concurrent use: the web handlers and the device loop
// both touch it, so every access goes through the lock.
type Store struct {
	persister Persister

	mu      sync.RWMutex
	current Settings
}

func NewStore(persister Persister) *Store {
	return &Store{
		persister: persister,
		current:   Defaults(),
	}
}

// Settings returns a copy of the current record.
func (s *Store) Settings() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.current
}

// Load overlays persisted values onto the defaults. When storage is
// unavailable the store keeps running on whatever it has in memory;
// a settings glitch must never halt the device.
func (s *Store) Load() {
	settings, err := s.persister.Read()
	if err != nil {
		slog.Warn("Settings storage unavailable, keeping in-memory values",
			slog.String("error", err.Error()))

		return
	}

	s.mu.Lock()
	s.current = clampAll(settings)
	s.mu.Unlock()
}

// Save writes every field to storage. Nothing is persisted until this is
// called (write-on-demand). The persister runs outside the lock.
func (s *Store) Save() error {
	return s.persister.Write(s.Settings())
}

// Replace swaps in a whole settings record, clamping each field. Used by
// the config file watcher and the web settings endpoint.
func (s *Store) Replace(settings Settings) {
	s.mu.Lock()
	s.current = clampAll(settings)
	s.mu.Unlock()
}

func (s *Store) set(apply func(*Settings)) {
	s.mu.Lock()
	apply(&s.current)
	s.mu.Unlock()
}

func clampAll(settings Settings) Settings {
	settings.Brightness = clamp(settings.Brightness, 0, 100)
	settings.ThemeIndex = clamp(settings.ThemeIndex, 0, theme.Count()-1)
	settings.ScreenTimeout = clamp(settings.ScreenTimeout, 0, 600)
	settings.AutoAdvanceDelay = clamp(settings.AutoAdvanceDelay, 1, 60)
	settings.TouchSensitivity = clamp(settings.TouchSensitivity, 10, 80)
	settings.LogLevel = clamp(settings.LogLevel, 0, 3)
	settings.SensorInterval = clamp(settings.SensorInterval, 1, 3600)
	if settings.WebListenAddr == "" {
		settings.WebListenAddr = Defaults().WebListenAddr
	}

	return settings
}

func clamp(v, low, high int) int {
	if v < low {
		return low
	}
	if v > high {
		return high
	}

	return v
}

// Out of range values are clamped rather than rejected: a slider that
// overshoots should land on the bound, not error at the user.

func (s *Store) SetBrightness(v int) { s.set(func(c *Settings) { c.Brightness = clamp(v, 0, 100) }) }
func (s *Store) SetAutoTheme(v bool) { s.set(func(c *Settings) { c.AutoTheme = v }) }
func (s *Store) SetThemeIndex(v int) {
	s.set(func(c *Settings) { c.ThemeIndex = clamp(v, 0, theme.Count()-1) })
}
func (s *Store) SetScreenTimeout(v int) {
	s.set(func(c *Settings) { c.ScreenTimeout = clamp(v, 0, 600) })
}
func (s *Store) SetSwipeEnabled(v bool) { s.set(func(c *Settings) { c.SwipeEnabled = v }) }
func (s *Store) SetAutoAdvance(v bool)  { s.set(func(c *Settings) { c.AutoAdvance = v }) }
func (s *Store) SetAutoAdvanceDelay(v int) {
	s.set(func(c *Settings) { c.AutoAdvanceDelay = clamp(v, 1, 60) })
}
func (s *Store) SetTouchSensitivity(v int) {
	s.set(func(c *Settings) { c.TouchSensitivity = clamp(v, 10, 80) })
}
func (s *Store) SetTouchFeedback(v bool) { s.set(func(c *Settings) { c.TouchFeedback = v }) }
func (s *Store) SetLogLevel(v int)       { s.set(func(c *Settings) { c.LogLevel = clamp(v, 0, 3) }) }
func (s *Store) SetSensorInterval(v int) {
	s.set(func(c *Settings) { c.SensorInterval = clamp(v, 1, 3600) })
}

// Field enumerates the rows editable on the settings screen, in display
// order.
type Field int

const (
	FieldBrightness Field = iota
	FieldAutoTheme
	FieldThemeIndex
	FieldScreenTimeout
	FieldSwipeEnabled
	FieldAutoAdvance
	FieldAutoAdvanceDelay
	FieldTouchSensitivity
	FieldTouchFeedback
)

// FieldCount is the number of editable settings rows.
const FieldCount = int(FieldTouchFeedback) + 1

func (f Field) Label() string {
	switch f {
	case FieldBrightness:
		return "Brightness"
	case FieldAutoTheme:
		return "Auto Theme"
	case FieldThemeIndex:
		return "Theme"
	case FieldScreenTimeout:
		return "Timeout"
	case FieldSwipeEnabled:
		return "Swipe"
	case FieldAutoAdvance:
		return "Auto Advance"
	case FieldAutoAdvanceDelay:
		return "Advance Delay"
	case FieldTouchSensitivity:
		return "Sensitivity"
	case FieldTouchFeedback:
		return "Feedback"
	default:
		return "?"
	}
}

func onOff(v bool) string {
	if v {
		return "ON"
	}

	return "OFF"
}

// FieldValue formats the current value of a settings row.
func (s *Store) FieldValue(f Field) string {
	current := s.Settings()

	switch f {
	case FieldBrightness:
		return fmt.Sprintf("%d%%", current.Brightness)
	case FieldAutoTheme:
		return onOff(current.AutoTheme)
	case FieldThemeIndex:
		return theme.Name(current.ThemeIndex)
	case FieldScreenTimeout:
		return fmt.Sprintf("%ds", current.ScreenTimeout)
	case FieldSwipeEnabled:
		return onOff(current.SwipeEnabled)
	case FieldAutoAdvance:
		return onOff(current.AutoAdvance)
	case FieldAutoAdvanceDelay:
		return fmt.Sprintf("%ds", current.AutoAdvanceDelay)
	case FieldTouchSensitivity:
		return fmt.Sprintf("%d", current.TouchSensitivity)
	case FieldTouchFeedback:
		return onOff(current.TouchFeedback)
	default:
		return ""
	}
}

// Adjust nudges a settings row up or down one step. Toggles flip on any
// non-zero delta; numeric fields clamp at their bounds. The read-modify-
// write happens under one lock so concurrent adjusts never lose a step.
func (s *Store) Adjust(f Field, delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := &s.current
	switch f {
	case FieldBrightness:
		c.Brightness = clamp(c.Brightness+delta*5, 0, 100)
	case FieldAutoTheme:
		c.AutoTheme = !c.AutoTheme
	case FieldThemeIndex:
		c.ThemeIndex = (c.ThemeIndex + delta + theme.Count()) % theme.Count()
	case FieldScreenTimeout:
		c.ScreenTimeout = clamp(c.ScreenTimeout+delta*5, 0, 600)
	case FieldSwipeEnabled:
		c.SwipeEnabled = !c.SwipeEnabled
	case FieldAutoAdvance:
		c.AutoAdvance = !c.AutoAdvance
	case FieldAutoAdvanceDelay:
		c.AutoAdvanceDelay = clamp(c.AutoAdvanceDelay+delta, 1, 60)
	case FieldTouchSensitivity:
		c.TouchSensitivity = clamp(c.TouchSensitivity+delta*5, 10, 80)
	case FieldTouchFeedback:
		c.TouchFeedback = !c.TouchFeedback
	}
}
