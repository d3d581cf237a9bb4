// Package config is the settings store: typed device settings with
// documented defaults, clamped setters, and write-on-demand persistence
// through viper. Settings changes are staged in memory until Save is
// explicitly called so flash-backed filesystems are not worn down by
// every UI interaction.
package config

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path"

	"github.com/adrg/xdg"
)

var (
	errConfigWrite = errors.New("failed to write config file")
	errConfigRead  = errors.New("failed to read config file")
	errLoggerInit  = errors.New("failed to initialize logger")
)

const (
	ConfigDirName     = "paneld"
	DefaultConfigName = "paneld"
	DefaultDBName     = "paneld.db"
	DefaultLogName    = "paneld.log"
	EnvPrefix         = "paneld"
)

// Settings is the flat device configuration record. It is owned by the
// Store; nothing else mutates it directly.
type Settings struct {
	// Display
	Brightness    int  `mapstructure:"brightness" json:"brightness"`
	AutoTheme     bool `mapstructure:"auto_theme" json:"auto_theme"`
	ThemeIndex    int  `mapstructure:"theme_index" json:"theme_index"`
	ScreenTimeout int  `mapstructure:"screen_timeout_sec" json:"screen_timeout_sec"`

	// Navigation
	SwipeEnabled     bool `mapstructure:"swipe_enabled" json:"swipe_enabled"`
	AutoAdvance      bool `mapstructure:"auto_advance" json:"auto_advance"`
	AutoAdvanceDelay int  `mapstructure:"auto_advance_delay_sec" json:"auto_advance_delay_sec"`

	// Network
	WifiEnabled      bool   `mapstructure:"wifi_enabled" json:"wifi_enabled"`
	WebServerEnabled bool   `mapstructure:"web_server_enabled" json:"web_server_enabled"`
	WebListenAddr    string `mapstructure:"web_listen_addr" json:"web_listen_addr"`
	OTAEnabled       bool   `mapstructure:"ota_enabled" json:"ota_enabled"`

	// Touch
	TouchSensitivity int  `mapstructure:"touch_sensitivity" json:"touch_sensitivity"`
	TouchFeedback    bool `mapstructure:"touch_feedback" json:"touch_feedback"`
	TouchSounds      bool `mapstructure:"touch_sounds" json:"touch_sounds"`

	// System
	SerialDebug    bool `mapstructure:"serial_debug" json:"serial_debug"`
	LogLevel       int  `mapstructure:"log_level" json:"log_level"`
	ShowFPS        bool `mapstructure:"show_fps" json:"show_fps"`
	SensorLogging  bool `mapstructure:"sensor_logging" json:"sensor_logging"`
	SensorInterval int  `mapstructure:"sensor_interval_sec" json:"sensor_interval_sec"`
}

// Defaults returns the hard-coded boot settings. Persisted values overlay
// these field by field; a missing key keeps its default.
func Defaults() Settings {
	return Settings{
		Brightness:       80,
		AutoTheme:        true,
		ThemeIndex:       0,
		ScreenTimeout:    30,
		SwipeEnabled:     true,
		AutoAdvance:      true,
		AutoAdvanceDelay: 6,
		WifiEnabled:      true,
		WebServerEnabled: true,
		WebListenAddr:    ":8080",
		OTAEnabled:       true,
		TouchSensitivity: 40,
		TouchFeedback:    true,
		TouchSounds:      false,
		SerialDebug:      true,
		LogLevel:         1,
		ShowFPS:          false,
		SensorLogging:    true,
		SensorInterval:   5,
	}
}

// Path generates a path pointing to the filename under this apps defined $XDG_CONFIG_HOME.
func Path(name string) string {
	fullPath, errFullPath := xdg.ConfigFile(path.Join(ConfigDirName, name))
	if errFullPath != nil {
		panic(errFullPath)
	}

	return fullPath
}

// logLevel backs the global handler so the settings screen can retune
// verbosity without rebuilding the logger.
var logLevel = new(slog.LevelVar)

// LoggerInit sets up the slog global handler to use a log file. Needed
// whenever the terminal simulator owns the console.
func LoggerInit(logPath string, level int) (io.Closer, error) {
	logFile, errLogFile := os.Create(path.Join(xdg.ConfigHome, ConfigDirName, logPath))
	if errLogFile != nil {
		return nil, errors.Join(errLogFile, errLoggerInit)
	}

	SetLogLevel(level)

	logger := slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{
		AddSource: false,
		Level:     logLevel,
	}))

	slog.SetDefault(logger)

	return logFile, nil
}

// SetLogLevel maps the settings scale (0 quiet to 3 chatty) onto slog.
func SetLogLevel(level int) {
	switch level {
	case 0:
		logLevel.Set(slog.LevelError)
	case 1:
		logLevel.Set(slog.LevelInfo)
	default:
		logLevel.Set(slog.LevelDebug)
	}
}
