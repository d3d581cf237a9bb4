package config

import (
	"errors"
	"log/slog"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Loader handles setting up viper, loading settings from the config file,
// and broadcasting external edits. Each field registers a default so a
// partial or missing file overlays onto the documented defaults rather
// than replacing the whole record.
type Loader struct {
	*viper.Viper
	changes chan<- Settings
}

func NewLoader(changes chan<- Settings) *Loader {
	loader := Loader{changes: changes, Viper: viper.New()}
	defaults := Defaults()

	loader.SetDefault("brightness", defaults.Brightness)
	loader.SetDefault("auto_theme", defaults.AutoTheme)
	loader.SetDefault("theme_index", defaults.ThemeIndex)
	loader.SetDefault("screen_timeout_sec", defaults.ScreenTimeout)
	loader.SetDefault("swipe_enabled", defaults.SwipeEnabled)
	loader.SetDefault("auto_advance", defaults.AutoAdvance)
	loader.SetDefault("auto_advance_delay_sec", defaults.AutoAdvanceDelay)
	loader.SetDefault("wifi_enabled", defaults.WifiEnabled)
	loader.SetDefault("web_server_enabled", defaults.WebServerEnabled)
	loader.SetDefault("web_listen_addr", defaults.WebListenAddr)
	loader.SetDefault("ota_enabled", defaults.OTAEnabled)
	loader.SetDefault("touch_sensitivity", defaults.TouchSensitivity)
	loader.SetDefault("touch_feedback", defaults.TouchFeedback)
	loader.SetDefault("touch_sounds", defaults.TouchSounds)
	loader.SetDefault("serial_debug", defaults.SerialDebug)
	loader.SetDefault("log_level", defaults.LogLevel)
	loader.SetDefault("show_fps", defaults.ShowFPS)
	loader.SetDefault("sensor_logging", defaults.SensorLogging)
	loader.SetDefault("sensor_interval_sec", defaults.SensorInterval)

	loader.SetConfigName(DefaultConfigName)
	loader.SetConfigType("yaml")
	loader.SetEnvPrefix(EnvPrefix)
	loader.AddConfigPath(Path(""))
	loader.AddConfigPath(".")
	loader.AutomaticEnv()
	loader.WatchConfig()
	loader.OnConfigChange(loader.onConfigChange)

	return &loader
}

func (cl *Loader) Path() string {
	return cl.ConfigFileUsed()
}

func (cl *Loader) onConfigChange(in fsnotify.Event) {
	if in.Op != fsnotify.Write && in.Op != fsnotify.Rename {
		return
	}

	if cl.changes == nil {
		return
	}

	slog.Debug("External config reload triggered")
	settings, err := cl.Read()
	if err != nil {
		slog.Error("Error reading config", slog.String("error", err.Error()))

		return
	}

	cl.changes <- settings
}

// Write persists every settings field to its key. The write covers the
// whole record; file level atomicity is viper's concern, not ours.
func (cl *Loader) Write(settings Settings) error {
	cl.Set("brightness", settings.Brightness)
	cl.Set("auto_theme", settings.AutoTheme)
	cl.Set("theme_index", settings.ThemeIndex)
	cl.Set("screen_timeout_sec", settings.ScreenTimeout)
	cl.Set("swipe_enabled", settings.SwipeEnabled)
	cl.Set("auto_advance", settings.AutoAdvance)
	cl.Set("auto_advance_delay_sec", settings.AutoAdvanceDelay)
	cl.Set("wifi_enabled", settings.WifiEnabled)
	cl.Set("web_server_enabled", settings.WebServerEnabled)
	cl.Set("web_listen_addr", settings.WebListenAddr)
	cl.Set("ota_enabled", settings.OTAEnabled)
	cl.Set("touch_sensitivity", settings.TouchSensitivity)
	cl.Set("touch_feedback", settings.TouchFeedback)
	cl.Set("touch_sounds", settings.TouchSounds)
	cl.Set("serial_debug", settings.SerialDebug)
	cl.Set("log_level", settings.LogLevel)
	cl.Set("show_fps", settings.ShowFPS)
	cl.Set("sensor_logging", settings.SensorLogging)
	cl.Set("sensor_interval_sec", settings.SensorInterval)

	if cl.ConfigFileUsed() == "" {
		// First save on a fresh device, there is no file to update yet.
		if err := cl.WriteConfigAs(Path(DefaultConfigName + ".yaml")); err != nil {
			return errors.Join(err, errConfigWrite)
		}

		return nil
	}

	if err := cl.WriteConfig(); err != nil {
		return errors.Join(err, errConfigWrite)
	}

	return nil
}

// Read loads persisted settings over the defaults. A missing config file
// is not an error: the device runs on defaults until the first save.
func (cl *Loader) Read() (Settings, error) {
	if err := cl.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Defaults(), errors.Join(err, errConfigRead)
		}
	}

	var settings Settings
	if err := cl.Unmarshal(&settings); err != nil {
		return Defaults(), errors.Join(err, errConfigRead)
	}

	return settings, nil
}
