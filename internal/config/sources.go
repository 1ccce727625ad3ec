package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// projectConfigNames are checked in the working directory, in order.
var projectConfigNames = []string{"todoneko.toml", ".todoneko.toml"}

// findProjectConfigFile looks for a config file in the current directory.
func findProjectConfigFile() string {
	for _, name := range projectConfigNames {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// findUserConfigFile looks for a user-level config file.
// Checks ~/.todoneko/todoneko.toml first, then falls back to OS-specific
// config directories if ~/.todoneko doesn't exist.
func findUserConfigFile() string {
	home, err := os.UserHomeDir()
	if err == nil {
		userConfigPath := filepath.Join(home, "."+AppName, AppName+".toml")
		if _, err := os.Stat(userConfigPath); err == nil {
			return userConfigPath
		}
	}

	if cfgDir := osUserConfigDir(); cfgDir != "" {
		userConfigPath := filepath.Join(cfgDir, AppName, AppName+".toml")
		if _, err := os.Stat(userConfigPath); err == nil {
			return userConfigPath
		}
	}

	return ""
}

// osUserConfigDir returns the OS-specific user config directory.
// Returns empty string if the directory cannot be determined.
func osUserConfigDir() string {
	switch runtime.GOOS {
	case "windows":
		if appdata := os.Getenv("APPDATA"); appdata != "" {
			return appdata
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, "Library", "Application Support")
		}
	case "linux", "openbsd", "freebsd", "netbsd":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return xdg
		}
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, ".config")
		}
	}
	return ""
}

// setDefaults applies default values to the config. DataDir and LogFile
// stay empty here and are resolved by finalizeConfig.
func setDefaults(cfg *Config) {
	cfg.DataFile = DefaultDataFile
	cfg.Emotions = DefaultEmotions()
	cfg.IdleFrames = DefaultIdleFrames()
	cfg.HappyDurationMs = DefaultHappyDurationMs
	cfg.FrameIntervalMs = DefaultFrameIntervalMs
	cfg.MaxWidth = DefaultMaxWidth
	cfg.MaxHeight = DefaultMaxHeight
	cfg.ArtWidth = DefaultArtWidth
	cfg.Templates = DefaultTemplates()
	cfg.Watch = true

	cfg.LogLevel = "info"
	cfg.LogFormat = "text"
}

// GetConfigFile returns the config file with the highest priority that was read.
func (cws *ConfigWithSources) GetConfigFile() string {
	if len(cws.Files) == 0 {
		return ""
	}
	return cws.Files[len(cws.Files)-1]
}
