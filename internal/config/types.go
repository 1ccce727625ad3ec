package config

import (
	"fmt"
	"time"
)

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	// Files lists the config files that were read, user file first.
	Files []string
}

// Default values.
const (
	AppName                = "todoneko"
	DefaultDataFile        = "data.json"
	DefaultLogFile         = "todoneko.log"
	DefaultHappyDurationMs = 1500
	DefaultFrameIntervalMs = 1500
	DefaultMaxWidth        = 200
	DefaultMaxHeight       = 200
	DefaultArtWidth        = 40
)

// DefaultEmotions returns the built-in emotion set in cycle order.
func DefaultEmotions() []EmotionAsset {
	return []EmotionAsset{
		{Name: "normal", File: "normal.png"},
		{Name: "happy", File: "happy.png"},
		{Name: "curious", File: "curious.png"},
		{Name: "blink", File: "wink.png"},
	}
}

// DefaultTemplates returns the built-in quick-add templates.
func DefaultTemplates() []string {
	return []string{"Drink water", "Rest your eyes", "Stand up and stretch", "Check the schedule"}
}

// DefaultIdleFrames returns the frames shown while the pet is idle.
func DefaultIdleFrames() []string {
	return []string{"normal", "blink"}
}

// EmotionAsset names an emotion and the image file drawn for it.
type EmotionAsset struct {
	Name string `toml:"name"`
	File string `toml:"file"`
}

// Config holds the full configuration for todoneko.
type Config struct {
	// Paths
	DataDir  string `toml:"data_dir"`
	DataFile string `toml:"data_file"`
	AssetDir string `toml:"asset_dir"`

	// Pet
	Emotions        []EmotionAsset `toml:"emotions"`
	IdleFrames      []string       `toml:"idle_frames"`
	HappyDurationMs int            `toml:"happy_duration_ms"`
	FrameIntervalMs int            `toml:"frame_interval_ms"`
	MaxWidth        int            `toml:"max_width"`
	MaxHeight       int            `toml:"max_height"`
	ArtWidth        int            `toml:"art_width"`

	// Checklist
	Templates []string `toml:"templates"`

	// Reload when the data file changes on disk
	Watch bool `toml:"watch"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogFile       string `toml:"log_file"`
	LogTimestamps bool   `toml:"log_timestamps"`
}

// EmotionNames returns the configured emotion names in cycle order.
func (c *Config) EmotionNames() []string {
	names := make([]string, 0, len(c.Emotions))
	for _, e := range c.Emotions {
		names = append(names, e.Name)
	}
	return names
}

// EmotionFile returns the image file for an emotion, or "" if none.
func (c *Config) EmotionFile(name string) string {
	for _, e := range c.Emotions {
		if e.Name == name {
			return e.File
		}
	}
	return ""
}

// HappyDuration returns how long a completed task keeps the pet happy.
func (c *Config) HappyDuration() time.Duration {
	return time.Duration(c.HappyDurationMs) * time.Millisecond
}

// FrameInterval returns the idle animation interval.
func (c *Config) FrameInterval() time.Duration {
	return time.Duration(c.FrameIntervalMs) * time.Millisecond
}

// Validate checks values that defaults cannot repair.
func (c *Config) Validate() error {
	if len(c.Emotions) == 0 {
		return fmt.Errorf("emotions: at least one emotion is required")
	}
	seen := make(map[string]bool, len(c.Emotions))
	for i, e := range c.Emotions {
		if e.Name == "" {
			return fmt.Errorf("emotions[%d]: name is empty", i)
		}
		if seen[e.Name] {
			return fmt.Errorf("emotions[%d]: duplicate name %q", i, e.Name)
		}
		seen[e.Name] = true
	}
	for _, f := range c.IdleFrames {
		if f != "normal" && !seen[f] {
			return fmt.Errorf("idle_frames: unknown emotion %q", f)
		}
	}
	if c.HappyDurationMs <= 0 {
		return fmt.Errorf("happy_duration_ms must be positive, got %d", c.HappyDurationMs)
	}
	if c.FrameIntervalMs <= 0 {
		return fmt.Errorf("frame_interval_ms must be positive, got %d", c.FrameIntervalMs)
	}
	if c.MaxWidth <= 0 || c.MaxHeight <= 0 {
		return fmt.Errorf("max_width and max_height must be positive, got %dx%d", c.MaxWidth, c.MaxHeight)
	}
	if c.ArtWidth <= 0 {
		return fmt.Errorf("art_width must be positive, got %d", c.ArtWidth)
	}
	return nil
}
