package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/nibzard/todoneko/internal/utils"
)

// EnvPrefix prefixes every environment variable todoneko reads.
const EnvPrefix = "TODONEKO_"

// loadFromEnv overrides config from TODONEKO_* environment variables.
// If sources is non-nil, it tracks the source of each value.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) error {
	set := func(field string) {
		if sources != nil {
			sources[field] = SourceEnv
		}
	}
	lookup := func(field string) (string, bool) {
		v, ok := os.LookupEnv(EnvPrefix + strings.ToUpper(field))
		if !ok || strings.TrimSpace(v) == "" {
			return "", false
		}
		return v, true
	}
	setString := func(field string, dst *string) {
		if v, ok := lookup(field); ok {
			*dst = v
			set(field)
		}
	}
	setInt := func(field string, dst *int) error {
		v, ok := lookup(field)
		if !ok {
			return nil
		}
		i, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s%s: %q is not an integer", EnvPrefix, strings.ToUpper(field), v)
		}
		*dst = i
		set(field)
		return nil
	}
	setBool := func(field string, dst *bool) {
		if v, ok := lookup(field); ok {
			*dst = boolFromString(v)
			set(field)
		}
	}
	setList := func(field string, dst *[]string) {
		if v, ok := lookup(field); ok {
			*dst = utils.SplitAndTrim(v, ",")
			set(field)
		}
	}

	setString("data_dir", &cfg.DataDir)
	setString("data_file", &cfg.DataFile)
	setString("asset_dir", &cfg.AssetDir)
	for _, f := range []struct {
		field string
		dst   *int
	}{
		{"happy_duration_ms", &cfg.HappyDurationMs},
		{"frame_interval_ms", &cfg.FrameIntervalMs},
		{"max_width", &cfg.MaxWidth},
		{"max_height", &cfg.MaxHeight},
		{"art_width", &cfg.ArtWidth},
	} {
		if err := setInt(f.field, f.dst); err != nil {
			return err
		}
	}
	setList("templates", &cfg.Templates)
	setList("idle_frames", &cfg.IdleFrames)
	setBool("watch", &cfg.Watch)

	// Logging configuration
	setString("log_level", &cfg.LogLevel)
	setString("log_format", &cfg.LogFormat)
	setString("log_file", &cfg.LogFile)
	setBool("log_timestamps", &cfg.LogTimestamps)
	return nil
}

// boolFromString reports whether s is one of the usual truthy spellings.
func boolFromString(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on", "y":
		return true
	}
	return false
}
