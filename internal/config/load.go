package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/nibzard/todoneko/internal/utils"
)

// Load loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. User config file (~/.todoneko/todoneko.toml or OS-specific config dir)
// 3. Project config file (todoneko.toml or .todoneko.toml in current directory)
// 4. Environment variables
// 5. CLI flags
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cws, err := LoadWithSources(fs, args)
	if err != nil {
		return nil, err
	}
	return cws.Config, nil
}

// LoadWithSources loads configuration and tracks the source of each value.
// Returns ConfigWithSources containing the config and a map of field names to their sources.
func LoadWithSources(fs *flag.FlagSet, args []string) (*ConfigWithSources, error) {
	sources := make(map[string]ConfigSource)
	cfg := &Config{}

	// 1. Set defaults (all fields start with default source)
	setDefaults(cfg)
	for _, field := range configFields() {
		sources[field] = SourceDefault
	}

	var files []string

	// 2. Try to load from user config file
	if userConfigFile := findUserConfigFile(); userConfigFile != "" {
		if err := loadConfigFile(cfg, userConfigFile, sources, SourceUserFile); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", userConfigFile, err)
		}
		files = append(files, userConfigFile)
	}

	// 3. Try to load from project config file (overrides user config)
	if projectConfigFile := findProjectConfigFile(); projectConfigFile != "" {
		if err := loadConfigFile(cfg, projectConfigFile, sources, SourceProjFile); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", projectConfigFile, err)
		}
		files = append(files, projectConfigFile)
	}

	// 4. Override from environment
	if err := loadFromEnv(cfg, sources); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	// 5. Parse CLI flags (they override everything)
	if err := parseFlags(cfg, fs, args, sources); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	// 6. Compute derived values
	if err := finalizeConfig(cfg); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}

	return &ConfigWithSources{
		Config:  cfg,
		Sources: sources,
		Files:   files,
	}, nil
}

// fileField copies one TOML key from a decoded file into the config.
type fileField struct {
	key   string
	apply func(dst, src *Config)
}

var fileFields = []fileField{
	{"data_dir", func(dst, src *Config) { dst.DataDir = src.DataDir }},
	{"data_file", func(dst, src *Config) { dst.DataFile = src.DataFile }},
	{"asset_dir", func(dst, src *Config) { dst.AssetDir = src.AssetDir }},
	{"emotions", func(dst, src *Config) { dst.Emotions = src.Emotions }},
	{"idle_frames", func(dst, src *Config) { dst.IdleFrames = src.IdleFrames }},
	{"happy_duration_ms", func(dst, src *Config) { dst.HappyDurationMs = src.HappyDurationMs }},
	{"frame_interval_ms", func(dst, src *Config) { dst.FrameIntervalMs = src.FrameIntervalMs }},
	{"max_width", func(dst, src *Config) { dst.MaxWidth = src.MaxWidth }},
	{"max_height", func(dst, src *Config) { dst.MaxHeight = src.MaxHeight }},
	{"art_width", func(dst, src *Config) { dst.ArtWidth = src.ArtWidth }},
	{"templates", func(dst, src *Config) { dst.Templates = src.Templates }},
	{"watch", func(dst, src *Config) { dst.Watch = src.Watch }},
	{"log_level", func(dst, src *Config) { dst.LogLevel = src.LogLevel }},
	{"log_format", func(dst, src *Config) { dst.LogFormat = src.LogFormat }},
	{"log_file", func(dst, src *Config) { dst.LogFile = src.LogFile }},
	{"log_timestamps", func(dst, src *Config) { dst.LogTimestamps = src.LogTimestamps }},
}

// configFields returns the list of configurable field names for source tracking.
func configFields() []string {
	fields := make([]string, 0, len(fileFields))
	for _, f := range fileFields {
		fields = append(fields, f.key)
	}
	return fields
}

// loadConfigFile decodes a TOML file and applies only the keys it defines,
// so a file that sets one key leaves every other value alone.
func loadConfigFile(cfg *Config, path string, sources map[string]ConfigSource, source ConfigSource) error {
	tempCfg := &Config{}
	md, err := toml.DecodeFile(path, tempCfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown key %q", undecoded[0].String())
	}

	for _, f := range fileFields {
		if !md.IsDefined(f.key) {
			continue
		}
		f.apply(cfg, tempCfg)
		if sources != nil {
			sources[f.key] = source
		}
	}
	return nil
}

// finalizeConfig computes derived values and validates them.
func finalizeConfig(cfg *Config) error {
	// Expand ~ in paths
	cfg.DataDir = expandPath(cfg.DataDir)
	cfg.DataFile = expandPath(cfg.DataFile)
	cfg.AssetDir = expandPath(cfg.AssetDir)
	cfg.LogFile = expandPath(cfg.LogFile)

	if cfg.DataDir == "" {
		dir, err := DefaultDataDir()
		if err != nil {
			return err
		}
		cfg.DataDir = dir
	}
	if !filepath.IsAbs(cfg.DataDir) {
		abs, err := filepath.Abs(cfg.DataDir)
		if err != nil {
			return fmt.Errorf("resolving data dir: %w", err)
		}
		cfg.DataDir = abs
	}

	if cfg.DataFile == "" {
		cfg.DataFile = DefaultDataFile
	}
	if !filepath.IsAbs(cfg.DataFile) {
		cfg.DataFile = filepath.Join(cfg.DataDir, cfg.DataFile)
	}

	if cfg.LogFile == "" {
		cfg.LogFile = filepath.Join(cfg.DataDir, DefaultLogFile)
	} else if !filepath.IsAbs(cfg.LogFile) {
		cfg.LogFile = filepath.Join(cfg.DataDir, cfg.LogFile)
	}

	if cfg.AssetDir != "" && !filepath.IsAbs(cfg.AssetDir) {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		cfg.AssetDir = filepath.Join(wd, cfg.AssetDir)
	}

	for i := range cfg.Emotions {
		cfg.Emotions[i].Name = utils.NormalizeName(cfg.Emotions[i].Name)
	}
	cfg.IdleFrames = utils.NormalizeNames(cfg.IdleFrames)

	return cfg.Validate()
}
