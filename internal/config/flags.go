package config

import (
	"flag"
)

// flagFields maps each global flag to the config key it sets.
var flagFields = map[string]string{
	"data-dir":       "data_dir",
	"data-file":      "data_file",
	"asset-dir":      "asset_dir",
	"happy-duration": "happy_duration_ms",
	"frame-interval": "frame_interval_ms",
	"art-width":      "art_width",
	"watch":          "watch",
	"log-level":      "log_level",
	"log-format":     "log_format",
	"log-file":       "log_file",
	"log-timestamps": "log_timestamps",
}

// parseFlags defines the global flags on fs and parses args. Only flags that
// were set on the command line override earlier layers. If sources is
// non-nil, it tracks the source of each value.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet(AppName, flag.ContinueOnError)
	}

	v := *cfg
	fs.StringVar(&v.DataDir, "data-dir", v.DataDir, "Directory holding the data file")
	fs.StringVar(&v.DataFile, "data-file", v.DataFile, "Data file (relative to data dir)")
	fs.StringVar(&v.AssetDir, "asset-dir", v.AssetDir, "Directory with emotion images")
	fs.IntVar(&v.HappyDurationMs, "happy-duration", v.HappyDurationMs, "Happy duration after completing a task (ms)")
	fs.IntVar(&v.FrameIntervalMs, "frame-interval", v.FrameIntervalMs, "Idle animation interval (ms)")
	fs.IntVar(&v.ArtWidth, "art-width", v.ArtWidth, "Pet width in terminal columns")
	fs.BoolVar(&v.Watch, "watch", v.Watch, "Reload when the data file changes on disk")
	fs.StringVar(&v.LogLevel, "log-level", v.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&v.LogFormat, "log-format", v.LogFormat, "Log format (text, json, logfmt)")
	fs.StringVar(&v.LogFile, "log-file", v.LogFile, "Log file used while the UI runs")
	fs.BoolVar(&v.LogTimestamps, "log-timestamps", v.LogTimestamps, "Show timestamps in logs")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		field, ok := flagFields[f.Name]
		if !ok {
			return
		}
		for _, ff := range fileFields {
			if ff.key == field {
				ff.apply(cfg, &v)
			}
		}
		if sources != nil {
			sources[field] = SourceFlag
		}
	})
	return nil
}
