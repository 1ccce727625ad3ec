package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# todoneko configuration file
# Values can be overridden by TODONEKO_* environment variables or CLI flags

# Directory holding the data file (supports ~ expansion and %VAR% on Windows)
# data_dir = "~/.local/share/todoneko"

# Data file, relative to data_dir
data_file = "data.json"

# Directory with emotion images; empty uses the built-in art
# asset_dir = "~/Pictures/neko"

# How long the pet stays happy after a task is completed (ms)
happy_duration_ms = 1500

# Idle animation interval (ms) and the frames it alternates through
frame_interval_ms = 1500
idle_frames = ["normal", "blink"]

# Images are scaled to fit this box before conversion
max_width = 200
max_height = 200

# Pet width in terminal columns
art_width = 40

# Quick-add templates, cycled with ctrl+t
templates = ["Drink water", "Rest your eyes", "Stand up and stretch", "Check the schedule"]

# Reload when the data file changes on disk
watch = true

# Logging; log_file is relative to data_dir
log_level = "info"
log_format = "text"
# log_file = "todoneko.log"

# Emotions in cycle order. The first listed is not special; "normal" is the fallback.
[[emotions]]
name = "normal"
file = "normal.png"

[[emotions]]
name = "happy"
file = "happy.png"

[[emotions]]
name = "curious"
file = "curious.png"

[[emotions]]
name = "blink"
file = "wink.png"
`
}
