// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file (~/.todoneko/todoneko.toml or OS-specific config directory)
// 3. Project config file (todoneko.toml or .todoneko.toml in the working directory)
// 4. Environment variables (TODONEKO_*)
// 5. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence. A
// config file only overrides the keys it actually sets.
//
// User-level config locations:
// - ~/.todoneko/todoneko.toml (preferred)
// - Windows: %APPDATA%\todoneko\todoneko.toml
// - macOS: ~/Library/Application Support/todoneko/todoneko.toml
// - Linux/BSD: $XDG_CONFIG_HOME/todoneko/todoneko.toml or ~/.config/todoneko/todoneko.toml
//
// The data file lives in the per-user data directory unless data_dir or
// data_file say otherwise:
// - Windows: %APPDATA%\todoneko
// - macOS: ~/Library/Application Support/todoneko
// - Linux/BSD: $XDG_DATA_HOME/todoneko or ~/.local/share/todoneko
package config
