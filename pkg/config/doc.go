// Package config loads dotrig's configuration.
//
// Values are layered with koanf, later layers winning:
//
//  1. embedded defaults (embedded/defaults.toml)
//  2. the config file: --config, $DOTRIG_CONFIG, or
//     $XDG_CONFIG_HOME/dotrig/config.toml when present (TOML or YAML)
//  3. DOTRIG_* environment variables, "_" separating key levels
//  4. overrides passed by the caller (command line flags)
package config
