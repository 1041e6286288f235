// Package config holds the process-level settings of the server: where to
// listen, where manifests come from, how verbosely to log, and how often to
// refresh. Kept as a plain struct rather than a config-file layer (no pack
// repo's use of viper survives a grep of its own source — see DESIGN.md).
// The cmd/marian commands bind their own cobra flags and do not read this
// package.
package config

import "time"

// Config is the fully resolved process configuration.
type Config struct {
	// ListenAddr is the address the HTTP server binds, e.g. ":8080".
	ListenAddr string

	// ManifestSource is a "dir:<path>" or "bucket:<name>/<prefix>" loader
	// selector, passed straight to manifest.ParseSource.
	ManifestSource string

	// LogLevel is a zerolog level name: "debug", "info", "warn", "error".
	LogLevel string

	// RefreshInterval is the period of a background refresh; zero means
	// none. Nothing in this repository starts a periodic refresh: the index
	// is rebuilt at startup and via POST /refresh only.
	RefreshInterval time.Duration
}

// Default returns a Config with the engine's baseline settings, overridden
// by whatever the CLI layer binds on top of it.
func Default() Config {
	return Config{
		ListenAddr: ":8080",
		LogLevel:   "info",
	}
}
