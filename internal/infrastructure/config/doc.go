// Package config loads tami configuration.
//
// Precedence, lowest first: built-in defaults, an optional config.toml /
// config.yaml in the data directory, environment variables.
//
// Environment:
//
//	TAMI_ROOT           folder tree root (default: home)
//	TAMI_DATA_DIR       favorites/config/log directory
//	TAMI_DEFAULT_SHELL  shell used when the login shell cannot be resolved
//	TAMI_COLS, TAMI_ROWS
//	TAMI_SHELL_ENV      extra shell env, "KEY:value,KEY2:value"
//	TAMI_STATUS_ADDR    serve health, favorites and metrics on this address
//	TAMI_STATUS_ORIGINS CORS origins for the status listener
//	TAMI_STATUS_RPS, TAMI_STATUS_BURST
//	LOG_LEVEL, LOG_DEV, LOG_FILE
package config
