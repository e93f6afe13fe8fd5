// Package logging provides structured logging using uber/zap.
//
// Two modes:
//   - Production: JSON lines, suitable for a log file in the app data dir
//   - Development: coloured console output on stderr
//
// Components receive a named child logger:
//
//	logger, err := logging.New(logging.DefaultConfig())
//	registry := terminal.NewRegistry(spawner, terminal.WithLogger(logger.Component("terminal")))
package logging
