// Package logging provides structured logging using uber/zap.
//
// Production mode writes JSON for machine parsing; development mode writes
// colored console output at debug level. Components receive a named child
// logger:
//
//	logger := logging.NewDefault()
//	kernel := window.NewManager(logger.Component("kernel"))
package logging
