// Package logging provides structured logging for locsim.
//
// This package wraps a package-level zap logger with convenience functions
// for the log lines emitted by the map state store, the event streams and
// the map surface bridge.
//
// # Log Levels
//
//   - Debug: State operations, event publishes, bridge messages
//   - Info: Connections, bridge start/stop, mDNS registration
//   - Warn: Persistence failures, dropped or malformed bridge messages
//   - Error: Startup failures
//
// # Configuration
//
// Logging is silent unless a level is given explicitly or through the
// LOCSIM_LOG_LEVEL environment variable:
//
//	if err := logging.Initialize("debug"); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// While the terminal UI is running, log output goes to a file instead of
// stdout:
//
//	logging.InitializeWithOutput(level, "/home/me/.config/locsim/locsim.log")
//
// # Thread Safety
//
// All logging functions are safe for concurrent use once initialized.
package logging
