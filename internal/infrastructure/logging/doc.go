// Package logging provides structured logging for the sygnal gateway.
//
// This package wraps Go's standard log/slog package to provide
// consistent, structured logging across the entire application.
//
// # Features
//
//   - JSON output for production (machine-parsable)
//   - Text output for development (human-readable)
//   - Default fields (service, version) on all log entries
//   - Level-based filtering (debug, info, warn, error)
//   - Thread-safe for concurrent use
//
// # Configuration
//
// Logging is configured via the LoggingConfig section of the config file:
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr
//
// # Usage
//
//	logger := logging.New(cfg.Logging, "1.0.0")
//	logger.Info("starting gateway", "port", 5000)
//	logger.Error("dispatch failed", "error", err)
//
// Request handlers attach the request identifier so every line emitted
// while handling a request can be correlated:
//
//	log := logger.With("request_id", "POST-42")
//
// # Security
//
// Never log pushkeys in full, auth secrets, or backend tokens.
package logging
