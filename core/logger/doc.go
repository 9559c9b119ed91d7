// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance supporting development
// (console) and production (json) encodings.
//
// # Context awareness
//
// The WithRayID helper extracts the request ray id from a Fiber context
// and attaches it to the log entry, so all log lines of one request can
// be correlated.
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	log.Info("Server started")
//
//	// In a request handler:
//	l := logger.WithRayID(log, c)
//	l.Error("Handler failed", zap.Error(err))
package logger
