// Package logger provides a structured logging facility based on Zap.
//
// It builds a development or production logger from Config and offers
// helpers that attach request and collection context to log entries.
//
// # Context Awareness
//
// WithRayID extracts the RayID set by the rayid middleware from a Fiber
// context, so every log line of one request can be correlated. WithCollection
// scopes a logger to the collection being reconciled.
//
// # Configuration
//
//   - Level: debug, info, warn, error
//   - Format: json (production) or console (development)
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	log.Info("Server started")
//
//	l := logger.WithRayID(log, c)
//	l.Error("Handler failed", zap.Error(err))
package logger
