// Package logger provides structured logging for rxkit using zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers kept in a small named registry. The rx core
// fetches its logger with Get("rx") so applications can replace it.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("relay")
//	log.Info("channel created", logger.Fields("channel", name))
package logger
