// Package logger provides structured logging for iterkit adapters
// using zerolog.
//
// Loggers are plain instances handed to adapters at construction time;
// there is no process-global logger. Adapters that are not given one log
// nothing (NewNop).
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.NewDefault("my-service").WithComponent("relay")
//	log.Info("relay started", logger.Fields("capacity", 64))
package logger
