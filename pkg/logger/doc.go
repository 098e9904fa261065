// Package logger provides a structured logging interface for tweetsearch.
//
// It wraps zerolog behind the Logger interface so components can take a
// logger as a dependency and tests can substitute NewNopLogger or
// NewTestLogger.
//
// Basic usage:
//
//	err := logger.Initialize(&cfg.Logging)
//	logger.GetLogger().WithField("query", "#btc").Info("Searching")
//
//	log := logger.GetLogger().WithField("component", "paginator")
//	log.InfoWithFields("Collected items so far", map[string]interface{}{
//	    "collected": 40,
//	    "target":    30,
//	})
package logger
