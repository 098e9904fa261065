package logger

import (
	"context"
	"time"
)

// LogRateLimit logs a rate limit back-off. stage is "initial" or "pagination".
func LogRateLimit(l Logger, stage string, wait time.Duration, resetAt *time.Time) {
	fields := map[string]interface{}{
		"stage":  stage,
		"wait":   wait,
		"action": "rate_limited",
	}
	if resetAt != nil {
		fields["reset_at"] = *resetAt
	}
	l.WarnWithFields("Rate limit exceeded, backing off", fields)
}

// LogSearchProgress logs how many items a search has collected so far
func LogSearchProgress(l Logger, query, mode string, collected, target int) {
	l.InfoWithFields("Collected items so far", map[string]interface{}{
		"query":     query,
		"mode":      mode,
		"collected": collected,
		"target":    target,
	})
}

// LogAttemptFailed logs a failed outer attempt before its retry delay
func LogAttemptFailed(l Logger, attempt, maxAttempts int, err error, delay time.Duration) {
	l.WithError(err).WarnWithFields("Search attempt failed", map[string]interface{}{
		"attempt":      attempt,
		"max_attempts": maxAttempts,
		"delay":        delay,
	})
}

// NewNopLogger creates a no-operation logger for testing
func NewNopLogger() Logger {
	return &nopLogger{}
}

// nopLogger is a logger that does nothing
type nopLogger struct{}

func (n *nopLogger) Debug(msg string)                                          {}
func (n *nopLogger) Info(msg string)                                           {}
func (n *nopLogger) Warn(msg string)                                           {}
func (n *nopLogger) Error(msg string)                                          {}
func (n *nopLogger) Fatal(msg string)                                          {}
func (n *nopLogger) WithField(key string, value interface{}) Logger            { return n }
func (n *nopLogger) WithFields(fields map[string]interface{}) Logger           { return n }
func (n *nopLogger) WithError(err error) Logger                                { return n }
func (n *nopLogger) WithContext(ctx context.Context) Logger                    { return n }
func (n *nopLogger) DebugWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) InfoWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) WarnWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) ErrorWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) FatalWithFields(msg string, fields map[string]interface{}) {}
