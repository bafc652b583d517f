package analytics

import "go.uber.org/zap"

// Logger defines the interface for logging. *zap.Logger satisfies it.
type Logger interface {
	Debug(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
}
