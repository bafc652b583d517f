package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		format  string
		wantErr bool
		enabled zapcore.Level
	}{
		{"console debug", "debug", "console", false, zapcore.DebugLevel},
		{"json info", "INFO", "json", false, zapcore.InfoLevel},
		{"bad level", "loud", "json", true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.level, tt.format)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !logger.Core().Enabled(tt.enabled) {
				t.Errorf("level %v should be enabled", tt.enabled)
			}
			if logger.Core().Enabled(tt.enabled - 1) {
				t.Errorf("level %v should be disabled", tt.enabled-1)
			}
		})
	}
}
