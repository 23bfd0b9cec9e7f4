package logging_test

import (
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/M-Chris/testing-hello-worlds-on-common-langs/internal/logging"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		level string
		want  zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"loud", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}

	for _, tc := range tests {
		t.Run(tc.level, func(t *testing.T) {
			logger, err := logging.New(tc.level, "json")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := logger.Level(); got != tc.want {
				t.Fatalf("expected level %s, got %s", tc.want, got)
			}
		})
	}
}

func TestNew_ConsoleFormat(t *testing.T) {
	logger, err := logging.New("info", "console")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if logger.Core().Enabled(zapcore.DebugLevel) {
		t.Fatal("debug should be disabled at info level")
	}
}
