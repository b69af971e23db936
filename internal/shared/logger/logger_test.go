package logger

import (
	"testing"

	"go.uber.org/zap"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		name      string
		env       string
		level     string
		wantDebug bool
	}{
		{"local is development", "local", "", true},
		{"prod defaults to info", "prod", "", false},
		{"LOG_LEVEL overrides", "local", "warn", false},
		{"invalid LOG_LEVEL ignored", "prod", "loud", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.level != "" {
				t.Setenv("LOG_LEVEL", tt.level)
			}
			log, err := New("scout-service", tt.env)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if got := log.Core().Enabled(zap.DebugLevel); got != tt.wantDebug {
				t.Errorf("debug enabled = %v, want %v", got, tt.wantDebug)
			}
		})
	}
}
