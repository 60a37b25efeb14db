package logger

import (
	"testing"

	"github.com/charmbracelet/log"
)

func TestSetup(t *testing.T) {
	defer log.SetLevel(log.GetLevel())

	tests := []struct {
		debug bool
		want  log.Level
	}{
		{true, log.DebugLevel},
		{false, log.WarnLevel},
	}
	for _, tt := range tests {
		Setup(tt.debug)
		if got := log.GetLevel(); got != tt.want {
			t.Errorf("Setup(%v): level = %v, want %v", tt.debug, got, tt.want)
		}
	}
}
