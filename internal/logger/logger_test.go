package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	tests := []struct {
		level   string
		debugOn bool
		infoOn  bool
	}{
		{level: "debug", debugOn: true, infoOn: true},
		{level: "info", debugOn: false, infoOn: true},
		{level: "warn", debugOn: false, infoOn: false},
		{level: "error", debugOn: false, infoOn: false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			l, err := New(tt.level)
			require.NoError(t, err)
			assert.Equal(t, tt.debugOn, l.Core().Enabled(zap.DebugLevel))
			assert.Equal(t, tt.infoOn, l.Core().Enabled(zap.InfoLevel))
			assert.True(t, l.Core().Enabled(zap.ErrorLevel))
		})
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New("loud")
	assert.Error(t, err)
}
