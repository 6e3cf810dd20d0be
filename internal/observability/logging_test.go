package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campus-transit/grievance-service/internal/config"
)

func TestNewLogger_Levels(t *testing.T) {
	tests := []struct {
		level    string
		debugOn  bool
		warnOn   bool
		encoding string
	}{
		{level: "debug", debugOn: true, warnOn: true, encoding: "json"},
		{level: "WARN", debugOn: false, warnOn: true, encoding: "console"},
		{level: "nonsense", debugOn: false, warnOn: true},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger, err := NewLogger(config.LoggerConfig{Level: tt.level, Encoding: tt.encoding, Service: "grievance-service"})
			require.NoError(t, err)
			assert.Equal(t, tt.debugOn, logger.Core().Enabled(zap.DebugLevel))
			assert.Equal(t, tt.warnOn, logger.Core().Enabled(zap.WarnLevel))
		})
	}
}

func TestNewLogger_UnknownEncodingFails(t *testing.T) {
	_, err := NewLogger(config.LoggerConfig{Level: "info", Encoding: "xml"})
	assert.Error(t, err)
}
