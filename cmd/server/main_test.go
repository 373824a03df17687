package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/suspectgrid/suspect-server-go/internal/config"
)

func TestInitLogger(t *testing.T) {
	cases := []struct {
		cfg   config.LoggingConfig
		level zapcore.Level
	}{
		{config.LoggingConfig{Level: "debug", Format: "console"}, zapcore.DebugLevel},
		{config.LoggingConfig{Level: "warn", Format: "json"}, zapcore.WarnLevel},
		{config.LoggingConfig{Level: "bogus"}, zapcore.InfoLevel},
	}
	for _, tc := range cases {
		logger, err := initLogger(tc.cfg)
		require.NoError(t, err)
		assert.True(t, logger.Core().Enabled(tc.level))
		assert.False(t, logger.Core().Enabled(tc.level-1))
	}
}
