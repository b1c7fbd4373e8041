package logger

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestGet_DefaultLevel(t *testing.T) {
	log := Get()
	require.NotNil(t, log)
	require.False(t, log.Core().Enabled(zapcore.DebugLevel))

	SetLevel(zapcore.DebugLevel)
	defer SetLevel(zapcore.WarnLevel)
	require.True(t, log.Core().Enabled(zapcore.DebugLevel))
}

func TestSetLogger(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	SetLogger(zap.New(core))
	defer SetLogger(nil)

	Get().Info("hello")
	require.Equal(t, 1, recorded.Len())
	require.Equal(t, "hello", recorded.All()[0].Message)
}
