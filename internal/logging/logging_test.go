package logging

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	logger, err := New("debug", "console")
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	logger, err = New("warn", "json")
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))

	_, err = New("loud", "json")
	assert.Error(t, err)
}

func TestNewAccessLogger(t *testing.T) {
	log, err := NewAccessLogger("warn")
	require.NoError(t, err)
	assert.Equal(t, logrus.WarnLevel, log.GetLevel())

	_, err = NewAccessLogger("loud")
	assert.Error(t, err)
}
