package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestBuild(t *testing.T) {
	prod, err := Build("production")
	require.NoError(t, err)
	assert.False(t, prod.Core().Enabled(zapcore.DebugLevel))

	dev, err := Build("development")
	require.NoError(t, err)
	assert.True(t, dev.Core().Enabled(zapcore.DebugLevel))
}

func TestInitializeReplacesGlobal(t *testing.T) {
	before := Log
	l := Initialize("development")
	assert.Same(t, l, Log)
	assert.NotSame(t, before, Log)
}
