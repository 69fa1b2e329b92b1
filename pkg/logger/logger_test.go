package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	t.Run("defaults fill missing encoding", func(t *testing.T) {
		l, err := newLogger(Config{Level: "info"})
		require.NoError(t, err)
		assert.NotNil(t, l)
	})

	t.Run("console encoding", func(t *testing.T) {
		l, err := newLogger(Config{Level: "debug", Encoding: "console", Development: true})
		require.NoError(t, err)
		assert.NotNil(t, l)
	})

	t.Run("invalid level", func(t *testing.T) {
		_, err := newLogger(Config{Level: "verbose"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}

func TestGetIsNeverNil(t *testing.T) {
	assert.NotNil(t, Get())
	assert.NotNil(t, With())
	assert.NoError(t, Sync())
}
