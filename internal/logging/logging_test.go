package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, "warn")
	require.NoError(t, err)
	logger.Info().Msg("hidden")
	logger.Warn().Str("label", "EC PRIVATE KEY").Msg("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"label":"EC PRIVATE KEY"`)
	assert.Contains(t, buf.String(), `"level":"warn"`)

	_, err = NewLogger(&buf, "chatty")
	assert.Error(t, err)
}

func TestSetupFile(t *testing.T) {
	saved := log.Logger
	defer func() { log.Logger = saved }()

	path := filepath.Join(t.TempDir(), "keyconv.log")
	closer, err := Setup("", path)
	require.NoError(t, err)
	log.Info().Str("input", "-").Msg("converted key")
	require.NoError(t, closer.Close())

	blob, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(blob), `"message":"converted key"`)
	assert.Contains(t, string(blob), `"input":"-"`)

	_, err = Setup("bogus", path)
	assert.Error(t, err)
}
