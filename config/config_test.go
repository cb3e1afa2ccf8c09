package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte("log_level: debug\nlog_file: \"-\"\nknown_curves_only: true\n"))
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "-", cfg.LogFile)
	assert.True(t, cfg.KnownCurvesOnly)

	cfg, err = Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, &Config{}, cfg)

	_, err = Parse([]byte("log_levle: debug\n"))
	assert.Error(t, err)
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keyconv.yml")
	require.NoError(t, os.WriteFile(path, []byte("known_curves_only: true\n"), 0600))
	cfg, err := ReadFile(path)
	require.NoError(t, err)
	assert.True(t, cfg.KnownCurvesOnly)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.yml"))
	assert.True(t, os.IsNotExist(err))
}

func TestDefaultConfig(t *testing.T) {
	t.Setenv("USERPROFILE", "")
	t.Setenv("HOME", "/home/tester")
	assert.Equal(t, filepath.Join("/home/tester", ".config", "keyconv", "keyconv.yml"), DefaultConfig())
	t.Setenv("HOME", "")
	assert.Equal(t, "", DefaultConfig())
}
