package main

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLogging_DisabledByDefault(t *testing.T) {
	defer log.SetOutput(os.Stderr)

	logFile := setupLogging(false)
	assert.Nil(t, logFile)
	assert.Equal(t, io.Discard, log.Writer())
}

func TestSetupLogging_EnabledWithDebug(t *testing.T) {
	chdir(t, t.TempDir())
	defer log.SetOutput(os.Stderr)

	logFile := setupLogging(true)
	require.NotNil(t, logFile)
	defer logFile.Close()

	log.Println("[SNAKE] [INFO] test message")

	data, err := os.ReadFile(filepath.Join(logDir, logFileName))
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "test message"))
}

func TestSetupLogging_Appends(t *testing.T) {
	chdir(t, t.TempDir())
	defer log.SetOutput(os.Stderr)

	first := setupLogging(true)
	require.NotNil(t, first)
	log.Println("first run")
	first.Close()

	second := setupLogging(true)
	require.NotNil(t, second)
	log.Println("second run")
	second.Close()

	data, err := os.ReadFile(filepath.Join(logDir, logFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "first run")
	assert.Contains(t, string(data), "second run")
}

// chdir changes the working directory for the duration of the test
// (equivalent to testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
