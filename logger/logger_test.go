package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesConsoleAndFile(t *testing.T) {
	var console bytes.Buffer
	file := filepath.Join(t.TempDir(), "vellum.log")

	log, err := New(Options{Level: "debug", File: file, Console: &console})
	require.NoError(t, err)
	log.Debug("page break")
	log.Info("export finished")
	_ = log.Sync()

	assert.Contains(t, console.String(), "page break")
	assert.Contains(t, console.String(), "export finished")

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"export finished"`)
}

func TestNewRespectsLevel(t *testing.T) {
	var console bytes.Buffer
	log, err := New(Options{Level: "warn", Console: &console})
	require.NoError(t, err)
	log.Info("hidden")
	log.Warn("shown")

	assert.NotContains(t, console.String(), "hidden")
	assert.Contains(t, console.String(), "shown")
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(Options{Level: "loud"})
	assert.Error(t, err)
}
