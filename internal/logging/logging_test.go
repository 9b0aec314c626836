package logging

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, LevelWarn, ParseLevel("warning"))
	assert.Equal(t, LevelError, ParseLevel("error"))
	assert.Equal(t, LevelInfo, ParseLevel("nonsense"))
}

func TestLogger_WritesFileAndConsole(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "test.log")
	var console bytes.Buffer

	l, err := New(Config{Level: "info", File: path, Console: &console})
	require.NoError(t, err)

	l.Debug("sync", "hidden")
	l.Info("sync", "pass complete", F("marked", 3))
	l.Error("dupes", "delete failed", errors.New("boom"), F("variant", "v1"))
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)

	assert.NotContains(t, content, "hidden")
	assert.Contains(t, content, "[INFO] [sync] pass complete | marked=3")
	assert.Contains(t, content, "[ERROR] [dupes] delete failed | error=boom | variant=v1")
	assert.Equal(t, content, console.String())
}

func TestLogger_Rotates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")

	l, err := New(Config{Level: "debug", File: path, MaxBackups: 2})
	require.NoError(t, err)
	l.maxSize = 64

	for i := 0; i < 20; i++ {
		l.Info("test", strings.Repeat("x", 40))
	}
	require.NoError(t, l.Close())

	_, err = os.Stat(filepath.Join(dir, "app.1.log"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "app.2.log"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "app.4.log"))
	assert.True(t, os.IsNotExist(err))
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Error("x", "y", errors.New("z"))
	assert.NoError(t, l.Close())
}
