package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// useTempDir points session logs at a temporary directory for one test.
func useTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	stateMu.Lock()
	origDir := logDir
	stateMu.Unlock()

	SetDirectory(dir)
	t.Cleanup(func() { SetDirectory(origDir) })
	return dir
}

func TestNewLogger(t *testing.T) {
	dir := useTempDir(t)

	logger, err := NewLogger("browser")
	require.NoError(t, err)
	defer logger.Close()

	assert.Equal(t, "browser", logger.component)
	assert.NotEmpty(t, logger.SessionID())
	assert.Equal(t, dir, filepath.Dir(logger.LogPath()))
	assert.FileExists(t, logger.LogPath())

	name := filepath.Base(logger.LogPath())
	assert.True(t, strings.HasSuffix(name, "-pagekit.log"), name)
}

func TestLoggerFormatting(t *testing.T) {
	useTempDir(t)

	logger, err := NewLogger("test")
	require.NoError(t, err)
	defer logger.Close()

	logger.Debugf("Debug message")
	logger.Infof("Info message %d", 123)
	logger.Warnf("Warning message")
	logger.Errorf("Error message")
	logger.With("sub").Infof("nested")

	content, err := os.ReadFile(logger.LogPath())
	require.NoError(t, err)

	for _, pattern := range []string{
		"[test] [DEBUG] Debug message",
		"[test] [INFO] Info message 123",
		"[test] [WARN] Warning message",
		"[test] [ERROR] Error message",
		"[test/sub] [INFO] nested",
	} {
		assert.Contains(t, string(content), pattern)
	}
}

func TestMultipleComponentsShareSession(t *testing.T) {
	useTempDir(t)

	a, err := NewLogger("a")
	require.NoError(t, err)
	defer a.Close()
	b, err := NewLogger("b")
	require.NoError(t, err)
	defer b.Close()

	assert.Equal(t, a.SessionID(), b.SessionID())
	assert.Equal(t, a.LogPath(), b.LogPath())
	assert.Equal(t, SessionID(), a.SessionID())
}

func TestWriterLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger("report", &buf)
	l.Infof("hello %s", "world")

	assert.Contains(t, buf.String(), "[report] [INFO] hello world")
	assert.Empty(t, l.LogPath())
	assert.NoError(t, l.Close())
}

func TestLoggerClose(t *testing.T) {
	useTempDir(t)

	logger, err := NewLogger("test")
	require.NoError(t, err)

	assert.NoError(t, logger.Close())
	assert.NoError(t, logger.Close())
}

func TestDirectoryCreatesPath(t *testing.T) {
	base := useTempDir(t)
	nested := filepath.Join(base, "a", "b")
	SetDirectory(nested)

	dir, err := Directory()
	require.NoError(t, err)
	assert.DirExists(t, dir)
}
