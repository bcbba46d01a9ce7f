package artifact

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/pagekit/pkg/config"
)

func TestSave_UniqueSuffix(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir, true)

	first, err := s.SaveString("page.html", "a")
	require.NoError(t, err)
	second, err := s.SaveString("page.html", "b")
	require.NoError(t, err)
	third, err := s.SaveBytes("page.html", []byte("c"))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "page.html"), first)
	assert.Equal(t, filepath.Join(dir, "page-1.html"), second)
	assert.Equal(t, filepath.Join(dir, "page-2.html"), third)

	data, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, "b", string(data))
}

func TestSave_SuffixSkipsTimestampDot(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"20260102-030405.000_x", "20260102-030405.000_x-1"},
		{"20260102-030405.000_LoginPage_pkg.LoginPage_AfterInit.png", "20260102-030405.000_LoginPage_pkg.LoginPage_AfterInit-1.png"},
		{"a.png", "a-1.png"},
		{".env", ".env-1"},
		{"notes", "notes-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			s := NewStore(dir, true)

			_, err := s.SaveString(tt.name, "a")
			require.NoError(t, err)
			second, err := s.SaveString(tt.name, "b")
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(dir, tt.want), second)
		})
	}
}

func TestSave_Disabled(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	s := NewStore(dir, false)

	path, err := s.SaveString("x.txt", "x")
	require.NoError(t, err)
	assert.Empty(t, path)

	path, err = s.CopyFile("y.txt", "does-not-exist")
	require.NoError(t, err)
	assert.Empty(t, path)

	assert.NoDirExists(t, dir)
}

func TestCopyFile(t *testing.T) {
	src := filepath.Join(t.TempDir(), "src.log")
	require.NoError(t, os.WriteFile(src, []byte("log line"), 0600))
	s := NewStore(filepath.Join(t.TempDir(), "nested", "dir"), true)

	path, err := s.CopyFile("session.log", src)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "log line", string(data))

	_, err = s.CopyFile("missing.log", filepath.Join(t.TempDir(), "none"))
	assert.Error(t, err)
}

func TestSaveJSON(t *testing.T) {
	s := NewStore(t.TempDir(), true)
	path, err := s.SaveJSON("summary.json", map[string]int{"pages": 2})
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"pages": 2}`, string(data))
}

func TestFromSettings(t *testing.T) {
	st := config.Defaults()
	st.ReportingEnabled = true
	st.ReportingDir = "out"
	s := FromSettings(st)
	assert.True(t, s.Enabled())
	assert.Equal(t, "out", s.Dir())
}

func TestSave_NameIsFlattened(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir, true)
	path, err := s.SaveString("../escape.txt", "x")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "escape.txt"), path)
}
