// Package artifact persists files captured during a test session:
// screenshots, page sources and summaries.
package artifact

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/entrhq/pagekit/pkg/config"
)

// maxAttempts bounds the search for a free "-N" suffix.
const maxAttempts = 10000

// Store saves named artifacts below a directory. A disabled store accepts
// every call and writes nothing.
//
// Every save gets its own path: when name is taken, "-1", "-2", ... is
// inserted before the extension.
type Store struct {
	dir     string
	enabled bool
	mu      sync.Mutex
}

// NewStore creates a store writing to dir.
func NewStore(dir string, enabled bool) *Store {
	return &Store{dir: dir, enabled: enabled}
}

// FromSettings creates the store described by the reporting settings.
func FromSettings(s config.Settings) *Store {
	return NewStore(s.ReportingDir, s.ReportingEnabled)
}

// Enabled reports whether the store writes files.
func (s *Store) Enabled() bool { return s.enabled }

// Dir returns the output directory.
func (s *Store) Dir() string { return s.dir }

// SaveString saves content and returns the path written, empty when the
// store is disabled.
func (s *Store) SaveString(name, content string) (string, error) {
	return s.SaveBytes(name, []byte(content))
}

// SaveBytes saves data and returns the path written, empty when the store
// is disabled.
func (s *Store) SaveBytes(name string, data []byte) (string, error) {
	return s.save(name, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

// SaveJSON saves v as indented JSON.
func (s *Store) SaveJSON(name string, v any) (string, error) {
	if !s.enabled {
		return "", nil
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal %s: %w", name, err)
	}
	return s.SaveBytes(name, data)
}

// CopyFile copies the file at src into the store under name.
func (s *Store) CopyFile(name, src string) (string, error) {
	if !s.enabled {
		return "", nil
	}
	in, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()
	return s.save(name, func(w io.Writer) error {
		_, err := io.Copy(w, in)
		return err
	})
}

func (s *Store) save(name string, write func(io.Writer) error) (string, error) {
	if !s.enabled {
		return "", nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0750); err != nil {
		return "", fmt.Errorf("failed to create artifact directory: %w", err)
	}

	file, path, err := s.create(name)
	if err != nil {
		return "", err
	}
	if err := write(file); err != nil {
		file.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", path, err)
	}
	return path, nil
}

// create opens the first free candidate path exclusively.
func (s *Store) create(name string) (*os.File, string, error) {
	name = filepath.Base(name)
	stem, ext := splitExt(name)

	for i := 0; i < maxAttempts; i++ {
		candidate := name
		if i > 0 {
			candidate = stem + "-" + strconv.Itoa(i) + ext
		}
		path := filepath.Join(s.dir, candidate)
		file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return nil, "", fmt.Errorf("failed to create %s: %w", path, err)
		}
		return file, path, nil
	}
	return nil, "", fmt.Errorf("no free file name for %s in %s", name, s.dir)
}

// splitExt separates an extension only when its dot follows the last
// underscore, so the millisecond dot of a timestamp prefix stays in the stem.
func splitExt(name string) (stem, ext string) {
	dot := strings.LastIndex(name, ".")
	if dot <= 0 || dot < strings.LastIndex(name, "_") {
		return name, ""
	}
	return name[:dot], name[dot:]
}
