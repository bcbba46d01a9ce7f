package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment variables read by the
// environment layer.
const EnvPrefix = "PAGEKIT_"

// MapLayer holds explicit values, e.g. from command line flags.
type MapLayer struct {
	name   string
	values map[string]string
}

// Explicit returns a layer over a copy of values.
func Explicit(values map[string]string) *MapLayer {
	return NewMapLayer("explicit", values)
}

// NewMapLayer returns a named layer over a copy of values.
func NewMapLayer(name string, values map[string]string) *MapLayer {
	copied := make(map[string]string, len(values))
	for k, v := range values {
		copied[k] = v
	}
	return &MapLayer{name: name, values: copied}
}

func (m *MapLayer) Name() string { return m.name }

func (m *MapLayer) Lookup(key string) (string, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Set stores a value.
func (m *MapLayer) Set(key, value string) {
	m.values[key] = value
}

// EnvLayer reads keys from environment variables: "base.url" is read from
// PAGEKIT_BASE_URL. Values from .env files fill in variables the process
// environment does not set.
type EnvLayer struct {
	prefix string
	getenv func(string) (string, bool)
	dotenv map[string]string
}

// Env returns the environment layer. Missing dotenv files are ignored.
func Env(dotenvFiles ...string) (*EnvLayer, error) {
	dotenv := make(map[string]string)
	for _, file := range dotenvFiles {
		values, err := godotenv.Read(file)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}
		for k, v := range values {
			if _, exists := dotenv[k]; !exists {
				dotenv[k] = v
			}
		}
	}
	return &EnvLayer{prefix: EnvPrefix, getenv: os.LookupEnv, dotenv: dotenv}, nil
}

func (e *EnvLayer) Name() string { return "environment" }

func (e *EnvLayer) Lookup(key string) (string, bool) {
	name := EnvName(e.prefix, key)
	if v, ok := e.getenv(name); ok {
		return v, true
	}
	v, ok := e.dotenv[name]
	return v, ok
}

// EnvName converts a dotted key to its environment variable name.
func EnvName(prefix, key string) string {
	r := strings.NewReplacer(".", "_", "-", "_")
	return prefix + strings.ToUpper(r.Replace(key))
}

// FileLayer holds values loaded from a YAML document. Nested mappings are
// flattened into dotted keys, so "base: {url: x}" and "base.url: x" are
// equivalent.
type FileLayer struct {
	path   string
	mu     sync.RWMutex
	values map[string]string
}

// File loads a YAML resource file. A missing file yields an empty layer.
func File(path string) (*FileLayer, error) {
	l := &FileLayer{path: path, values: make(map[string]string)}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return l, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := l.parse(data); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}
	return l, nil
}

// FromYAML builds a layer from an in-memory YAML document.
func FromYAML(name string, data []byte) (*FileLayer, error) {
	l := &FileLayer{path: name, values: make(map[string]string)}
	if err := l.parse(data); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return l, nil
}

func (l *FileLayer) parse(data []byte) error {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	flatten("", doc, l.values)
	return nil
}

func flatten(prefix string, in map[string]any, out map[string]string) {
	for k, v := range in {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]any:
			flatten(key, val, out)
		case nil:
			out[key] = ""
		default:
			out[key] = fmt.Sprint(val)
		}
	}
}

func (l *FileLayer) Name() string { return "file:" + l.path }

// Path returns the file path of the layer.
func (l *FileLayer) Path() string { return l.path }

func (l *FileLayer) Lookup(key string) (string, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	v, ok := l.values[key]
	return v, ok
}

// Keys returns every key held by the layer.
func (l *FileLayer) Keys() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	keys := make([]string, 0, len(l.values))
	for k := range l.values {
		keys = append(keys, k)
	}
	return keys
}
