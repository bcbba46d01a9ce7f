// Package config resolves typed settings from ordered, named layers.
//
// Layers are consulted in order and the first one holding a key wins. The
// standard stack is explicit values, then the environment (PAGEKIT_*
// variables and a .env file), then a YAML resource file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Layer is one named source of configuration values.
type Layer interface {
	// Name identifies the layer in diagnostics.
	Name() string

	// Lookup returns the raw value of a dotted key such as "base.url".
	Lookup(key string) (string, bool)
}

// Config resolves keys across layers, highest precedence first.
type Config struct {
	layers []Layer
}

// New creates a configuration over the given layers, highest precedence
// first.
func New(layers ...Layer) *Config {
	return &Config{layers: layers}
}

// Layers returns the layer names in precedence order.
func (c *Config) Layers() []string {
	names := make([]string, len(c.layers))
	for i, l := range c.layers {
		names[i] = l.Name()
	}
	return names
}

// Lookup returns the raw value of key and the name of the layer it came
// from.
func (c *Config) Lookup(key string) (value, layer string, ok bool) {
	for _, l := range c.layers {
		if v, found := l.Lookup(key); found {
			return v, l.Name(), true
		}
	}
	return "", "", false
}

// String returns the value of key, or def when no layer holds it.
func (c *Config) String(key, def string) string {
	if v, _, ok := c.Lookup(key); ok {
		return v
	}
	return def
}

// Bool returns the boolean value of key, or def when no layer holds it.
func (c *Config) Bool(key string, def bool) (bool, error) {
	v, layer, ok := c.Lookup(key)
	if !ok {
		return def, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return def, &ValueError{Key: key, Layer: layer, Value: v, Err: err}
	}
	return b, nil
}

// Int returns the integer value of key, or def when no layer holds it.
func (c *Config) Int(key string, def int) (int, error) {
	v, layer, ok := c.Lookup(key)
	if !ok {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def, &ValueError{Key: key, Layer: layer, Value: v, Err: err}
	}
	return n, nil
}

// Duration returns the duration value of key, or def when no layer holds
// it. Values are Go durations ("1.5s") or plain integers in milliseconds.
func (c *Config) Duration(key string, def time.Duration) (time.Duration, error) {
	v, layer, ok := c.Lookup(key)
	if !ok {
		return def, nil
	}
	v = strings.TrimSpace(v)
	if ms, err := strconv.ParseInt(v, 10, 64); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def, &ValueError{Key: key, Layer: layer, Value: v, Err: err}
	}
	return d, nil
}

// File returns the absolute path held by key. The file must exist.
func (c *Config) File(key string) (string, error) {
	v, layer, ok := c.Lookup(key)
	if !ok {
		return "", fmt.Errorf("config key %s is not set", key)
	}
	path, err := filepath.Abs(strings.TrimSpace(v))
	if err != nil {
		return "", &ValueError{Key: key, Layer: layer, Value: v, Err: err}
	}
	if _, err := os.Stat(path); err != nil {
		return "", &ValueError{Key: key, Layer: layer, Value: v, Err: err}
	}
	return path, nil
}

// ValueError reports a value that cannot be converted to the requested
// type.
type ValueError struct {
	Key   string
	Layer string
	Value string
	Err   error
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("config key %s (from %s): invalid value %q: %v", e.Key, e.Layer, e.Value, e.Err)
}

// Unwrap returns the underlying error
func (e *ValueError) Unwrap() error {
	return e.Err
}
