// Package logging writes component logs to one file per test session.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Logger writes timestamped, component tagged lines to the session log.
// All log methods write unconditionally; there is no level filtering.
type Logger struct {
	sessionID string
	component string
	file      *os.File
	logger    *log.Logger
	mu        sync.Mutex
	logPath   string
	closeOnce sync.Once
}

var (
	stateMu   sync.Mutex
	sessionID string
	// logDir is empty until the first logger is created or SetDirectory
	// is called.
	logDir string
)

// SessionID returns the ID of this process's logging session.
func SessionID() string {
	stateMu.Lock()
	defer stateMu.Unlock()
	return sessionIDLocked()
}

func sessionIDLocked() string {
	if sessionID == "" {
		sessionID = uuid.New().String()
	}
	return sessionID
}

// SetDirectory sets the directory of session logs. Loggers created before
// the call keep their file.
func SetDirectory(dir string) {
	stateMu.Lock()
	defer stateMu.Unlock()
	logDir = dir
}

// Directory returns the directory of session logs, creating it if needed.
// It defaults to ~/.pagekit/logs.
func Directory() (string, error) {
	stateMu.Lock()
	defer stateMu.Unlock()
	return directoryLocked()
}

func directoryLocked() (string, error) {
	if logDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		logDir = filepath.Join(homeDir, ".pagekit", "logs")
	}
	if err := os.MkdirAll(logDir, 0750); err != nil {
		return "", fmt.Errorf("failed to create log directory: %w", err)
	}
	return logDir, nil
}

// NewLogger creates a logger for a component, appending to
// <dir>/<session-id>-pagekit.log.
//
// If the file cannot be opened it returns a logger writing to stderr
// together with the error, so callers may warn and carry on.
func NewLogger(component string) (*Logger, error) {
	stateMu.Lock()
	dir, err := directoryLocked()
	sessID := sessionIDLocked()
	stateMu.Unlock()
	if err != nil {
		return newFallbackLogger(component, sessID, err), err
	}

	logPath := filepath.Join(dir, sessID+"-pagekit.log")
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		err = fmt.Errorf("failed to open log file: %w", err)
		return newFallbackLogger(component, sessID, err), err
	}

	return &Logger{
		sessionID: sessID,
		component: component,
		file:      file,
		logger:    log.New(file, "", 0),
		logPath:   logPath,
	}, nil
}

// NewWriterLogger creates a logger writing to w instead of the session
// file.
func NewWriterLogger(component string, w io.Writer) *Logger {
	return &Logger{
		sessionID: SessionID(),
		component: component,
		logger:    log.New(w, "", 0),
	}
}

// Discard returns a logger that drops every line.
func Discard() *Logger {
	return NewWriterLogger("discard", io.Discard)
}

func newFallbackLogger(component, sessID string, err error) *Logger {
	logger := log.New(os.Stderr, "", 0)
	l := &Logger{sessionID: sessID, component: component, logger: logger}
	l.Warnf("file logging unavailable, using stderr: %v", err)
	return l
}

func (l *Logger) write(level, format string, v []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	timestamp := time.Now().Format("2006-01-02 15:04:05.000")
	l.logger.Printf("[%s] [%s] [%s] %s", timestamp, l.component, level, fmt.Sprintf(format, v...))
}

// Debugf logs a debug-level message
func (l *Logger) Debugf(format string, v ...any) { l.write("DEBUG", format, v) }

// Infof logs an info-level message
func (l *Logger) Infof(format string, v ...any) { l.write("INFO", format, v) }

// Warnf logs a warning-level message
func (l *Logger) Warnf(format string, v ...any) { l.write("WARN", format, v) }

// Errorf logs an error-level message
func (l *Logger) Errorf(format string, v ...any) { l.write("ERROR", format, v) }

// With returns a logger for a sub-component sharing the same output.
func (l *Logger) With(component string) *Logger {
	return &Logger{
		sessionID: l.sessionID,
		component: l.component + "/" + component,
		logger:    l.logger,
		logPath:   l.logPath,
	}
}

// SessionID returns the session the logger belongs to.
func (l *Logger) SessionID() string {
	return l.sessionID
}

// LogPath returns the path of the log file, empty when not writing to one.
func (l *Logger) LogPath() string {
	return l.logPath
}

// Close closes the log file. Safe to call multiple times.
func (l *Logger) Close() error {
	var err error
	l.closeOnce.Do(func() {
		if l.file != nil {
			err = l.file.Close()
		}
	})
	return err
}
