// Package logger provides the application-wide leveled logger. Output goes
// to a file named by HABITAT_LOG_FILE (discarded when unset, so stray
// writes never corrupt the TUI); HABITAT_LOG_LEVEL selects the minimum
// level.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

// Level represents a log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = map[Level]string{
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "UNKNOWN"
}

// ParseLevel parses a level name, case-insensitively.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("invalid log level: %s", s)
}

// Logger is a leveled logger with an optional fixed tag, so survey code
// can stamp every line with the run's reference number.
type Logger struct {
	mu   sync.Mutex
	min  Level
	tag  string
	out  *log.Logger
	file *os.File
}

// Default is the process-wide logger, configured from the environment.
var Default *Logger

func init() {
	Default = New()
}

// New builds a logger from HABITAT_LOG_LEVEL and HABITAT_LOG_FILE.
func New() *Logger {
	l := &Logger{
		min: LevelInfo,
		out: log.New(io.Discard, "", log.LstdFlags),
	}

	if s := os.Getenv("HABITAT_LOG_LEVEL"); s != "" {
		if lvl, err := ParseLevel(s); err == nil {
			l.min = lvl
		}
	}

	if path := os.Getenv("HABITAT_LOG_FILE"); path != "" {
		if f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err == nil {
			l.file = f
			l.out = log.New(f, "", log.LstdFlags)
		}
	}

	return l
}

// WithTag returns a logger that prefixes every message with the tag. It
// shares the parent's output and minimum level but not its file handle.
func (l *Logger) WithTag(tag string) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	return &Logger{min: l.min, tag: tag, out: l.out}
}

// SetLevel changes the minimum level.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.min = level
}

// SetOutput redirects log output, mainly for tests.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out.SetOutput(w)
}

// Close releases the log file, if one is open.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

func (l *Logger) emit(level Level, format string, v ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if level < l.min {
		return
	}
	msg := fmt.Sprintf(format, v...)
	if l.tag != "" {
		l.out.Printf("[%s] [%s] %s", level, l.tag, msg)
		return
	}
	l.out.Printf("[%s] %s", level, msg)
}

// Debug logs at debug level.
func (l *Logger) Debug(format string, v ...any) { l.emit(LevelDebug, format, v...) }

// Info logs at info level.
func (l *Logger) Info(format string, v ...any) { l.emit(LevelInfo, format, v...) }

// Warn logs at warn level.
func (l *Logger) Warn(format string, v ...any) { l.emit(LevelWarn, format, v...) }

// Error logs at error level.
func (l *Logger) Error(format string, v ...any) { l.emit(LevelError, format, v...) }

// Configure re-points the default logger from loaded configuration. The
// environment variables still win for level, matching config precedence.
func Configure(level, file string) error {
	if file != "" && os.Getenv("HABITAT_LOG_FILE") == "" {
		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		Default.mu.Lock()
		if Default.file != nil {
			_ = Default.file.Close()
		}
		Default.file = f
		Default.out = log.New(f, "", log.LstdFlags)
		Default.mu.Unlock()
	}
	if level != "" && os.Getenv("HABITAT_LOG_LEVEL") == "" {
		lvl, err := ParseLevel(level)
		if err != nil {
			return err
		}
		Default.SetLevel(lvl)
	}
	return nil
}

// Package-level helpers forwarding to Default.

func Debug(format string, v ...any) { Default.Debug(format, v...) }
func Info(format string, v ...any)  { Default.Info(format, v...) }
func Warn(format string, v ...any)  { Default.Warn(format, v...) }
func Error(format string, v ...any) { Default.Error(format, v...) }

// Close closes the default logger's file handle.
func Close() error { return Default.Close() }
