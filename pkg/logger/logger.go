// Package logger provides a leveled logger for the raytracer CLI and web
// server. It satisfies core.Logger, so it can be handed to the renderer.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Level represents the severity level of a log message
type Level int

// Log levels
const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

// levelColors maps log levels to ANSI color codes
var levelColors = map[Level]string{
	DEBUG: "\033[36m", // Cyan
	INFO:  "\033[32m", // Green
	WARN:  "\033[33m", // Yellow
	ERROR: "\033[31m", // Red
}

// levelPrefixes maps log levels to text prefixes
var levelPrefixes = map[Level]string{
	DEBUG: "DEBUG",
	INFO:  "INFO ",
	WARN:  "WARN ",
	ERROR: "ERROR",
}

// ParseLevel converts a level name to a Level
func ParseLevel(name string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return DEBUG, nil
	case "info", "":
		return INFO, nil
	case "warn", "warning":
		return WARN, nil
	case "error":
		return ERROR, nil
	default:
		return INFO, fmt.Errorf("unknown log level: %q", name)
	}
}

// Logger handles leveled, timestamped output
type Logger struct {
	mu        sync.Mutex
	level     Level
	logger    *log.Logger
	file      *os.File
	useColors bool
	now       func() time.Time
}

// New creates a logger writing to w. Unknown level names fall back to INFO.
func New(levelStr string, w io.Writer) *Logger {
	level, _ := ParseLevel(levelStr)
	return &Logger{
		level:  level,
		logger: log.New(w, "", 0), // We'll format the prefix manually
		now:    time.Now,
	}
}

// NewConsoleLogger creates a logger on stdout, colored when stdout is a terminal
func NewConsoleLogger(levelStr string) *Logger {
	l := New(levelStr, os.Stdout)
	if fileInfo, err := os.Stdout.Stat(); err == nil && fileInfo.Mode()&os.ModeCharDevice != 0 {
		l.useColors = true
	}
	return l
}

// NewFileLogger creates a logger that appends to a file and, when tee is
// true, also writes to stdout
func NewFileLogger(levelStr, filePath string, tee bool) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	var w io.Writer = file
	if tee {
		w = io.MultiWriter(os.Stdout, file)
	}

	l := New(levelStr, w)
	l.file = file
	return l, nil
}

// logf logs a formatted message with the specified level
func (l *Logger) logf(level Level, format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}

	prefix := fmt.Sprintf("%s [%s]", l.now().Format("2006/01/02 15:04:05"), levelPrefixes[level])
	if l.useColors {
		prefix = levelColors[level] + prefix + "\033[0m"
	}

	message := strings.TrimRight(fmt.Sprintf(format, v...), "\n")
	l.logger.Println(prefix, message)
}

// Printf logs at INFO level and implements core.Logger
func (l *Logger) Printf(format string, v ...interface{}) {
	l.logf(INFO, format, v...)
}

// Debugf logs a formatted debug message
func (l *Logger) Debugf(format string, v ...interface{}) {
	l.logf(DEBUG, format, v...)
}

// Infof logs a formatted info message
func (l *Logger) Infof(format string, v ...interface{}) {
	l.logf(INFO, format, v...)
}

// Warnf logs a formatted warning message
func (l *Logger) Warnf(format string, v ...interface{}) {
	l.logf(WARN, format, v...)
}

// Errorf logs a formatted error message
func (l *Logger) Errorf(format string, v ...interface{}) {
	l.logf(ERROR, format, v...)
}

// SetLevel sets the log level
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// EnableColors enables or disables colored output
func (l *Logger) EnableColors(enable bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.useColors = enable
}

// Close closes the logger's file if it exists
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}
