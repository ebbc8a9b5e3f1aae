// Package logger provides the leveled stderr logger used by the CLI.
package logger

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
)

// LogLevel defines log severity levels.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelNone
)

// Logger writes timestamped, optionally colored log lines.
type Logger struct {
	out       io.Writer
	useColors bool
	level     LogLevel
}

// New creates a Logger. verbose selects the debug level.
func New(out io.Writer, verbose bool, useColors bool) *Logger {
	level := LevelInfo
	if verbose {
		level = LevelDebug
	}
	return &Logger{
		out:       out,
		useColors: useColors,
		level:     level,
	}
}

// WithLevel sets the log level and returns the logger.
func (l *Logger) WithLevel(level LogLevel) *Logger {
	l.level = level
	return l
}

// SetLevel sets the log level from its string name.
func (l *Logger) SetLevel(levelStr string) {
	l.WithLevel(parseLogLevel(levelStr))
}

func parseLogLevel(level string) LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	case "none", "off":
		return LevelNone
	default:
		return LevelInfo
	}
}

// Debug logs a debug message.
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.level <= LevelDebug {
		l.emit("DEBUG", color.CyanString, format, args...)
	}
}

// Info logs an informational message.
func (l *Logger) Info(format string, args ...interface{}) {
	if l.level <= LevelInfo {
		l.emit("INFO", color.BlueString, format, args...)
	}
}

// Warn logs a warning message.
func (l *Logger) Warn(format string, args ...interface{}) {
	if l.level <= LevelWarn {
		l.emit("WARN", color.YellowString, format, args...)
	}
}

// Error logs an error message.
func (l *Logger) Error(format string, args ...interface{}) {
	if l.level <= LevelError {
		l.emit("ERROR", color.RedString, format, args...)
	}
}

func (l *Logger) emit(prefix string, colorize func(string, ...interface{}) string, format string, args ...interface{}) {
	if l.useColors {
		prefix = colorize(prefix)
	}
	fmt.Fprintf(l.out, "[%s %s] %s\n", time.Now().Format("15:04:05.000"), prefix, fmt.Sprintf(format, args...))
}
