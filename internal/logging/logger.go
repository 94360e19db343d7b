package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/jontk/fsdash/internal/fileperms"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	// Global logger instance
	logger *Logger
	mu     sync.Mutex
)

// Level represents log level
type Level int

const (
	// DebugLevel has verbose message
	DebugLevel Level = iota
	// InfoLevel is default log level
	InfoLevel
	// WarnLevel is for warning conditions
	WarnLevel
	// ErrorLevel is for error conditions
	ErrorLevel
)

// ParseLevel maps a config string onto a Level, defaulting to InfoLevel
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DebugLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// Config holds logger configuration
type Config struct {
	// Level is the minimum log level
	Level Level

	// Console enables console output on stderr
	Console bool

	// ConsoleJSON enables JSON format for console output
	ConsoleJSON bool

	// File enables rotated file output
	File bool

	// Filename is the file to write logs to
	Filename string

	// MaxSize is the maximum size in megabytes of the log file
	MaxSize int

	// MaxBackups is the maximum number of old log files to retain
	MaxBackups int

	// MaxAge is the maximum number of days to retain old log files
	MaxAge int
}

// DefaultConfig returns default logger configuration
func DefaultConfig() *Config {
	return &Config{
		Level:      InfoLevel,
		Console:    true,
		File:       false,
		Filename:   filepath.Join(os.TempDir(), "fsdash.log"),
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     7,
	}
}

// TUIConfig returns a configuration that keeps the terminal clean: file only.
func TUIConfig(level Level, filename string) *Config {
	cfg := DefaultConfig()
	cfg.Level = level
	cfg.Console = false
	cfg.File = true
	if filename != "" {
		cfg.Filename = filename
	}
	return cfg
}

// Logger wraps zerolog logger
type Logger struct {
	*zerolog.Logger
}

// Init (re)initializes the global logger with the given configuration
func Init(config *Config) {
	mu.Lock()
	defer mu.Unlock()

	logger = newLogger(config)
	log.Logger = *logger.Logger
}

// GetLogger returns the global logger instance
func GetLogger() *Logger {
	mu.Lock()
	defer mu.Unlock()

	if logger == nil {
		logger = newLogger(DefaultConfig())
	}
	return logger
}

// New creates a standalone logger writing to w. Components that accept an
// injected logger use this in tests to capture output.
func New(w io.Writer, level Level) *Logger {
	zl := zerolog.New(w).With().Timestamp().Logger().Level(convertLevel(level))
	return &Logger{Logger: &zl}
}

// Nop returns a logger that discards everything
func Nop() *Logger {
	zl := zerolog.Nop()
	return &Logger{Logger: &zl}
}

func newLogger(config *Config) *Logger {
	var writers []io.Writer

	if config.Console {
		if config.ConsoleJSON {
			writers = append(writers, os.Stderr)
		} else {
			writers = append(writers, zerolog.ConsoleWriter{
				Out:        os.Stderr,
				TimeFormat: time.RFC3339,
			})
		}
	}

	if config.File && config.Filename != "" {
		logDir := filepath.Dir(config.Filename)
		if err := os.MkdirAll(logDir, fileperms.LogDir); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Failed to create log directory: %v\n", err)
		} else {
			writers = append(writers, &lumberjack.Logger{
				Filename:   config.Filename,
				MaxSize:    config.MaxSize,
				MaxBackups: config.MaxBackups,
				MaxAge:     config.MaxAge,
				Compress:   true,
			})
		}
	}

	var writer io.Writer
	switch len(writers) {
	case 0:
		writer = io.Discard
	case 1:
		writer = writers[0]
	default:
		writer = io.MultiWriter(writers...)
	}

	return New(writer, config.Level)
}

func convertLevel(level Level) zerolog.Level {
	switch level {
	case DebugLevel:
		return zerolog.DebugLevel
	case WarnLevel:
		return zerolog.WarnLevel
	case ErrorLevel:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// WithField creates a child logger with the given field
func (l *Logger) WithField(key string, value interface{}) *Logger {
	zl := l.Logger.With().Interface(key, value).Logger()
	return &Logger{Logger: &zl}
}

// WithComponent tags every entry with a component name
func (l *Logger) WithComponent(name string) *Logger {
	zl := l.Logger.With().Str("component", name).Logger()
	return &Logger{Logger: &zl}
}

// Debugf logs a formatted debug message
func Debugf(format string, v ...interface{}) {
	GetLogger().Debug().Msgf(format, v...)
}

// Info logs an info message
func Info(msg string) {
	GetLogger().Info().Msg(msg)
}

// Infof logs a formatted info message
func Infof(format string, v ...interface{}) {
	GetLogger().Info().Msgf(format, v...)
}

// Warnf logs a formatted warning message
func Warnf(format string, v ...interface{}) {
	GetLogger().Warn().Msgf(format, v...)
}

// Errorf logs a formatted error message
func Errorf(format string, v ...interface{}) {
	GetLogger().Error().Msgf(format, v...)
}
