// pkg/logging/logging.go - structured logging for skcomsetup.
//
// Package-level Info/Debug/Warn/Error take a message followed by alternating
// key/value pairs. Entries go to a console core and, when enabled, to a JSON
// log file under the cache directory. The backend is zap.

package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/mitchellh/go-homedir"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/windowsadmins/skcom/pkg/config"
)

// LogLevel represents the severity of the log message.
type LogLevel int

const (
	LevelError LogLevel = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

// String returns the string representation of the LogLevel.
func (ll LogLevel) String() string {
	switch ll {
	case LevelError:
		return "ERROR"
	case LevelWarn:
		return "WARN"
	case LevelInfo:
		return "INFO"
	case LevelDebug:
		return "DEBUG"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a config string to a LogLevel, defaulting to INFO.
func ParseLevel(s string) LogLevel {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ERROR":
		return LevelError
	case "WARN", "WARNING":
		return LevelWarn
	case "DEBUG":
		return LevelDebug
	default:
		return LevelInfo
	}
}

func (ll LogLevel) zapLevel() zapcore.Level {
	switch ll {
	case LevelError:
		return zapcore.ErrorLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelDebug:
		return zapcore.DebugLevel
	default:
		return zapcore.InfoLevel
	}
}

// LoggerConfig holds explicit logger settings.
type LoggerConfig struct {
	Level    LogLevel
	Console  io.Writer // nil disables console output
	FilePath string    // empty disables the JSON log file
}

// Logger wraps the zap core shared by the package-level functions. It also
// carries the printf-style console helpers returned by New.
type Logger struct {
	mu       sync.RWMutex
	sugar    *zap.SugaredLogger
	logLevel LogLevel
	logFile  *os.File

	console io.Writer
}

var (
	instance *Logger
	instMu   sync.RWMutex
)

// Init initializes the package logger from the configuration. Calling it
// again replaces the previous logger.
func Init(cfg *config.Configuration) error {
	logCfg := LoggerConfig{
		Level:   ParseLevel(cfg.LogLevel),
		Console: os.Stderr,
	}
	if cfg.Verbose && logCfg.Level < LevelDebug {
		logCfg.Level = LevelDebug
	}
	if cfg.LogToFile {
		cacheDir, err := homedir.Expand(cfg.CachePath)
		if err != nil {
			return fmt.Errorf("failed to expand cache path: %w", err)
		}
		logCfg.FilePath = filepath.Join(cacheDir, "logs", "skcomsetup.log")
	}
	return InitWithConfig(logCfg)
}

// InitWithConfig initializes the package logger with explicit settings.
func InitWithConfig(logCfg LoggerConfig) error {
	l, err := newLogger(logCfg)
	if err != nil {
		return err
	}

	instMu.Lock()
	old := instance
	instance = l
	instMu.Unlock()

	if old != nil {
		old.close()
	}
	return nil
}

func newLogger(cfg LoggerConfig) (*Logger, error) {
	level := zap.NewAtomicLevelAt(cfg.Level.zapLevel())
	var cores []zapcore.Core

	if cfg.Console != nil {
		encCfg := zap.NewDevelopmentEncoderConfig()
		encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		encCfg.EncodeCaller = nil
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(encCfg),
			zapcore.Lock(zapcore.AddSync(cfg.Console)),
			level,
		))
	}

	var logFile *os.File
	if cfg.FilePath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", cfg.FilePath, err)
		}
		logFile = f

		encCfg := zap.NewProductionEncoderConfig()
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(encCfg),
			zapcore.AddSync(f),
			level,
		))
	}

	core := zapcore.NewNopCore()
	if len(cores) > 0 {
		core = zapcore.NewTee(cores...)
	}

	return &Logger{
		sugar:    zap.New(core).Sugar(),
		logLevel: cfg.Level,
		logFile:  logFile,
	}, nil
}

// CloseLogger flushes and closes the package logger.
func CloseLogger() {
	instMu.Lock()
	l := instance
	instance = nil
	instMu.Unlock()

	if l != nil {
		l.close()
	}
}

func (l *Logger) close() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.sugar != nil {
		_ = l.sugar.Sync()
	}
	if l.logFile != nil {
		if err := l.logFile.Close(); err != nil {
			fmt.Printf("Failed to close log file: %v\n", err)
		}
		l.logFile = nil
	}
}

// logMessage writes one entry at the given level.
func (l *Logger) logMessage(level LogLevel, message string, keyValues ...interface{}) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if level > l.logLevel {
		return
	}

	switch level {
	case LevelError:
		l.sugar.Errorw(message, keyValues...)
	case LevelWarn:
		l.sugar.Warnw(message, keyValues...)
	case LevelInfo:
		l.sugar.Infow(message, keyValues...)
	default:
		l.sugar.Debugw(message, keyValues...)
	}
}

func current() *Logger {
	instMu.RLock()
	defer instMu.RUnlock()
	return instance
}

func logAt(level LogLevel, message string, keyValues []interface{}) {
	l := current()
	if l == nil {
		fmt.Printf("LOGGING NOT INITIALIZED: %s %s %v\n", level, message, keyValues)
		return
	}
	l.logMessage(level, message, keyValues...)
}

// Info logs informational messages.
func Info(message string, keyValues ...interface{}) {
	logAt(LevelInfo, message, keyValues)
}

// Debug logs debug messages.
func Debug(message string, keyValues ...interface{}) {
	logAt(LevelDebug, message, keyValues)
}

// Warn logs warning messages.
func Warn(message string, keyValues ...interface{}) {
	logAt(LevelWarn, message, keyValues)
}

// Error logs error messages.
func Error(message string, keyValues ...interface{}) {
	logAt(LevelError, message, keyValues)
}
