// Package logger provides structured logging for rxpool
package logger

import (
	"context"
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	globalLogger *zap.Logger
	mu           sync.RWMutex
)

// contextKey is the type for context keys
type contextKey string

const (
	// RequestIDKey is the context key for request ID
	RequestIDKey contextKey = "request_id"
	// PatternKey is the context key for the pattern being matched
	PatternKey contextKey = "pattern"
	// FileKey is the context key for the input being scanned
	FileKey contextKey = "file"
)

// Config represents logger configuration
type Config struct {
	Level       string   `yaml:"level" mapstructure:"level"`
	Development bool     `yaml:"development" mapstructure:"development"`
	Encoding    string   `yaml:"encoding" mapstructure:"encoding"` // json or console
	OutputPaths []string `yaml:"output_paths" mapstructure:"output_paths"`
}

// DefaultConfig returns the configuration used when Init was never called
func DefaultConfig() Config {
	return Config{
		Level:    "info",
		Encoding: "json",
	}
}

// Init initializes the global logger. Calling it again replaces the logger.
func Init(cfg Config) error {
	l, err := newLogger(cfg)
	if err != nil {
		return err
	}

	mu.Lock()
	old := globalLogger
	globalLogger = l
	mu.Unlock()

	if old != nil {
		_ = old.Sync()
	}
	return nil
}

// newLogger creates a new zap logger
func newLogger(cfg Config) (*zap.Logger, error) {
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	if cfg.Encoding == "" {
		cfg.Encoding = "json"
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	if cfg.Development {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	outputPaths := cfg.OutputPaths
	if len(outputPaths) == 0 {
		outputPaths = []string{"stderr"}
	}

	zapCfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Development:      cfg.Development,
		Encoding:         cfg.Encoding,
		EncoderConfig:    encoderConfig,
		OutputPaths:      outputPaths,
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	if cfg.Development {
		logger = logger.WithOptions(zap.AddStacktrace(zapcore.ErrorLevel))
	}

	return logger, nil
}

// Get returns the global logger
func Get() *zap.Logger {
	mu.RLock()
	l := globalLogger
	mu.RUnlock()
	if l != nil {
		return l
	}

	mu.Lock()
	defer mu.Unlock()
	if globalLogger == nil {
		l, err := newLogger(DefaultConfig())
		if err != nil {
			// Fallback to basic logger
			l, _ = zap.NewProduction()
		}
		globalLogger = l
	}
	return globalLogger
}

// Set replaces the global logger, mainly for tests using zaptest/observer
func Set(l *zap.Logger) {
	mu.Lock()
	globalLogger = l
	mu.Unlock()
}

// WithContext returns a logger with context values
func WithContext(ctx context.Context) *zap.Logger {
	logger := Get()

	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		logger = logger.With(zap.String("request_id", requestID))
	}

	if pattern, ok := ctx.Value(PatternKey).(string); ok {
		logger = logger.With(zap.String("pattern", pattern))
	}

	if file, ok := ctx.Value(FileKey).(string); ok {
		logger = logger.With(zap.String("file", file))
	}

	return logger
}

// Debug logs a debug message
func Debug(msg string, fields ...zap.Field) {
	Get().Debug(msg, fields...)
}

// Info logs an info message
func Info(msg string, fields ...zap.Field) {
	Get().Info(msg, fields...)
}

// Warn logs a warning message
func Warn(msg string, fields ...zap.Field) {
	Get().Warn(msg, fields...)
}

// Error logs an error message
func Error(msg string, fields ...zap.Field) {
	Get().Error(msg, fields...)
}

// Fatal logs a fatal message and exits
func Fatal(msg string, fields ...zap.Field) {
	Get().Fatal(msg, fields...)
	os.Exit(1)
}

// With creates a child logger with additional fields
func With(fields ...zap.Field) *zap.Logger {
	return Get().With(fields...)
}

// Sync flushes any buffered log entries
func Sync() error {
	mu.RLock()
	l := globalLogger
	mu.RUnlock()
	if l != nil {
		return l.Sync()
	}
	return nil
}
