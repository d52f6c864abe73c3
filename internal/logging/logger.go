package logging

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var logger *zap.Logger

// LogLevelEnvVar is the environment variable that controls logging verbosity.
// When unset or empty, logging is silent (no zap output).
// Valid values: "debug", "info", "warn", "error"
const LogLevelEnvVar = "LOCSIM_LOG_LEVEL"

// Initialize creates a new logger with the specified level writing to stdout.
// If level is empty, it checks LOCSIM_LOG_LEVEL environment variable.
// If neither is set, logging is disabled (silent mode).
func Initialize(level string) error {
	return InitializeWithOutput(level, "stdout")
}

// InitializeWithOutput is Initialize with an explicit output path. The
// terminal UI uses it to keep log lines off the screen it draws on.
func InitializeWithOutput(level string, outputPath string) error {
	if level == "" {
		level = os.Getenv(LogLevelEnvVar)
	}

	if level == "" {
		logger = zap.NewNop()
		return nil
	}

	lvl := parseLevel(level)

	if outputPath != "stdout" && outputPath != "stderr" {
		logger = newFileLogger(lvl, outputPath)
		return nil
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(lvl),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    encoderConfig(),
		OutputPaths:      []string{outputPath},
		ErrorOutputPaths: []string{"stderr"},
	}
	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	var err error
	logger, err = config.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	return nil
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeCaller = zapcore.ShortCallerEncoder
	return cfg
}

// newFileLogger writes to a size-rotated file. The directory is created on
// first write.
func newFileLogger(lvl zapcore.Level, path string) *zap.Logger {
	w := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    16, // MB
		MaxBackups: 2,
	}
	if lvl == zapcore.DebugLevel {
		w.MaxSize = 64
	}

	cfg := encoderConfig()
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), zapcore.AddSync(w), zap.NewAtomicLevelAt(lvl))
	return zap.New(core, zap.AddCaller())
}

// InitializeFromEnv initializes the logger from the LOCSIM_LOG_LEVEL
// environment variable.
func InitializeFromEnv() error {
	return Initialize("")
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		// Unknown level - use info as default when explicitly set to something
		return zapcore.InfoLevel
	}
}

// GetLogger returns the global logger instance
func GetLogger() *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return logger
}

// Info logs an info message
func Info(msg string, fields ...zap.Field) {
	GetLogger().Info(msg, fields...)
}

// Debug logs a debug message
func Debug(msg string, fields ...zap.Field) {
	GetLogger().Debug(msg, fields...)
}

// Warn logs a warning message
func Warn(msg string, fields ...zap.Field) {
	GetLogger().Warn(msg, fields...)
}

// Error logs an error message
func Error(msg string, fields ...zap.Field) {
	GetLogger().Error(msg, fields...)
}

// Fatal logs a fatal message and exits
func Fatal(msg string, fields ...zap.Field) {
	GetLogger().Fatal(msg, fields...)
}

// LogStateChange logs a committed map state operation
func LogStateChange(operation string, fields ...zap.Field) {
	Debug("State changed", append([]zap.Field{zap.String("operation", operation)}, fields...)...)
}

// LogValidationFailed logs the non-empty messages of a failed dialog submit
func LogValidationFailed(dialog string, messages ...string) {
	var failed []string
	for _, m := range messages {
		if m != "" {
			failed = append(failed, m)
		}
	}
	Debug("Dialog input rejected",
		zap.String("dialog", dialog),
		zap.Strings("errors", failed),
	)
}

// LogEventPublished logs a publish on one of the map event streams
func LogEventPublished(stream string, subscribers int) {
	if subscribers == 0 {
		Debug("Event dropped, no subscribers", zap.String("stream", stream))
		return
	}
	Debug("Event published",
		zap.String("stream", stream),
		zap.Int("subscribers", subscribers),
	)
}

// LogConnection logs a map surface connection event
func LogConnection(remoteAddr string, event string) {
	Info("Connection event",
		zap.String("remote_addr", remoteAddr),
		zap.String("event", event),
	)
}

// LogBridgeMessage logs a message crossing the map surface bridge
func LogBridgeMessage(remoteAddr string, direction string, msgType string) {
	Debug("Bridge message",
		zap.String("remote_addr", remoteAddr),
		zap.String("direction", direction),
		zap.String("type", msgType),
	)
}

// Sync flushes any buffered log entries
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}
