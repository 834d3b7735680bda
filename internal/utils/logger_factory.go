package utils

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	unsupportedLogLevelTemplateConstant  = "unsupported log level: %s"
	unsupportedLogFormatTemplateConstant = "unsupported log format: %s"
)

// LogLevel enumerates supported logging granularities.
type LogLevel string

// Log levels accepted from configuration files and --log-level overrides.
const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// LogFormat enumerates supported logger output encodings.
type LogFormat string

// Log formats accepted from configuration files and --log-format overrides.
const (
	LogFormatStructured LogFormat = "structured"
	LogFormatConsole    LogFormat = "console"
)

var zapLevelsByLogLevel = map[LogLevel]zapcore.Level{
	LogLevelDebug: zapcore.DebugLevel,
	LogLevelInfo:  zapcore.InfoLevel,
	LogLevelWarn:  zapcore.WarnLevel,
	LogLevelError: zapcore.ErrorLevel,
}

var zapEncodingsByLogFormat = map[LogFormat]string{
	LogFormatStructured: "json",
	LogFormatConsole:    "console",
}

// LoggerFactory builds zap.Logger instances with consistent configuration.
type LoggerFactory struct{}

// NewLoggerFactory constructs a new logger factory.
func NewLoggerFactory() *LoggerFactory {
	return &LoggerFactory{}
}

// CreateLogger produces a zap.Logger honoring the requested log level and format.
func (factory *LoggerFactory) CreateLogger(requestedLogLevel LogLevel, requestedLogFormat LogFormat) (*zap.Logger, error) {
	zapLevel, levelError := resolveZapLevel(requestedLogLevel)
	if levelError != nil {
		return nil, levelError
	}

	encoding, encodingError := resolveZapEncoding(requestedLogFormat)
	if encodingError != nil {
		return nil, encodingError
	}

	loggerConfiguration := zap.NewProductionConfig()
	loggerConfiguration.Level = zap.NewAtomicLevelAt(zapLevel)
	loggerConfiguration.Encoding = encoding

	return loggerConfiguration.Build()
}

func resolveZapLevel(requestedLogLevel LogLevel) (zapcore.Level, error) {
	zapLevel, levelSupported := zapLevelsByLogLevel[requestedLogLevel]
	if !levelSupported {
		return zapcore.InvalidLevel, fmt.Errorf(unsupportedLogLevelTemplateConstant, requestedLogLevel)
	}
	return zapLevel, nil
}

func resolveZapEncoding(requestedLogFormat LogFormat) (string, error) {
	encoding, formatSupported := zapEncodingsByLogFormat[requestedLogFormat]
	if !formatSupported {
		return "", fmt.Errorf(unsupportedLogFormatTemplateConstant, requestedLogFormat)
	}
	return encoding, nil
}
