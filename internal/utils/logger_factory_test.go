package utils_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"syscall"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ciwebgroup/cli-tools/internal/utils"
)

const (
	loggerTestInfoMessageConstant  = "logger_factory_info_message"
	loggerTestDebugMessageConstant = "logger_factory_debug_message"
)

func TestLoggerFactoryCreateLogger(testInstance *testing.T) {
	testCases := []struct {
		name               string
		requestedLogLevel  utils.LogLevel
		requestedLogFormat utils.LogFormat
		expectStructured   bool
		expectDebugLogged  bool
	}{
		{
			name:               "StructuredDebugEmitsJSON",
			requestedLogLevel:  utils.LogLevelDebug,
			requestedLogFormat: utils.LogFormatStructured,
			expectStructured:   true,
			expectDebugLogged:  true,
		},
		{
			name:               "StructuredInfoSuppressesDebug",
			requestedLogLevel:  utils.LogLevelInfo,
			requestedLogFormat: utils.LogFormatStructured,
			expectStructured:   true,
		},
		{
			name:               "ConsoleEmitsPlainText",
			requestedLogLevel:  utils.LogLevelInfo,
			requestedLogFormat: utils.LogFormatConsole,
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			capturedOutput := createLoggerAndCaptureOutput(testInstance, testCase.requestedLogLevel, testCase.requestedLogFormat)

			require.Contains(testInstance, capturedOutput, loggerTestInfoMessageConstant)
			if testCase.expectDebugLogged {
				require.Contains(testInstance, capturedOutput, loggerTestDebugMessageConstant)
			} else {
				require.NotContains(testInstance, capturedOutput, loggerTestDebugMessageConstant)
			}

			firstLine, _, _ := bytes.Cut([]byte(capturedOutput), []byte("\n"))
			require.Equal(testInstance, testCase.expectStructured, json.Valid(firstLine))
		})
	}
}

func TestLoggerFactoryRejectsUnknownSettings(testInstance *testing.T) {
	loggerFactory := utils.NewLoggerFactory()

	logger, levelError := loggerFactory.CreateLogger(utils.LogLevel("verbose"), utils.LogFormatStructured)
	require.Nil(testInstance, logger)
	require.ErrorContains(testInstance, levelError, "unsupported log level")

	logger, formatError := loggerFactory.CreateLogger(utils.LogLevelInfo, utils.LogFormat("text"))
	require.Nil(testInstance, logger)
	require.ErrorContains(testInstance, formatError, "unsupported log format")
}

// createLoggerAndCaptureOutput builds a logger while stderr points at a pipe,
// emits one debug and one info message, and returns everything written.
func createLoggerAndCaptureOutput(testInstance *testing.T, requestedLogLevel utils.LogLevel, requestedLogFormat utils.LogFormat) string {
	testInstance.Helper()

	pipeReader, pipeWriter, pipeError := os.Pipe()
	require.NoError(testInstance, pipeError)

	originalStderr := os.Stderr
	os.Stderr = pipeWriter
	logger, creationError := utils.NewLoggerFactory().CreateLogger(requestedLogLevel, requestedLogFormat)
	os.Stderr = originalStderr

	require.NoError(testInstance, creationError)
	require.NotNil(testInstance, logger)

	logger.Debug(loggerTestDebugMessageConstant)
	logger.Info(loggerTestInfoMessageConstant)
	if syncError := logger.Sync(); syncError != nil {
		require.True(testInstance, errors.Is(syncError, syscall.ENOTSUP) || errors.Is(syncError, syscall.EINVAL))
	}

	require.NoError(testInstance, pipeWriter.Close())
	capturedBytes, readError := io.ReadAll(pipeReader)
	require.NoError(testInstance, readError)
	require.NoError(testInstance, pipeReader.Close())

	return string(capturedBytes)
}
