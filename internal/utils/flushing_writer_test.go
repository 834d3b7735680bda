package utils_test

import (
	"bufio"
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ciwebgroup/cli-tools/internal/utils"
)

var errFlushRejected = errors.New("flush rejected")

type rejectingFlushWriter struct {
	writtenBytes bytes.Buffer
}

func (writer *rejectingFlushWriter) Write(data []byte) (int, error) {
	return writer.writtenBytes.Write(data)
}

func (writer *rejectingFlushWriter) Flush() error {
	return errFlushRejected
}

func TestFlushingWriterFlushesBufferedDestinations(testInstance *testing.T) {
	destination := &bytes.Buffer{}
	bufferedDestination := bufio.NewWriter(destination)

	flushingWriter := utils.NewFlushingWriter(bufferedDestination)
	writtenBytes, writeError := flushingWriter.Write([]byte("Provisioning acme-plumbing.com\n"))
	require.NoError(testInstance, writeError)
	require.Equal(testInstance, 31, writtenBytes)
	require.Equal(testInstance, "Provisioning acme-plumbing.com\n", destination.String())
}

func TestFlushingWriterPassesThroughPlainWriters(testInstance *testing.T) {
	destination := &bytes.Buffer{}

	flushingWriter := utils.NewFlushingWriter(destination)
	_, writeError := flushingWriter.Write([]byte("status"))
	require.NoError(testInstance, writeError)
	require.Equal(testInstance, "status", destination.String())
}

func TestFlushingWriterDoesNotRewrap(testInstance *testing.T) {
	wrapped := utils.NewFlushingWriter(&bytes.Buffer{})
	require.Same(testInstance, wrapped, utils.NewFlushingWriter(wrapped))
}

func TestFlushingWriterSurfacesFlushFailures(testInstance *testing.T) {
	destination := &rejectingFlushWriter{}

	flushingWriter := utils.NewFlushingWriter(destination)
	writtenBytes, writeError := flushingWriter.Write([]byte("status"))
	require.ErrorIs(testInstance, writeError, errFlushRejected)
	require.Equal(testInstance, 6, writtenBytes)
	require.Equal(testInstance, "status", destination.writtenBytes.String())
}
