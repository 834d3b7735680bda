package utils

import (
	"io"
	"sync"
)

// flushableWriter matches writers exposing an explicit Flush, such as bufio.Writer.
type flushableWriter interface {
	Flush() error
}

// FlushingWriter serializes writes and flushes the destination after each one so
// buffered progress output becomes visible immediately.
type FlushingWriter struct {
	destination io.Writer
	writeMutex  sync.Mutex
}

// NewFlushingWriter wraps destination, returning it unchanged when already wrapped.
func NewFlushingWriter(destination io.Writer) io.Writer {
	if destination == nil {
		return nil
	}
	if _, alreadyFlushing := destination.(*FlushingWriter); alreadyFlushing {
		return destination
	}
	return &FlushingWriter{destination: destination}
}

// Write forwards data to the wrapped writer and flushes it when supported.
func (writer *FlushingWriter) Write(data []byte) (int, error) {
	if writer == nil || writer.destination == nil {
		return 0, nil
	}

	writer.writeMutex.Lock()
	defer writer.writeMutex.Unlock()

	writtenBytes, writeError := writer.destination.Write(data)
	if writeError != nil {
		return writtenBytes, writeError
	}

	if flushable, supportsFlush := writer.destination.(flushableWriter); supportsFlush {
		return writtenBytes, flushable.Flush()
	}
	return writtenBytes, nil
}
