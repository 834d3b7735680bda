package ui

import (
	"bufio"
	"io"
	"strings"
)

const (
	affirmativeShortResponseConstant = "y"
	affirmativeLongResponseConstant  = "yes"
	responseDelimiterConstant        = '\n'
)

// ConfirmationPrompter collects yes/no confirmations prior to continuing an operation.
type ConfirmationPrompter interface {
	Confirm(prompt string) (bool, error)
}

// LineReader collects free-form input lines from the operator.
type LineReader interface {
	ReadLine(prompt string) (string, error)
}

// IOConfirmationPrompter reads confirmation responses from an io.Reader.
type IOConfirmationPrompter struct {
	reader *bufio.Reader
	writer io.Writer
}

// NewIOConfirmationPrompter constructs a prompter from the provided reader and writer.
func NewIOConfirmationPrompter(input io.Reader, output io.Writer) *IOConfirmationPrompter {
	return &IOConfirmationPrompter{reader: bufio.NewReader(input), writer: output}
}

// Confirm writes the prompt and interprets affirmative responses (y/yes).
func (prompter *IOConfirmationPrompter) Confirm(prompt string) (bool, error) {
	if prompter.writer != nil {
		if _, writeError := io.WriteString(prompter.writer, prompt); writeError != nil {
			return false, writeError
		}
	}

	response, readError := prompter.reader.ReadString(responseDelimiterConstant)
	if readError != nil && readError != io.EOF {
		return false, readError
	}

	trimmedResponse := strings.TrimSpace(strings.ToLower(response))
	switch trimmedResponse {
	case affirmativeShortResponseConstant, affirmativeLongResponseConstant:
		return true, nil
	default:
		return false, nil
	}
}

// AssumeYesPrompter confirms every prompt without reading input.
type AssumeYesPrompter struct{}

// Confirm always reports an affirmative response.
func (AssumeYesPrompter) Confirm(string) (bool, error) {
	return true, nil
}

// IOLineReader reads free-form responses from an io.Reader.
type IOLineReader struct {
	reader *bufio.Reader
	writer io.Writer
}

// NewIOLineReader constructs a line reader from the provided reader and writer.
func NewIOLineReader(input io.Reader, output io.Writer) *IOLineReader {
	return &IOLineReader{reader: bufio.NewReader(input), writer: output}
}

// ReadLine writes the prompt and returns the trimmed response line.
func (lineReader *IOLineReader) ReadLine(prompt string) (string, error) {
	if lineReader.writer != nil {
		if _, writeError := io.WriteString(lineReader.writer, prompt); writeError != nil {
			return "", writeError
		}
	}

	response, readError := lineReader.reader.ReadString(responseDelimiterConstant)
	if readError != nil && readError != io.EOF {
		return "", readError
	}
	return strings.TrimSpace(response), nil
}
