package ui

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
	"go.uber.org/zap"
)

// ProgressReporter announces long-running provisioning phases to the operator.
type ProgressReporter interface {
	StartPhase(description string)
	UpdatePhase(description string)
	CompletePhase(message string)
	FailPhase(message string)
}

// NewProgressReporter selects a spinner reporter for interactive terminals and a logger-backed reporter otherwise.
func NewProgressReporter(logger *zap.Logger, output *os.File) ProgressReporter {
	if output != nil && (isatty.IsTerminal(output.Fd()) || isatty.IsCygwinTerminal(output.Fd())) {
		return NewSpinnerProgressReporter()
	}
	return NewLoggerProgressReporter(logger)
}

// SpinnerProgressReporter renders phases through an animated terminal spinner.
type SpinnerProgressReporter struct {
	activeSpinner *pterm.SpinnerPrinter
}

// NewSpinnerProgressReporter constructs a spinner-backed progress reporter.
func NewSpinnerProgressReporter() *SpinnerProgressReporter {
	return &SpinnerProgressReporter{}
}

// StartPhase begins a new spinner for the described phase.
func (reporter *SpinnerProgressReporter) StartPhase(description string) {
	reporter.stopActiveSpinner()
	startedSpinner, startError := pterm.DefaultSpinner.Start(description)
	if startError != nil {
		return
	}
	reporter.activeSpinner = startedSpinner
}

// UpdatePhase refreshes the text of the running spinner.
func (reporter *SpinnerProgressReporter) UpdatePhase(description string) {
	if reporter.activeSpinner == nil {
		return
	}
	reporter.activeSpinner.UpdateText(description)
}

// CompletePhase stops the running spinner with a success marker.
func (reporter *SpinnerProgressReporter) CompletePhase(message string) {
	if reporter.activeSpinner == nil {
		pterm.Success.Println(message)
		return
	}
	reporter.activeSpinner.Success(message)
	reporter.activeSpinner = nil
}

// FailPhase stops the running spinner with a failure marker.
func (reporter *SpinnerProgressReporter) FailPhase(message string) {
	if reporter.activeSpinner == nil {
		pterm.Error.Println(message)
		return
	}
	reporter.activeSpinner.Fail(message)
	reporter.activeSpinner = nil
}

func (reporter *SpinnerProgressReporter) stopActiveSpinner() {
	if reporter.activeSpinner == nil {
		return
	}
	_ = reporter.activeSpinner.Stop()
	reporter.activeSpinner = nil
}

// LoggerProgressReporter mirrors phase events into structured logs for non-interactive sessions.
type LoggerProgressReporter struct {
	logger *zap.Logger
}

// NewLoggerProgressReporter constructs a logger-backed progress reporter.
func NewLoggerProgressReporter(logger *zap.Logger) *LoggerProgressReporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggerProgressReporter{logger: logger}
}

// StartPhase logs the beginning of a phase.
func (reporter *LoggerProgressReporter) StartPhase(description string) {
	reporter.logger.Info(description)
}

// UpdatePhase logs phase progress updates.
func (reporter *LoggerProgressReporter) UpdatePhase(description string) {
	reporter.logger.Info(description)
}

// CompletePhase logs phase completion.
func (reporter *LoggerProgressReporter) CompletePhase(message string) {
	reporter.logger.Info(message)
}

// FailPhase logs phase failure.
func (reporter *LoggerProgressReporter) FailPhase(message string) {
	reporter.logger.Warn(message)
}
