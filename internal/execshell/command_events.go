package execshell

// CommandEventObserver receives lifecycle notifications for shell command execution.
type CommandEventObserver interface {
	// CommandStarted notifies observers that command execution is beginning.
	CommandStarted(command ShellCommand)
	// CommandCompleted notifies observers that command execution finished and supplies the result.
	CommandCompleted(command ShellCommand, result ExecutionResult)
	// CommandExecutionFailed reports unexpected failures prior to receiving an execution result.
	CommandExecutionFailed(command ShellCommand, failure error)
}

// noopCommandEventObserver discards all command events.
type noopCommandEventObserver struct{}

// CommandStarted implements CommandEventObserver for the no-op observer.
func (noopCommandEventObserver) CommandStarted(ShellCommand) {}

// CommandCompleted implements CommandEventObserver for the no-op observer.
func (noopCommandEventObserver) CommandCompleted(ShellCommand, ExecutionResult) {}

// CommandExecutionFailed implements CommandEventObserver for the no-op observer.
func (noopCommandEventObserver) CommandExecutionFailed(ShellCommand, error) {}

// compositeCommandEventObserver fans events out to every registered observer.
type compositeCommandEventObserver struct {
	observers []CommandEventObserver
}

// CommandStarted implements CommandEventObserver for the composite observer.
func (composite compositeCommandEventObserver) CommandStarted(command ShellCommand) {
	for _, observer := range composite.observers {
		observer.CommandStarted(command)
	}
}

// CommandCompleted implements CommandEventObserver for the composite observer.
func (composite compositeCommandEventObserver) CommandCompleted(command ShellCommand, result ExecutionResult) {
	for _, observer := range composite.observers {
		observer.CommandCompleted(command, result)
	}
}

// CommandExecutionFailed implements CommandEventObserver for the composite observer.
func (composite compositeCommandEventObserver) CommandExecutionFailed(command ShellCommand, failure error) {
	for _, observer := range composite.observers {
		observer.CommandExecutionFailed(command, failure)
	}
}

func combineCommandEventObservers(observers []CommandEventObserver) CommandEventObserver {
	activeObservers := make([]CommandEventObserver, 0, len(observers))
	for _, observer := range observers {
		if observer == nil {
			continue
		}
		activeObservers = append(activeObservers, observer)
	}

	switch len(activeObservers) {
	case 0:
		return noopCommandEventObserver{}
	case 1:
		return activeObservers[0]
	default:
		return compositeCommandEventObserver{observers: activeObservers}
	}
}
