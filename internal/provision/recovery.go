package provision

import "fmt"

const recoveryErrorTemplateConstant = "%s: %s"

// RecoveryError reports a provisioning step that could not finish on its own.
// It carries the diagnosis and the ordered manual steps that bring the
// provisioning run back to a resumable state.
type RecoveryError struct {
	Step         string
	Diagnosis    string
	Instructions []string
	Cause        error
}

// Error summarizes the failed step and its diagnosis.
func (recoveryError RecoveryError) Error() string {
	return fmt.Sprintf(recoveryErrorTemplateConstant, recoveryError.Step, recoveryError.Diagnosis)
}

// Unwrap exposes the underlying cause when one exists.
func (recoveryError RecoveryError) Unwrap() error {
	return recoveryError.Cause
}
