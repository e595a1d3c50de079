package launch

import (
	"errors"
	"fmt"
)

// Step names.
const (
	StepPreflight = "preflight"
	StepProvision = "provision"
	StepBringUp   = "bringup"
)

// Sentinel errors, matched with errors.Is.
var (
	ErrInterpreterMissing = errors.New("interpreter not available")
	ErrInterpreterTooOld  = errors.New("interpreter version too old")
	ErrInstallFailed      = errors.New("package installation failed")
	ErrDirectoryFailed    = errors.New("directory provisioning failed")
	ErrSpawnFailed        = errors.New("failed to spawn service")
	ErrBackendNotReady    = errors.New("back end did not become ready")
)

// StepError reports which step of the sequence failed.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// hint is the operator-facing remedy for a failure.
func hint(err error) string {
	switch {
	case errors.Is(err, ErrInterpreterMissing):
		return "Install Python 3.8+ and make sure it is on PATH."
	case errors.Is(err, ErrInterpreterTooOld):
		return "Upgrade Python or point interpreter.command at a newer one."
	case errors.Is(err, ErrInstallFailed):
		return "Fix the package installation above, or rerun with -skip-install if the packages are already present."
	case errors.Is(err, ErrBackendNotReady):
		return "The back end did not answer its health check; inspect its window or log file."
	case errors.Is(err, ErrSpawnFailed):
		return "Check the entry point path and the interpreter command."
	}
	return ""
}
