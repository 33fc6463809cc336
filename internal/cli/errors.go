package cli

import (
	"errors"
	"fmt"

	"github.com/rshade/fuelghg/internal/emissions"
	"github.com/rshade/fuelghg/internal/fleet"
	"github.com/rshade/fuelghg/internal/matrix"
	"github.com/rshade/fuelghg/internal/table"
)

// Process exit codes.
const (
	ExitCodeError         = 1
	ExitCodeConfiguration = 2
	ExitCodeShapeMismatch = 3
	ExitCodeDegenerate    = 4
	ExitCodeDeficit       = 5
)

// ExitError carries the process exit code for a failed command.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }

func (e *ExitError) Unwrap() error { return e.Err }

// ExitCodeFor classifies err. An ExitError anywhere in the chain wins;
// otherwise the domain sentinel decides.
func ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	switch {
	case errors.Is(err, matrix.ErrShapeMismatch):
		return ExitCodeShapeMismatch
	case errors.Is(err, emissions.ErrDegenerateInput):
		return ExitCodeDegenerate
	case errors.Is(err, fleet.ErrConfiguration), errors.Is(err, table.ErrSchema), errors.Is(err, table.ErrFormat):
		return ExitCodeConfiguration
	default:
		return ExitCodeError
	}
}

// configError wraps err with the configuration exit code.
func configError(err error) error {
	return &ExitError{Code: ExitCodeConfiguration, Err: err}
}

// classify wraps err in an ExitError chosen by ExitCodeFor.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return err
	}
	return &ExitError{Code: ExitCodeFor(err), Err: err}
}

// deficitError reports ships whose intensity exceeds the target.
func deficitError(deficit, total int) error {
	return &ExitError{
		Code: ExitCodeDeficit,
		Err:  fmt.Errorf("%d of %d ships exceed the target intensity", deficit, total),
	}
}
