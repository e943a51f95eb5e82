package control

import (
	stderrors "errors"
	"fmt"

	"github.com/matzehuels/afgraph/pkg/errors"
)

// InputValidationError reports entry text that is not a feasible k. It is
// recovered inside the controller and never returned from ProposeK.
type InputValidationError struct {
	Raw string
}

func (e *InputValidationError) Error() string {
	return fmt.Sprintf("%q is not a feasible k", e.Raw)
}

// Code returns INVALID_INPUT.
func (e *InputValidationError) Code() errors.Code { return errors.ErrCodeInvalidInput }

// ErrKOutOfRange is the cause of an EngineCommitError for a feasible entry
// whose value does not fit in an int. The engine is not called.
var ErrKOutOfRange = stderrors.New("k out of range")

// EngineCommitError reports that the engine refused a feasible k. K is zero
// when the cause is ErrKOutOfRange; Raw always holds the entry text.
type EngineCommitError struct {
	Raw string
	K   int
	Err error
}

func (e *EngineCommitError) Error() string {
	if e.Raw != "" {
		return fmt.Sprintf("engine rejected k=%s: %v", e.Raw, e.Err)
	}
	return fmt.Sprintf("engine rejected k=%d: %v", e.K, e.Err)
}

func (e *EngineCommitError) Unwrap() error { return e.Err }

// Code returns ENGINE_COMMIT.
func (e *EngineCommitError) Code() errors.Code { return errors.ErrCodeEngineCommit }
