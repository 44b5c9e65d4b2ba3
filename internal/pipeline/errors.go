package pipeline

import (
	"errors"
	"fmt"
)

var (
	// ErrStageFailure marks a run aborted by a failing stage.
	ErrStageFailure = errors.New("stage failed")

	// ErrNoSources is returned by Build when neither search nor a document
	// was selected.
	ErrNoSources = errors.New("select at least one of search or document")

	// ErrNoStages is returned by Run for an empty stage list.
	ErrNoStages = errors.New("no stages configured")

	// ErrUnsupportedCapability is returned for a stage requiring a
	// capability the orchestrator cannot fold into stage input.
	ErrUnsupportedCapability = errors.New("unsupported stage capability")
)

// StageError reports the stage that failed and carries the context
// produced by the stages before it.
type StageError struct {
	Index   int
	Role    Role
	Err     error
	Partial *ExecutionContext
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %d (%s) failed: %v", e.Index+1, e.Role, e.Err)
}

// Unwrap exposes both ErrStageFailure and the cause to errors.Is.
func (e *StageError) Unwrap() []error {
	return []error{ErrStageFailure, e.Err}
}
