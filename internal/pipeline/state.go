package pipeline

import (
	"github.com/google/uuid"

	"github.com/mwiater/covenant/internal/logging"
)

// RunState tracks one in-flight run through the state machine. It exists from
// the first transition out of Idle until a terminal stage and is never reused
// across runs.
type RunState struct {
	RunID             string
	Stage             Stage
	RepairAttempts    int
	TransientAttempts int
	LastError         *StageError
}

// newRunState starts a run in Idle with a fresh run ID.
func newRunState() *RunState {
	return &RunState{
		RunID: uuid.NewString(),
		Stage: StageIdle,
	}
}

// advance moves the run to the next stage. Transitions are strictly
// sequential; advance is only called after the previous stage completed.
func (r *RunState) advance(next Stage) {
	logging.LogStage(r.RunID, string(r.Stage), string(next))
	r.Stage = next
}

// fail transitions the run to Failed, recording the terminal error.
func (r *RunState) fail(kind ErrorKind, violations []string, err error) *StageError {
	stageErr := &StageError{
		Stage:      r.Stage,
		Kind:       kind,
		Violations: violations,
		Err:        err,
	}
	r.LastError = stageErr
	r.advance(StageFailed)
	return stageErr
}
