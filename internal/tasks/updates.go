package tasks

import (
	"fmt"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchAccount Phase = iota
	FetchSources
	FetchJobs
	FetchHealth
	FetchRuns
	JobAction
)

func (p Phase) String() string {
	switch p {
	case FetchAccount:
		return "fetch_account"
	case FetchSources:
		return "fetch_sources"
	case FetchJobs:
		return "fetch_jobs"
	case FetchHealth:
		return "fetch_health"
	case FetchRuns:
		return "fetch_runs"
	case JobAction:
		return "job_action"
	default:
		return ""
	}
}

func operationUpdate(op endpointOperation, step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   op.phase,
		Step:    step,
		Total:   total,
		Message: op.message,
	}
}

func operationDoneUpdate(op endpointOperation, step, total int, err error) ProgressUpdate {
	msg := fmt.Sprintf("[%d/%d] ✓ %s", step, total, op.name)
	if err != nil {
		msg = fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, op.name, err)
	}
	return ProgressUpdate{
		Phase:   op.phase,
		Step:    step,
		Total:   total,
		Message: msg,
	}
}

func actionStartedUpdate(step, total int, action, id string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   JobAction,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s %s...", step, total, action, id),
	}
}

func actionCompletedUpdate(step, total int, res JobActionResult) ProgressUpdate {
	if res.Error != nil {
		return ProgressUpdate{
			Phase:   JobAction,
			Step:    step,
			Total:   total,
			Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, res.JobID, res.Error),
			Data:    res,
		}
	}
	return ProgressUpdate{
		Phase:   JobAction,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%s)", step, total, res.Job.Name, res.Job.Status),
		Data:    res,
	}
}
