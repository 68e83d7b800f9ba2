package tasks

import "fmt"

// ProgressUpdate represents a progress event during a dashboard load.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Load phase
	Step    int    // Reads finished within the phase
	Total   int    // Reads in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data, e.g. the finished view-model
}

// Load phase enumeration
type Phase int

const (
	FetchRequired Phase = iota
	FetchOptional
	Merge
)

func (p Phase) String() string {
	switch p {
	case FetchRequired:
		return "fetch_required"
	case FetchOptional:
		return "fetch_optional"
	case Merge:
		return "merge"
	default:
		return ""
	}
}

func startRequiredUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchRequired,
		Total:   total,
		Message: "Fetching your profile, top artists and top tracks...",
	}
}

func requiredDoneUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchRequired,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s", step, total, name),
	}
}

func startOptionalUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchOptional,
		Total:   total,
		Message: "Fetching listening stats and personality...",
	}
}

func optionalDoneUpdate(step, total int, kind string, err error) ProgressUpdate {
	msg := fmt.Sprintf("[%d/%d] ✓ %s", step, total, kind)
	if err != nil {
		msg = fmt.Sprintf("[%d/%d] ✗ %s unavailable", step, total, kind)
	}
	return ProgressUpdate{
		Phase:   FetchOptional,
		Step:    step,
		Total:   total,
		Message: msg,
	}
}

func mergedUpdate(data any) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Merge,
		Step:    1,
		Total:   1,
		Message: "Dashboard ready",
		Data:    data,
	}
}
