package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// TraceStep is one timestamped entry of an ExecutionTrace.
type TraceStep struct {
	Timestamp   time.Time `json:"timestamp"`
	Description string    `json:"description"`
}

// String formats the step as "[RFC3339] description".
func (s TraceStep) String() string {
	return fmt.Sprintf("[%s] %s", s.Timestamp.Format(time.RFC3339), s.Description)
}

// ExecutionTrace is the append-only audit log of one evaluation.
// It is not safe for concurrent use; each evaluation owns its own trace.
type ExecutionTrace struct {
	steps []TraceStep
	now   func() time.Time
}

// NewExecutionTrace returns an empty trace stamped by now.
// A nil now uses time.Now.
func NewExecutionTrace(now func() time.Time) *ExecutionTrace {
	if now == nil {
		now = time.Now
	}
	return &ExecutionTrace{now: now}
}

// Add appends a step stamped with the current time.
func (t *ExecutionTrace) Add(description string) {
	if t.now == nil {
		t.now = time.Now
	}
	t.steps = append(t.steps, TraceStep{Timestamp: t.now(), Description: description})
}

// Addf appends a formatted step.
func (t *ExecutionTrace) Addf(format string, args ...any) {
	t.Add(fmt.Sprintf(format, args...))
}

// Steps returns a copy of the recorded steps in order.
func (t ExecutionTrace) Steps() []TraceStep {
	out := make([]TraceStep, len(t.steps))
	copy(out, t.steps)
	return out
}

// Len returns the number of recorded steps.
func (t ExecutionTrace) Len() int {
	return len(t.steps)
}

// Lines returns the steps formatted as strings.
func (t ExecutionTrace) Lines() []string {
	out := make([]string, len(t.steps))
	for i, s := range t.steps {
		out[i] = s.String()
	}
	return out
}

// Snapshot returns an independent copy that further Add calls will not affect.
func (t ExecutionTrace) Snapshot() ExecutionTrace {
	return ExecutionTrace{steps: t.Steps(), now: t.now}
}

// MarshalJSON encodes the trace as its list of steps.
func (t ExecutionTrace) MarshalJSON() ([]byte, error) {
	if t.steps == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(t.steps)
}

// UnmarshalJSON decodes a list of steps.
func (t *ExecutionTrace) UnmarshalJSON(data []byte) error {
	var steps []TraceStep
	if err := json.Unmarshal(data, &steps); err != nil {
		return err
	}
	t.steps = steps
	return nil
}
