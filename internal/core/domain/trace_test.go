package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		t := current
		current = current.Add(time.Second)
		return t
	}
}

func TestExecutionTrace_AddKeepsOrder(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	trace := NewExecutionTrace(fixedClock(start))

	trace.Add("first")
	trace.Addf("second %d", 2)
	trace.Add("third")

	steps := trace.Steps()
	require.Len(t, steps, 3)
	assert.Equal(t, "first", steps[0].Description)
	assert.Equal(t, "second 2", steps[1].Description)
	assert.Equal(t, "third", steps[2].Description)
	assert.True(t, steps[0].Timestamp.Before(steps[1].Timestamp))
	assert.Equal(t, 3, trace.Len())
	assert.Equal(t, "[2024-01-01T00:00:00Z] first", trace.Lines()[0])
}

func TestExecutionTrace_StepsIsCopy(t *testing.T) {
	trace := NewExecutionTrace(nil)
	trace.Add("one")

	steps := trace.Steps()
	steps[0].Description = "mutated"
	assert.Equal(t, "one", trace.Steps()[0].Description)
}

func TestExecutionTrace_Snapshot(t *testing.T) {
	trace := NewExecutionTrace(nil)
	trace.Add("one")
	snap := trace.Snapshot()
	trace.Add("two")

	assert.Equal(t, 1, snap.Len())
	assert.Equal(t, 2, trace.Len())
}

func TestExecutionTrace_ZeroValueUsable(t *testing.T) {
	var trace ExecutionTrace
	trace.Add("step")
	assert.Equal(t, 1, trace.Len())
}

func TestExecutionTrace_JSON(t *testing.T) {
	var empty ExecutionTrace
	data, err := json.Marshal(empty)
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(data))

	trace := NewExecutionTrace(fixedClock(time.Unix(100, 0).UTC()))
	trace.Add("a")
	trace.Add("b")
	data, err = json.Marshal(trace)
	require.NoError(t, err)

	var decoded ExecutionTrace
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, trace.Lines(), decoded.Lines())
}
