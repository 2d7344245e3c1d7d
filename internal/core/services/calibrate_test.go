package services

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestCalibrate(t *testing.T) {
	tests := []struct {
		name        string
		confidence  float64
		contextSize int
		expected    float64
	}{
		{"no context penalised", 0.90, 0, 0.855},
		{"two documents boost", 0.90, 2, 0.96},
		{"one document boost", 0.50, 1, 0.53},
		{"boost capped at 0.1", 0.50, 10, 0.60},
		{"clamped to one", 0.98, 3, 1.0},
		{"zero stays zero without context", 0, 0, 0},
		{"negative clamped", -0.2, 0, 0},
		{"above one clamped", 1.5, 0, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Calibrate(tt.confidence, tt.contextSize), 1e-9)
		})
	}
}

func TestCalibrate_NaN(t *testing.T) {
	assert.Equal(t, 0.0, Calibrate(math.NaN(), 0))
	assert.Equal(t, 0.0, Calibrate(math.NaN(), 3))
}

func TestCalibrate_Properties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500
	properties := gopter.NewProperties(parameters)

	properties.Property("result is within [0, 1]", prop.ForAll(
		func(confidence float64, contextSize int) bool {
			c := Calibrate(confidence, contextSize)
			return c >= 0 && c <= 1
		},
		gen.Float64Range(-5, 5),
		gen.IntRange(0, 100),
	))

	properties.Property("context never lowers an in-range confidence", prop.ForAll(
		func(confidence float64, contextSize int) bool {
			return Calibrate(confidence, contextSize) >= confidence
		},
		gen.Float64Range(0, 1),
		gen.IntRange(1, 100),
	))

	properties.Property("boost never exceeds 0.1", prop.ForAll(
		func(confidence float64, contextSize int) bool {
			return Calibrate(confidence, contextSize)-confidence <= maxContextBoost+1e-12
		},
		gen.Float64Range(0, 1),
		gen.IntRange(1, 100),
	))

	properties.TestingRun(t)
}
