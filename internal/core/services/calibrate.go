package services

import (
	"math"

	"github.com/custodia-labs/doceval/internal/core/domain"
)

// Calibration constants.
const (
	// noContextPenalty scales confidence when no similar documents were found.
	noContextPenalty = 0.95

	// contextBoostPerDocument is added per retrieved document.
	contextBoostPerDocument = 0.03

	// maxContextBoost caps the total context boost.
	maxContextBoost = 0.1
)

// Calibrate adjusts a reasoner confidence by how much supporting context was
// retrieved. The result is always within [0, 1].
func Calibrate(confidence float64, contextSize int) float64 {
	if contextSize <= 0 {
		return domain.ClampConfidence(confidence * noContextPenalty)
	}
	boost := math.Min(maxContextBoost, float64(contextSize)*contextBoostPerDocument)
	return domain.ClampConfidence(confidence + boost)
}
