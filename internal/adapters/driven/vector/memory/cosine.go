package memory

import (
	"fmt"
	"math"

	"github.com/custodia-labs/doceval/internal/core/domain"
)

func norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

// dot assumes len(a) == len(b).
func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

// similarity divides a dot product by the two vector norms, clamping rounding
// drift into [-1, 1]. A zero norm gives 0.
func similarity(dot, normA, normB float64) float64 {
	if normA == 0 || normB == 0 {
		return 0
	}
	return math.Max(-1, math.Min(1, dot/(normA*normB)))
}

// checkFinite rejects empty vectors and NaN or infinite components.
func checkFinite(v []float32) error {
	if len(v) == 0 {
		return fmt.Errorf("%w: empty vector", domain.ErrValidation)
	}
	for _, x := range v {
		if math.IsNaN(float64(x)) || math.IsInf(float64(x), 0) {
			return fmt.Errorf("%w: non-finite vector component", domain.ErrValidation)
		}
	}
	return nil
}
