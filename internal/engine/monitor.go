package engine

import (
	"math"

	"github.com/seenimoa/marketmood/pkg/models"
)

// extremeThreshold marks compounds with strong conviction either way.
const extremeThreshold = 0.5

// logDistribution emits the monitoring summary for a scored batch: mean,
// standard deviation, extreme-score count, and the compound range.
// Observability only; it never affects the returned result.
func (e *Engine) logDistribution(symbol string, scored []models.ScoredItem) {
	if len(scored) == 0 {
		e.log.Info().Str("symbol", symbol).Int("articles", 0).Msg("sentiment distribution")
		return
	}

	sum := 0.0
	minC := scored[0].Compound
	maxC := scored[0].Compound
	extremes := 0
	for _, s := range scored {
		sum += s.Compound
		minC = math.Min(minC, s.Compound)
		maxC = math.Max(maxC, s.Compound)
		if math.Abs(s.Compound) > extremeThreshold {
			extremes++
		}
		e.log.Debug().
			Str("symbol", symbol).
			Float64("compound", s.Compound).
			Str("title", s.Title).
			Msg("article sentiment")
	}
	mean := sum / float64(len(scored))

	variance := 0.0
	for _, s := range scored {
		variance += (s.Compound - mean) * (s.Compound - mean)
	}
	std := math.Sqrt(variance / float64(len(scored)))

	e.log.Info().
		Str("symbol", symbol).
		Int("articles", len(scored)).
		Float64("mean", mean).
		Float64("std", std).
		Int("extremes", extremes).
		Float64("min", minC).
		Float64("max", maxC).
		Msg("sentiment distribution")
}
