// Package scoring provides stateless scoring utilities layered on the
// lexicon scorer: hybrid external+lexicon blending, custom-lexicon
// scoring, and retry-hardened scoring with a neutral fallback.
package scoring

import (
	"math"

	"github.com/seenimoa/marketmood/internal/lexicon"
	"github.com/seenimoa/marketmood/pkg/models"
)

// Hybrid blends a provider-supplied score on the [0,1] scale with the
// lexicon compound for the text. The API score is remapped to [-1,1] via
// (api-0.5)*2, then combined as weight*lexicon + (1-weight)*api.
// Confidence is the magnitude of the blended score, for thresholding.
func Hybrid(scorer lexicon.Scorer, apiScore float64, text string, weight float64) models.HybridScore {
	weight = math.Max(0, math.Min(1, weight))

	rawLexicon := 0.0
	if breakdown, err := scorer.Score(text); err == nil {
		rawLexicon = breakdown.Compound
	}

	rawAPI := (apiScore - 0.5) * 2
	hybrid := weight*rawLexicon + (1-weight)*rawAPI

	return models.HybridScore{
		RawLexicon: rawLexicon,
		RawAPI:     rawAPI,
		Hybrid:     hybrid,
		Confidence: math.Abs(hybrid),
	}
}

// ScoreWithLexicon scores a text with ticker-specific custom terms merged
// into the lexicon pass. Custom phrase weights are added to the bullish
// or bearish tallies before normalization, so the compound stays in
// [-1,1]. An empty or whitespace text returns lexicon.ErrEmptyText.
func ScoreWithLexicon(text string, customTerms map[string]float64) (models.ScoreBreakdown, error) {
	return lexicon.NewWithTerms(customTerms).Score(text)
}
