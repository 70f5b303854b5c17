// Package lexicon implements a deterministic keyword-based sentiment
// scorer for financial text. It returns a signed compound polarity in
// [-1, 1] plus positive/neutral/negative proportions, and supports
// caller-supplied custom terms merged into the scoring pass.
package lexicon

import (
	"errors"
	"math"
	"strings"

	"github.com/seenimoa/marketmood/pkg/models"
)

// ErrEmptyText is returned when there is nothing to score.
var ErrEmptyText = errors.New("lexicon: empty text")

// Scorer scores a text into a structured sentiment breakdown.
// Implementations must be deterministic for identical input.
type Scorer interface {
	Score(text string) (models.ScoreBreakdown, error)
}

// bullish / bearish phrase dictionaries (lowercase).
var bullishTerms = map[string]float64{
	"bullish": 0.7, "rally": 0.6, "surge": 0.7, "soar": 0.7,
	"upbeat": 0.5, "positive": 0.4, "growth": 0.4, "upgrade": 0.6,
	"outperform": 0.6, "buy": 0.5, "strong": 0.4, "recovery": 0.5,
	"breakout": 0.6, "record high": 0.7, "all-time high": 0.7,
	"beat": 0.5, "beats estimate": 0.6, "exceeds": 0.5,
	"expansion": 0.4, "profit": 0.3, "dividend": 0.4, "gain": 0.4,
	"jump": 0.5, "raise guidance": 0.6, "accumulate": 0.5,
	"optimistic": 0.5, "momentum": 0.3, "rebound": 0.5,
}

var bearishTerms = map[string]float64{
	"bearish": 0.7, "crash": 0.8, "plunge": 0.7, "slump": 0.6,
	"negative": 0.4, "downgrade": 0.6, "underperform": 0.6,
	"sell": 0.5, "weak": 0.4, "decline": 0.5, "loss": 0.4,
	"selloff": 0.7, "fall": 0.4, "drop": 0.4, "correction": 0.5,
	"default": 0.7, "fraud": 0.8, "scam": 0.8, "investigation": 0.5,
	"lawsuit": 0.5, "cut": 0.3, "miss": 0.5, "misses estimate": 0.6,
	"warning": 0.5, "concern": 0.3, "bankruptcy": 0.9, "recall": 0.5,
	"layoff": 0.5, "tumble": 0.6,
}

// Analyzer is the default lexicon scorer. The zero value is not usable;
// construct with New or NewWithTerms.
type Analyzer struct {
	custom map[string]float64
}

// New creates an analyzer using the built-in financial term weights.
func New() *Analyzer {
	return &Analyzer{}
}

// NewWithTerms creates an analyzer whose custom phrase weights are merged
// into the scoring pass. Positive weights count toward the bullish tally,
// negative weights toward the bearish tally, so the compound result stays
// in [-1, 1] by construction.
func NewWithTerms(terms map[string]float64) *Analyzer {
	custom := make(map[string]float64, len(terms))
	for phrase, weight := range terms {
		custom[strings.ToLower(phrase)] = weight
	}
	return &Analyzer{custom: custom}
}

// Score returns the sentiment breakdown for a text.
// The breakdown's Pos, Neu and Neg proportions always sum to 1.
func (a *Analyzer) Score(text string) (models.ScoreBreakdown, error) {
	if strings.TrimSpace(text) == "" {
		return models.ScoreBreakdown{}, ErrEmptyText
	}

	lower := strings.ToLower(text)

	bullScore := 0.0
	bearScore := 0.0
	matches := 0

	for term, weight := range bullishTerms {
		if strings.Contains(lower, term) {
			bullScore += weight
			matches++
		}
	}
	for term, weight := range bearishTerms {
		if strings.Contains(lower, term) {
			bearScore += weight
			matches++
		}
	}
	for phrase, weight := range a.custom {
		if strings.Contains(lower, phrase) {
			if weight >= 0 {
				bullScore += weight
			} else {
				bearScore += -weight
			}
			matches++
		}
	}

	if matches == 0 || bullScore+bearScore == 0 {
		return models.NeutralBreakdown(), nil
	}

	total := bullScore + bearScore
	compound := (bullScore - bearScore) / total

	// A fixed unit of neutral mass keeps weakly-opinionated texts from
	// reading as fully polarized.
	pos := bullScore / (total + 1)
	neg := bearScore / (total + 1)
	neu := 1 - pos - neg

	return models.ScoreBreakdown{
		Compound: clamp(compound),
		Pos:      pos,
		Neu:      neu,
		Neg:      neg,
	}, nil
}

// Compound is a convenience wrapper returning only the compound score,
// with 0 for unscoreable text.
func (a *Analyzer) Compound(text string) float64 {
	breakdown, err := a.Score(text)
	if err != nil {
		return 0
	}
	return breakdown.Compound
}

func clamp(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}
