// Package models defines the shared data records exchanged between the
// datasource adapters, the sentiment engine, and the batch processor.
package models

import "time"

// SourceID identifies a content provider in the source registry.
type SourceID string

const (
	// SourceFinviz is the primary scrape-based source.
	SourceFinviz SourceID = "finviz"
	// SourceEODHD is the first credentialed fallback (pre-scored API).
	SourceEODHD SourceID = "eodhd"
	// SourceAlphaVantage is the second credentialed fallback (pre-scored API).
	SourceAlphaVantage SourceID = "alphavantage"
	// SourceTradestie is the WallStreetBets social aggregator.
	SourceTradestie SourceID = "tradestie"
	// SourceFinnhub is the third credentialed fallback (social sentiment API).
	SourceFinnhub SourceID = "finnhub"
	// SourceGoogleNews is the last-resort syndication feed.
	SourceGoogleNews SourceID = "googlenews"
	// SourceStockGeist is the real-time sentiment stream API. It is
	// registered for profile selection but sits outside the fallback chain.
	SourceStockGeist SourceID = "stockgeist"

	// AllSources is the sentinel that enables every registered source.
	AllSources SourceID = "all"
)

// NewsItem is one retrieved content unit from a provider adapter.
// Immutable after the adapter returns it.
type NewsItem struct {
	Title       string     `json:"title"`
	Text        string     `json:"text"` // falls back to Title when body unavailable
	URL         string     `json:"url"`
	Source      SourceID   `json:"source"`
	PublishedAt *time.Time `json:"published_at,omitempty"`

	// Precomputed holds a provider-supplied compound score. When HasScore
	// is true the engine uses Precomputed verbatim and skips the lexicon.
	Precomputed float64 `json:"precomputed_score,omitempty"`
	HasScore    bool    `json:"has_score,omitempty"`
}

// Body returns the text to score, falling back to the title.
func (n NewsItem) Body() string {
	if n.Text != "" {
		return n.Text
	}
	return n.Title
}

// Polarity classifies a compound score.
type Polarity string

const (
	PolarityPositive Polarity = "Positive"
	PolarityNegative Polarity = "Negative"
	PolarityNeutral  Polarity = "Neutral"
)

// PolarityThreshold is the fixed classification cutoff: compound scores
// above +0.05 are positive, below -0.05 negative, the rest neutral.
const PolarityThreshold = 0.05

// ClassifyCompound maps a compound score to its polarity class.
func ClassifyCompound(compound float64) Polarity {
	switch {
	case compound > PolarityThreshold:
		return PolarityPositive
	case compound < -PolarityThreshold:
		return PolarityNegative
	default:
		return PolarityNeutral
	}
}

// ScoredItem is a NewsItem with its resolved compound score.
type ScoredItem struct {
	NewsItem
	Compound float64  `json:"compound"`
	Class    Polarity `json:"polarity_class"`
}

// AggregateResult is the engine's output contract for one symbol.
// PositiveCount + NegativeCount + NeutralCount equals len(Titles), except
// with zero collected items, where NeutralCount is padded to the quota.
type AggregateResult struct {
	Symbol        string   `json:"symbol"`
	MeanPolarity  float64  `json:"mean_polarity"`
	Titles        []string `json:"titles"`
	Label         string   `json:"label"`
	PositiveCount int      `json:"positive_count"`
	NegativeCount int      `json:"negative_count"`
	NeutralCount  int      `json:"neutral_count"`
}

// ScoreBreakdown is the lexicon scorer's structured output.
// Pos, Neu and Neg are proportions; Compound is the signed summary in [-1,1].
type ScoreBreakdown struct {
	Compound float64 `json:"compound"`
	Pos      float64 `json:"pos"`
	Neu      float64 `json:"neu"`
	Neg      float64 `json:"neg"`
}

// NeutralBreakdown is the fallback returned when scoring cannot proceed.
func NeutralBreakdown() ScoreBreakdown {
	return ScoreBreakdown{Compound: 0, Pos: 0, Neu: 1, Neg: 0}
}

// HybridScore combines a provider-supplied score with a lexicon score.
type HybridScore struct {
	RawLexicon float64 `json:"raw_lexicon"`
	RawAPI     float64 `json:"raw_api"`
	Hybrid     float64 `json:"hybrid"`
	Confidence float64 `json:"confidence"`
}

// BatchRow is one row of the batch processor's result table.
type BatchRow struct {
	Symbol      string    `json:"symbol"`
	Title       string    `json:"title"`
	Text        string    `json:"text"`
	Compound    float64   `json:"compound"`
	RollingMean float64   `json:"rolling_mean"`
	ProcessedAt time.Time `json:"processed_at"`
}
