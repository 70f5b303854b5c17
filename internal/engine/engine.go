// Package engine implements the sentiment aggregation engine: it walks
// the provider fallback chain in priority order until the article quota
// is met, scores each collected item, and folds the scores into a single
// polarity label and distribution. Results are memoized per symbol.
package engine

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/seenimoa/marketmood/internal/datasource"
	"github.com/seenimoa/marketmood/internal/infra"
	"github.com/seenimoa/marketmood/internal/lexicon"
	"github.com/seenimoa/marketmood/pkg/models"
	"github.com/seenimoa/marketmood/pkg/utils"
)

// ErrEmptySymbol is returned for a blank symbol argument. It is the only
// error GetSentiment produces: unreachable providers and empty results
// are service conditions, not errors.
var ErrEmptySymbol = errors.New("engine: empty symbol")

// sentimentCachePurpose tags aggregate-result cache fingerprints.
const sentimentCachePurpose = "sentiment_analysis"

// DefaultQuota is the article quota used when the caller sets none.
const DefaultQuota = 7

// DefaultCacheTTL bounds how long an aggregate result is reused.
const DefaultCacheTTL = time.Hour

// Credentials holds the API keys for the credentialed providers. Keys
// left empty disable the corresponding adapter (it fails fast with no
// network call).
type Credentials struct {
	EODHD        string
	AlphaVantage string
	Finnhub      string
	StockGeist   string
}

// Engine aggregates sentiment for ticker symbols.
//
// Providers are tried strictly sequentially in priority order; once the
// accumulated item count meets the quota, remaining providers are never
// invoked. Concurrent fan-out was considered and rejected for this path:
// it would either waste paid-API calls or require incremental quota
// coordination, and the chain exists precisely to bound provider cost.
// The batch processor fans out across symbols instead.
type Engine struct {
	quota    int
	selected []models.SourceID
	chain    []datasource.Adapter
	scorer   lexicon.Scorer
	cache    *infra.Cache
	cacheTTL time.Duration
	log      zerolog.Logger
}

// Option customizes an Engine.
type Option func(*Engine)

// WithQuota sets the article quota the fallback chain tries to fill.
func WithQuota(quota int) Option {
	return func(e *Engine) {
		if quota > 0 {
			e.quota = quota
		}
	}
}

// WithSources restricts which providers the chain may query.
func WithSources(sources ...models.SourceID) Option {
	return func(e *Engine) {
		if len(sources) > 0 {
			e.selected = sources
		}
	}
}

// WithUseCase applies a named profile, overwriting both the quota and
// the source selection. Not additive with WithQuota/WithSources.
func WithUseCase(uc UseCase) Option {
	return func(e *Engine) {
		if profile, ok := ApplyProfile(uc); ok {
			e.quota = profile.Quota
			e.selected = profile.Sources
		}
	}
}

// WithScorer replaces the lexicon scorer.
func WithScorer(s lexicon.Scorer) Option {
	return func(e *Engine) { e.scorer = s }
}

// WithCacheTTL sets the result memoization TTL.
func WithCacheTTL(ttl time.Duration) Option {
	return func(e *Engine) {
		if ttl > 0 {
			e.cacheTTL = ttl
			e.cache = infra.NewCache(ttl)
		}
	}
}

// WithChain replaces the provider chain. Used by tests and by callers
// composing a custom source set; order is priority order.
func WithChain(chain ...datasource.Adapter) Option {
	return func(e *Engine) { e.chain = chain }
}

// New creates an engine with the default fallback chain: Finviz, then
// EODHD, Alpha Vantage, Tradestie, Finnhub, and Google News last.
func New(creds Credentials, opts ...Option) *Engine {
	e := &Engine{
		quota:    DefaultQuota,
		selected: []models.SourceID{models.AllSources},
		chain: []datasource.Adapter{
			datasource.NewFinviz(),
			datasource.NewEODHD(creds.EODHD),
			datasource.NewAlphaVantage(creds.AlphaVantage),
			datasource.NewTradestie(),
			datasource.NewFinnhub(creds.Finnhub),
			datasource.NewGoogleNews(),
		},
		scorer:   lexicon.New(),
		cache:    infra.NewCache(DefaultCacheTTL),
		cacheTTL: DefaultCacheTTL,
		log:      log.With().Str("component", "engine").Logger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Quota returns the configured article quota.
func (e *Engine) Quota() int { return e.quota }

// Selected returns the configured source selection.
func (e *Engine) Selected() []models.SourceID { return e.selected }

// GetSentiment aggregates sentiment for a symbol. companyName improves
// query quality for the text-search providers; when empty it is resolved
// from the built-in ticker map. The call never fails for "no data": with
// every provider disabled or unreachable it returns the padded neutral
// result. ErrEmptySymbol is the only error condition.
func (e *Engine) GetSentiment(ctx context.Context, symbol, companyName string) (models.AggregateResult, error) {
	symbol = utils.NormalizeSymbol(symbol)
	if symbol == "" {
		return models.AggregateResult{}, ErrEmptySymbol
	}
	if companyName == "" {
		companyName = utils.CompanyName(symbol)
	}

	key := infra.Fingerprint(symbol, sentimentCachePurpose, "")
	if cached, ok := e.cache.Get(key); ok {
		if result, ok := cached.(models.AggregateResult); ok {
			e.log.Info().Str("symbol", symbol).Msg("cache hit")
			return result, nil
		}
	}

	collected := e.collect(ctx, symbol, companyName)
	scored := e.score(collected)
	result := e.aggregate(symbol, scored)

	e.logDistribution(symbol, scored)

	e.cache.SetWithTTL(key, result, e.cacheTTL)
	return result, nil
}

// collect walks the fallback chain in priority order, appending each
// enabled provider's items until the quota is met. A provider's full
// response is kept even when it overshoots the quota; truncation never
// happens here. Providers past the quota point are not invoked at all.
func (e *Engine) collect(ctx context.Context, symbol, companyName string) []models.NewsItem {
	var collected []models.NewsItem
	for _, adapter := range e.chain {
		if !datasource.IsEnabled(adapter.Source(), e.selected) {
			continue
		}
		if len(collected) >= e.quota {
			continue
		}
		items := adapter.Fetch(ctx, e.queryFor(adapter.Source(), symbol, companyName), e.quota)
		collected = append(collected, items...)
	}
	return collected
}

// queryFor picks the query string per provider: ticker-keyed APIs get
// the symbol, text-search providers get the company name when known.
func (e *Engine) queryFor(source models.SourceID, symbol, companyName string) string {
	if source == models.SourceGoogleNews && companyName != "" {
		return companyName
	}
	return symbol
}

// score resolves each item's compound: a provider-supplied score is used
// verbatim, anything else goes through the lexicon scorer. The decision
// is per item; one batch may mix precomputed and locally scored items.
// Scorer failures degrade to a neutral compound for that item.
func (e *Engine) score(items []models.NewsItem) []models.ScoredItem {
	scored := make([]models.ScoredItem, 0, len(items))
	for _, item := range items {
		compound := 0.0
		if item.HasScore {
			compound = item.Precomputed
		} else if breakdown, err := e.scorer.Score(item.Body()); err == nil {
			compound = breakdown.Compound
		}
		scored = append(scored, models.ScoredItem{
			NewsItem: item,
			Compound: compound,
			Class:    models.ClassifyCompound(compound),
		})
	}
	return scored
}

// aggregate folds scored items into the result contract. With zero items
// the neutral count is padded to the quota and the label is "Neutral";
// an empty chain result is a well-formed answer, not an error.
func (e *Engine) aggregate(symbol string, scored []models.ScoredItem) models.AggregateResult {
	result := models.AggregateResult{Symbol: symbol}

	sum := 0.0
	for _, s := range scored {
		result.Titles = append(result.Titles, s.Title)
		sum += s.Compound
		switch s.Class {
		case models.PolarityPositive:
			result.PositiveCount++
		case models.PolarityNegative:
			result.NegativeCount++
		default:
			result.NeutralCount++
		}
	}

	if len(scored) == 0 {
		result.NeutralCount = e.quota
		result.MeanPolarity = 0
		result.Label = "Neutral"
		return result
	}

	result.MeanPolarity = sum / float64(len(scored))
	switch {
	case result.MeanPolarity > models.PolarityThreshold:
		result.Label = "Overall Positive"
	case result.MeanPolarity < -models.PolarityThreshold:
		result.Label = "Overall Negative"
	default:
		result.Label = "Neutral"
	}
	return result
}
