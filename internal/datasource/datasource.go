// Package datasource provides news and social-sentiment fetching from
// multiple content providers. It defines a common Adapter interface, a
// source registry with an "all sources" sentinel, and one concrete
// adapter per provider: Finviz (scrape), EODHD and Alpha Vantage
// (credentialed pre-scored APIs), Tradestie (Reddit aggregator), Finnhub
// (credentialed social API), Google News (last-resort RSS feed), and
// StockGeist (credentialed stream API, outside the fallback chain).
//
// Adapters never fail past their boundary: any network, parse, or
// missing-credential condition is logged and surfaced as an empty slice.
package datasource

import (
	"context"
	"errors"

	"github.com/seenimoa/marketmood/pkg/models"
)

// Adapter is the provider boundary. Fetch returns up to limit items in
// provider-native relevance order; limit is advisory. Fetch never panics
// and never returns an error: failures yield an empty result.
type Adapter interface {
	// Source returns the registry identifier of this provider.
	Source() models.SourceID

	// Fetch retrieves items matching the query. Failures of any kind
	// (network, parse, missing credential) return an empty slice.
	Fetch(ctx context.Context, query string, limit int) []models.NewsItem
}

// --- Internal sentinel errors (absorbed at the adapter boundary) ---

// errMissingCredential marks a credentialed adapter constructed without
// an API key. Such adapters fail fast without a network call.
var errMissingCredential = errors.New("missing API credential")

// errNoData marks a well-formed response that contained no usable items.
var errNoData = errors.New("no data in response")

// --- Source registry ---

// KnownSources lists all registered provider identifiers, in the fixed
// fallback priority order used by the aggregation engine. StockGeist is
// registered last and is not part of the fallback chain.
var KnownSources = []models.SourceID{
	models.SourceFinviz,
	models.SourceEODHD,
	models.SourceAlphaVantage,
	models.SourceTradestie,
	models.SourceFinnhub,
	models.SourceGoogleNews,
	models.SourceStockGeist,
}

// IsEnabled reports whether source is part of the caller's selection.
// A selection containing the AllSources sentinel enables everything.
// An empty selection defaults to all sources.
func IsEnabled(source models.SourceID, selected []models.SourceID) bool {
	if len(selected) == 0 {
		return true
	}
	for _, s := range selected {
		if s == models.AllSources || s == source {
			return true
		}
	}
	return false
}

// ParseSourceID resolves a string to a known source identifier.
func ParseSourceID(s string) (models.SourceID, error) {
	id := models.SourceID(s)
	if id == models.AllSources {
		return id, nil
	}
	for _, known := range KnownSources {
		if id == known {
			return id, nil
		}
	}
	return "", errors.New("unknown source: " + s)
}
