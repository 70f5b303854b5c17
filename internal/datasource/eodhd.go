package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/seenimoa/marketmood/internal/infra"
	"github.com/seenimoa/marketmood/pkg/models"
)

const eodhdBaseURL = "https://eodhd.com"

// EODHD fetches financial news with pre-calculated sentiment from the
// EODHD API. First credentialed fallback in the chain: much faster than
// scraping plus local analysis.
type EODHD struct {
	BaseURL string

	apiKey  string
	limiter *infra.RateLimiter
	log     zerolog.Logger
}

// NewEODHD creates the EODHD adapter. An empty apiKey yields an adapter
// that fails fast with no network calls.
func NewEODHD(apiKey string) *EODHD {
	return &EODHD{
		BaseURL: eodhdBaseURL,
		apiKey:  apiKey,
		limiter: infra.NewRateLimiter(5, time.Second),
		log:     log.With().Str("source", string(models.SourceEODHD)).Logger(),
	}
}

// Source returns the registry identifier.
func (e *EODHD) Source() models.SourceID { return models.SourceEODHD }

// Fetch retrieves pre-scored news for a ticker. Failures return an empty slice.
func (e *EODHD) Fetch(ctx context.Context, query string, limit int) []models.NewsItem {
	items, err := e.fetch(ctx, query, limit)
	if err != nil {
		e.log.Warn().Err(err).Str("query", query).Msg("fetch failed")
		return nil
	}
	e.log.Debug().Int("items", len(items)).Str("query", query).Msg("fetched")
	return items
}

type eodhdNewsItem struct {
	Date      string `json:"date"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Link      string `json:"link"`
	Sentiment struct {
		Polarity float64 `json:"polarity"`
		Neg      float64 `json:"neg"`
		Neu      float64 `json:"neu"`
		Pos      float64 `json:"pos"`
	} `json:"sentiment"`
}

func (e *EODHD) fetch(ctx context.Context, query string, limit int) ([]models.NewsItem, error) {
	if e.apiKey == "" {
		// Fail fast, no network side effect.
		return nil, errMissingCredential
	}
	if limit <= 0 {
		return nil, nil
	}
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	newsURL := fmt.Sprintf("%s/api/news?s=%s&limit=%d&api_token=%s&fmt=json",
		e.BaseURL, url.QueryEscape(query), limit, url.QueryEscape(e.apiKey))
	body, _, err := infra.DoGet(ctx, newsURL, nil)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var raw []eodhdNewsItem
	if err := json.NewDecoder(body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode eodhd news: %w", err)
	}

	items := make([]models.NewsItem, 0, len(raw))
	for _, r := range raw {
		if len(items) >= limit {
			break
		}
		item := models.NewsItem{
			Title:       r.Title,
			Text:        r.Content,
			URL:         r.Link,
			Source:      models.SourceEODHD,
			Precomputed: r.Sentiment.Polarity,
			HasScore:    true,
		}
		if t, err := time.Parse(time.RFC3339, r.Date); err == nil {
			item.PublishedAt = &t
		}
		items = append(items, item)
	}
	return items, nil
}
