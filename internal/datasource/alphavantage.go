package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/seenimoa/marketmood/internal/infra"
	"github.com/seenimoa/marketmood/pkg/models"
)

const alphaVantageBaseURL = "https://www.alphavantage.co"

// alphaVantageTimeFormat is the NEWS_SENTIMENT time_published layout.
const alphaVantageTimeFormat = "20060102T150405"

// AlphaVantage fetches articles from the Alpha Vantage News & Sentiments
// API. Second credentialed fallback; articles carry an overall sentiment
// score which is used verbatim as the compound.
type AlphaVantage struct {
	BaseURL string

	apiKey  string
	limiter *infra.RateLimiter
	log     zerolog.Logger
}

// NewAlphaVantage creates the Alpha Vantage adapter. An empty apiKey
// yields an adapter that fails fast with no network calls.
func NewAlphaVantage(apiKey string) *AlphaVantage {
	return &AlphaVantage{
		BaseURL: alphaVantageBaseURL,
		apiKey:  apiKey,
		limiter: infra.NewRateLimiter(5, time.Second),
		log:     log.With().Str("source", string(models.SourceAlphaVantage)).Logger(),
	}
}

// Source returns the registry identifier.
func (a *AlphaVantage) Source() models.SourceID { return models.SourceAlphaVantage }

// Fetch retrieves scored articles for a ticker or topic query.
// Failures return an empty slice.
func (a *AlphaVantage) Fetch(ctx context.Context, query string, limit int) []models.NewsItem {
	items, err := a.fetch(ctx, query, limit)
	if err != nil {
		a.log.Warn().Err(err).Str("query", query).Msg("fetch failed")
		return nil
	}
	a.log.Debug().Int("items", len(items)).Str("query", query).Msg("fetched")
	return items
}

type alphaVantageFeed struct {
	Feed []struct {
		Title                 string          `json:"title"`
		URL                   string          `json:"url"`
		Summary               string          `json:"summary"`
		TimePublished         string          `json:"time_published"`
		OverallSentimentScore json.RawMessage `json:"overall_sentiment_score"`
	} `json:"feed"`
}

func (a *AlphaVantage) fetch(ctx context.Context, query string, limit int) ([]models.NewsItem, error) {
	if a.apiKey == "" {
		return nil, errMissingCredential
	}
	if limit <= 0 {
		return nil, nil
	}
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	reqURL := fmt.Sprintf("%s/query?function=NEWS_SENTIMENT&tickers=%s&apikey=%s",
		a.BaseURL, url.QueryEscape(query), url.QueryEscape(a.apiKey))
	body, _, err := infra.DoGet(ctx, reqURL, nil)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var resp alphaVantageFeed
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("decode alpha vantage feed: %w", err)
	}
	if len(resp.Feed) == 0 {
		return nil, errNoData
	}

	items := make([]models.NewsItem, 0, limit)
	for _, f := range resp.Feed {
		if len(items) >= limit {
			break
		}
		item := models.NewsItem{
			Title:  f.Title,
			Text:   f.Summary,
			URL:    f.URL,
			Source: models.SourceAlphaVantage,
		}
		// The API serializes the score as either a number or a string.
		if score, ok := parseFlexibleFloat(f.OverallSentimentScore); ok {
			item.Precomputed = score
			item.HasScore = true
		}
		if t, err := time.Parse(alphaVantageTimeFormat, f.TimePublished); err == nil {
			item.PublishedAt = &t
		}
		items = append(items, item)
	}
	return items, nil
}

func parseFlexibleFloat(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f, true
		}
	}
	return 0, false
}
