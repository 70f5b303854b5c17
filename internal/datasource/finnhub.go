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

const finnhubBaseURL = "https://finnhub.io"

// Finnhub fetches social media sentiment from the Finnhub Social
// Sentiment API. Third credentialed fallback; covers Reddit and Twitter
// mention buckets with pre-aggregated scores.
type Finnhub struct {
	BaseURL string

	apiKey  string
	limiter *infra.RateLimiter
	log     zerolog.Logger
}

// NewFinnhub creates the Finnhub adapter. An empty apiKey yields an
// adapter that fails fast with no network calls.
func NewFinnhub(apiKey string) *Finnhub {
	return &Finnhub{
		BaseURL: finnhubBaseURL,
		apiKey:  apiKey,
		limiter: infra.NewRateLimiter(5, time.Second),
		log:     log.With().Str("source", string(models.SourceFinnhub)).Logger(),
	}
}

// Source returns the registry identifier.
func (f *Finnhub) Source() models.SourceID { return models.SourceFinnhub }

// Fetch retrieves social sentiment buckets for a ticker.
// Failures return an empty slice.
func (f *Finnhub) Fetch(ctx context.Context, query string, limit int) []models.NewsItem {
	items, err := f.fetch(ctx, query, limit)
	if err != nil {
		f.log.Warn().Err(err).Str("query", query).Msg("fetch failed")
		return nil
	}
	f.log.Debug().Int("items", len(items)).Str("query", query).Msg("fetched")
	return items
}

type finnhubBucket struct {
	AtTime   string  `json:"atTime"`
	Mention  int     `json:"mention"`
	Score    float64 `json:"score"`
	Positive int     `json:"positiveMention"`
	Negative int     `json:"negativeMention"`
}

type finnhubSocialResponse struct {
	Reddit  []finnhubBucket `json:"reddit"`
	Twitter []finnhubBucket `json:"twitter"`
	Symbol  string          `json:"symbol"`
}

func (f *Finnhub) fetch(ctx context.Context, query string, limit int) ([]models.NewsItem, error) {
	if f.apiKey == "" {
		return nil, errMissingCredential
	}
	if limit <= 0 {
		return nil, nil
	}
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	reqURL := fmt.Sprintf("%s/api/v1/stock/social-sentiment?symbol=%s&token=%s",
		f.BaseURL, url.QueryEscape(query), url.QueryEscape(f.apiKey))
	body, _, err := infra.DoGet(ctx, reqURL, nil)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var resp finnhubSocialResponse
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("decode finnhub response: %w", err)
	}

	var items []models.NewsItem
	appendBuckets := func(platform string, buckets []finnhubBucket) {
		for _, b := range buckets {
			if len(items) >= limit {
				return
			}
			item := models.NewsItem{
				Title: fmt.Sprintf("%s: %d mentions of %s (%d positive, %d negative)",
					platform, b.Mention, query, b.Positive, b.Negative),
				Text: fmt.Sprintf("%s social sentiment for %s: %d mentions, score %.3f",
					platform, query, b.Mention, b.Score),
				URL:         fmt.Sprintf("%s/api/v1/stock/social-sentiment?symbol=%s", f.BaseURL, query),
				Source:      models.SourceFinnhub,
				Precomputed: b.Score,
				HasScore:    true,
			}
			if t, err := time.Parse("2006-01-02 15:04:05", b.AtTime); err == nil {
				item.PublishedAt = &t
			}
			items = append(items, item)
		}
	}
	appendBuckets("Reddit", resp.Reddit)
	appendBuckets("Twitter", resp.Twitter)

	if len(items) == 0 {
		return nil, errNoData
	}
	return items, nil
}
