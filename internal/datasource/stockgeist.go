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

const stockGeistBaseURL = "https://api.stockgeist.ai"

// StockGeist fetches message-level sentiment metrics from the StockGeist
// REST API. Registered in the source registry (the fintech profile
// selects it) but not part of the fixed fallback chain; callers use it
// directly for near-real-time social sentiment.
type StockGeist struct {
	BaseURL string

	apiKey  string
	limiter *infra.RateLimiter
	log     zerolog.Logger
}

// NewStockGeist creates the StockGeist adapter. An empty apiKey yields
// an adapter that fails fast with no network calls.
func NewStockGeist(apiKey string) *StockGeist {
	return &StockGeist{
		BaseURL: stockGeistBaseURL,
		apiKey:  apiKey,
		limiter: infra.NewRateLimiter(5, time.Second),
		log:     log.With().Str("source", string(models.SourceStockGeist)).Logger(),
	}
}

// Source returns the registry identifier.
func (s *StockGeist) Source() models.SourceID { return models.SourceStockGeist }

// Fetch retrieves recent message metrics for a ticker.
// Failures return an empty slice.
func (s *StockGeist) Fetch(ctx context.Context, query string, limit int) []models.NewsItem {
	items, err := s.fetch(ctx, query, limit)
	if err != nil {
		s.log.Warn().Err(err).Str("query", query).Msg("fetch failed")
		return nil
	}
	s.log.Debug().Int("items", len(items)).Str("query", query).Msg("fetched")
	return items
}

type stockGeistMessage struct {
	Timestamp string  `json:"timestamp"`
	Symbol    string  `json:"symbol"`
	Text      string  `json:"text"`
	URL       string  `json:"url"`
	Sentiment float64 `json:"sentiment"`
}

type stockGeistResponse struct {
	Data []stockGeistMessage `json:"data"`
}

func (s *StockGeist) fetch(ctx context.Context, query string, limit int) ([]models.NewsItem, error) {
	if s.apiKey == "" {
		return nil, errMissingCredential
	}
	if limit <= 0 {
		return nil, nil
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	reqURL := fmt.Sprintf("%s/stock/us/stream/message-metrics?symbols=%s",
		s.BaseURL, url.QueryEscape(query))
	body, _, err := infra.DoGet(ctx, reqURL, map[string]string{
		"Authorization": "Bearer " + s.apiKey,
	})
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var resp stockGeistResponse
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("decode stockgeist response: %w", err)
	}

	var items []models.NewsItem
	for _, m := range resp.Data {
		if len(items) >= limit {
			break
		}
		if m.Text == "" {
			continue
		}
		item := models.NewsItem{
			Title:       "StockGeist: " + truncate(m.Text, 50),
			Text:        m.Text,
			URL:         m.URL,
			Source:      models.SourceStockGeist,
			Precomputed: m.Sentiment,
			HasScore:    true,
		}
		if t, err := time.Parse(time.RFC3339, m.Timestamp); err == nil {
			item.PublishedAt = &t
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		return nil, errNoData
	}
	return items, nil
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
