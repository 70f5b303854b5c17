package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/seenimoa/marketmood/internal/infra"
	"github.com/seenimoa/marketmood/pkg/models"
)

const tradestieBaseURL = "https://tradestie.com"

// Tradestie fetches WallStreetBets discussion sentiment from the free
// Tradestie API. Social-aggregator source, no credential required; the
// feed covers the most-discussed tickers and is filtered by query.
type Tradestie struct {
	BaseURL string

	limiter *infra.RateLimiter
	log     zerolog.Logger
}

// NewTradestie creates the Tradestie Reddit adapter.
func NewTradestie() *Tradestie {
	return &Tradestie{
		BaseURL: tradestieBaseURL,
		limiter: infra.NewRateLimiter(5, time.Second),
		log:     log.With().Str("source", string(models.SourceTradestie)).Logger(),
	}
}

// Source returns the registry identifier.
func (t *Tradestie) Source() models.SourceID { return models.SourceTradestie }

// Fetch retrieves Reddit mentions matching the query.
// Failures return an empty slice.
func (t *Tradestie) Fetch(ctx context.Context, query string, limit int) []models.NewsItem {
	items, err := t.fetch(ctx, query, limit)
	if err != nil {
		t.log.Warn().Err(err).Str("query", query).Msg("fetch failed")
		return nil
	}
	t.log.Debug().Int("items", len(items)).Str("query", query).Msg("fetched")
	return items
}

type tradestieMention struct {
	Ticker         string  `json:"ticker"`
	Sentiment      string  `json:"sentiment"`
	SentimentScore float64 `json:"sentiment_score"`
	NoOfComments   int     `json:"no_of_comments"`
}

func (t *Tradestie) fetch(ctx context.Context, query string, limit int) ([]models.NewsItem, error) {
	if limit <= 0 {
		return nil, nil
	}
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	body, _, err := infra.DoGet(ctx, t.BaseURL+"/api/v1/apps/reddit", nil)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var mentions []tradestieMention
	if err := json.NewDecoder(body).Decode(&mentions); err != nil {
		return nil, fmt.Errorf("decode tradestie response: %w", err)
	}

	q := strings.ToLower(strings.TrimSpace(query))
	var items []models.NewsItem
	for _, m := range mentions {
		if len(items) >= limit {
			break
		}
		if q != "" && !strings.EqualFold(m.Ticker, q) && !strings.Contains(strings.ToLower(m.Ticker), q) {
			continue
		}
		text := fmt.Sprintf("%s discussed in %d WallStreetBets comments, sentiment %s",
			m.Ticker, m.NoOfComments, m.Sentiment)
		items = append(items, models.NewsItem{
			Title:       fmt.Sprintf("Reddit: %s (%s)", m.Ticker, m.Sentiment),
			Text:        text,
			URL:         "https://www.reddit.com/r/wallstreetbets/",
			Source:      models.SourceTradestie,
			Precomputed: m.SentimentScore,
			HasScore:    true,
		})
	}
	if len(items) == 0 {
		return nil, errNoData
	}
	return items, nil
}
