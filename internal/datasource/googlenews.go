package datasource

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/seenimoa/marketmood/internal/infra"
	"github.com/seenimoa/marketmood/pkg/models"
)

const googleNewsBaseURL = "https://news.google.com"

// GoogleNews fetches headlines from the Google News RSS search feed.
// Last-resort source in the fallback chain: always available, but items
// arrive as title+link only, so the full body text is resolved per item
// with the title as fallback.
type GoogleNews struct {
	BaseURL string

	// ResolveText controls per-item article body resolution.
	ResolveText bool

	parser  *gofeed.Parser
	limiter *infra.RateLimiter
	log     zerolog.Logger
}

// NewGoogleNews creates the Google News RSS adapter.
func NewGoogleNews() *GoogleNews {
	return &GoogleNews{
		BaseURL:     googleNewsBaseURL,
		ResolveText: true,
		parser:      gofeed.NewParser(),
		limiter:     infra.NewRateLimiter(2, time.Second),
		log:         log.With().Str("source", string(models.SourceGoogleNews)).Logger(),
	}
}

// Source returns the registry identifier.
func (g *GoogleNews) Source() models.SourceID { return models.SourceGoogleNews }

// Fetch retrieves news for a search query. Failures return an empty slice.
func (g *GoogleNews) Fetch(ctx context.Context, query string, limit int) []models.NewsItem {
	items, err := g.fetch(ctx, query, limit)
	if err != nil {
		g.log.Warn().Err(err).Str("query", query).Msg("fetch failed")
		return nil
	}
	g.log.Debug().Int("items", len(items)).Str("query", query).Msg("fetched")
	return items
}

func (g *GoogleNews) fetch(ctx context.Context, query string, limit int) ([]models.NewsItem, error) {
	if limit <= 0 {
		return nil, nil
	}
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	feedURL := fmt.Sprintf("%s/rss/search?q=%s+stock&hl=en-US&gl=US&ceid=US:en",
		g.BaseURL, url.QueryEscape(query))
	feed, err := g.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse google news feed: %w", err)
	}

	items := make([]models.NewsItem, 0, limit)
	for _, entry := range feed.Items {
		if len(items) >= limit {
			break
		}
		item := models.NewsItem{
			Title:  entry.Title,
			URL:    entry.Link,
			Source: models.SourceGoogleNews,
		}
		if entry.PublishedParsed != nil {
			item.PublishedAt = entry.PublishedParsed
		}
		if g.ResolveText {
			item.Text = fetchArticleText(ctx, entry.Link)
		}
		if item.Text == "" {
			// Description is often a truncated HTML snippet of the headline.
			if desc := cleanHTML(entry.Description); desc != "" {
				item.Text = desc
			} else {
				item.Text = entry.Title
			}
		}
		items = append(items, item)
	}

	if len(items) == 0 {
		return nil, errNoData
	}
	return items, nil
}
