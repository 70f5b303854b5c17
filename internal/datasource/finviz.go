package datasource

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/seenimoa/marketmood/internal/infra"
	"github.com/seenimoa/marketmood/pkg/models"
)

const finvizBaseURL = "https://finviz.com"

// Finviz scrapes news headlines from the Finviz quote page. It is the
// primary source: fast, no credential, and reliable for most US tickers.
type Finviz struct {
	BaseURL string

	// ResolveText controls whether the full article body is fetched per
	// headline. Headline-only mode is cheaper and is what batch uses.
	ResolveText bool

	limiter *infra.RateLimiter
	log     zerolog.Logger
}

// NewFinviz creates the Finviz scrape adapter.
func NewFinviz() *Finviz {
	return &Finviz{
		BaseURL:     finvizBaseURL,
		ResolveText: true,
		limiter:     infra.NewRateLimiter(2, time.Second),
		log:         log.With().Str("source", string(models.SourceFinviz)).Logger(),
	}
}

// Source returns the registry identifier.
func (f *Finviz) Source() models.SourceID { return models.SourceFinviz }

// Fetch scrapes the news table for a ticker. Failures return an empty slice.
func (f *Finviz) Fetch(ctx context.Context, query string, limit int) []models.NewsItem {
	items, err := f.fetch(ctx, query, limit)
	if err != nil {
		f.log.Warn().Err(err).Str("query", query).Msg("fetch failed")
		return nil
	}
	f.log.Debug().Int("items", len(items)).Str("query", query).Msg("fetched")
	return items
}

func (f *Finviz) fetch(ctx context.Context, query string, limit int) ([]models.NewsItem, error) {
	if limit <= 0 {
		return nil, nil
	}
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	pageURL := fmt.Sprintf("%s/quote.ashx?t=%s", f.BaseURL, url.QueryEscape(query))
	body, _, err := infra.DoGet(ctx, pageURL, nil)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("parse finviz page: %w", err)
	}

	table := doc.Find("#news-table")
	if table.Length() == 0 {
		return nil, errNoData
	}

	var items []models.NewsItem
	table.Find("tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		if len(items) >= limit {
			return false
		}
		a := row.Find("a").First()
		title := strings.TrimSpace(a.Text())
		link, _ := a.Attr("href")
		if title == "" || link == "" {
			return true
		}

		item := models.NewsItem{
			Title:  title,
			URL:    absoluteURL(f.BaseURL, link),
			Source: models.SourceFinviz,
		}
		if ts := parseFinvizDate(row.Find("td").First().Text()); ts != nil {
			item.PublishedAt = ts
		}
		if f.ResolveText {
			item.Text = fetchArticleText(ctx, item.URL)
		}
		if item.Text == "" {
			item.Text = title
		}
		items = append(items, item)
		return true
	})

	if len(items) == 0 {
		return nil, errNoData
	}
	return items, nil
}

// parseFinvizDate parses the news-table timestamp cell. Finviz shows
// either "Jan-02-06 03:04PM" on the first row of a day or "03:04PM" on
// subsequent rows; time-only cells cannot be anchored to a date here and
// are skipped.
func parseFinvizDate(cell string) *time.Time {
	s := strings.TrimSpace(cell)
	if s == "" {
		return nil
	}
	if t, err := time.Parse("Jan-02-06 03:04PM", s); err == nil {
		return &t
	}
	return nil
}

// absoluteURL resolves scheme-relative and path-relative links.
func absoluteURL(base, link string) string {
	switch {
	case strings.HasPrefix(link, "http"):
		return link
	case strings.HasPrefix(link, "//"):
		return "https:" + link
	case strings.HasPrefix(link, "/"):
		return base + link
	default:
		return link
	}
}
