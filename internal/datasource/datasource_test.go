package datasource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/seenimoa/marketmood/pkg/models"
)

func TestIsEnabled(t *testing.T) {
	tests := []struct {
		name     string
		source   models.SourceID
		selected []models.SourceID
		want     bool
	}{
		{"empty selection enables all", models.SourceFinviz, nil, true},
		{"all sentinel enables all", models.SourceGoogleNews, []models.SourceID{models.AllSources}, true},
		{"listed source", models.SourceTradestie, []models.SourceID{models.SourceTradestie, models.SourceFinviz}, true},
		{"unlisted source", models.SourceEODHD, []models.SourceID{models.SourceFinviz}, false},
		{"stockgeist in fintech selection", models.SourceStockGeist, []models.SourceID{models.SourceStockGeist, models.SourceFinviz}, true},
	}
	for _, tt := range tests {
		if got := IsEnabled(tt.source, tt.selected); got != tt.want {
			t.Errorf("%s: IsEnabled(%v, %v) = %v, want %v", tt.name, tt.source, tt.selected, got, tt.want)
		}
	}
}

func TestParseSourceID(t *testing.T) {
	for _, known := range KnownSources {
		if _, err := ParseSourceID(string(known)); err != nil {
			t.Errorf("ParseSourceID(%q) returned %v", known, err)
		}
	}
	if id, err := ParseSourceID("all"); err != nil || id != models.AllSources {
		t.Errorf("ParseSourceID(all) = %v, %v", id, err)
	}
	if _, err := ParseSourceID("bloomberg"); err == nil {
		t.Error("ParseSourceID accepted an unknown source")
	}
}

func TestChainOrder(t *testing.T) {
	want := []models.SourceID{
		models.SourceFinviz,
		models.SourceEODHD,
		models.SourceAlphaVantage,
		models.SourceTradestie,
		models.SourceFinnhub,
		models.SourceGoogleNews,
		models.SourceStockGeist,
	}
	if len(KnownSources) != len(want) {
		t.Fatalf("KnownSources has %d entries, want %d", len(KnownSources), len(want))
	}
	for i, id := range want {
		if KnownSources[i] != id {
			t.Errorf("KnownSources[%d] = %v, want %v", i, KnownSources[i], id)
		}
	}
}

const finvizTestPage = `<html><body>
<table id="news-table">
<tr><td>Jan-15-25 09:30AM</td><td><a href="https://example.com/a1">Shares surge on earnings beat</a></td></tr>
<tr><td>08:15AM</td><td><a href="/news/a2">Analysts raise guidance</a></td></tr>
<tr><td>07:00AM</td><td><a href="//cdn.example.com/a3">Stock drops on weak outlook</a></td></tr>
</table>
</body></html>`

func TestFinvizFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/quote.ashx" {
			http.NotFound(w, r)
			return
		}
		if got := r.URL.Query().Get("t"); got != "AAPL" {
			t.Errorf("ticker param = %q, want AAPL", got)
		}
		_, _ = w.Write([]byte(finvizTestPage))
	}))
	defer srv.Close()

	f := NewFinviz()
	f.BaseURL = srv.URL
	f.ResolveText = false

	items := f.Fetch(context.Background(), "AAPL", 10)
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3", len(items))
	}

	first := items[0]
	if first.Title != "Shares surge on earnings beat" {
		t.Errorf("first title = %q", first.Title)
	}
	if first.URL != "https://example.com/a1" {
		t.Errorf("first URL = %q", first.URL)
	}
	if first.PublishedAt == nil {
		t.Error("dated row lost its timestamp")
	}
	if first.Text != first.Title {
		t.Errorf("headline-only mode text = %q, want title fallback", first.Text)
	}
	if first.HasScore {
		t.Error("scraped item should not carry a precomputed score")
	}

	if items[1].URL != srv.URL+"/news/a2" {
		t.Errorf("relative link resolved to %q", items[1].URL)
	}
	if items[2].URL != "https://cdn.example.com/a3" {
		t.Errorf("scheme-relative link resolved to %q", items[2].URL)
	}
}

func TestFinvizFetchLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(finvizTestPage))
	}))
	defer srv.Close()

	f := NewFinviz()
	f.BaseURL = srv.URL
	f.ResolveText = false

	items := f.Fetch(context.Background(), "AAPL", 2)
	if len(items) != 2 {
		t.Errorf("got %d items, want limit of 2", len(items))
	}
}

func TestFinvizFetchNoTable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><body>no news here</body></html>"))
	}))
	defer srv.Close()

	f := NewFinviz()
	f.BaseURL = srv.URL
	f.ResolveText = false

	if items := f.Fetch(context.Background(), "AAPL", 5); items != nil {
		t.Errorf("got %v, want nil for a page without the news table", items)
	}
}

func TestEODHDMissingCredential(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	e := NewEODHD("")
	e.BaseURL = srv.URL

	if items := e.Fetch(context.Background(), "AAPL", 5); items != nil {
		t.Errorf("got %v, want nil without a credential", items)
	}
	if n := calls.Load(); n != 0 {
		t.Errorf("adapter made %d network calls without a credential, want 0", n)
	}
}

func TestEODHDFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("s") != "AAPL" || q.Get("api_token") != "secret" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`[
			{"date":"2025-01-15T09:30:00+00:00","title":"Apple beats estimates","content":"Strong iPhone quarter.","link":"https://example.com/n1","sentiment":{"polarity":0.62,"neg":0.1,"neu":0.4,"pos":0.5}},
			{"date":"2025-01-14T12:00:00+00:00","title":"Supply chain worries","content":"Component costs rising.","link":"https://example.com/n2","sentiment":{"polarity":-0.31,"neg":0.5,"neu":0.4,"pos":0.1}}
		]`))
	}))
	defer srv.Close()

	e := NewEODHD("secret")
	e.BaseURL = srv.URL

	items := e.Fetch(context.Background(), "AAPL", 5)
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if !items[0].HasScore || items[0].Precomputed != 0.62 {
		t.Errorf("first item score = (%v, %v), want (0.62, true)", items[0].Precomputed, items[0].HasScore)
	}
	if items[1].Precomputed != -0.31 {
		t.Errorf("second item score = %v, want -0.31", items[1].Precomputed)
	}
	if items[0].PublishedAt == nil {
		t.Error("RFC3339 date not parsed")
	}
	if items[0].Body() != "Strong iPhone quarter." {
		t.Errorf("Body() = %q", items[0].Body())
	}
}

func TestAlphaVantageFlexibleScore(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"feed":[
			{"title":"Numeric score","url":"https://example.com/1","summary":"s1","time_published":"20250115T093000","overall_sentiment_score":0.25},
			{"title":"String score","url":"https://example.com/2","summary":"s2","time_published":"20250115T100000","overall_sentiment_score":"-0.4"},
			{"title":"No score","url":"https://example.com/3","summary":"s3","time_published":"20250115T110000"}
		]}`))
	}))
	defer srv.Close()

	a := NewAlphaVantage("secret")
	a.BaseURL = srv.URL

	items := a.Fetch(context.Background(), "AAPL", 5)
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3", len(items))
	}
	if !items[0].HasScore || items[0].Precomputed != 0.25 {
		t.Errorf("numeric score = (%v, %v), want (0.25, true)", items[0].Precomputed, items[0].HasScore)
	}
	if !items[1].HasScore || items[1].Precomputed != -0.4 {
		t.Errorf("string score = (%v, %v), want (-0.4, true)", items[1].Precomputed, items[1].HasScore)
	}
	if items[2].HasScore {
		t.Error("scoreless article marked HasScore")
	}
	if items[0].PublishedAt == nil {
		t.Error("time_published not parsed")
	}
}

func TestAlphaVantageMissingCredential(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	a := NewAlphaVantage("")
	a.BaseURL = srv.URL

	if items := a.Fetch(context.Background(), "AAPL", 5); items != nil {
		t.Errorf("got %v, want nil without a credential", items)
	}
	if n := calls.Load(); n != 0 {
		t.Errorf("adapter made %d network calls without a credential, want 0", n)
	}
}

func TestTradestieFilter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
			{"ticker":"GME","sentiment":"Bullish","sentiment_score":0.42,"no_of_comments":150},
			{"ticker":"AAPL","sentiment":"Bearish","sentiment_score":-0.12,"no_of_comments":30},
			{"ticker":"TSLA","sentiment":"Bullish","sentiment_score":0.2,"no_of_comments":80}
		]`))
	}))
	defer srv.Close()

	tr := NewTradestie()
	tr.BaseURL = srv.URL

	items := tr.Fetch(context.Background(), "GME", 5)
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1 after ticker filter", len(items))
	}
	item := items[0]
	if item.Title != "Reddit: GME (Bullish)" {
		t.Errorf("title = %q", item.Title)
	}
	if !item.HasScore || item.Precomputed != 0.42 {
		t.Errorf("score = (%v, %v), want (0.42, true)", item.Precomputed, item.HasScore)
	}

	// A ticker absent from the feed yields nothing.
	if items := tr.Fetch(context.Background(), "XOM", 5); items != nil {
		t.Errorf("got %v for unlisted ticker, want nil", items)
	}
}

func TestFinnhubFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("token"); got != "secret" {
			t.Errorf("token param = %q", got)
		}
		_, _ = w.Write([]byte(`{"symbol":"AAPL","reddit":[
			{"atTime":"2025-01-15 09:00:00","mention":40,"score":0.3,"positiveMention":25,"negativeMention":5}
		],"twitter":[
			{"atTime":"2025-01-15 09:00:00","mention":100,"score":-0.1,"positiveMention":30,"negativeMention":45}
		]}`))
	}))
	defer srv.Close()

	f := NewFinnhub("secret")
	f.BaseURL = srv.URL

	items := f.Fetch(context.Background(), "AAPL", 5)
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[0].Precomputed != 0.3 || items[1].Precomputed != -0.1 {
		t.Errorf("scores = %v, %v", items[0].Precomputed, items[1].Precomputed)
	}
	for _, item := range items {
		if !item.HasScore {
			t.Errorf("%q missing HasScore", item.Title)
		}
		if item.PublishedAt == nil {
			t.Errorf("%q missing timestamp", item.Title)
		}
	}
}

func TestStockGeistFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("Authorization = %q", got)
		}
		_, _ = w.Write([]byte(`{"data":[
			{"timestamp":"2025-01-15T09:30:00Z","symbol":"AAPL","text":"Loving this breakout, adding more","url":"https://example.com/m1","sentiment":0.55},
			{"timestamp":"2025-01-15T09:31:00Z","symbol":"AAPL","text":"","url":"","sentiment":0.1}
		]}`))
	}))
	defer srv.Close()

	s := NewStockGeist("secret")
	s.BaseURL = srv.URL

	items := s.Fetch(context.Background(), "AAPL", 5)
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1 (empty-text message skipped)", len(items))
	}
	if !items[0].HasScore || items[0].Precomputed != 0.55 {
		t.Errorf("score = (%v, %v), want (0.55, true)", items[0].Precomputed, items[0].HasScore)
	}
}

func TestGoogleNewsFetch(t *testing.T) {
	const feed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>search</title>
<item><title>Apple rallies on services growth</title><link>https://example.com/g1</link><pubDate>Wed, 15 Jan 2025 09:30:00 GMT</pubDate><description>&lt;a href="x"&gt;Apple rallies on services growth&lt;/a&gt;</description></item>
<item><title>Apple faces new lawsuit</title><link>https://example.com/g2</link><pubDate>Wed, 15 Jan 2025 08:00:00 GMT</pubDate><description>Apple faces new lawsuit</description></item>
</channel></rss>`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rss/search" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(feed))
	}))
	defer srv.Close()

	g := NewGoogleNews()
	g.BaseURL = srv.URL
	g.ResolveText = false

	items := g.Fetch(context.Background(), "Apple", 5)
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[0].Title != "Apple rallies on services growth" {
		t.Errorf("first title = %q", items[0].Title)
	}
	if items[0].Text != "Apple rallies on services growth" {
		t.Errorf("description not cleaned, text = %q", items[0].Text)
	}
	if items[0].PublishedAt == nil {
		t.Error("pubDate not parsed")
	}
	if items[0].HasScore {
		t.Error("feed item should not carry a precomputed score")
	}
}

func TestAdapterFailureReturnsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	f := NewFinviz()
	f.BaseURL = srv.URL
	f.ResolveText = false
	if items := f.Fetch(context.Background(), "AAPL", 5); items != nil {
		t.Errorf("finviz on HTTP 429 returned %v, want nil", items)
	}

	e := NewEODHD("secret")
	e.BaseURL = srv.URL
	if items := e.Fetch(context.Background(), "AAPL", 5); items != nil {
		t.Errorf("eodhd on HTTP 429 returned %v, want nil", items)
	}
}
