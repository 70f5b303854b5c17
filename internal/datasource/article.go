package datasource

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/seenimoa/marketmood/internal/infra"
)

// maxArticleRunes caps resolved article bodies; the lexicon scorer gains
// nothing past the first few thousand characters.
const maxArticleRunes = 4000

// fetchArticleText downloads a news page and extracts its readable body
// text from paragraph elements. Returns "" on any failure so callers can
// fall back to the headline.
func fetchArticleText(ctx context.Context, articleURL string) string {
	if articleURL == "" {
		return ""
	}

	body, _, err := infra.DoGet(ctx, articleURL, nil)
	if err != nil {
		return ""
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return ""
	}

	doc.Find("script, style, nav, footer, header, aside").Remove()

	var parts []string
	doc.Find("article p, p").Each(func(_ int, p *goquery.Selection) {
		text := strings.TrimSpace(p.Text())
		if len(text) > 40 { // skip boilerplate fragments
			parts = append(parts, text)
		}
	})

	text := strings.Join(parts, " ")
	runes := []rune(text)
	if len(runes) > maxArticleRunes {
		text = string(runes[:maxArticleRunes])
	}
	return strings.TrimSpace(text)
}

// cleanHTML strips HTML tags from a string using goquery.
func cleanHTML(s string) string {
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<body>" + s + "</body>"))
	if err != nil {
		return s
	}
	return strings.TrimSpace(doc.Text())
}
