// Package feed reads RSS/Atom feeds into texts to classify.
package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"golang.org/x/net/html"
)

// Article is one feed entry
type Article struct {
	Title       string    `json:"title"`
	URL         string    `json:"url,omitempty"`
	Summary     string    `json:"summary,omitempty"`
	PublishedAt time.Time `json:"published_at,omitempty"`
}

// Text is what gets classified: the title, followed by the plain-text summary
func (a *Article) Text() string {
	if a.Summary == "" {
		return a.Title
	}
	if a.Title == "" {
		return a.Summary
	}
	return a.Title + ". " + a.Summary
}

// Source fetches and parses feeds
type Source struct {
	parser *gofeed.Parser
}

// NewSource creates a Source with the given request timeout and user agent
func NewSource(timeout time.Duration, userAgent string) *Source {
	parser := gofeed.NewParser()
	parser.UserAgent = userAgent
	parser.Client = &http.Client{Timeout: timeout}
	return &Source{parser: parser}
}

// Fetch retrieves feedURL and returns up to maxCount articles (all when maxCount <= 0)
func (s *Source) Fetch(ctx context.Context, feedURL string, maxCount int) ([]*Article, error) {
	f, err := s.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	return articles(f, maxCount), nil
}

// Parse reads a feed document from r
func (s *Source) Parse(r io.Reader, maxCount int) ([]*Article, error) {
	f, err := s.parser.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}
	return articles(f, maxCount), nil
}

func articles(f *gofeed.Feed, maxCount int) []*Article {
	count := len(f.Items)
	if maxCount > 0 {
		count = min(count, maxCount)
	}

	out := make([]*Article, 0, count)
	for _, item := range f.Items[:count] {
		summary := item.Description
		if summary == "" {
			summary = item.Content
		}

		a := &Article{
			Title:   strings.TrimSpace(item.Title),
			URL:     item.Link,
			Summary: PlainText(summary),
		}
		if item.PublishedParsed != nil {
			a.PublishedAt = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			a.PublishedAt = *item.UpdatedParsed
		}
		out = append(out, a)
	}
	return out
}

// PlainText strips markup from an HTML fragment and collapses whitespace
func PlainText(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return strings.Join(strings.Fields(fragment), " ")
	}

	var sb strings.Builder
	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(sb.String()), " ")
		case html.TextToken:
			sb.Write(z.Text())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			sb.WriteByte(' ')
		}
	}
}

// ResolveURL maps a preset name to its URL. Anything that looks like a URL passes through.
func ResolveURL(arg string, presets map[string]string) (string, error) {
	if u, ok := presets[strings.ToLower(arg)]; ok {
		return u, nil
	}
	if strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://") {
		return arg, nil
	}

	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return "", fmt.Errorf("unknown feed %q (use a URL or one of: %s)", arg, strings.Join(names, ", "))
}
