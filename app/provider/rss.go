package provider

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"
)

// RSSSource ingests an RSS/Atom feed alongside the provider, mapping feed
// items into the same RemoteArticle shape.
type RSSSource struct {
	name       string
	url        string
	category   string
	httpClient *http.Client
	parser     *gofeed.Parser
	userAgent  string
}

func NewRSSSource(name, url, category, userAgent string) *RSSSource {
	return &RSSSource{
		name:       name,
		url:        url,
		category:   category,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		parser:     gofeed.NewParser(),
		userAgent:  userAgent,
	}
}

func (s *RSSSource) Name() string {
	return s.name
}

func (s *RSSSource) Fetch(ctx context.Context) []RemoteArticle {
	data, err := s.fetchFeed(ctx)
	if err != nil {
		slog.Warn("Failed to fetch RSS source", "source", s.name, "url", s.url, "error", err)
		return nil
	}

	feed, err := s.parser.Parse(bytes.NewReader(data))
	if err != nil {
		slog.Warn("Failed to parse RSS source", "source", s.name, "error", err)
		return nil
	}

	articles := make([]RemoteArticle, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil || item.Title == "" {
			continue
		}

		remote := RemoteArticle{
			Title:       item.Title,
			URL:         item.Link,
			Source:      s.name,
			Category:    s.category,
			Summary:     item.Description,
			Content:     item.Content,
			PublishedAt: item.PublishedParsed,
		}
		if remote.Content == "" {
			remote.Content = item.Description
		}
		if item.Image != nil {
			remote.ImageURL = item.Image.URL
		}

		articles = append(articles, remote)
	}

	return articles
}

func (s *RSSSource) fetchFeed(ctx context.Context) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}
