package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultPageSize  = 20
	maxFetchAttempts = 3
)

// Client fetches one page of articles from the external news provider and
// drives the bounded retry state machine around it.
type Client struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	pageSize   int
	userAgent  string
	sleep      func(ctx context.Context, d time.Duration) error
}

func NewClient(endpoint, apiKey string, pageSize int, userAgent string) *Client {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		endpoint:   endpoint,
		apiKey:     apiKey,
		pageSize:   pageSize,
		userAgent:  userAgent,
		sleep:      sleepContext,
	}
}

func (c *Client) Name() string {
	return "newsapi"
}

// Fetch implements Source.
func (c *Client) Fetch(ctx context.Context) []RemoteArticle {
	return c.FetchPage(ctx)
}

// FetchPage fetches a single provider page, retrying rate limits, server
// errors and transport failures up to the attempt cap. It never returns an
// error: any terminal failure yields an empty result.
func (c *Client) FetchPage(ctx context.Context) []RemoteArticle {
	if strings.TrimSpace(c.apiKey) == "" {
		slog.Warn("News provider API key not configured, skipping fetch")
		return nil
	}

	requestURL := fmt.Sprintf("%s?pageSize=%d", c.endpoint, c.pageSize)

	for attempt := 1; attempt <= maxFetchAttempts; attempt++ {
		articles, retry, hintSeconds := c.attempt(ctx, requestURL, attempt)
		if !retry {
			return articles
		}

		if attempt == maxFetchAttempts {
			break
		}

		wait := ComputeWait(attempt, hintSeconds)
		slog.Warn("Provider fetch backing off",
			"attempt", attempt,
			"max_attempts", maxFetchAttempts,
			"wait", wait.String(),
			"retry_after", hintSeconds)

		if err := c.sleep(ctx, wait); err != nil {
			slog.Warn("Provider backoff interrupted", "error", err)
			return nil
		}
	}

	slog.Warn("Provider fetch exceeded max attempts", "attempts", maxFetchAttempts)
	return nil
}

// attempt performs one request. The second return value reports whether the
// outcome is retryable; the third carries the Retry-After hint in seconds.
func (c *Client) attempt(ctx context.Context, requestURL string, attempt int) ([]RemoteArticle, bool, int) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		slog.Error("Failed to build provider request", "url", requestURL, "error", err)
		return nil, false, 0
	}

	req.Header.Set("X-Api-Key", strings.TrimSpace(c.apiKey))
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Warn("Provider request failed", "attempt", attempt, "error", err)
		return nil, true, 0
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		hint := ParseRetryAfter(resp.Header.Get("Retry-After"))
		slog.Warn("Rate limited by provider", "attempt", attempt, "retry_after", hint)
		return nil, true, hint
	case resp.StatusCode >= 500:
		slog.Warn("Provider server error", "attempt", attempt, "status", resp.StatusCode)
		return nil, true, 0
	case resp.StatusCode >= 400:
		slog.Warn("Non-retryable provider error", "status", resp.StatusCode)
		return nil, false, 0
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Warn("Failed to read provider response", "attempt", attempt, "error", err)
		return nil, true, 0
	}

	articles, err := mapResponse(body)
	if err != nil {
		slog.Warn("Failed to parse provider response", "attempt", attempt, "error", err)
		return nil, true, 0
	}

	return articles, false, 0
}

type newsapiResponse struct {
	Articles []newsapiArticle `json:"articles"`
}

type newsapiArticle struct {
	Title       string        `json:"title"`
	URL         string        `json:"url"`
	Source      newsapiSource `json:"source"`
	Description string        `json:"description"`
	Content     string        `json:"content"`
	PublishedAt string        `json:"publishedAt"`
	URLToImage  string        `json:"urlToImage"`
}

type newsapiSource struct {
	Name string `json:"name"`
}

// mapResponse maps the provider body into RemoteArticles. Malformed
// per-record fields are skipped individually; only an unparseable body is an
// error for the whole page.
func mapResponse(body []byte) ([]RemoteArticle, error) {
	var raw newsapiResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode provider body: %w", err)
	}

	articles := make([]RemoteArticle, 0, len(raw.Articles))
	for _, item := range raw.Articles {
		title := strings.TrimSpace(item.Title)
		if title == "" {
			continue
		}

		remote := RemoteArticle{
			Title:    title,
			URL:      strings.TrimSpace(item.URL),
			Source:   strings.TrimSpace(item.Source.Name),
			Category: "General",
			Summary:  strings.TrimSpace(item.Description),
			Content:  strings.TrimSpace(item.Content),
			ImageURL: strings.TrimSpace(item.URLToImage),
		}
		if remote.Content == "" {
			remote.Content = remote.Summary
		}

		if item.PublishedAt != "" {
			if ts, err := time.Parse(time.RFC3339, item.PublishedAt); err == nil {
				published := ts
				remote.PublishedAt = &published
			} else {
				slog.Debug("Failed to parse publishedAt", "value", item.PublishedAt, "title", title)
			}
		}

		articles = append(articles, remote)
	}

	return articles, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
