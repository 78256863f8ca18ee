package api

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sentinova/backend/app/article"
	"github.com/sentinova/backend/app/broadcast"
	"github.com/sentinova/backend/app/cache"
	"github.com/sentinova/backend/app/database"
	"github.com/sentinova/backend/app/sentiment"
)

const (
	// Many image hosts reject requests without a browser User-Agent.
	proxyUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36 SentinovaProxy/1.0"

	maxImageBytes = 10 << 20
)

func NewHandler(articleRepo database.ArticleRepository, sentimentRepo database.SentimentRepository,
	analyzer sentiment.Analyzer, upserter *sentiment.Upserter, hub *broadcast.Hub,
	imageCache *cache.Cache, httpClient *http.Client, version string) *Handler {
	return &Handler{
		articleRepo:   articleRepo,
		sentimentRepo: sentimentRepo,
		analyzer:      analyzer,
		upserter:      upserter,
		hub:           hub,
		imageCache:    imageCache,
		httpClient:    httpClient,
		version:       version,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "UP",
		"version":   h.version,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (h *Handler) ListArticles(c *gin.Context) {
	shuffle := strings.EqualFold(c.DefaultQuery("shuffle", "false"), "true")
	sentimentFilter := strings.TrimSpace(c.DefaultQuery("sentiment", "All"))

	articles, err := h.articleRepo.FindAll()
	if err != nil {
		slog.Error("Database error", "operation", "list_articles", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load articles"})
		return
	}

	articles = h.filterBySentiment(articles, sentimentFilter)

	if shuffle {
		rand.Shuffle(len(articles), func(i, j int) {
			articles[i], articles[j] = articles[j], articles[i]
		})
	}

	c.JSON(http.StatusOK, articles)
}

func (h *Handler) ListRecentArticles(c *gin.Context) {
	count, err := strconv.Atoi(c.Param("count"))
	if err != nil || count <= 0 {
		c.JSON(http.StatusBadRequest, []database.Article{})
		return
	}

	shuffle := strings.EqualFold(c.DefaultQuery("shuffle", "false"), "true")
	sentimentFilter := strings.TrimSpace(c.DefaultQuery("sentiment", "All"))

	// FindAll returns articles newest first by fetchedAt.
	articles, err := h.articleRepo.FindAll()
	if err != nil {
		slog.Error("Database error", "operation", "list_recent_articles", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load articles"})
		return
	}

	if len(articles) > count {
		articles = articles[:count]
	}

	articles = h.filterBySentiment(articles, sentimentFilter)

	if shuffle {
		rand.Shuffle(len(articles), func(i, j int) {
			articles[i], articles[j] = articles[j], articles[i]
		})
	}

	c.JSON(http.StatusOK, articles)
}

// filterBySentiment keeps articles whose latest sentiment label matches the
// requested one. "All" keeps everything; articles without any sentiment only
// appear in the unfiltered listing.
func (h *Handler) filterBySentiment(articles []database.Article, wanted string) []database.Article {
	if wanted == "" || strings.EqualFold(wanted, "All") {
		if articles == nil {
			return []database.Article{}
		}
		return articles
	}

	filtered := make([]database.Article, 0, len(articles))
	for _, a := range articles {
		latest, err := h.sentimentRepo.FindLatestByArticle(a.ID)
		if err != nil {
			slog.Error("Database error", "operation", "latest_sentiment", "article_id", a.ID, "error", err)
			continue
		}
		if latest != nil && strings.EqualFold(latest.Label, wanted) {
			filtered = append(filtered, a)
		}
	}
	return filtered
}

func (h *Handler) GetArticleWithSentiments(c *gin.Context) {
	id := c.Param("id")

	found, err := h.articleRepo.FindWithSentimentsByID(id)
	if err != nil {
		slog.Error("Database error", "operation", "get_article", "article_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load article"})
		return
	}
	if found == nil {
		c.Status(http.StatusNotFound)
		return
	}

	c.JSON(http.StatusOK, found)
}

func (h *Handler) GetLatestSentiment(c *gin.Context) {
	id := c.Param("id")

	found, err := h.articleRepo.FindByID(id)
	if err != nil {
		slog.Error("Database error", "operation", "get_article", "article_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load article"})
		return
	}
	if found == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
		return
	}

	latest, err := h.sentimentRepo.FindLatestByArticle(found.ID)
	if err != nil {
		slog.Error("Database error", "operation", "latest_sentiment", "article_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load sentiment"})
		return
	}
	if latest == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no sentiment found for this article"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"label": latest.Label,
		"score": latest.Score,
	})
}

func (h *Handler) AnalyzeArticle(c *gin.Context) {
	id := c.Param("id")

	found, err := h.articleRepo.FindByID(id)
	if err != nil {
		slog.Error("Database error", "operation", "get_article", "article_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load article"})
		return
	}
	if found == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
		return
	}

	result, err := h.analyzer.Analyze(c.Request.Context(), found.Title+". "+found.Content)
	if err != nil {
		slog.Error("Sentiment analysis failed", "article_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "sentiment analysis failed"})
		return
	}

	saved, err := h.upserter.UpsertLatest(found.ID, result.Label, result.Score)
	if err != nil {
		slog.Error("Failed to save sentiment", "article_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save sentiment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"label": saved.Label,
		"score": saved.Score,
	})
}

// StreamArticles sends freshly ingested articles as server-sent events. The
// stream has no replay, a client only sees articles published after it
// connected.
func (h *Handler) StreamArticles(c *gin.Context) {
	ch, unsubscribe := h.hub.Subscribe()
	defer unsubscribe()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	keepAlive := time.NewTicker(25 * time.Second)
	defer keepAlive.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case published, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent("article", published)
			return true
		case <-keepAlive.C:
			c.SSEvent("ping", time.Now().Unix())
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

// ProxyImage fetches remote image bytes and streams them back, working around
// hosts that block cross-origin requests or non-browser user agents.
func (h *Handler) ProxyImage(c *gin.Context) {
	rawURL := strings.TrimSpace(c.Query("url"))
	if rawURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing 'url' parameter"})
		return
	}
	if !article.IsValidExternalURL(rawURL) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid url"})
		return
	}

	key := cache.ImageKey(rawURL)
	if data, hit, err := h.imageCache.Get(c.Request.Context(), key); err == nil && hit {
		c.Header("Cache-Control", "public, max-age=3600")
		c.Data(http.StatusOK, http.DetectContentType(data), data)
		return
	}

	req, err := http.NewRequestWithContext(c.Request.Context(), "GET", rawURL, nil)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid url"})
		return
	}
	req.Header.Set("User-Agent", proxyUserAgent)
	req.Header.Set("Accept", "*/*")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		slog.Warn("Failed to fetch remote image", "url", rawURL, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch remote image"})
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Warn("Remote image host returned error", "url", rawURL, "status", resp.StatusCode)
		c.JSON(resp.StatusCode, gin.H{"error": fmt.Sprintf("remote returned %d", resp.StatusCode)})
		return
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		slog.Warn("Failed to read remote image", "url", rawURL, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to read remote image"})
		return
	}
	if len(data) > maxImageBytes {
		c.JSON(http.StatusBadGateway, gin.H{"error": "remote image too large"})
		return
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	if err := h.imageCache.Set(c.Request.Context(), key, data, time.Hour); err != nil {
		slog.Warn("Failed to cache image", "url", rawURL, "error", err)
	}

	c.Header("Cache-Control", "public, max-age=3600")
	c.Data(http.StatusOK, contentType, data)
}
