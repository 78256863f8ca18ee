package api

import (
	"net/http"

	"github.com/sentinova/backend/app/broadcast"
	"github.com/sentinova/backend/app/cache"
	"github.com/sentinova/backend/app/database"
	"github.com/sentinova/backend/app/sentiment"
)

type Handler struct {
	articleRepo   database.ArticleRepository
	sentimentRepo database.SentimentRepository
	analyzer      sentiment.Analyzer
	upserter      *sentiment.Upserter
	hub           *broadcast.Hub
	imageCache    *cache.Cache
	httpClient    *http.Client
	version       string
}
