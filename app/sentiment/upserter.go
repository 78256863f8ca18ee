package sentiment

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/sentinova/backend/app/database"
)

// Upserter maintains the single most recent sentiment row per article.
// Re-analyzing an article updates that row in place instead of growing the
// history, so repeated ingestion cycles stay idempotent.
type Upserter struct {
	store database.SentimentRepository
	now   func() time.Time
}

func NewUpserter(store database.SentimentRepository) *Upserter {
	return &Upserter{store: store, now: time.Now}
}

// UpsertLatest normalizes the label, then updates the article's latest
// sentiment row in place (including its createdAt) or inserts a fresh row if
// the article has none yet.
func (u *Upserter) UpsertLatest(articleID string, label string, score float64) (*database.Sentiment, error) {
	normalized := NormalizeLabel(label)

	latest, err := u.store.FindLatestByArticle(articleID)
	if err != nil {
		return nil, fmt.Errorf("find latest sentiment: %w", err)
	}

	if latest != nil {
		latest.Label = normalized
		latest.Score = score
		latest.CreatedAt = u.now()

		saved, err := u.store.Save(latest)
		if err != nil {
			return nil, fmt.Errorf("update sentiment: %w", err)
		}
		slog.Debug("Updated latest sentiment", "article_id", articleID, "label", saved.Label, "score", saved.Score)
		return saved, nil
	}

	saved, err := u.store.Save(&database.Sentiment{
		ID:        uuid.NewString(),
		ArticleID: articleID,
		Label:     normalized,
		Score:     score,
		CreatedAt: u.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("insert sentiment: %w", err)
	}
	slog.Debug("Inserted sentiment", "article_id", articleID, "label", saved.Label, "score", saved.Score)
	return saved, nil
}
