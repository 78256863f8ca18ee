package database

import (
	"database/sql"
	"fmt"
)

type sentimentRepository struct {
	db *DB
}

func NewSentimentRepository(db *DB) SentimentRepository {
	return &sentimentRepository{db: db}
}

func (r *sentimentRepository) Save(sentiment *Sentiment) (*Sentiment, error) {
	_, err := r.db.Exec(`
		INSERT INTO sentiments (id, article_id, label, score, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			label = EXCLUDED.label,
			score = EXCLUDED.score,
			created_at = EXCLUDED.created_at
	`, sentiment.ID, sentiment.ArticleID, sentiment.Label, sentiment.Score, sentiment.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to save sentiment: %w", err)
	}

	return sentiment, nil
}

func (r *sentimentRepository) FindLatestByArticle(articleID string) (*Sentiment, error) {
	var s Sentiment
	err := r.db.QueryRow(`
		SELECT id, article_id, label, score, created_at
		FROM sentiments
		WHERE article_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, articleID).Scan(&s.ID, &s.ArticleID, &s.Label, &s.Score, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find latest sentiment: %w", err)
	}

	return &s, nil
}

func (r *sentimentRepository) FindAllByArticle(articleID string) ([]Sentiment, error) {
	rows, err := r.db.Query(`
		SELECT id, article_id, label, score, created_at
		FROM sentiments
		WHERE article_id = $1
		ORDER BY created_at DESC
	`, articleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get sentiments: %w", err)
	}
	defer rows.Close()

	var sentiments []Sentiment
	for rows.Next() {
		var s Sentiment
		if err := rows.Scan(&s.ID, &s.ArticleID, &s.Label, &s.Score, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan sentiment row: %w", err)
		}
		sentiments = append(sentiments, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sentiment rows: %w", err)
	}

	return sentiments, nil
}
