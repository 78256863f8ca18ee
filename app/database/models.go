package database

import (
	"time"
)

// Article is a persistent deduplicated news item. URL is unique across all
// articles when set; an empty URL is stored as NULL. ImageURL is either empty
// or a validated http/https URL (validation happens before the repository).
type Article struct {
	ID          string      `json:"id"`
	Title       string      `json:"title,omitempty"`
	URL         string      `json:"url,omitempty"`
	Summary     string      `json:"summary,omitempty"`
	Content     string      `json:"content,omitempty"`
	Source      string      `json:"source,omitempty"`
	Category    string      `json:"category,omitempty"`
	ImageURL    string      `json:"imageUrl,omitempty"`
	PublishedAt *time.Time  `json:"publishedAt,omitempty"`
	FetchedAt   time.Time   `json:"fetchedAt"`
	Sentiments  []Sentiment `json:"sentiments,omitempty"`
}

// Sentiment is a label+score record attached to an article at a point in
// time. Label always holds one of the three canonical values.
type Sentiment struct {
	ID        string    `json:"id"`
	ArticleID string    `json:"-"`
	Label     string    `json:"label"`
	Score     float64   `json:"score"`
	CreatedAt time.Time `json:"createdAt"`
}

// ArticleForExtraction carries the minimum needed to fetch an article page
// for full-text extraction.
type ArticleForExtraction struct {
	ID  string
	URL string
}
