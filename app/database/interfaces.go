package database

// ArticleRepository is the only write path for articles. Save assigns an
// identity on first save and is idempotent for subsequent saves of the same
// identity.
type ArticleRepository interface {
	FindByURL(url string) (*Article, error)
	FindByID(id string) (*Article, error)
	FindWithSentimentsByID(id string) (*Article, error)
	FindAll() ([]Article, error)
	Save(article *Article) (*Article, error)

	GetArticlesForExtraction(limit int) ([]ArticleForExtraction, error)
	UpdateExtractedContent(id string, content string) error
	MarkExtractionFailed(id string) error
}

// SentimentRepository is the only write path for sentiments.
type SentimentRepository interface {
	Save(sentiment *Sentiment) (*Sentiment, error)
	FindLatestByArticle(articleID string) (*Sentiment, error)
	FindAllByArticle(articleID string) ([]Sentiment, error)
}
