package database

import (
	"database/sql"
	"fmt"
)

type articleRepository struct {
	db *DB
}

func NewArticleRepository(db *DB) ArticleRepository {
	return &articleRepository{db: db}
}

const articleColumns = `id, COALESCE(title, ''), COALESCE(url, ''), COALESCE(summary, ''),
	       COALESCE(content, ''), COALESCE(source, ''), COALESCE(category, ''),
	       COALESCE(image_url, ''), published_at, fetched_at`

func (r *articleRepository) FindByURL(url string) (*Article, error) {
	row := r.db.QueryRow(`
		SELECT `+articleColumns+`
		FROM articles
		WHERE url = $1
	`, url)

	article, err := scanArticle(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find article by url: %w", err)
	}

	return article, nil
}

func (r *articleRepository) FindByID(id string) (*Article, error) {
	row := r.db.QueryRow(`
		SELECT `+articleColumns+`
		FROM articles
		WHERE id = $1
	`, id)

	article, err := scanArticle(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find article by id: %w", err)
	}

	return article, nil
}

func (r *articleRepository) FindWithSentimentsByID(id string) (*Article, error) {
	article, err := r.FindByID(id)
	if err != nil || article == nil {
		return article, err
	}

	rows, err := r.db.Query(`
		SELECT id, article_id, label, score, created_at
		FROM sentiments
		WHERE article_id = $1
		ORDER BY created_at DESC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load sentiments for article: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s Sentiment
		if err := rows.Scan(&s.ID, &s.ArticleID, &s.Label, &s.Score, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan sentiment row: %w", err)
		}
		article.Sentiments = append(article.Sentiments, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sentiment rows: %w", err)
	}

	return article, nil
}

func (r *articleRepository) FindAll() ([]Article, error) {
	rows, err := r.db.Query(`
		SELECT ` + articleColumns + `
		FROM articles
		ORDER BY fetched_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get articles: %w", err)
	}
	defer rows.Close()

	var articles []Article
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article row: %w", err)
		}
		articles = append(articles, *article)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating article rows: %w", err)
	}

	return articles, nil
}

func (r *articleRepository) Save(article *Article) (*Article, error) {
	if article.ID == "" {
		err := r.db.QueryRow(`
			INSERT INTO articles (title, url, summary, content, source, category, image_url, published_at, fetched_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING id
		`, article.Title, nullString(article.URL), article.Summary, article.Content,
			article.Source, article.Category, nullString(article.ImageURL),
			article.PublishedAt, article.FetchedAt).Scan(&article.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to insert article: %w", err)
		}
		return article, nil
	}

	_, err := r.db.Exec(`
		UPDATE articles
		SET title = $2, url = $3, summary = $4, content = $5, source = $6,
		    category = $7, image_url = $8, published_at = $9, fetched_at = $10
		WHERE id = $1
	`, article.ID, article.Title, nullString(article.URL), article.Summary,
		article.Content, article.Source, article.Category, nullString(article.ImageURL),
		article.PublishedAt, article.FetchedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to update article: %w", err)
	}

	return article, nil
}

func (r *articleRepository) GetArticlesForExtraction(limit int) ([]ArticleForExtraction, error) {
	rows, err := r.db.Query(`
		SELECT id, url
		FROM articles
		WHERE url IS NOT NULL
		  AND content_extracted_at IS NULL
		  AND extraction_attempts < 3
		  AND (content = '' OR content IS NULL OR content LIKE '%chars]')
		ORDER BY fetched_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get articles for extraction: %w", err)
	}
	defer rows.Close()

	var articles []ArticleForExtraction
	for rows.Next() {
		var a ArticleForExtraction
		if err := rows.Scan(&a.ID, &a.URL); err != nil {
			return nil, fmt.Errorf("failed to scan extraction row: %w", err)
		}
		articles = append(articles, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating extraction rows: %w", err)
	}

	return articles, nil
}

func (r *articleRepository) UpdateExtractedContent(id string, content string) error {
	_, err := r.db.Exec(`
		UPDATE articles
		SET content = $2, content_extracted_at = NOW()
		WHERE id = $1
	`, id, content)
	if err != nil {
		return fmt.Errorf("failed to update extracted content: %w", err)
	}
	return nil
}

func (r *articleRepository) MarkExtractionFailed(id string) error {
	_, err := r.db.Exec(`
		UPDATE articles
		SET extraction_attempts = extraction_attempts + 1
		WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("failed to mark extraction failed: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanArticle(row rowScanner) (*Article, error) {
	var article Article
	err := row.Scan(
		&article.ID, &article.Title, &article.URL, &article.Summary,
		&article.Content, &article.Source, &article.Category,
		&article.ImageURL, &article.PublishedAt, &article.FetchedAt,
	)
	if err != nil {
		return nil, err
	}
	return &article, nil
}

// nullString stores empty strings as NULL so the unique constraint on url
// only applies to real values.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
