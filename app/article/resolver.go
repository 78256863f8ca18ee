package article

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/sentinova/backend/app/database"
	"github.com/sentinova/backend/app/provider"
)

// Resolver decides whether an incoming remote record matches an existing
// stored article and computes the merged field set. The returned article is
// not yet persisted; the caller always saves it afterward.
type Resolver struct {
	store database.ArticleRepository
	now   func() time.Time
}

func NewResolver(store database.ArticleRepository) *Resolver {
	return &Resolver{store: store, now: time.Now}
}

// Resolve matches by validated url first, then by case-insensitive
// title+source, and falls back to a new article. Field merges never replace
// a real value with a blank or invalid incoming one.
func (r *Resolver) Resolve(remote provider.RemoteArticle) (*database.Article, error) {
	title := clean(remote.Title)
	source := clean(remote.Source)
	rawURL := strings.TrimSpace(remote.URL)
	urlValid := IsValidExternalURL(rawURL)

	var target *database.Article

	if urlValid {
		existing, err := r.store.FindByURL(rawURL)
		if err != nil {
			return nil, fmt.Errorf("failed to look up article by url: %w", err)
		}
		target = existing
	}

	if target == nil && title != "" && source != "" {
		existing, err := r.findByTitleAndSource(title, source)
		if err != nil {
			return nil, err
		}
		target = existing
	}

	isNew := target == nil
	if isNew {
		target = &database.Article{}
	}

	if urlValid {
		target.URL = rawURL
	}

	if title != "" {
		target.Title = title
	}
	if source != "" {
		target.Source = source
	}
	if category := clean(remote.Category); category != "" {
		target.Category = category
	}
	if summary := clean(remote.Summary); summary != "" {
		target.Summary = summary
	}
	if content := clean(remote.Content); content != "" {
		target.Content = content
	}

	if remote.PublishedAt != nil {
		published := *remote.PublishedAt
		target.PublishedAt = &published
	} else if isNew {
		published := r.now()
		target.PublishedAt = &published
	}

	target.FetchedAt = r.now()

	// An invalid incoming image URL never overwrites a stored one.
	if image := strings.TrimSpace(remote.ImageURL); IsValidExternalURL(image) {
		target.ImageURL = image
	}

	return target, nil
}

func (r *Resolver) findByTitleAndSource(title, source string) (*database.Article, error) {
	all, err := r.store.FindAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}

	for i := range all {
		if strings.EqualFold(all[i].Title, title) && strings.EqualFold(all[i].Source, source) {
			return &all[i], nil
		}
	}

	return nil, nil
}

// clean trims and NFC-normalizes an incoming text field.
func clean(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
