package provider

import (
	"context"
	"time"
)

// RemoteArticle is a transient record as received from an external source,
// before persistence. It has no identity of its own.
type RemoteArticle struct {
	Title       string
	URL         string
	Source      string
	Category    string
	Summary     string
	Content     string
	PublishedAt *time.Time
	ImageURL    string
}

// Source yields one page of remote articles per ingestion cycle. Fetch never
// returns an error to the caller: an irrecoverable failure yields an empty
// slice and is logged by the source itself.
type Source interface {
	Name() string
	Fetch(ctx context.Context) []RemoteArticle
}
