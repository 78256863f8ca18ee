package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/sentinova/backend/app/article"
	"github.com/sentinova/backend/app/broadcast"
	"github.com/sentinova/backend/app/database"
	"github.com/sentinova/backend/app/provider"
	"github.com/sentinova/backend/app/sentiment"
)

// PollNewsTask runs a single ingestion cycle: fetch from every configured
// source, resolve each remote record into a stored article, enrich it with a
// sentiment and publish it for live subscribers. Cycles are non-reentrant,
// an attempt to run while a previous cycle is still in flight is a no-op.
type PollNewsTask struct {
	Task
	sources     []provider.Source
	resolver    *article.Resolver
	articleRepo database.ArticleRepository
	analyzer    sentiment.Analyzer
	upserter    *sentiment.Upserter
	hub         *broadcast.Hub
	maxArticles int
	inFlight    *atomic.Bool
}

func NewPollNewsTask(sources []provider.Source, resolver *article.Resolver,
	articleRepo database.ArticleRepository, analyzer sentiment.Analyzer, upserter *sentiment.Upserter,
	hub *broadcast.Hub, maxArticles int, inFlight *atomic.Bool) *PollNewsTask {
	return &PollNewsTask{
		Task:        NewTask(TaskTypePollNews),
		sources:     sources,
		resolver:    resolver,
		articleRepo: articleRepo,
		analyzer:    analyzer,
		upserter:    upserter,
		hub:         hub,
		maxArticles: maxArticles,
		inFlight:    inFlight,
	}
}

func (t *PollNewsTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if !t.inFlight.CompareAndSwap(false, true) {
		slog.Debug("Previous ingestion cycle still running, skipping")
		return nil
	}
	defer t.inFlight.Store(false)

	processed := 0
	failed := 0

	for _, source := range t.sources {
		if processed >= t.maxArticles {
			break
		}

		remotes := source.Fetch(ctx)
		if len(remotes) == 0 {
			slog.Info("No articles returned", "source", source.Name())
			continue
		}

		for _, remote := range remotes {
			if processed >= t.maxArticles {
				break
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			if err := t.processArticle(ctx, remote); err != nil {
				slog.Error("Failed to process article", "source", source.Name(), "title", remote.Title, "error", err)
				failed++
				continue
			}
			processed++
		}
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"duration", t.GetDuration(),
		"processed", processed,
		"failed", failed)

	return nil
}

func (t *PollNewsTask) processArticle(ctx context.Context, remote provider.RemoteArticle) error {
	resolved, err := t.resolver.Resolve(remote)
	if err != nil {
		return fmt.Errorf("failed to resolve article: %w", err)
	}

	saved, err := t.articleRepo.Save(resolved)
	if err != nil {
		return fmt.Errorf("failed to save article: %w", err)
	}

	// Enrichment is best-effort, a failed analysis never loses the article.
	result, err := t.analyzer.Analyze(ctx, saved.Title+". "+saved.Content)
	if err != nil {
		slog.Error("Sentiment analysis failed", "article_id", saved.ID, "error", err)
	} else {
		if _, err := t.upserter.UpsertLatest(saved.ID, result.Label, result.Score); err != nil {
			slog.Error("Failed to store sentiment", "article_id", saved.ID, "error", err)
		}
	}

	t.hub.Publish(saved)
	return nil
}
