package tasks

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/sentinova/backend/app/article"
	"github.com/sentinova/backend/app/broadcast"
	"github.com/sentinova/backend/app/database"
	"github.com/sentinova/backend/app/provider"
	"github.com/sentinova/backend/app/sentiment"
)

type fakeSource struct {
	name     string
	articles []provider.RemoteArticle
}

func (s *fakeSource) Name() string { return s.name }

func (s *fakeSource) Fetch(ctx context.Context) []provider.RemoteArticle {
	return s.articles
}

type fakeArticleStore struct {
	articles  map[string]*database.Article
	nextID    int
	failTitle string
}

func newFakeArticleStore() *fakeArticleStore {
	return &fakeArticleStore{articles: make(map[string]*database.Article)}
}

func (s *fakeArticleStore) FindByURL(url string) (*database.Article, error) {
	for _, a := range s.articles {
		if a.URL == url {
			copied := *a
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *fakeArticleStore) FindByID(id string) (*database.Article, error) {
	if a, ok := s.articles[id]; ok {
		copied := *a
		return &copied, nil
	}
	return nil, nil
}

func (s *fakeArticleStore) FindWithSentimentsByID(id string) (*database.Article, error) {
	return s.FindByID(id)
}

func (s *fakeArticleStore) FindAll() ([]database.Article, error) {
	all := make([]database.Article, 0, len(s.articles))
	for _, a := range s.articles {
		all = append(all, *a)
	}
	return all, nil
}

func (s *fakeArticleStore) Save(a *database.Article) (*database.Article, error) {
	if a.Title == s.failTitle && s.failTitle != "" {
		return nil, fmt.Errorf("simulated save failure")
	}
	if a.ID == "" {
		s.nextID++
		a.ID = fmt.Sprintf("id-%d", s.nextID)
	}
	copied := *a
	s.articles[a.ID] = &copied
	return a, nil
}

func (s *fakeArticleStore) GetArticlesForExtraction(limit int) ([]database.ArticleForExtraction, error) {
	return nil, nil
}

func (s *fakeArticleStore) UpdateExtractedContent(id string, content string) error { return nil }

func (s *fakeArticleStore) MarkExtractionFailed(id string) error { return nil }

type fakeSentimentStore struct {
	rows map[string]*database.Sentiment
}

func newFakeSentimentStore() *fakeSentimentStore {
	return &fakeSentimentStore{rows: make(map[string]*database.Sentiment)}
}

func (s *fakeSentimentStore) Save(row *database.Sentiment) (*database.Sentiment, error) {
	copied := *row
	s.rows[row.ID] = &copied
	return row, nil
}

func (s *fakeSentimentStore) FindLatestByArticle(articleID string) (*database.Sentiment, error) {
	var latest *database.Sentiment
	for _, row := range s.rows {
		if row.ArticleID != articleID {
			continue
		}
		if latest == nil || row.CreatedAt.After(latest.CreatedAt) {
			latest = row
		}
	}
	if latest == nil {
		return nil, nil
	}
	copied := *latest
	return &copied, nil
}

func (s *fakeSentimentStore) FindAllByArticle(articleID string) ([]database.Sentiment, error) {
	var all []database.Sentiment
	for _, row := range s.rows {
		if row.ArticleID == articleID {
			all = append(all, *row)
		}
	}
	return all, nil
}

type pollTaskEnv struct {
	articles   *fakeArticleStore
	sentiments *fakeSentimentStore
	hub        *broadcast.Hub
	inFlight   *atomic.Bool
}

func newPollTask(sources []provider.Source, maxArticles int) (*PollNewsTask, *pollTaskEnv) {
	env := &pollTaskEnv{
		articles:   newFakeArticleStore(),
		sentiments: newFakeSentimentStore(),
		hub:        broadcast.NewHub(),
		inFlight:   &atomic.Bool{},
	}

	task := NewPollNewsTask(sources,
		article.NewResolver(env.articles),
		env.articles,
		sentiment.NewEngineAnalyzer(sentiment.NewLexiconScorer()),
		sentiment.NewUpserter(env.sentiments),
		env.hub,
		maxArticles,
		env.inFlight)
	return task, env
}

func TestPollNewsTask_IngestAndEnrich(t *testing.T) {
	source := &fakeSource{name: "newsapi", articles: []provider.RemoteArticle{
		{Title: "Markets rally on strong growth", URL: "https://x.com/1", Source: "Wire", Content: "A great success"},
		{Title: "Storm causes terrible damage", URL: "https://x.com/2", Source: "Wire", Content: "A terrible loss"},
	}}
	task, env := newPollTask([]provider.Source{source}, 50)

	ch, stop := env.hub.Subscribe()
	defer stop()

	if err := task.Execute(context.Background()); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if len(env.articles.articles) != 2 {
		t.Fatalf("Expected 2 stored articles, got %d", len(env.articles.articles))
	}
	if len(env.sentiments.rows) != 2 {
		t.Fatalf("Expected 2 sentiment rows, got %d", len(env.sentiments.rows))
	}

	published := 0
	for {
		select {
		case <-ch:
			published++
			continue
		default:
		}
		break
	}
	if published != 2 {
		t.Errorf("Expected 2 published articles, got %d", published)
	}

	positive, _ := env.articles.FindByURL("https://x.com/1")
	row, _ := env.sentiments.FindLatestByArticle(positive.ID)
	if row == nil || row.Label != sentiment.LabelPositive {
		t.Errorf("Expected positive sentiment for rally article, got %+v", row)
	}
}

func TestPollNewsTask_SecondCycleUpdatesInPlace(t *testing.T) {
	source := &fakeSource{name: "newsapi", articles: []provider.RemoteArticle{
		{Title: "Markets rally", URL: "https://x.com/1", Source: "Wire", Content: "A great success"},
	}}
	task, env := newPollTask([]provider.Source{source}, 50)

	if err := task.Execute(context.Background()); err != nil {
		t.Fatalf("First cycle failed: %v", err)
	}

	second, _ := newPollTaskWithEnv([]provider.Source{source}, 50, env)
	if err := second.Execute(context.Background()); err != nil {
		t.Fatalf("Second cycle failed: %v", err)
	}

	if len(env.articles.articles) != 1 {
		t.Errorf("Expected a single article after re-ingestion, got %d", len(env.articles.articles))
	}
	if len(env.sentiments.rows) != 1 {
		t.Errorf("Expected a single sentiment row after re-ingestion, got %d", len(env.sentiments.rows))
	}
}

func newPollTaskWithEnv(sources []provider.Source, maxArticles int, env *pollTaskEnv) (*PollNewsTask, *pollTaskEnv) {
	task := NewPollNewsTask(sources,
		article.NewResolver(env.articles),
		env.articles,
		sentiment.NewEngineAnalyzer(sentiment.NewLexiconScorer()),
		sentiment.NewUpserter(env.sentiments),
		env.hub,
		maxArticles,
		env.inFlight)
	return task, env
}

func TestPollNewsTask_SkipsWhenCycleInFlight(t *testing.T) {
	source := &fakeSource{name: "newsapi", articles: []provider.RemoteArticle{
		{Title: "A", URL: "https://x.com/1", Source: "Wire"},
	}}
	task, env := newPollTask([]provider.Source{source}, 50)

	env.inFlight.Store(true)

	if err := task.Execute(context.Background()); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if len(env.articles.articles) != 0 {
		t.Errorf("Expected no articles ingested while a cycle is in flight, got %d", len(env.articles.articles))
	}
	if !env.inFlight.Load() {
		t.Error("Expected the in-flight flag to stay owned by the running cycle")
	}
}

func TestPollNewsTask_RespectsPerCycleCap(t *testing.T) {
	var remotes []provider.RemoteArticle
	for i := 0; i < 5; i++ {
		remotes = append(remotes, provider.RemoteArticle{
			Title:  fmt.Sprintf("Article %d", i),
			URL:    fmt.Sprintf("https://x.com/%d", i),
			Source: "Wire",
		})
	}
	task, env := newPollTask([]provider.Source{&fakeSource{name: "newsapi", articles: remotes}}, 3)

	if err := task.Execute(context.Background()); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if len(env.articles.articles) != 3 {
		t.Errorf("Expected cap of 3 articles per cycle, got %d", len(env.articles.articles))
	}
}

func TestPollNewsTask_RecordFailureIsIsolated(t *testing.T) {
	source := &fakeSource{name: "newsapi", articles: []provider.RemoteArticle{
		{Title: "Poison", URL: "https://x.com/poison", Source: "Wire"},
		{Title: "Healthy", URL: "https://x.com/healthy", Source: "Wire"},
	}}
	task, env := newPollTask([]provider.Source{source}, 50)
	env.articles.failTitle = "Poison"

	if err := task.Execute(context.Background()); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if len(env.articles.articles) != 1 {
		t.Fatalf("Expected the healthy record ingested despite a failing one, got %d", len(env.articles.articles))
	}
	healthy, _ := env.articles.FindByURL("https://x.com/healthy")
	if healthy == nil {
		t.Error("Expected the healthy record stored")
	}
}

func TestPollNewsTask_CancelledContext(t *testing.T) {
	source := &fakeSource{name: "newsapi", articles: []provider.RemoteArticle{
		{Title: "A", URL: "https://x.com/1", Source: "Wire"},
	}}
	task, env := newPollTask([]provider.Source{source}, 50)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := task.Execute(ctx); err == nil {
		t.Fatal("Expected error for cancelled context")
	}
	if env.inFlight.Load() {
		t.Error("Expected in-flight flag released after cancellation")
	}

	// flag must be reusable for the next cycle
	if err := task.Execute(context.Background()); err != nil {
		t.Fatalf("Follow-up execute failed: %v", err)
	}
}
