package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sentinova/backend/app/article"
	"github.com/sentinova/backend/app/broadcast"
	"github.com/sentinova/backend/app/cfg"
	"github.com/sentinova/backend/app/database"
	"github.com/sentinova/backend/app/provider"
	"github.com/sentinova/backend/app/sentiment"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

type Scheduler struct {
	sources          []provider.Source
	resolver         *article.Resolver
	articleRepo      database.ArticleRepository
	analyzer         sentiment.Analyzer
	upserter         *sentiment.Upserter
	hub              *broadcast.Hub
	httpClient       *http.Client
	contentExtractor *article.ContentExtractor
	userAgent        string
	interval         time.Duration
	workerCount      int
	maxArticles      int
	pollingEnabled   bool
	extractContent   bool
	pollInFlight     atomic.Bool
	ctx              context.Context
	cancel           context.CancelFunc
	wg               sync.WaitGroup
	taskQueue        chan TaskInterface
}

func NewScheduler(sources []provider.Source, resolver *article.Resolver,
	articleRepo database.ArticleRepository, analyzer sentiment.Analyzer, upserter *sentiment.Upserter,
	hub *broadcast.Hub, httpClient *http.Client, contentExtractor *article.ContentExtractor) TaskSchedulerInterface {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := cfg.Get()

	return &Scheduler{
		sources:          sources,
		resolver:         resolver,
		articleRepo:      articleRepo,
		analyzer:         analyzer,
		upserter:         upserter,
		hub:              hub,
		httpClient:       httpClient,
		contentExtractor: contentExtractor,
		userAgent:        cfg.UserAgent,
		interval:         time.Duration(cfg.PollIntervalMs) * time.Millisecond,
		workerCount:      cfg.WorkerCount,
		maxArticles:      cfg.MaxArticlesPerCycle,
		pollingEnabled:   cfg.PollingEnabled,
		extractContent:   cfg.ExtractContent,
		ctx:              ctx,
		cancel:           cancel,
		taskQueue:        make(chan TaskInterface, 300),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.enqueueTasks()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueTasks()
			}
		}
	}()

}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	close(s.taskQueue)
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}

func (s *Scheduler) enqueueTasks() {
	if !s.pollingEnabled {
		slog.Debug("Polling disabled, skipping ingestion cycle")
	} else if s.pollInFlight.Load() {
		slog.Warn("Previous ingestion cycle still running, skipping this tick")
	} else {
		pollTask := NewPollNewsTask(s.sources, s.resolver, s.articleRepo, s.analyzer, s.upserter, s.hub, s.maxArticles, &s.pollInFlight)
		if err := s.EnqueueTask(pollTask); err != nil {
			slog.Warn("Failed to enqueue PollNewsTask", "error", err)
		}
	}

	if s.extractContent {
		extractTask := NewExtractContentTask(s.httpClient, s.contentExtractor, s.articleRepo, s.userAgent)
		if err := s.EnqueueTask(extractTask); err != nil {
			slog.Warn("Failed to enqueue ExtractContentTask", "error", err)
		}
	}
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task, ok := <-s.taskQueue:
			if !ok {
				return
			}
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, 5*time.Minute)
	defer cancel()

	err := task.Execute(taskCtx)

	if err != nil {
		slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

		if task.CanRetry() {
			task.IncrementRetryCount()
			retryDelay := time.Duration(1<<uint(task.GetRetryCount()-1)) * time.Second
			if retryDelay > 30*time.Second {
				retryDelay = 30 * time.Second
			}

			slog.Warn("Task retry scheduled", "type", string(task.GetType()), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", retryDelay.String())

			go func() {
				time.Sleep(retryDelay)
				select {
				case <-s.ctx.Done():
					slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
					return
				default:
					if retryErr := s.EnqueueTask(task); retryErr != nil {
						slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", retryErr)
					}
				}
			}()
		} else {
			slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
		}
	}
}
