// Package service provides the core crawl pipeline that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	fetchadapter "github.com/easonliu714/ShowNews/internal/adapters/fetch"
	notify "github.com/easonliu714/ShowNews/internal/adapters/notify"
	repository "github.com/easonliu714/ShowNews/internal/adapters/repository"
	"github.com/easonliu714/ShowNews/internal/domain/dedupe"
	"github.com/easonliu714/ShowNews/internal/domain/filter"
	"github.com/easonliu714/ShowNews/internal/domain/model"
	"github.com/easonliu714/ShowNews/internal/domain/profile"
	"github.com/easonliu714/ShowNews/internal/domain/types"
	"github.com/easonliu714/ShowNews/pkg/logger"
	"github.com/easonliu714/ShowNews/pkg/metrics"
)

// Default pipeline configuration.
const (
	defaultPerPlatformCap = 5
	defaultPacing         = 2 * time.Second
)

// Fetcher retrieves one page as text.
type Fetcher interface {
	Get(ctx context.Context, platform, url string) (string, error)
}

// Enricher fills event fields from the event's detail page.
type Enricher interface {
	Enrich(ctx context.Context, ev model.Event) model.Event
}

// Dispatcher delivers one rendered message with retries.
type Dispatcher interface {
	Dispatch(ctx context.Context, text string) error
}

// FailedLog records permanently failed notifications.
type FailedLog interface {
	Record(ctx context.Context, url, title, reason string) error
}

// Service orchestrates the crawl pipeline: concurrent listing fetches,
// filtering, novelty diff against the seen store, enrichment, and the
// paced notification loop. One pass runs at a time.
type Service struct {
	mu    sync.RWMutex
	runMu sync.Mutex

	// Core components
	profiles   []profile.Profile
	fetcher    Fetcher
	filter     *filter.Filter
	enricher   Enricher
	dispatcher Dispatcher
	store      repository.Store
	failedLog  FailedLog

	// Configuration
	perPlatformCap int
	pacing         time.Duration
	checkInterval  time.Duration
	sleep          func(ctx context.Context, d time.Duration) error

	// State
	started     bool
	stopCh      chan struct{}
	lastSummary *types.Summary

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithProfiles sets the platform profiles to crawl.
func WithProfiles(profiles []profile.Profile) Option {
	return func(s *Service) {
		if len(profiles) > 0 {
			s.profiles = profiles
		}
	}
}

// WithFetcher sets the page fetcher.
func WithFetcher(f Fetcher) Option {
	return func(s *Service) {
		if f != nil {
			s.fetcher = f
		}
	}
}

// WithFilter sets the anchor filter.
func WithFilter(f *filter.Filter) Option {
	return func(s *Service) {
		if f != nil {
			s.filter = f
		}
	}
}

// WithEnricher sets the detail-page enricher.
func WithEnricher(e Enricher) Option {
	return func(s *Service) {
		if e != nil {
			s.enricher = e
		}
	}
}

// WithDispatcher sets the notification dispatcher.
func WithDispatcher(d Dispatcher) Option {
	return func(s *Service) {
		if d != nil {
			s.dispatcher = d
		}
	}
}

// WithStore sets the seen-event store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithFailedLog sets the permanent-failure log.
func WithFailedLog(l FailedLog) Option {
	return func(s *Service) {
		if l != nil {
			s.failedLog = l
		}
	}
}

// WithPerPlatformCap limits notifications per platform per pass.
func WithPerPlatformCap(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.perPlatformCap = n
		}
	}
}

// WithPacing sets the delay between consecutive sends.
func WithPacing(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.pacing = d
		}
	}
}

// WithCheckInterval enables the periodic scheduler. Zero disables it.
func WithCheckInterval(d time.Duration) Option {
	return func(s *Service) {
		s.checkInterval = d
	}
}

// WithSleeper replaces the pacing wait, used by tests.
func WithSleeper(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(s *Service) {
		if fn != nil {
			s.sleep = fn
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		profiles:       profile.All(),
		filter:         filter.New(),
		perPlatformCap: defaultPerPlatformCap,
		pacing:         defaultPacing,
		stopCh:         make(chan struct{}),
		sleep:          sleepCtx,
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes the service and, when a check interval is set,
// launches the periodic pass scheduler.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.started = true
	s.logger.Info(ctx, "crawl service started",
		logger.Int("platforms", len(s.profiles)),
		logger.Int("perPlatformCap", s.perPlatformCap),
		logger.String("checkInterval", s.checkInterval.String()),
	)

	if s.checkInterval > 0 {
		go s.scheduleLoop(ctx)
	}

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	select {
	case <-s.stopCh:
	default:
		close(s.stopCh)
	}

	s.started = false
	if s.logger != nil {
		s.logger.Info(context.Background(), "crawl service stopped")
	}
}

// scheduleLoop runs a pass every check interval until Stop.
func (s *Service) scheduleLoop(ctx context.Context) {
	ticker := time.NewTicker(s.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.RunPass(ctx); err != nil {
				s.logger.Error(ctx, "scheduled pass failed", logger.Error(err))
			}
		}
	}
}

// listing holds one platform's fetched anchors or its failure.
type listing struct {
	anchors []filter.Anchor
	err     error
}

// RunPass executes one full crawl pass and returns its summary. A
// platform whose listing fetch or parse fails contributes zero events
// and never aborts the pass.
func (s *Service) RunPass(ctx context.Context) (types.Summary, error) {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	s.ensureLogger()

	start := time.Now()
	sum := types.Summary{
		RunID:         uuid.NewString(),
		PlatformStats: make(map[string]types.PlatformStat, len(s.profiles)),
		StartedAt:     start.UTC().Format(time.RFC3339),
	}

	isInit := s.store.Count(ctx) == 0
	s.logger.Info(ctx, "crawl pass started",
		logger.String("runID", sum.RunID),
		logger.Any("init", isInit),
	)

	listings := s.fetchListings(ctx)

	// Diff against the seen store, platform by platform in profile
	// order. URLs listed on more than one platform notify once, for
	// the platform that produced them first.
	passSeen := dedupe.New()
	novel := make([]model.Event, 0)
	for i, p := range s.profiles {
		stat := types.PlatformStat{}
		if listings[i].err != nil {
			s.logger.Warn(ctx, "platform listing failed",
				logger.String("platform", p.Name),
				logger.Error(listings[i].err))
			sum.PlatformStats[p.Name] = stat
			continue
		}

		events := s.filter.Apply(ctx, p, listings[i].anchors)
		stat.Discovered = len(events)
		metrics.RecordEventsDiscovered(p.Name, len(events))

		for _, ev := range events {
			if stat.New >= s.perPlatformCap {
				break
			}
			if passSeen.SeenAndRecord(ctx, ev.URL) {
				continue
			}
			if s.store.IsSeen(ctx, ev.URL) {
				continue
			}
			stat.New++
			metrics.RecordEventNew(p.Name)
			novel = append(novel, ev)
		}
		sum.PlatformStats[p.Name] = stat
	}
	sum.NewCount = len(novel)

	s.notifyAll(ctx, novel, isInit, &sum)

	sum.Success = sum.FailedCount == 0
	sum.FinishedAt = time.Now().UTC().Format(time.RFC3339)

	s.finishPass(ctx, &sum, start)
	return sum, nil
}

// fetchListings downloads every platform's listing page concurrently
// and extracts its anchors.
func (s *Service) fetchListings(ctx context.Context) []listing {
	listings := make([]listing, len(s.profiles))

	var wg sync.WaitGroup
	for i, p := range s.profiles {
		wg.Add(1)
		go func(i int, p profile.Profile) {
			defer wg.Done()
			html, err := s.fetcher.Get(ctx, p.Name, p.ListingURL)
			if err != nil {
				listings[i] = listing{err: err}
				return
			}
			anchors, err := fetchadapter.Anchors(html, p.AnchorSelector)
			listings[i] = listing{anchors: anchors, err: err}
		}(i, p)
	}
	wg.Wait()

	return listings
}

// notifyAll enriches and dispatches each novel event in order, pacing
// consecutive sends. An event is marked seen only after its send was
// confirmed, so a crash or failure leaves it eligible for the next
// pass.
func (s *Service) notifyAll(ctx context.Context, novel []model.Event, isInit bool, sum *types.Summary) {
	for i, ev := range novel {
		if i > 0 && s.pacing > 0 {
			if err := s.sleep(ctx, s.pacing); err != nil {
				return
			}
		}

		enriched := s.enricher.Enrich(ctx, ev)
		if enriched.Downgraded() {
			metrics.RecordEnrichDowngraded()
		}

		text := notify.Format(enriched, isInit)
		if err := s.dispatcher.Dispatch(ctx, text); err != nil {
			sum.FailedCount++
			s.bumpStat(sum, ev.Platform, func(st *types.PlatformStat) { st.Failed++ })
			metrics.RecordEventFailed(ev.Platform)
			s.logger.Error(ctx, "notification failed",
				logger.String("url", ev.URL),
				logger.Error(err))
			if s.failedLog != nil {
				if logErr := s.failedLog.Record(ctx, ev.URL, enriched.Title, err.Error()); logErr != nil {
					s.logger.Warn(ctx, "failed-send log write failed", logger.Error(logErr))
				}
			}
			continue
		}

		rec := model.SeenRecord{Title: enriched.Title, SentAt: time.Now().UTC()}
		if err := s.store.MarkSeen(ctx, ev.URL, rec); err != nil {
			// Sent but not persisted; the next pass may repeat it.
			s.logger.Error(ctx, "mark seen failed",
				logger.String("url", ev.URL),
				logger.Error(err))
		}

		sum.SentCount++
		sum.NewTitles = append(sum.NewTitles, enriched.Title)
		s.bumpStat(sum, ev.Platform, func(st *types.PlatformStat) { st.Sent++ })
		metrics.RecordEventSent(ev.Platform)
	}
}

// finishPass emits the digest notification, updates metrics and
// remembers the summary for GetStats.
func (s *Service) finishPass(ctx context.Context, sum *types.Summary, start time.Time) {
	if sum.SentCount > 0 || sum.FailedCount > 0 {
		if err := s.dispatcher.Dispatch(ctx, notify.FormatSummary(*sum)); err != nil {
			s.logger.Warn(ctx, "summary notification failed", logger.Error(err))
		}
	}

	metrics.RecordPass()
	metrics.RecordPassDuration(float64(time.Since(start).Milliseconds()))
	metrics.UpdateStoreSize(s.store.Count(ctx))

	s.mu.Lock()
	s.lastSummary = sum
	s.mu.Unlock()

	s.logger.Info(ctx, "crawl pass finished",
		logger.String("runID", sum.RunID),
		logger.Int("new", sum.NewCount),
		logger.Int("sent", sum.SentCount),
		logger.Int("failed", sum.FailedCount),
	)
}

// ensureLogger falls back to the process logger when none was injected.
func (s *Service) ensureLogger() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.logger == nil {
		s.logger = logger.Get()
	}
}

func (s *Service) bumpStat(sum *types.Summary, platform string, fn func(*types.PlatformStat)) {
	st := sum.PlatformStats[platform]
	fn(&st)
	sum.PlatformStats[platform] = st
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":        s.started,
		"platforms":      len(s.profiles),
		"perPlatformCap": s.perPlatformCap,
	}
	if s.store != nil {
		stats["storeSize"] = s.store.Count(context.Background())
	}
	if s.lastSummary != nil {
		stats["lastRun"] = *s.lastSummary
	}

	return stats
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
