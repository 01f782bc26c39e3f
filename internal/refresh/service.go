package refresh

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/i474232898/snowdesk/internal/forecast"
	"github.com/i474232898/snowdesk/internal/observability"
	"github.com/i474232898/snowdesk/internal/resort"
	"github.com/i474232898/snowdesk/internal/scoring"
	"github.com/i474232898/snowdesk/internal/store"
)

// ErrNoRecords is returned when every source failed during a cycle.
// The previously published snapshot stays in place.
var ErrNoRecords = errors.New("refresh cycle produced no resort records")

// Store is the snapshot cell the service publishes into.
type Store interface {
	Publish(snap *store.Snapshot)
	Latest() (*store.Snapshot, error)
}

// Publisher receives every successfully published snapshot, e.g. to write it
// to disk or a message bus.
type Publisher interface {
	Name() string
	Publish(ctx context.Context, snap *store.Snapshot) error
}

// Options tunes a Service. Zero values fall back to defaults.
type Options struct {
	SourceTimeout   time.Duration
	ForecastTimeout time.Duration
	Clock           clockwork.Clock
	Publishers      []Publisher
}

// Service runs refresh cycles: fetch every source and forecast, rank, publish.
type Service struct {
	store      Store
	sources    []resort.Source
	forecasts  forecast.Provider
	publishers []Publisher

	sourceTimeout   time.Duration
	forecastTimeout time.Duration
	clock           clockwork.Clock

	logger  *zap.SugaredLogger
	metrics *observability.Metrics

	inflight singleflight.Group
}

// NewService creates a new Service. forecasts may be nil, in which case every
// resort is scored without a forecast.
func NewService(
	st Store,
	sources []resort.Source,
	forecasts forecast.Provider,
	logger *zap.SugaredLogger,
	metrics *observability.Metrics,
	opts Options,
) *Service {
	if opts.SourceTimeout <= 0 {
		opts.SourceTimeout = 30 * time.Second
	}
	if opts.ForecastTimeout <= 0 {
		opts.ForecastTimeout = 15 * time.Second
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}

	return &Service{
		store:           st,
		sources:         sources,
		forecasts:       forecasts,
		publishers:      opts.Publishers,
		sourceTimeout:   opts.SourceTimeout,
		forecastTimeout: opts.ForecastTimeout,
		clock:           opts.Clock,
		logger:          logger.With("component", "refresh"),
		metrics:         metrics,
	}
}

// Latest returns the current snapshot, or store.ErrNotReady before the first
// successful cycle.
func (s *Service) Latest() (*store.Snapshot, error) {
	return s.store.Latest()
}

// Refresh runs one cycle and returns the snapshot it published. Callers that
// arrive while a cycle is running share its result instead of starting another.
// The cycle is not cancelled when ctx is; each fetch is bounded by its own timeout.
func (s *Service) Refresh(ctx context.Context) (*store.Snapshot, error) {
	v, err, shared := s.inflight.Do("refresh", func() (interface{}, error) {
		return s.runCycle(context.WithoutCancel(ctx))
	})
	if shared {
		s.logger.Debug("joined in-flight refresh cycle")
	}
	if err != nil {
		return nil, err
	}
	return v.(*store.Snapshot), nil
}

func (s *Service) runCycle(ctx context.Context) (*store.Snapshot, error) {
	cycleID := uuid.NewString()
	log := s.logger.With("cycle_id", cycleID)
	start := s.clock.Now()

	log.Infow("refresh cycle started", "sources", len(s.sources))

	records := s.collectRecords(ctx, log)
	if len(records) == 0 {
		s.metrics.RefreshCycles.WithLabelValues("failure").Inc()
		log.Errorw("refresh cycle failed; keeping previous snapshot", "error", ErrNoRecords)
		return nil, ErrNoRecords
	}
	log.Infow("resort records collected", "ok", len(records), "failed", len(s.sources)-len(records))

	forecasts := s.collectForecasts(ctx, log, records)
	log.Infow("forecasts collected", "ok", len(forecasts), "missing", len(records)-len(forecasts))

	ranked := scoring.Rank(records, forecasts)
	snap := &store.Snapshot{
		Resorts:     ranked,
		LastUpdated: s.clock.Now().UTC(),
		Count:       len(ranked),
		CycleID:     cycleID,
	}
	s.store.Publish(snap)

	s.metrics.RefreshCycles.WithLabelValues("success").Inc()
	s.metrics.RefreshDuration.Observe(s.clock.Since(start).Seconds())
	s.metrics.ResortsRanked.Set(float64(snap.Count))
	s.metrics.LastSuccessSeconds.Set(float64(snap.LastUpdated.Unix()))

	for _, r := range ranked {
		log.Infow("resort ranked",
			"rank", r.Rank,
			"resort", r.Name,
			"score", r.Score,
			"grade", r.Grade,
			"best", r.IsBestToday,
		)
	}

	s.publish(ctx, log, snap)

	log.Infow("refresh cycle completed", "resorts", snap.Count, "elapsed", s.clock.Since(start))
	return snap, nil
}

// collectRecords fetches every source concurrently. Failed sources are logged
// and dropped. Records keep source order so ranking ties are deterministic.
func (s *Service) collectRecords(ctx context.Context, log *zap.SugaredLogger) []resort.Record {
	results := make([]*resort.Record, len(s.sources))

	var wg sync.WaitGroup
	for i, src := range s.sources {
		i, src := i, src
		wg.Add(1)
		go func() {
			defer wg.Done()

			rec, err := s.fetchSource(ctx, src)
			if err != nil {
				log.Warnw("source fetch failed; dropping from cycle", "source", src.Name(), "error", err)
				s.metrics.SourceFailures.WithLabelValues(src.Name()).Inc()
				return
			}
			results[i] = &rec
		}()
	}
	wg.Wait()

	seen := make(map[string]bool, len(results))
	records := make([]resort.Record, 0, len(results))
	for _, rec := range results {
		if rec == nil {
			continue
		}
		if seen[rec.Name] {
			log.Warnw("duplicate resort name; keeping first record", "resort", rec.Name)
			continue
		}
		seen[rec.Name] = true
		records = append(records, *rec)
	}
	return records
}

func (s *Service) fetchSource(ctx context.Context, src resort.Source) (resort.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, s.sourceTimeout)
	defer cancel()

	rec, err := withDeadline(ctx, src.Fetch)
	if err != nil {
		return resort.Record{}, fmt.Errorf("%w: %v", resort.ErrSourceUnavailable, err)
	}
	if err := resort.Validate(rec); err != nil {
		return resort.Record{}, err
	}
	if rec.LastUpdated.IsZero() {
		rec.LastUpdated = s.clock.Now().UTC()
	}
	return rec, nil
}

// withDeadline returns when fn does or when ctx is done, whichever comes
// first. A collaborator that ignores ctx is abandoned, not waited for.
func withDeadline[T any](ctx context.Context, fn func(context.Context) (T, error)) (T, error) {
	type result struct {
		v   T
		err error
	}
	done := make(chan result, 1)
	go func() {
		v, err := fn(ctx)
		done <- result{v: v, err: err}
	}()

	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case r := <-done:
		return r.v, r.err
	}
}

// collectForecasts fetches a forecast per resort concurrently. A resort whose
// forecast fails is simply absent from the returned map.
func (s *Service) collectForecasts(ctx context.Context, log *zap.SugaredLogger, records []resort.Record) map[string]forecast.Summary {
	out := make(map[string]forecast.Summary, len(records))
	if s.forecasts == nil {
		return out
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for _, rec := range records {
		rec := rec
		wg.Add(1)
		go func() {
			defer wg.Done()

			sum, err := s.fetchForecast(ctx, rec.Name)
			if err != nil {
				log.Warnw("forecast unavailable; scoring without it", "resort", rec.Name, "error", err)
				s.metrics.ForecastFailures.WithLabelValues(rec.Name).Inc()
				return
			}

			mu.Lock()
			out[rec.Name] = sum
			mu.Unlock()
		}()
	}
	wg.Wait()

	return out
}

func (s *Service) fetchForecast(ctx context.Context, name string) (forecast.Summary, error) {
	ctx, cancel := context.WithTimeout(ctx, s.forecastTimeout)
	defer cancel()

	series, err := withDeadline(ctx, func(ctx context.Context) (forecast.Series, error) {
		return s.forecasts.FetchForecast(ctx, name)
	})
	if err != nil {
		if errors.Is(err, forecast.ErrForecastUnavailable) {
			return forecast.Summary{}, err
		}
		return forecast.Summary{}, fmt.Errorf("%w: %v", forecast.ErrForecastUnavailable, err)
	}
	if series.Name != "" && series.Name != name {
		return forecast.Summary{}, fmt.Errorf("%w: requested %q, provider answered for %q",
			forecast.ErrForecastUnavailable, name, series.Name)
	}
	if err := series.Validate(); err != nil {
		return forecast.Summary{}, fmt.Errorf("%w: %v", forecast.ErrForecastUnavailable, err)
	}
	return forecast.Aggregate(series), nil
}

// publish hands the snapshot to every configured sink. Sink failures never
// undo the in-memory publish.
func (s *Service) publish(ctx context.Context, log *zap.SugaredLogger, snap *store.Snapshot) {
	for _, p := range s.publishers {
		if err := p.Publish(ctx, snap); err != nil {
			log.Errorw("snapshot publish failed", "sink", p.Name(), "error", err)
			s.metrics.PublishFailures.WithLabelValues(p.Name()).Inc()
		}
	}
}
