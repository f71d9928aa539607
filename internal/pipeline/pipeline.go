package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/couchcryptid/storm-data-shared/retry"
	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/hail-damage-service/internal/domain"
	"github.com/couchcryptid/hail-damage-service/internal/observability"
)

// Publishing retries a failed batch with doubling backoff.
const (
	publishAttempts   = 3
	publishBackoff    = 200 * time.Millisecond
	publishMaxBackoff = 2 * time.Second
)

// ErrMonitorBusy is returned when a monitoring pass is requested while
// another one is still running.
var ErrMonitorBusy = errors.New("monitoring pass already running")

// ErrInvalidRange is returned for malformed or inverted date ranges.
var ErrInvalidRange = errors.New("invalid date range")

// Extractor asks the text-generation model for hail reports.
type Extractor interface {
	ExtractReports(ctx context.Context, p domain.Prompt) ([]domain.Report, error)
	SearchPeriod(ctx context.Context, p domain.Prompt) (domain.PeriodSearch, error)
}

// Transformer converts a model report into a hail history record.
type Transformer interface {
	Transform(ctx context.Context, r domain.Report) (domain.HailEvent, error)
}

// EventStore persists hail history.
type EventStore interface {
	Exists(ctx context.Context, date, city string, sizeMM float64) (bool, error)
	Insert(ctx context.Context, event domain.HailEvent) error
}

// BatchLoader publishes newly inserted events downstream.
type BatchLoader interface {
	LoadBatch(ctx context.Context, events []domain.HailEvent) error
}

type pinger interface {
	Ping(ctx context.Context) error
}

// Result summarizes one monitoring pass.
type Result struct {
	Success        bool             `json:"success"`
	EventsFound    int              `json:"events_found"`
	EventsInserted int              `json:"events_inserted"`
	Errors         []string         `json:"errors"`
	LastCheck      time.Time        `json:"last_check"`
	ErrorKind      domain.ErrorKind `json:"error_kind,omitempty"`
}

func (r *Result) fail(err error) {
	r.ErrorKind = domain.Classify(err)
	r.Errors = append(r.Errors, err.Error())
}

// Config holds the monitor schedule.
type Config struct {
	// Interval between scheduled passes. Zero disables the schedule.
	Interval time.Duration
	// Lookback is the window covered by a scheduled pass.
	Lookback time.Duration
	Clock    clockwork.Clock
}

// Pipeline runs hail monitoring passes: ask the model for reports, normalize
// and enrich them, skip known events, store the rest and publish them.
type Pipeline struct {
	extractor   Extractor
	transformer Transformer
	store       EventStore
	loader      BatchLoader
	logger      *slog.Logger
	metrics     *observability.Metrics
	clock       clockwork.Clock
	interval    time.Duration
	lookback    time.Duration
	mu          sync.Mutex
}

// New creates a Pipeline. A nil extractor or store makes every pass report a
// configuration error; a nil loader disables publishing.
func New(e Extractor, t Transformer, s EventStore, l BatchLoader, logger *slog.Logger, metrics *observability.Metrics, cfg Config) *Pipeline {
	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	lookback := cfg.Lookback
	if lookback <= 0 {
		lookback = 24 * time.Hour
	}
	return &Pipeline{
		extractor:   e,
		transformer: t,
		store:       s,
		loader:      l,
		logger:      logger,
		metrics:     metrics,
		clock:       clock,
		interval:    cfg.Interval,
		lookback:    lookback,
	}
}

// CheckReadiness pings the history store when one is configured.
func (p *Pipeline) CheckReadiness(ctx context.Context) error {
	if pg, ok := p.store.(pinger); ok {
		if err := pg.Ping(ctx); err != nil {
			return fmt.Errorf("hail history: %w", err)
		}
	}
	return nil
}

// MonitorRecent runs one pass over the lookback window ending now.
func (p *Pipeline) MonitorRecent(ctx context.Context) (Result, error) {
	since := p.clock.Now().Add(-p.lookback).UTC().Format(domain.DateLayout)
	return p.runPass(ctx, "recent", recentPrompt(since), false)
}

// SearchRange runs one pass over [start, end], optionally limited to a region.
func (p *Pipeline) SearchRange(ctx context.Context, start, end, region string) (Result, error) {
	if err := validateRange(start, end); err != nil {
		return Result{}, err
	}
	return p.runPass(ctx, "range", rangePrompt(start, end, region), true)
}

// SearchPeriod asks for a narrative summary of hail events in [start, end].
// Nothing is persisted.
func (p *Pipeline) SearchPeriod(ctx context.Context, start, end, language string) (domain.PeriodSearch, error) {
	if err := validateRange(start, end); err != nil {
		return domain.PeriodSearch{}, err
	}
	if p.extractor == nil {
		return domain.PeriodSearch{}, fmt.Errorf("text generation: %w", domain.ErrNotConfigured)
	}
	out, err := p.extractor.SearchPeriod(ctx, periodPrompt(start, end, language))
	if err != nil {
		return domain.PeriodSearch{}, fmt.Errorf("period search: %w", err)
	}
	return out, nil
}

// Run executes scheduled passes until the context is cancelled. The first
// pass starts immediately. A zero interval returns at once.
func (p *Pipeline) Run(ctx context.Context) error {
	if p.interval <= 0 {
		p.logger.Info("scheduled monitoring disabled")
		return nil
	}
	p.logger.Info("monitor started", "interval", p.interval, "lookback", p.lookback)
	p.metrics.MonitorScheduled.Set(1)
	defer p.metrics.MonitorScheduled.Set(0)

	ticker := p.clock.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		p.scheduledPass(ctx)

		select {
		case <-ctx.Done():
			p.logger.Info("monitor stopping", "reason", ctx.Err())
			return nil
		case <-ticker.Chan():
		}
	}
}

func (p *Pipeline) scheduledPass(ctx context.Context) {
	res, err := p.MonitorRecent(ctx)
	if err != nil {
		p.logger.Warn("scheduled monitoring skipped", "error", err)
		return
	}
	if !res.Success {
		p.logger.Warn("scheduled monitoring failed",
			"error_kind", res.ErrorKind,
			"errors", res.Errors,
		)
	}
}

func (p *Pipeline) runPass(ctx context.Context, mode string, prompt domain.Prompt, rangePass bool) (Result, error) {
	if !p.mu.TryLock() {
		return Result{}, ErrMonitorBusy
	}
	defer p.mu.Unlock()

	start := p.clock.Now()
	res := Result{Errors: []string{}, LastCheck: start.UTC()}
	defer func() {
		p.metrics.MonitorRunDuration.Observe(p.clock.Since(start).Seconds())
		p.metrics.MonitorRuns.WithLabelValues(mode, outcome(res)).Inc()
		p.logger.Info("monitoring pass finished",
			"mode", mode,
			"success", res.Success,
			"events_found", res.EventsFound,
			"events_inserted", res.EventsInserted,
			"errors", len(res.Errors),
		)
	}()

	if p.store == nil {
		res.fail(fmt.Errorf("hail history: %w", domain.ErrNotConfigured))
		return res, nil
	}
	if p.extractor == nil {
		res.fail(fmt.Errorf("text generation: %w", domain.ErrNotConfigured))
		return res, nil
	}

	reports, err := p.extractor.ExtractReports(ctx, prompt)
	if err != nil {
		res.fail(fmt.Errorf("extract reports: %w", err))
		return res, nil
	}
	res.EventsFound = len(reports)
	p.metrics.EventsFound.Add(float64(len(reports)))

	inserted := p.storeReports(ctx, reports, &res)
	p.publish(ctx, inserted, &res)

	if rangePass {
		res.Success = res.ErrorKind == ""
	} else {
		res.Success = res.EventsInserted > 0 || res.EventsFound == 0
	}
	return res, nil
}

// storeReports inserts every report not already in history. Single-event
// failures are recorded and skipped; store-wide failures stop the loop.
func (p *Pipeline) storeReports(ctx context.Context, reports []domain.Report, res *Result) []domain.HailEvent {
	seen := make(map[string]struct{}, len(reports))
	inserted := make([]domain.HailEvent, 0, len(reports))

	for _, r := range reports {
		if ctx.Err() != nil {
			res.fail(ctx.Err())
			break
		}

		event, err := p.transformer.Transform(ctx, r)
		if err != nil {
			p.logger.Warn("transform failed, skipping report", "error", err, "city", r.City, "date", r.Date)
			p.metrics.EventErrors.Inc()
			res.Errors = append(res.Errors, fmt.Sprintf("report %s/%s: %v", r.Date, placeName(r), err))
			continue
		}

		if _, dup := seen[event.ID]; dup {
			p.metrics.EventsDuplicate.Inc()
			continue
		}
		seen[event.ID] = struct{}{}

		exists, err := p.store.Exists(ctx, event.Date, event.City, event.HailSizeMM)
		if err == nil && exists {
			p.metrics.EventsDuplicate.Inc()
			continue
		}
		if err == nil {
			err = p.store.Insert(ctx, event)
		}
		if err != nil {
			p.metrics.EventErrors.Inc()
			res.Errors = append(res.Errors, fmt.Sprintf("insert event in %s: %v", event.City, err))
			if kind := domain.Classify(err); storeWide(kind) {
				p.logger.Error("history store unavailable, aborting pass", "error", err, "error_kind", kind)
				res.ErrorKind = kind
				break
			}
			p.logger.Warn("insert failed, skipping event", "error", err, "event_id", event.ID)
			continue
		}

		res.EventsInserted++
		p.metrics.EventsInserted.Inc()
		inserted = append(inserted, event)
	}
	return inserted
}

func (p *Pipeline) publish(ctx context.Context, events []domain.HailEvent, res *Result) {
	if p.loader == nil || len(events) == 0 {
		return
	}
	backoff := publishBackoff
	var err error
	for attempt := 1; attempt <= publishAttempts; attempt++ {
		if err = p.loader.LoadBatch(ctx, events); err == nil {
			p.metrics.EventsPublished.Add(float64(len(events)))
			return
		}
		p.logger.Warn("publish events failed", "error", err, "attempt", attempt, "batch_size", len(events))
		if attempt == publishAttempts || !retry.SleepWithContext(ctx, backoff) {
			break
		}
		backoff = retry.NextBackoff(backoff, publishMaxBackoff)
	}
	p.logger.Error("publish events gave up", "error", err, "batch_size", len(events))
	res.Errors = append(res.Errors, fmt.Sprintf("publish events: %v", err))
}

func storeWide(kind domain.ErrorKind) bool {
	switch kind {
	case domain.KindConfigMissing, domain.KindTableNotFound, domain.KindAuth, domain.KindNetwork:
		return true
	}
	return false
}

func outcome(r Result) string {
	switch {
	case r.ErrorKind != "":
		return "error"
	case !r.Success || len(r.Errors) > 0:
		return "partial"
	default:
		return "success"
	}
}

func placeName(r domain.Report) string {
	if r.City != "" {
		return r.City
	}
	return r.Location
}

func validateRange(start, end string) error {
	s, err := time.Parse(domain.DateLayout, start)
	if err != nil {
		return fmt.Errorf("%w: start_date %q", ErrInvalidRange, start)
	}
	e, err := time.Parse(domain.DateLayout, end)
	if err != nil {
		return fmt.Errorf("%w: end_date %q", ErrInvalidRange, end)
	}
	if e.Before(s) {
		return fmt.Errorf("%w: end_date before start_date", ErrInvalidRange)
	}
	return nil
}
