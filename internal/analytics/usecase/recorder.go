package usecase

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"linklytics/internal/analytics/enrichment"
	"linklytics/internal/shared/events"
)

const insertTimeout = 5 * time.Second

// ClickRecorder ingests resolution events and persists enriched click rows.
//
// Record never blocks the redirect path: events pass through a buffered
// channel and are dropped (with a log line) when the buffer is full. Worker
// failures are logged and swallowed; telemetry loss never reaches the
// caller.
type ClickRecorder struct {
	repo      ClickRepository
	ua        *enrichment.UserAgentParser
	geo       enrichment.GeoResolver
	logger    *zap.Logger
	queue     chan events.ClickEvent
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewClickRecorder starts the worker pool. workers and buffer fall back to
// sane defaults when non-positive.
func NewClickRecorder(repo ClickRepository, geo enrichment.GeoResolver, logger *zap.Logger, workers, buffer int) *ClickRecorder {
	if workers <= 0 {
		workers = 4
	}
	if buffer <= 0 {
		buffer = 1024
	}

	r := &ClickRecorder{
		repo:   repo,
		ua:     enrichment.NewUserAgentParser(),
		geo:    geo,
		logger: logger,
		queue:  make(chan events.ClickEvent, buffer),
	}

	r.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go r.worker()
	}
	return r
}

// Record hands a click off for asynchronous persistence.
func (r *ClickRecorder) Record(event events.ClickEvent) {
	select {
	case r.queue <- event:
	default:
		r.logger.Warn("click queue full, dropping event",
			zap.Int64("short_link_id", event.ShortLinkID))
	}
}

// Close stops intake and waits for queued events to drain.
func (r *ClickRecorder) Close() {
	r.closeOnce.Do(func() { close(r.queue) })
	r.wg.Wait()
}

func (r *ClickRecorder) worker() {
	defer r.wg.Done()
	for event := range r.queue {
		r.persist(event)
	}
}

func (r *ClickRecorder) persist(event events.ClickEvent) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("click recording panicked", zap.Any("panic", rec))
		}
	}()

	osType, deviceType := r.ua.Parse(event.UserAgent)

	click := Click{
		ShortLinkID: event.ShortLinkID,
		Timestamp:   event.Timestamp,
		UserAgent:   event.UserAgent,
		IPAddress:   event.IPAddress,
		OSType:      osType,
		DeviceType:  deviceType,
	}

	// Geolocation is optional; a failed lookup leaves it empty.
	if loc, ok := r.geo.Lookup(event.IPAddress); ok {
		click.Country = loc.Country
		click.City = loc.City
	}

	ctx, cancel := context.WithTimeout(context.Background(), insertTimeout)
	defer cancel()

	if err := r.repo.Insert(ctx, click); err != nil {
		r.logger.Warn("failed to persist click",
			zap.Int64("short_link_id", event.ShortLinkID),
			zap.Error(err),
		)
	}
}
