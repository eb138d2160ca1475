package usecase

import (
	"context"
	"time"

	"linklytics/internal/shortener/domain"
)

// Click is one stored click event, enriched.
type Click struct {
	ShortLinkID int64
	Timestamp   time.Time
	UserAgent   string
	IPAddress   string
	OSType      string
	DeviceType  string
	Country     string
	City        string
}

// DateCount is one calendar-date bucket (UTC, YYYY-MM-DD), ascending.
type DateCount struct {
	Date   string `json:"date"`
	Clicks int64  `json:"clicks"`
}

// GroupStat is one OS or device breakdown row.
type GroupStat struct {
	Name         string `json:"name"`
	UniqueClicks int64  `json:"uniqueClicks"`
	UniqueUsers  int64  `json:"uniqueUsers"`
}

// LinkTotals carries per-link click totals for the topic view.
type LinkTotals struct {
	ShortLinkID int64
	TotalClicks int64
	UniqueUsers int64
}

// ClickRepository is the persistence port for click events and their grouped
// aggregations. All read methods treat an empty id set as an empty result,
// and none of them mutates stored events.
type ClickRepository interface {
	Insert(ctx context.Context, click Click) error
	Totals(ctx context.Context, linkIDs []int64) (clicks, users int64, err error)
	// ClicksByDate buckets clicks by UTC calendar date, ascending. A zero
	// since means all-time.
	ClicksByDate(ctx context.Context, linkIDs []int64, since time.Time) ([]DateCount, error)
	BreakdownByOS(ctx context.Context, linkIDs []int64) ([]GroupStat, error)
	BreakdownByDevice(ctx context.Context, linkIDs []int64) ([]GroupStat, error)
	TotalsPerLink(ctx context.Context, linkIDs []int64) ([]LinkTotals, error)
}

// LinkDirectory is the read-only view of short links the aggregator needs.
type LinkDirectory interface {
	FindByAlias(ctx context.Context, alias string) (*domain.ShortLink, error)
	FindByTopic(ctx context.Context, topic string) ([]*domain.ShortLink, error)
	FindByOwner(ctx context.Context, ownerID string) ([]*domain.ShortLink, error)
}

// ViewCache caches computed analytics views for a short period. Misses and
// infrastructure errors both report false; Set is best-effort.
type ViewCache interface {
	Get(ctx context.Context, key string, out any) bool
	Set(ctx context.Context, key string, view any)
}
