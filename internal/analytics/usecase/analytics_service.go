package usecase

import (
	"context"
	"time"

	"github.com/samber/lo"

	"linklytics/internal/shortener/domain"
)

const recentWindow = 7 * 24 * time.Hour

// LinkAnalytics is the per-alias view.
type LinkAnalytics struct {
	TotalClicks     int64       `json:"totalClicks"`
	UniqueUsers     int64       `json:"uniqueUsers"`
	ClicksByDate    []DateCount `json:"clicksByDate"`
	OSBreakdown     []GroupStat `json:"osType"`
	DeviceBreakdown []GroupStat `json:"deviceType"`
}

// TopicURLStats is one per-link row of the topic view.
type TopicURLStats struct {
	Alias       string `json:"alias"`
	TotalClicks int64  `json:"totalClicks"`
	UniqueUsers int64  `json:"uniqueUsers"`
}

// TopicAnalytics is the per-topic view. ClicksByDate is all-time here.
type TopicAnalytics struct {
	TotalClicks  int64           `json:"totalClicks"`
	UniqueUsers  int64           `json:"uniqueUsers"`
	ClicksByDate []DateCount     `json:"clicksByDate"`
	URLs         []TopicURLStats `json:"urls"`
}

// OverallAnalytics is the per-owner view.
type OverallAnalytics struct {
	TotalURLs       int64       `json:"totalUrls"`
	TotalClicks     int64       `json:"totalClicks"`
	UniqueUsers     int64       `json:"uniqueUsers"`
	ClicksByDate    []DateCount `json:"clicksByDate"`
	OSBreakdown     []GroupStat `json:"osType"`
	DeviceBreakdown []GroupStat `json:"deviceType"`
}

// AnalyticsService computes the per-alias, per-topic, and per-owner views.
// All views are pure reads over the click store; computed views are cached
// briefly, and cache failures degrade to recomputation.
type AnalyticsService struct {
	links  LinkDirectory
	clicks ClickRepository
	cache  ViewCache
	now    func() time.Time
}

// NewAnalyticsService creates a new AnalyticsService.
func NewAnalyticsService(links LinkDirectory, clicks ClickRepository, cache ViewCache) *AnalyticsService {
	return &AnalyticsService{
		links:  links,
		clicks: clicks,
		cache:  cache,
		now:    time.Now,
	}
}

// LinkAnalytics returns click statistics for a single alias. The date
// buckets cover the trailing seven days; totals are all-time.
func (s *AnalyticsService) LinkAnalytics(ctx context.Context, alias string) (*LinkAnalytics, error) {
	key := "analytics:alias:" + alias
	var cached LinkAnalytics
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	link, err := s.links.FindByAlias(ctx, alias)
	if err != nil {
		return nil, err
	}

	view, err := s.aggregate(ctx, []int64{link.ID})
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, key, view)
	return view, nil
}

// TopicAnalytics returns click statistics across all links tagged with a
// topic. An unknown topic yields an all-zero view, not an error.
func (s *AnalyticsService) TopicAnalytics(ctx context.Context, topic string) (*TopicAnalytics, error) {
	key := "analytics:topic:" + topic
	var cached TopicAnalytics
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	links, err := s.links.FindByTopic(ctx, topic)
	if err != nil {
		return nil, err
	}
	ids := linkIDs(links)

	totalClicks, uniqueUsers, err := s.clicks.Totals(ctx, ids)
	if err != nil {
		return nil, err
	}

	byDate, err := s.clicks.ClicksByDate(ctx, ids, time.Time{})
	if err != nil {
		return nil, err
	}

	perLink, err := s.clicks.TotalsPerLink(ctx, ids)
	if err != nil {
		return nil, err
	}
	totalsByID := lo.SliceToMap(perLink, func(t LinkTotals) (int64, LinkTotals) {
		return t.ShortLinkID, t
	})

	urls := lo.Map(links, func(link *domain.ShortLink, _ int) TopicURLStats {
		totals := totalsByID[link.ID]
		return TopicURLStats{
			Alias:       link.Alias,
			TotalClicks: totals.TotalClicks,
			UniqueUsers: totals.UniqueUsers,
		}
	})

	view := &TopicAnalytics{
		TotalClicks:  totalClicks,
		UniqueUsers:  uniqueUsers,
		ClicksByDate: byDate,
		URLs:         urls,
	}
	s.cache.Set(ctx, key, view)
	return view, nil
}

// OverallAnalytics aggregates across every link owned by a principal.
func (s *AnalyticsService) OverallAnalytics(ctx context.Context, ownerID string) (*OverallAnalytics, error) {
	key := "analytics:owner:" + ownerID
	var cached OverallAnalytics
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	links, err := s.links.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	agg, err := s.aggregate(ctx, linkIDs(links))
	if err != nil {
		return nil, err
	}

	view := &OverallAnalytics{
		TotalURLs:       int64(len(links)),
		TotalClicks:     agg.TotalClicks,
		UniqueUsers:     agg.UniqueUsers,
		ClicksByDate:    agg.ClicksByDate,
		OSBreakdown:     agg.OSBreakdown,
		DeviceBreakdown: agg.DeviceBreakdown,
	}
	s.cache.Set(ctx, key, view)
	return view, nil
}

func (s *AnalyticsService) aggregate(ctx context.Context, ids []int64) (*LinkAnalytics, error) {
	totalClicks, uniqueUsers, err := s.clicks.Totals(ctx, ids)
	if err != nil {
		return nil, err
	}

	byDate, err := s.clicks.ClicksByDate(ctx, ids, s.now().Add(-recentWindow))
	if err != nil {
		return nil, err
	}

	byOS, err := s.clicks.BreakdownByOS(ctx, ids)
	if err != nil {
		return nil, err
	}

	byDevice, err := s.clicks.BreakdownByDevice(ctx, ids)
	if err != nil {
		return nil, err
	}

	return &LinkAnalytics{
		TotalClicks:     totalClicks,
		UniqueUsers:     uniqueUsers,
		ClicksByDate:    byDate,
		OSBreakdown:     byOS,
		DeviceBreakdown: byDevice,
	}, nil
}

func linkIDs(links []*domain.ShortLink) []int64 {
	return lo.Map(links, func(link *domain.ShortLink, _ int) int64 { return link.ID })
}
