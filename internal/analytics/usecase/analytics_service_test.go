package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"linklytics/internal/shortener/domain"
)

type mockLinkDirectory struct {
	mock.Mock
}

func (m *mockLinkDirectory) FindByAlias(ctx context.Context, alias string) (*domain.ShortLink, error) {
	args := m.Called(ctx, alias)
	if link := args.Get(0); link != nil {
		return link.(*domain.ShortLink), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockLinkDirectory) FindByTopic(ctx context.Context, topic string) ([]*domain.ShortLink, error) {
	args := m.Called(ctx, topic)
	return args.Get(0).([]*domain.ShortLink), args.Error(1)
}

func (m *mockLinkDirectory) FindByOwner(ctx context.Context, ownerID string) ([]*domain.ShortLink, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]*domain.ShortLink), args.Error(1)
}

type mockClickRepository struct {
	mock.Mock
}

func (m *mockClickRepository) Insert(ctx context.Context, click Click) error {
	return m.Called(ctx, click).Error(0)
}

func (m *mockClickRepository) Totals(ctx context.Context, linkIDs []int64) (int64, int64, error) {
	args := m.Called(ctx, linkIDs)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

func (m *mockClickRepository) ClicksByDate(ctx context.Context, linkIDs []int64, since time.Time) ([]DateCount, error) {
	args := m.Called(ctx, linkIDs, since)
	return args.Get(0).([]DateCount), args.Error(1)
}

func (m *mockClickRepository) BreakdownByOS(ctx context.Context, linkIDs []int64) ([]GroupStat, error) {
	args := m.Called(ctx, linkIDs)
	return args.Get(0).([]GroupStat), args.Error(1)
}

func (m *mockClickRepository) BreakdownByDevice(ctx context.Context, linkIDs []int64) ([]GroupStat, error) {
	args := m.Called(ctx, linkIDs)
	return args.Get(0).([]GroupStat), args.Error(1)
}

func (m *mockClickRepository) TotalsPerLink(ctx context.Context, linkIDs []int64) ([]LinkTotals, error) {
	args := m.Called(ctx, linkIDs)
	return args.Get(0).([]LinkTotals), args.Error(1)
}

// mapViewCache is a real in-memory ViewCache for cache-path tests.
type mapViewCache struct {
	entries map[string]any
}

func newMapViewCache() *mapViewCache {
	return &mapViewCache{entries: make(map[string]any)}
}

func (c *mapViewCache) Get(_ context.Context, key string, out any) bool {
	view, ok := c.entries[key]
	if !ok {
		return false
	}
	switch typed := out.(type) {
	case *LinkAnalytics:
		*typed = *view.(*LinkAnalytics)
	case *TopicAnalytics:
		*typed = *view.(*TopicAnalytics)
	case *OverallAnalytics:
		*typed = *view.(*OverallAnalytics)
	default:
		return false
	}
	return true
}

func (c *mapViewCache) Set(_ context.Context, key string, view any) {
	c.entries[key] = view
}

type noCache struct{}

func (noCache) Get(context.Context, string, any) bool { return false }
func (noCache) Set(context.Context, string, any)      {}

var fixedNow = time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

func newAnalyticsService(links LinkDirectory, clicks ClickRepository, cache ViewCache) *AnalyticsService {
	svc := NewAnalyticsService(links, clicks, cache)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestAnalyticsService_LinkAnalytics(t *testing.T) {
	ctx := context.Background()

	t.Run("shapes per-alias view with seven day date window", func(t *testing.T) {
		links := new(mockLinkDirectory)
		clicks := new(mockClickRepository)
		svc := newAnalyticsService(links, clicks, noCache{})

		links.On("FindByAlias", ctx, "abc").Return(&domain.ShortLink{ID: 5, Alias: "abc"}, nil)
		clicks.On("Totals", ctx, []int64{5}).Return(int64(120), int64(40), nil)
		clicks.On("ClicksByDate", ctx, []int64{5}, fixedNow.Add(-recentWindow)).
			Return([]DateCount{{Date: "2026-08-14", Clicks: 70}, {Date: "2026-08-15", Clicks: 50}}, nil)
		clicks.On("BreakdownByOS", ctx, []int64{5}).
			Return([]GroupStat{{Name: "iOS", UniqueClicks: 80, UniqueUsers: 25}}, nil)
		clicks.On("BreakdownByDevice", ctx, []int64{5}).
			Return([]GroupStat{{Name: "Mobile", UniqueClicks: 90, UniqueUsers: 30}}, nil)

		view, err := svc.LinkAnalytics(ctx, "abc")
		require.NoError(t, err)
		assert.Equal(t, int64(120), view.TotalClicks)
		assert.Equal(t, int64(40), view.UniqueUsers)
		assert.Len(t, view.ClicksByDate, 2)
		assert.Equal(t, "iOS", view.OSBreakdown[0].Name)
		assert.Equal(t, "Mobile", view.DeviceBreakdown[0].Name)
		clicks.AssertExpectations(t)
	})

	t.Run("unknown alias propagates not found", func(t *testing.T) {
		links := new(mockLinkDirectory)
		clicks := new(mockClickRepository)
		svc := newAnalyticsService(links, clicks, noCache{})

		links.On("FindByAlias", ctx, "missing").Return(nil, domain.ErrLinkNotFound)

		_, err := svc.LinkAnalytics(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrLinkNotFound)
	})

	t.Run("cached view skips both stores", func(t *testing.T) {
		links := new(mockLinkDirectory)
		clicks := new(mockClickRepository)
		cache := newMapViewCache()
		svc := newAnalyticsService(links, clicks, cache)

		cache.Set(ctx, "analytics:alias:abc", &LinkAnalytics{TotalClicks: 9})

		view, err := svc.LinkAnalytics(ctx, "abc")
		require.NoError(t, err)
		assert.Equal(t, int64(9), view.TotalClicks)
		links.AssertNotCalled(t, "FindByAlias", mock.Anything, mock.Anything)
		clicks.AssertNotCalled(t, "Totals", mock.Anything, mock.Anything)
	})
}

func TestAnalyticsService_TopicAnalytics(t *testing.T) {
	ctx := context.Background()

	t.Run("shapes per-topic view with all-time dates and per-link rows", func(t *testing.T) {
		links := new(mockLinkDirectory)
		clicks := new(mockClickRepository)
		svc := newAnalyticsService(links, clicks, noCache{})

		topicLinks := []*domain.ShortLink{
			{ID: 1, Alias: "a1"},
			{ID: 2, Alias: "a2"},
		}
		links.On("FindByTopic", ctx, "launch").Return(topicLinks, nil)
		clicks.On("Totals", ctx, []int64{1, 2}).Return(int64(30), int64(12), nil)
		clicks.On("ClicksByDate", ctx, []int64{1, 2}, time.Time{}).
			Return([]DateCount{{Date: "2026-07-01", Clicks: 30}}, nil)
		clicks.On("TotalsPerLink", ctx, []int64{1, 2}).
			Return([]LinkTotals{{ShortLinkID: 2, TotalClicks: 20, UniqueUsers: 8}}, nil)

		view, err := svc.TopicAnalytics(ctx, "launch")
		require.NoError(t, err)
		assert.Equal(t, int64(30), view.TotalClicks)
		require.Len(t, view.URLs, 2)

		// Rows follow link order; a link with no clicks reports zeros.
		assert.Equal(t, TopicURLStats{Alias: "a1"}, view.URLs[0])
		assert.Equal(t, TopicURLStats{Alias: "a2", TotalClicks: 20, UniqueUsers: 8}, view.URLs[1])
	})

	t.Run("unknown topic yields zero view", func(t *testing.T) {
		links := new(mockLinkDirectory)
		clicks := new(mockClickRepository)
		svc := newAnalyticsService(links, clicks, noCache{})

		links.On("FindByTopic", ctx, "ghost").Return([]*domain.ShortLink{}, nil)
		clicks.On("Totals", ctx, []int64{}).Return(int64(0), int64(0), nil)
		clicks.On("ClicksByDate", ctx, []int64{}, time.Time{}).Return([]DateCount{}, nil)
		clicks.On("TotalsPerLink", ctx, []int64{}).Return([]LinkTotals{}, nil)

		view, err := svc.TopicAnalytics(ctx, "ghost")
		require.NoError(t, err)
		assert.Zero(t, view.TotalClicks)
		assert.Empty(t, view.URLs)
		assert.NotNil(t, view.URLs)
	})
}

func TestAnalyticsService_OverallAnalytics(t *testing.T) {
	ctx := context.Background()

	t.Run("aggregates across all owned links", func(t *testing.T) {
		links := new(mockLinkDirectory)
		clicks := new(mockClickRepository)
		svc := newAnalyticsService(links, clicks, noCache{})

		owned := []*domain.ShortLink{{ID: 1, Alias: "a"}, {ID: 2, Alias: "b"}, {ID: 3, Alias: "c"}}
		links.On("FindByOwner", ctx, "user-1").Return(owned, nil)
		clicks.On("Totals", ctx, []int64{1, 2, 3}).Return(int64(200), int64(77), nil)
		clicks.On("ClicksByDate", ctx, []int64{1, 2, 3}, fixedNow.Add(-recentWindow)).
			Return([]DateCount{}, nil)
		clicks.On("BreakdownByOS", ctx, []int64{1, 2, 3}).Return([]GroupStat{}, nil)
		clicks.On("BreakdownByDevice", ctx, []int64{1, 2, 3}).Return([]GroupStat{}, nil)

		view, err := svc.OverallAnalytics(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, int64(3), view.TotalURLs)
		assert.Equal(t, int64(200), view.TotalClicks)
		assert.Equal(t, int64(77), view.UniqueUsers)
	})

	t.Run("repeated reads are served from cache", func(t *testing.T) {
		links := new(mockLinkDirectory)
		clicks := new(mockClickRepository)
		svc := newAnalyticsService(links, clicks, newMapViewCache())

		links.On("FindByOwner", ctx, "user-1").Return([]*domain.ShortLink{{ID: 1}}, nil).Once()
		clicks.On("Totals", ctx, []int64{1}).Return(int64(5), int64(2), nil).Once()
		clicks.On("ClicksByDate", ctx, []int64{1}, mock.Anything).Return([]DateCount{}, nil).Once()
		clicks.On("BreakdownByOS", ctx, []int64{1}).Return([]GroupStat{}, nil).Once()
		clicks.On("BreakdownByDevice", ctx, []int64{1}).Return([]GroupStat{}, nil).Once()

		first, err := svc.OverallAnalytics(ctx, "user-1")
		require.NoError(t, err)

		second, err := svc.OverallAnalytics(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, first, second)
		clicks.AssertExpectations(t)
	})
}
