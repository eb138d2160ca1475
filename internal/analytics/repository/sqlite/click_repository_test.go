package sqlite

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linklytics/internal/analytics/usecase"
	"linklytics/internal/database"
)

var baseTime = time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.RunMigrations(db))
	return db
}

func insertClick(t *testing.T, repo *ClickRepository, linkID int64, ts time.Time, ip, osType, deviceType string) {
	t.Helper()
	require.NoError(t, repo.Insert(context.Background(), usecase.Click{
		ShortLinkID: linkID,
		Timestamp:   ts,
		UserAgent:   "test-agent",
		IPAddress:   ip,
		OSType:      osType,
		DeviceType:  deviceType,
	}))
}

func TestClickRepository_Totals(t *testing.T) {
	ctx := context.Background()
	repo := NewClickRepository(newTestDB(t))

	insertClick(t, repo, 1, baseTime, "10.0.0.1", "iOS", "Mobile")
	insertClick(t, repo, 1, baseTime, "10.0.0.1", "iOS", "Mobile")
	insertClick(t, repo, 1, baseTime, "10.0.0.2", "Windows", "Desktop")
	insertClick(t, repo, 2, baseTime, "10.0.0.3", "Android", "Mobile")

	clicks, users, err := repo.Totals(ctx, []int64{1})
	require.NoError(t, err)
	assert.Equal(t, int64(3), clicks)
	assert.Equal(t, int64(2), users, "repeat visits from one address count once")

	clicks, users, err = repo.Totals(ctx, []int64{1, 2})
	require.NoError(t, err)
	assert.Equal(t, int64(4), clicks)
	assert.Equal(t, int64(3), users)
}

func TestClickRepository_TotalsEmptyIDs(t *testing.T) {
	repo := NewClickRepository(newTestDB(t))

	clicks, users, err := repo.Totals(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, clicks)
	assert.Zero(t, users)
}

func TestClickRepository_ClicksByDate(t *testing.T) {
	ctx := context.Background()
	repo := NewClickRepository(newTestDB(t))

	insertClick(t, repo, 1, baseTime.AddDate(0, 0, -8), "10.0.0.1", "iOS", "Mobile")
	insertClick(t, repo, 1, baseTime.AddDate(0, 0, -1), "10.0.0.2", "iOS", "Mobile")
	insertClick(t, repo, 1, baseTime.AddDate(0, 0, -1), "10.0.0.3", "iOS", "Mobile")
	insertClick(t, repo, 1, baseTime, "10.0.0.4", "iOS", "Mobile")

	t.Run("windowed read excludes older clicks", func(t *testing.T) {
		buckets, err := repo.ClicksByDate(ctx, []int64{1}, baseTime.AddDate(0, 0, -7))
		require.NoError(t, err)
		require.Len(t, buckets, 2)
		assert.Equal(t, usecase.DateCount{Date: "2026-08-14", Clicks: 2}, buckets[0])
		assert.Equal(t, usecase.DateCount{Date: "2026-08-15", Clicks: 1}, buckets[1])
	})

	t.Run("old clicks still count toward totals", func(t *testing.T) {
		clicks, _, err := repo.Totals(ctx, []int64{1})
		require.NoError(t, err)
		assert.Equal(t, int64(4), clicks)
	})

	t.Run("zero since means all-time", func(t *testing.T) {
		buckets, err := repo.ClicksByDate(ctx, []int64{1}, time.Time{})
		require.NoError(t, err)
		require.Len(t, buckets, 3)
		assert.Equal(t, "2026-08-07", buckets[0].Date)
	})

	t.Run("empty id set yields empty non-nil slice", func(t *testing.T) {
		buckets, err := repo.ClicksByDate(ctx, nil, time.Time{})
		require.NoError(t, err)
		assert.NotNil(t, buckets)
		assert.Empty(t, buckets)
	})
}

func TestClickRepository_Breakdowns(t *testing.T) {
	ctx := context.Background()
	repo := NewClickRepository(newTestDB(t))

	insertClick(t, repo, 1, baseTime, "10.0.0.1", "iOS", "Mobile")
	insertClick(t, repo, 1, baseTime, "10.0.0.1", "iOS", "Mobile")
	insertClick(t, repo, 1, baseTime, "10.0.0.2", "Windows", "Desktop")

	t.Run("by os", func(t *testing.T) {
		stats, err := repo.BreakdownByOS(ctx, []int64{1})
		require.NoError(t, err)
		require.Len(t, stats, 2)
		assert.Equal(t, usecase.GroupStat{Name: "Windows", UniqueClicks: 1, UniqueUsers: 1}, stats[0])
		assert.Equal(t, usecase.GroupStat{Name: "iOS", UniqueClicks: 2, UniqueUsers: 1}, stats[1])
	})

	t.Run("by device", func(t *testing.T) {
		stats, err := repo.BreakdownByDevice(ctx, []int64{1})
		require.NoError(t, err)
		require.Len(t, stats, 2)
		assert.Equal(t, usecase.GroupStat{Name: "Desktop", UniqueClicks: 1, UniqueUsers: 1}, stats[0])
		assert.Equal(t, usecase.GroupStat{Name: "Mobile", UniqueClicks: 2, UniqueUsers: 1}, stats[1])
	})
}

func TestClickRepository_TotalsPerLink(t *testing.T) {
	ctx := context.Background()
	repo := NewClickRepository(newTestDB(t))

	insertClick(t, repo, 1, baseTime, "10.0.0.1", "iOS", "Mobile")
	insertClick(t, repo, 1, baseTime, "10.0.0.2", "iOS", "Mobile")
	insertClick(t, repo, 2, baseTime, "10.0.0.1", "iOS", "Mobile")

	totals, err := repo.TotalsPerLink(ctx, []int64{1, 2, 3})
	require.NoError(t, err)
	require.Len(t, totals, 2, "links with no clicks have no row")

	byID := map[int64]usecase.LinkTotals{}
	for _, row := range totals {
		byID[row.ShortLinkID] = row
	}
	assert.Equal(t, usecase.LinkTotals{ShortLinkID: 1, TotalClicks: 2, UniqueUsers: 2}, byID[1])
	assert.Equal(t, usecase.LinkTotals{ShortLinkID: 2, TotalClicks: 1, UniqueUsers: 1}, byID[2])
}
