package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"linklytics/internal/analytics/usecase"
)

// ClickRepository implements click persistence and grouped aggregation over
// database/sql. Click rows are write-once; every read below is a pure
// aggregation.
type ClickRepository struct {
	db *sql.DB
}

// NewClickRepository creates a new SQLite-backed click repository.
func NewClickRepository(db *sql.DB) *ClickRepository {
	return &ClickRepository{db: db}
}

// Ensure ClickRepository implements usecase.ClickRepository at compile time
var _ usecase.ClickRepository = (*ClickRepository)(nil)

// Insert stores one enriched click event.
func (r *ClickRepository) Insert(ctx context.Context, click usecase.Click) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO clicks (short_link_id, clicked_at, user_agent, ip_address, os_type, device_type, country, city)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		click.ShortLinkID, click.Timestamp.Unix(), click.UserAgent, click.IPAddress,
		click.OSType, click.DeviceType, click.Country, click.City,
	)
	if err != nil {
		return fmt.Errorf("failed to insert click: %w", err)
	}
	return nil
}

// Totals returns the event count and distinct-IP count across linkIDs.
func (r *ClickRepository) Totals(ctx context.Context, linkIDs []int64) (int64, int64, error) {
	if len(linkIDs) == 0 {
		return 0, 0, nil
	}

	query := fmt.Sprintf(
		`SELECT COUNT(*), COUNT(DISTINCT ip_address) FROM clicks WHERE short_link_id IN (%s)`,
		placeholders(len(linkIDs)))

	var clicks, users int64
	if err := r.db.QueryRowContext(ctx, query, idArgs(linkIDs)...).Scan(&clicks, &users); err != nil {
		return 0, 0, fmt.Errorf("failed to count clicks: %w", err)
	}
	return clicks, users, nil
}

// ClicksByDate buckets clicks by UTC calendar date, ascending. A zero since
// means all-time.
func (r *ClickRepository) ClicksByDate(ctx context.Context, linkIDs []int64, since time.Time) ([]usecase.DateCount, error) {
	out := []usecase.DateCount{}
	if len(linkIDs) == 0 {
		return out, nil
	}

	query := fmt.Sprintf(
		`SELECT date(clicked_at, 'unixepoch') AS day, COUNT(*)
		 FROM clicks WHERE short_link_id IN (%s)`,
		placeholders(len(linkIDs)))
	args := idArgs(linkIDs)

	if !since.IsZero() {
		query += ` AND clicked_at >= ?`
		args = append(args, since.Unix())
	}
	query += ` GROUP BY day ORDER BY day ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to bucket clicks by date: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var bucket usecase.DateCount
		if err := rows.Scan(&bucket.Date, &bucket.Clicks); err != nil {
			return nil, fmt.Errorf("failed to scan date bucket: %w", err)
		}
		out = append(out, bucket)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate date buckets: %w", err)
	}
	return out, nil
}

// BreakdownByOS groups clicks by detected OS.
func (r *ClickRepository) BreakdownByOS(ctx context.Context, linkIDs []int64) ([]usecase.GroupStat, error) {
	return r.breakdown(ctx, linkIDs, "os_type")
}

// BreakdownByDevice groups clicks by device class.
func (r *ClickRepository) BreakdownByDevice(ctx context.Context, linkIDs []int64) ([]usecase.GroupStat, error) {
	return r.breakdown(ctx, linkIDs, "device_type")
}

func (r *ClickRepository) breakdown(ctx context.Context, linkIDs []int64, column string) ([]usecase.GroupStat, error) {
	out := []usecase.GroupStat{}
	if len(linkIDs) == 0 {
		return out, nil
	}

	// column is one of two trusted identifiers, never user input.
	query := fmt.Sprintf(
		`SELECT %s, COUNT(*), COUNT(DISTINCT ip_address)
		 FROM clicks WHERE short_link_id IN (%s)
		 GROUP BY %s ORDER BY %s ASC`,
		column, placeholders(len(linkIDs)), column, column)

	rows, err := r.db.QueryContext(ctx, query, idArgs(linkIDs)...)
	if err != nil {
		return nil, fmt.Errorf("failed to group clicks by %s: %w", column, err)
	}
	defer rows.Close()

	for rows.Next() {
		var stat usecase.GroupStat
		if err := rows.Scan(&stat.Name, &stat.UniqueClicks, &stat.UniqueUsers); err != nil {
			return nil, fmt.Errorf("failed to scan %s group: %w", column, err)
		}
		out = append(out, stat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s groups: %w", column, err)
	}
	return out, nil
}

// TotalsPerLink returns click totals grouped per link.
func (r *ClickRepository) TotalsPerLink(ctx context.Context, linkIDs []int64) ([]usecase.LinkTotals, error) {
	out := []usecase.LinkTotals{}
	if len(linkIDs) == 0 {
		return out, nil
	}

	query := fmt.Sprintf(
		`SELECT short_link_id, COUNT(*), COUNT(DISTINCT ip_address)
		 FROM clicks WHERE short_link_id IN (%s)
		 GROUP BY short_link_id`,
		placeholders(len(linkIDs)))

	rows, err := r.db.QueryContext(ctx, query, idArgs(linkIDs)...)
	if err != nil {
		return nil, fmt.Errorf("failed to group clicks by link: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var totals usecase.LinkTotals
		if err := rows.Scan(&totals.ShortLinkID, &totals.TotalClicks, &totals.UniqueUsers); err != nil {
			return nil, fmt.Errorf("failed to scan link totals: %w", err)
		}
		out = append(out, totals)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate link totals: %w", err)
	}
	return out, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func idArgs(ids []int64) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
