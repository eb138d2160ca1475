package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"linklytics/internal/shortener/domain"
	"linklytics/internal/shortener/usecase"
)

// LinkRepository implements short link persistence over database/sql.
type LinkRepository struct {
	db *sql.DB
}

// NewLinkRepository creates a new SQLite-backed link repository.
func NewLinkRepository(db *sql.DB) *LinkRepository {
	return &LinkRepository{db: db}
}

// Ensure LinkRepository implements usecase.LinkRepository at compile time
var _ usecase.LinkRepository = (*LinkRepository)(nil)

// Save inserts a new short link and assigns its ID. The UNIQUE index on
// alias is the authority for uniqueness under concurrent creation.
func (r *LinkRepository) Save(ctx context.Context, link *domain.ShortLink) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO short_links (alias, long_url, topic, owner_id, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		link.Alias, link.LongURL, link.Topic, link.OwnerID, link.CreatedAt.Unix(),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return domain.ErrAliasTaken
		}
		return fmt.Errorf("failed to save short link: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read inserted id: %w", err)
	}
	link.ID = id
	return nil
}

// FindByAlias retrieves a short link by its alias.
func (r *LinkRepository) FindByAlias(ctx context.Context, alias string) (*domain.ShortLink, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, alias, long_url, topic, owner_id, created_at
		 FROM short_links WHERE alias = ?`, alias)

	link, err := scanLink(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrLinkNotFound
		}
		return nil, fmt.Errorf("failed to find short link: %w", err)
	}
	return link, nil
}

// FindByTopic retrieves all short links tagged with a topic.
func (r *LinkRepository) FindByTopic(ctx context.Context, topic string) ([]*domain.ShortLink, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, alias, long_url, topic, owner_id, created_at
		 FROM short_links WHERE topic = ? ORDER BY created_at ASC`, topic)
	if err != nil {
		return nil, fmt.Errorf("failed to find links by topic: %w", err)
	}
	defer rows.Close()

	return collectLinks(rows)
}

// FindByOwner retrieves all short links owned by a principal.
func (r *LinkRepository) FindByOwner(ctx context.Context, ownerID string) ([]*domain.ShortLink, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, alias, long_url, topic, owner_id, created_at
		 FROM short_links WHERE owner_id = ? ORDER BY created_at ASC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to find links by owner: %w", err)
	}
	defer rows.Close()

	return collectLinks(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLink(row rowScanner) (*domain.ShortLink, error) {
	var link domain.ShortLink
	var createdAt int64
	if err := row.Scan(&link.ID, &link.Alias, &link.LongURL, &link.Topic, &link.OwnerID, &createdAt); err != nil {
		return nil, err
	}
	link.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &link, nil
}

func collectLinks(rows *sql.Rows) ([]*domain.ShortLink, error) {
	links := []*domain.ShortLink{}
	for rows.Next() {
		link, err := scanLink(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan short link: %w", err)
		}
		links = append(links, link)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate short links: %w", err)
	}
	return links, nil
}
