package usecase

import (
	"context"

	"linklytics/internal/shared/events"
	"linklytics/internal/shortener/domain"
)

// LinkRepository is the persistence port for short links. Save must enforce
// alias uniqueness and return domain.ErrAliasTaken on violation.
type LinkRepository interface {
	Save(ctx context.Context, link *domain.ShortLink) error
	FindByAlias(ctx context.Context, alias string) (*domain.ShortLink, error)
}

// LinkCache is the advisory cache port. Implementations must degrade
// infrastructure errors to misses: a miss is (nil, nil) or ("", nil), and a
// cached entry may be stale or evicted at any time.
type LinkCache interface {
	GetLink(ctx context.Context, alias string) (*domain.ShortLink, error)
	SetLink(ctx context.Context, link *domain.ShortLink) error
	GetAlias(ctx context.Context, longURL string) (string, error)
	SetAlias(ctx context.Context, longURL, alias string) error
}

// ClickSink receives the resolution context after a successful resolve.
// Implementations must not block and must never surface failures to the
// redirect path.
type ClickSink interface {
	Record(event events.ClickEvent)
}
