package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"linklytics/internal/shared/events"
	"linklytics/internal/shortener/domain"
)

const (
	maxRetries     = 5
	maxURLLength   = 2048
	maxAliasLength = 30
)

// CreateLinkParams carries the input of a create call.
type CreateLinkParams struct {
	LongURL     string
	CustomAlias string
	Topic       string
	OwnerID     string
}

// LinkService implements alias creation and the cache-aside resolve path.
type LinkService struct {
	repo   LinkRepository
	cache  LinkCache
	gen    *AliasGenerator
	clicks ClickSink
	logger *zap.Logger
	now    func() time.Time
}

// NewLinkService creates a new LinkService.
func NewLinkService(repo LinkRepository, cache LinkCache, clicks ClickSink, logger *zap.Logger) *LinkService {
	return &LinkService{
		repo:   repo,
		cache:  cache,
		gen:    NewAliasGenerator(),
		clicks: clicks,
		logger: logger,
		now:    time.Now,
	}
}

// Create validates, deduplicates, and persists a new short link.
//
// A requested custom alias is stored verbatim; if it is taken the call fails
// with domain.ErrAliasTaken and is not retried. Random aliases are retried a
// bounded number of times on collision, with the store's unique index as the
// authority under concurrent creation.
func (s *LinkService) Create(ctx context.Context, params CreateLinkParams) (*domain.ShortLink, error) {
	if err := validateURL(params.LongURL); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidURL, err)
	}

	if params.CustomAlias != "" {
		if err := validateAlias(params.CustomAlias); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidAlias, err)
		}
	}

	// Advisory duplicate check: a hit means this long URL was shortened
	// within the cache TTL. A miss proves nothing, so duplicates are
	// accepted again once the entry expires.
	if alias, err := s.cache.GetAlias(ctx, params.LongURL); err == nil && alias != "" {
		return nil, &domain.DuplicateURLError{Alias: alias}
	}

	if params.CustomAlias != "" {
		return s.createWithAlias(ctx, params, params.CustomAlias)
	}

	for attempt := 0; attempt < maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		alias, err := s.gen.Generate("")
		if err != nil {
			return nil, fmt.Errorf("failed to generate alias: %w", err)
		}

		link, err := s.createWithAlias(ctx, params, alias)
		if errors.Is(err, domain.ErrAliasTaken) {
			s.logger.Warn("alias collision, regenerating",
				zap.String("alias", alias),
				zap.Int("attempt", attempt+1),
			)
			continue
		}
		return link, err
	}

	return nil, domain.ErrAliasConflict
}

func (s *LinkService) createWithAlias(ctx context.Context, params CreateLinkParams, alias string) (*domain.ShortLink, error) {
	link := &domain.ShortLink{
		Alias:     alias,
		LongURL:   params.LongURL,
		Topic:     params.Topic,
		OwnerID:   params.OwnerID,
		CreatedAt: s.now().UTC(),
	}

	if err := s.repo.Save(ctx, link); err != nil {
		return nil, err
	}

	// The store is authoritative; a failed cache write only costs a warm
	// start on the next resolve.
	if err := s.cache.SetLink(ctx, link); err != nil {
		s.logger.Warn("failed to cache link", zap.String("alias", link.Alias), zap.Error(err))
	}
	if err := s.cache.SetAlias(ctx, link.LongURL, link.Alias); err != nil {
		s.logger.Warn("failed to cache reverse mapping", zap.String("alias", link.Alias), zap.Error(err))
	}

	return link, nil
}

// Resolve returns the long URL for an alias and hands the click off for
// best-effort recording. A cache hit never reads the persistent store; a
// cache failure falls through to it.
func (s *LinkService) Resolve(ctx context.Context, alias, userAgent, ipAddress string) (string, error) {
	if cached, err := s.cache.GetLink(ctx, alias); err == nil && cached != nil {
		s.recordClick(cached.ID, userAgent, ipAddress)
		return cached.LongURL, nil
	}

	link, err := s.repo.FindByAlias(ctx, alias)
	if err != nil {
		return "", err
	}

	if err := s.cache.SetLink(ctx, link); err != nil {
		s.logger.Warn("failed to cache link", zap.String("alias", alias), zap.Error(err))
	}

	s.recordClick(link.ID, userAgent, ipAddress)
	return link.LongURL, nil
}

func (s *LinkService) recordClick(linkID int64, userAgent, ipAddress string) {
	s.clicks.Record(events.ClickEvent{
		ShortLinkID: linkID,
		Timestamp:   s.now().UTC(),
		UserAgent:   userAgent,
		IPAddress:   ipAddress,
	})
}

// validateAlias validates a requested custom alias. The charset is the
// random-alias alphabet plus '-' and '_': anything wider (slashes, dots,
// whitespace) produces aliases the redirect route cannot address.
func validateAlias(alias string) error {
	if len(alias) > maxAliasLength {
		return fmt.Errorf("alias exceeds maximum length of %d characters", maxAliasLength)
	}
	for _, r := range alias {
		if !strings.ContainsRune(aliasAlphabet, r) && r != '-' && r != '_' {
			return fmt.Errorf("alias may only contain letters, digits, '-' and '_'")
		}
	}
	return nil
}

// validateURL validates the redirect target.
func validateURL(rawURL string) error {
	if rawURL == "" {
		return fmt.Errorf("long url is required")
	}

	if len(rawURL) > maxURLLength {
		return fmt.Errorf("url exceeds maximum length of %d characters", maxURLLength)
	}

	parsedURL, err := url.ParseRequestURI(rawURL)
	if err != nil {
		return fmt.Errorf("invalid url format: %w", err)
	}

	scheme := strings.ToLower(parsedURL.Scheme)
	if scheme != "http" && scheme != "https" {
		return fmt.Errorf("url scheme must be http or https, got: %s", parsedURL.Scheme)
	}

	if parsedURL.Host == "" {
		return fmt.Errorf("url must have a host")
	}

	return nil
}
