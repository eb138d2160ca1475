package domain

import (
	"errors"
	"fmt"
)

var (
	ErrLinkNotFound  = errors.New("short link not found")
	ErrInvalidURL    = errors.New("invalid url")
	ErrInvalidAlias  = errors.New("invalid alias")
	ErrAliasTaken    = errors.New("alias already in use")
	ErrAliasConflict = errors.New("alias generation failed after max retries")
)

// DuplicateURLError reports that a long URL has already been shortened. It
// carries the existing alias so callers can surface it.
type DuplicateURLError struct {
	Alias string
}

func (e *DuplicateURLError) Error() string {
	return fmt.Sprintf("long url already shortened as %q", e.Alias)
}
