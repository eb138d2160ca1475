package domain

import "time"

// ShortLink is one shortening mapping. It is created once and read-only
// afterwards.
type ShortLink struct {
	ID        int64     `json:"id"`
	Alias     string    `json:"alias"`
	LongURL   string    `json:"long_url"`
	Topic     string    `json:"topic,omitempty"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}
