package events

import "time"

// ClickEvent is the immutable resolution context handed from the redirect
// path to the click recorder. It carries only raw request facts; enrichment
// (OS, device, geolocation) happens on the recorder side.
type ClickEvent struct {
	ShortLinkID int64     `json:"short_link_id"`
	Timestamp   time.Time `json:"timestamp"`
	UserAgent   string    `json:"user_agent"`
	IPAddress   string    `json:"ip_address"`
}
