package enrichment

import (
	"net"

	geoip2 "github.com/oschwald/geoip2-golang"
)

// Geolocation is the optional location derived from a client IP.
type Geolocation struct {
	Country string
	City    string
}

// GeoResolver looks up the location of a client IP. The boolean reports
// whether a location was found; lookup failures are never errors.
type GeoResolver interface {
	Lookup(ip string) (Geolocation, bool)
}

// Compile-time interface checks
var (
	_ GeoResolver = (*GeoIP2Resolver)(nil)
	_ GeoResolver = NoopGeoResolver{}
)

// GeoIP2Resolver resolves locations from a MaxMind City database.
type GeoIP2Resolver struct {
	db *geoip2.Reader
}

// NewGeoIP2Resolver opens the database at dbPath. Returns an error if the
// file cannot be opened or is corrupt.
func NewGeoIP2Resolver(dbPath string) (*GeoIP2Resolver, error) {
	db, err := geoip2.Open(dbPath)
	if err != nil {
		return nil, err
	}
	return &GeoIP2Resolver{db: db}, nil
}

// Close closes the underlying database reader.
func (g *GeoIP2Resolver) Close() error {
	return g.db.Close()
}

// Lookup resolves ipStr to a country/city pair. Private, invalid, and
// unlocatable IPs report no location.
func (g *GeoIP2Resolver) Lookup(ipStr string) (Geolocation, bool) {
	ip := net.ParseIP(ipStr)
	if ip == nil {
		return Geolocation{}, false
	}

	record, err := g.db.City(ip)
	if err != nil {
		return Geolocation{}, false
	}

	loc := Geolocation{
		Country: record.Country.IsoCode,
		City:    record.City.Names["en"],
	}
	if loc.Country == "" && loc.City == "" {
		return Geolocation{}, false
	}
	return loc, true
}

// NoopGeoResolver is used when no GeoIP database is configured.
type NoopGeoResolver struct{}

func (NoopGeoResolver) Lookup(string) (Geolocation, bool) {
	return Geolocation{}, false
}
