package enrichment

import (
	ua "github.com/mileusna/useragent"
)

// Device types recorded on click events.
const (
	DeviceMobile  = "Mobile"
	DeviceTablet  = "Tablet"
	DeviceDesktop = "Desktop"

	OSUnknown = "Unknown"
)

// UserAgentParser derives OS and device class from raw User-Agent strings.
type UserAgentParser struct{}

// NewUserAgentParser creates a new UserAgentParser.
func NewUserAgentParser() *UserAgentParser {
	return &UserAgentParser{}
}

// Parse returns (osType, deviceType) for a raw User-Agent string. The mobile
// flag wins over the tablet flag; anything that is neither classifies as
// Desktop. OS falls back to "Unknown" when it cannot be detected.
func (p *UserAgentParser) Parse(raw string) (string, string) {
	parsed := ua.Parse(raw)

	osType := parsed.OS
	if osType == "" {
		osType = OSUnknown
	}

	device := DeviceDesktop
	switch {
	case parsed.Mobile:
		device = DeviceMobile
	case parsed.Tablet:
		device = DeviceTablet
	}

	return osType, device
}
