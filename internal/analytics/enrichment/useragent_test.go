package enrichment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserAgentParser_Parse(t *testing.T) {
	parser := NewUserAgentParser()

	tests := []struct {
		name       string
		userAgent  string
		wantOS     string
		wantDevice string
	}{
		{
			name:       "iphone classifies as mobile",
			userAgent:  "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1",
			wantOS:     "iOS",
			wantDevice: DeviceMobile,
		},
		{
			name:       "ipad classifies as tablet",
			userAgent:  "Mozilla/5.0 (iPad; CPU OS 16_6 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.6 Mobile/15E148 Safari/604.1",
			wantOS:     "iOS",
			wantDevice: DeviceTablet,
		},
		{
			name:       "android phone classifies as mobile",
			userAgent:  "Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Mobile Safari/537.36",
			wantOS:     "Android",
			wantDevice: DeviceMobile,
		},
		{
			name:       "desktop browser classifies as desktop",
			userAgent:  "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			wantOS:     "Windows",
			wantDevice: DeviceDesktop,
		},
		{
			name:       "unparseable agent falls back to unknown desktop",
			userAgent:  "definitely-not-a-browser",
			wantOS:     OSUnknown,
			wantDevice: DeviceDesktop,
		},
		{
			name:       "empty agent falls back to unknown desktop",
			userAgent:  "",
			wantOS:     OSUnknown,
			wantDevice: DeviceDesktop,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			osType, deviceType := parser.Parse(tt.userAgent)
			assert.Equal(t, tt.wantOS, osType)
			assert.Equal(t, tt.wantDevice, deviceType)
		})
	}
}
