package enrichment

import (
	"github.com/mssola/user_agent"
)

type UAInfo struct {
	Browser    string
	OS         string
	DeviceType string
}

// ParseUserAgent classifies a User-Agent header for request logs.
func ParseUserAgent(uaString string) *UAInfo {
	if uaString == "" {
		return &UAInfo{Browser: "unknown", OS: "unknown", DeviceType: "unknown"}
	}

	ua := user_agent.New(uaString)

	browser, _ := ua.Browser()
	deviceType := "desktop"

	if ua.Bot() {
		deviceType = "bot"
	} else if ua.Mobile() {
		deviceType = "mobile"
	}

	os := ua.OS()
	if os == "" {
		os = "unknown"
	}
	if browser == "" {
		browser = "unknown"
	}

	return &UAInfo{
		Browser:    browser,
		OS:         os,
		DeviceType: deviceType,
	}
}
