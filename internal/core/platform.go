package core

import "strings"

// Viewport breakpoints used by the contact form to classify clients.
const (
	mobileMaxWidth = 768
	tabletMaxWidth = 1024
)

// PlatformFromWidth classifies a client by viewport width in CSS pixels.
func PlatformFromWidth(width int) string {
	switch {
	case width <= 0:
		return PlatformUnknown
	case width < mobileMaxWidth:
		return PlatformMobile
	case width < tabletMaxWidth:
		return PlatformTablet
	default:
		return PlatformDesktop
	}
}

// PlatformFromUserAgent makes a best-effort classification from a User-Agent
// header for server-rendered form posts that carry no viewport width.
func PlatformFromUserAgent(ua string) string {
	ua = strings.ToLower(ua)
	switch {
	case ua == "":
		return PlatformUnknown
	case strings.Contains(ua, "ipad"), strings.Contains(ua, "tablet"),
		strings.Contains(ua, "android") && !strings.Contains(ua, "mobile"):
		return PlatformTablet
	case strings.Contains(ua, "mobi"), strings.Contains(ua, "iphone"), strings.Contains(ua, "android"):
		return PlatformMobile
	case strings.Contains(ua, "windows"), strings.Contains(ua, "macintosh"),
		strings.Contains(ua, "x11"), strings.Contains(ua, "linux"), strings.Contains(ua, "cros"):
		return PlatformDesktop
	default:
		return PlatformUnknown
	}
}
