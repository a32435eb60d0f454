package scrape

import (
	"net/url"
	"strings"
)

// Platform identifies a known job board.
type Platform string

const (
	// PlatformGreenhouse is the Greenhouse ATS platform
	PlatformGreenhouse Platform = "greenhouse"
	// PlatformLever is the Lever ATS platform
	PlatformLever Platform = "lever"
	// PlatformWorkday is the Workday ATS platform
	PlatformWorkday Platform = "workday"
	// PlatformLinkedIn is LinkedIn job pages
	PlatformLinkedIn Platform = "linkedin"
	// PlatformUnknown is an unrecognized platform
	PlatformUnknown Platform = "unknown"
)

// DetectPlatform identifies the job board platform from a URL.
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PlatformUnknown
	}
	host := strings.ToLower(parsed.Host)

	switch {
	case strings.Contains(host, "greenhouse.io"):
		return PlatformGreenhouse
	case strings.Contains(host, "lever.co"):
		return PlatformLever
	case strings.Contains(host, "workday.com") || strings.Contains(host, "myworkdayjobs.com"):
		return PlatformWorkday
	case strings.Contains(host, "linkedin.com"):
		return PlatformLinkedIn
	}
	return PlatformUnknown
}

// platformSelectors returns content selectors tuned for a platform, ending
// with generic fallbacks.
func platformSelectors(platform Platform) []string {
	switch platform {
	case PlatformGreenhouse:
		return []string{
			".job__description.body",
			".job__description",
			".job-description__content",
			"#content",
		}
	case PlatformLever:
		return []string{
			".posting-page",
			".posting-description",
			".content",
		}
	case PlatformWorkday:
		return []string{
			"[data-automation-id='jobDescription']",
			".gwt-HTML",
			".job-description",
		}
	case PlatformLinkedIn:
		return []string{
			".description__text",
			".show-more-less-html__markup",
			"main",
		}
	default:
		return []string{
			".job-description",
			".job-content",
			"#job-description",
			".posting-content",
			".job-details",
			"main",
			"article",
			".content",
			"#content",
		}
	}
}
