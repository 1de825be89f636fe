// Package platform classifies media links by their source site
package platform

import (
	"regexp"
	"strings"
)

// Platform identifies the site a link belongs to
type Platform string

const (
	Unknown   Platform = "unknown"
	YouTube   Platform = "youtube"
	TikTok    Platform = "tiktok"
	Instagram Platform = "instagram"
)

// SelectionMode tells whether the user picks a format or one is picked for them
type SelectionMode int

const (
	ModeNone SelectionMode = iota
	ModeManual
	ModeAutomatic
)

// String returns a label for logs and metrics
func (m SelectionMode) String() string {
	switch m {
	case ModeManual:
		return "manual"
	case ModeAutomatic:
		return "automatic"
	default:
		return "none"
	}
}

// signature maps a host fragment to a platform.
// Order matters: the first matching fragment wins.
type signature struct {
	fragment string
	platform Platform
}

var signatures = []signature{
	{fragment: "youtube.com", platform: YouTube},
	{fragment: "youtu.be", platform: YouTube},
	{fragment: "tiktok.com", platform: TikTok},
	{fragment: "instagram.com", platform: Instagram},
}

var urlPattern = regexp.MustCompile(`(?i)https?://\S+`)

// ExtractURL returns the first http(s) link in text, or "" if there is none
func ExtractURL(text string) string {
	return strings.TrimSpace(urlPattern.FindString(text))
}

// Classify maps a link to its platform with a case-insensitive substring match
func Classify(url string) Platform {
	u := strings.ToLower(url)
	for _, sig := range signatures {
		if strings.Contains(u, sig.fragment) {
			return sig.platform
		}
	}
	return Unknown
}

// SelectionMode returns how a format is chosen for links of this platform
func (p Platform) SelectionMode() SelectionMode {
	switch p {
	case YouTube:
		return ModeManual
	case TikTok, Instagram:
		return ModeAutomatic
	default:
		return ModeNone
	}
}

// Title returns the display name used in captions and replies
func (p Platform) Title() string {
	switch p {
	case YouTube:
		return "YouTube"
	case TikTok:
		return "TikTok"
	case Instagram:
		return "Instagram"
	default:
		return "Unknown"
	}
}

// IsKnown reports whether the platform is supported
func (p Platform) IsKnown() bool {
	return p.SelectionMode() != ModeNone
}
