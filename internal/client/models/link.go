package models

import (
	"strings"
	"time"

	"github.com/dmitrijs2005/myday/internal/timex"
)

// Platform is the social network a link points to.
type Platform string

const (
	PlatformFacebook  Platform = "FACEBOOK"
	PlatformInstagram Platform = "INSTAGRAM"
	PlatformTikTok    Platform = "TIKTOK"
	PlatformTwitter   Platform = "TWITTER"
	PlatformYouTube   Platform = "YOUTUBE"
	PlatformOther     Platform = "OTHER"
)

// Platforms lists every platform in display order.
var Platforms = []Platform{
	PlatformFacebook, PlatformInstagram, PlatformTikTok, PlatformTwitter, PlatformYouTube, PlatformOther,
}

var displayNames = map[Platform]string{
	PlatformFacebook:  "Facebook",
	PlatformInstagram: "Instagram",
	PlatformTikTok:    "TikTok",
	PlatformTwitter:   "Twitter",
	PlatformYouTube:   "YouTube",
	PlatformOther:     "Other",
}

// ParsePlatform accepts either the stored name or the display name, case
// insensitively. Anything unknown becomes PlatformOther.
func ParsePlatform(s string) Platform {
	s = strings.TrimSpace(s)
	for _, p := range Platforms {
		if strings.EqualFold(s, string(p)) || strings.EqualFold(s, displayNames[p]) {
			return p
		}
	}
	return PlatformOther
}

// DisplayName is the human readable platform name.
func (p Platform) DisplayName() string {
	if n, ok := displayNames[p]; ok {
		return n
	}
	return displayNames[PlatformOther]
}

// SocialLink is a saved link to a social media post or profile.
type SocialLink struct {
	LocalID     int64
	URL         string
	Platform    Platform
	Title       string
	Description string
	ImageURL    string
	OwnerID     string
	RemoteID    string
	CreatedAt   time.Time
}

func (l *SocialLink) GetLocalID() int64   { return l.LocalID }
func (l *SocialLink) GetOwnerID() string  { return l.OwnerID }
func (l *SocialLink) GetRemoteID() string { return l.RemoteID }

func (l *SocialLink) Fields() map[string]any {
	return map[string]any{
		"url":         l.URL,
		"platform":    string(l.Platform),
		"title":       l.Title,
		"description": l.Description,
		"imageUrl":    l.ImageURL,
		"userId":      l.OwnerID,
		"createdAt":   timex.Millis(l.CreatedAt),
	}
}

// LinkFromDocument builds a not-yet-stored SocialLink from a pulled document
// owned by owner.
func LinkFromDocument(owner, id string, f map[string]any) *SocialLink {
	return &SocialLink{
		URL:         stringField(f, "url"),
		Platform:    ParsePlatform(stringField(f, "platform")),
		Title:       stringField(f, "title"),
		Description: stringField(f, "description"),
		ImageURL:    stringField(f, "imageUrl"),
		OwnerID:     owner,
		RemoteID:    id,
		CreatedAt:   timex.FromMillis(int64Field(f, "createdAt")),
	}
}
