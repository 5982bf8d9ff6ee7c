package models

// Platform identifies the site family a reference video was taken from
type Platform string

// Platform constants
const (
	PlatformYouTube       Platform = "youtube"
	PlatformYouTubeShorts Platform = "youtube-shorts"
	PlatformInstagram     Platform = "instagram"
	PlatformTikTok        Platform = "tiktok"
	PlatformOther         Platform = "other"
)

var platformLabels = map[Platform]string{
	PlatformYouTube:       "YouTube",
	PlatformYouTubeShorts: "YouTube Shorts",
	PlatformInstagram:     "Instagram",
	PlatformTikTok:        "TikTok",
	PlatformOther:         "Web",
}

// Label returns the human-readable platform name
func (p Platform) Label() string {
	if label, ok := platformLabels[p]; ok {
		return label
	}
	return platformLabels[PlatformOther]
}

// IsYouTube reports whether the platform is served by the YouTube thumbnail CDN
func (p Platform) IsYouTube() bool {
	return p == PlatformYouTube || p == PlatformYouTubeShorts
}

// VideoReference is the input unit of one analysis
type VideoReference struct {
	URL        string   `json:"url"`
	Platform   Platform `json:"platform"`
	VideoID    string   `json:"video_id,omitempty"`
	CoverImage string   `json:"cover_image,omitempty"`
}

// UnknownVideoID is used when no extractor yields an id
const UnknownVideoID = "unknown"
