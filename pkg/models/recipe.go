package models

// Scene is one fixed-length narrative segment of a reference video
type Scene struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	StartTime   string   `json:"startTime"`
	EndTime     string   `json:"endTime"`
	Thumbnail   string   `json:"thumbnail"`
	Description string   `json:"description"`
	Script      []string `json:"script"`
	Progress    int      `json:"progress"`
}

// Recipe is the assembled output for one analyzed reference video
type Recipe struct {
	ID            string   `json:"id"`
	URL           string   `json:"url"`
	VideoID       string   `json:"videoId"`
	Platform      Platform `json:"platform"`
	Title         string   `json:"title"`
	TotalDuration int      `json:"totalDuration"`
	Scenes        []Scene  `json:"scenes"`
	ScriptMode    string   `json:"-"`
	CoverSource   string   `json:"-"`
}

// Script modes
const (
	ScriptModeTemplate   = "template"
	ScriptModeGenerative = "generative"
)

// Cover image sources
const (
	CoverSourceYouTube     = "youtube-cdn"
	CoverSourcePage        = "page-meta"
	CoverSourcePlaceholder = "placeholder"
)

// AnalyzeRequest is the body of POST /api/v1/analyze
type AnalyzeRequest struct {
	URL         string `json:"url"`
	Niche       string `json:"niche,omitempty"`
	Goal        string `json:"goal,omitempty"`
	Description string `json:"description,omitempty"`
}

// HasContext reports whether any free-text context was supplied
func (r AnalyzeRequest) HasContext() bool {
	return r.Niche != "" || r.Goal != "" || r.Description != ""
}

// RecipeMetadata is the top-level metadata block of an analyze response
type RecipeMetadata struct {
	Title    string `json:"title"`
	Duration string `json:"duration"`
	Platform string `json:"platform"`
}

// AnalyzeResponse is the success body of POST /api/v1/analyze
type AnalyzeResponse struct {
	Success  bool           `json:"success"`
	VideoID  string         `json:"videoId"`
	URL      string         `json:"url"`
	Scenes   []Scene        `json:"scenes"`
	Metadata RecipeMetadata `json:"metadata"`
}
