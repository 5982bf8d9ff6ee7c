package models

import "time"

// Event types published on the event exchange
const (
	EventRecipeAnalyzed  = "recipe.analyzed"
	EventExportRequested = "export.requested"
)

// Event is the envelope carried on the queue
type Event struct {
	ID         string       `json:"id"`
	Type       string       `json:"type"`
	OccurredAt time.Time    `json:"occurred_at"`
	Recipe     *RecipeEvent `json:"recipe,omitempty"`
	Export     *ExportEvent `json:"export,omitempty"`
}

// RecipeEvent describes a completed analysis
type RecipeEvent struct {
	RecipeID    string   `json:"recipe_id"`
	Platform    Platform `json:"platform"`
	VideoID     string   `json:"video_id"`
	SceneCount  int      `json:"scene_count"`
	ScriptMode  string   `json:"script_mode"`
	CoverSource string   `json:"cover_source"`
}

// ExportEvent describes a batch of recorded takes waiting for delivery
type ExportEvent struct {
	ExportID string   `json:"export_id"`
	Email    string   `json:"email"`
	Keys     []string `json:"keys"`
}

// ExportedFile is one stored take in an export response
type ExportedFile struct {
	Name string `json:"name"`
	Key  string `json:"key"`
	URL  string `json:"url"`
}

// ExportResponse is the success body of POST /api/v1/export
type ExportResponse struct {
	Success    bool           `json:"success"`
	Message    string         `json:"message"`
	Email      string         `json:"email"`
	VideoCount int            `json:"videoCount"`
	ExportID   string         `json:"exportId"`
	Files      []ExportedFile `json:"files"`
}

// UsageStats is the aggregated view served by GET /api/v1/stats
type UsageStats struct {
	RecipesTotal int64            `json:"recipes_total"`
	ByPlatform   map[string]int64 `json:"by_platform"`
	ByScriptMode map[string]int64 `json:"by_script_mode"`
	ExportsTotal int64            `json:"exports_total"`
}
