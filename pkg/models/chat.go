package models

// ChatMessage is one turn of the script assistant conversation
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// SceneSummary is the scene context a client sends with a chat request
type SceneSummary struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Description string `json:"description"`
}

// CurrentScene is the scene the user is editing
type CurrentScene struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Script      []string `json:"script"`
}

// ChatRequest is the body of POST /api/v1/chat
type ChatRequest struct {
	Messages     []ChatMessage  `json:"messages"`
	Scenes       []SceneSummary `json:"scenes,omitempty"`
	CurrentScene *CurrentScene  `json:"currentScene,omitempty"`
}

// ChatResponse is the reply of the script assistant
type ChatResponse struct {
	Message         string   `json:"message"`
	SuggestedScript []string `json:"suggestedScript,omitempty"`
}
