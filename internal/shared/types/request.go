package types

// CommandRequest carries free-form text for the translator
type CommandRequest struct {
	Text string `json:"text" binding:"required"`
}

// CommandResponse is what a translator returns for one command
type CommandResponse struct {
	Message string `json:"message"`
	Intent  Intent `json:"intent"`
}

// OpenWindowRequest opens (or focuses) an application window
type OpenWindowRequest struct {
	AppID string `json:"app_id" binding:"required"`
	Title string `json:"title"`
}

// WSMessage represents a WebSocket message from the desktop shell
type WSMessage struct {
	Type   string  `json:"type"`
	AppID  string  `json:"app_id,omitempty"`
	Title  string  `json:"title,omitempty"`
	Text   string  `json:"text,omitempty"`
	Intent *Intent `json:"intent,omitempty"`
}
