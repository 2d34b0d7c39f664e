// Package heatdto defines the JSON payloads of the serve mode.
package heatdto

// State is the published playback state returned by GET /api/state.
type State struct {
	SessionID  string `json:"session_id"`
	Index      int    `json:"index"`
	Total      int    `json:"total"`
	Label      string `json:"label"`
	SAN        string `json:"san,omitempty"`
	Status     string `json:"status"`
	IntervalMS int    `json:"interval_ms"`
	Repeat     bool   `json:"repeat"`
	ShowRays   bool   `json:"show_rays"`
	RayColor   string `json:"ray_color"`
	LabelMode  string `json:"label_mode"`
	Opening    string `json:"opening,omitempty"`
}

// ControlRequest is the body of POST /api/control.
type ControlRequest struct {
	// Op is one of: play, pause, next, prev, first, last.
	Op string `json:"op"`
	// IntervalMS, when > 0, updates the playback speed.
	IntervalMS int `json:"interval_ms,omitempty"`
	// Repeat/ShowRays toggle flags when present.
	Repeat   *bool `json:"repeat,omitempty"`
	ShowRays *bool `json:"show_rays,omitempty"`
	// RayColor/LabelMode update display settings when non-empty.
	RayColor  string `json:"ray_color,omitempty"`
	LabelMode string `json:"label_mode,omitempty"`
}

// ErrorResponse carries a request failure.
type ErrorResponse struct {
	Error string `json:"error"`
}
