package gradio

// History carries the chatbot transcript the upstream expects: [user, bot]
// pairs in conversation order.
type History [][2]string

// PredictRequest is the body for the upstream's /run/* function endpoints.
// Functions are addressed positionally through FnIndex rather than by name.
type PredictRequest struct {
	Data        []any  `json:"data"`
	FnIndex     int    `json:"fn_index"`
	EventData   any    `json:"event_data"`
	SessionHash string `json:"session_hash"`
}

// PredictResponse is the loosely-typed answer from /run/*. Only Data is
// meaningful to callers; the rest is queue bookkeeping the upstream may omit.
type PredictResponse struct {
	Data            []any   `json:"data"`
	IsGenerating    bool    `json:"is_generating,omitempty"`
	Duration        float64 `json:"duration,omitempty"`
	AverageDuration float64 `json:"average_duration,omitempty"`
}
