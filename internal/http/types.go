package http

// Response is the envelope every endpoint answers with. RequestID echoes the
// X-Request-ID assigned by the request logger.
type Response struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Error     *Error      `json:"error,omitempty"`
	RequestID string      `json:"requestId,omitempty"`
}

// Error describes a failed request; Field names the offending input for
// validation failures
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
	Field   string `json:"field,omitempty"`
}
