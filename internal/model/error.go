package model

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Detail        string            `json:"detail"`
	CorrelationID string            `json:"correlation_id,omitempty"`
	Fields        map[string]string `json:"fields,omitempty"`
}
