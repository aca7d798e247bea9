package dto

// ErrorResponse represents an error in the API response
type ErrorResponse struct {
	Error   string                 `json:"error"`
	Code    string                 `json:"code"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthResponse is served at the API root
type HealthResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}
