package models

// ErrorMessageResponse returns the error message response struct
type ErrorMessageResponse struct {
	Response MessageError `json:"response"`
}

// MessageError contains the inner details for the error message response
type MessageError struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// HealthCheckResponse is the body of the liveness probe
type HealthCheckResponse struct {
	Alive bool `json:"alive"`
}

// MessageResponse is a plain acknowledgement body
type MessageResponse struct {
	Message string `json:"message"`
}
