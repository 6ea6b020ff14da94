package dto

import "time"

// APIResponse is the standard envelope for single-object responses.
type APIResponse struct {
	Data      interface{}  `json:"data,omitempty"`
	Error     *ErrorDetail `json:"error,omitempty"`
	Timestamp time.Time    `json:"timestamp" example:"2025-04-23T12:01:05.123Z"`
}

// ListResponse is the envelope every paginated listing returns.
// LastPage is ceil(Total/limit) for the limit the caller used.
type ListResponse struct {
	Data     interface{} `json:"data"`
	Total    int64       `json:"total" example:"42"`
	Page     int         `json:"page" example:"1"`
	LastPage int         `json:"lastPage" example:"5"`
}

// SuccessResponse represents a standard success response for API endpoints
type SuccessResponse struct {
	Message string `json:"message"`
}
