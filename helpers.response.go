package main

import (
	"encoding/json"
	"net/http"
)

// APIResponse is the uniform envelope every endpoint answers with.
// Count is only set by the list-returning operations.
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Count   *int        `json:"count,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// SuccessResponse builds the envelope of a successful operation.
func SuccessResponse(message string, data interface{}) *APIResponse {
	return &APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	}
}

// ListResponse builds the envelope of a successful list operation,
// carrying the number of returned records.
func ListResponse(message string, books []Book) *APIResponse {
	count := len(books)
	return &APIResponse{
		Success: true,
		Message: message,
		Data:    books,
		Count:   &count,
	}
}

// FailureResponse builds the envelope of a failed operation.
func FailureResponse(message, errDetail string) *APIResponse {
	return &APIResponse{
		Success: false,
		Message: message,
		Error:   errDetail,
	}
}

// WriteResponse sends the envelope to the client with the given status.
func WriteResponse(w http.ResponseWriter, status int, resp *APIResponse) error {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(resp)
}
