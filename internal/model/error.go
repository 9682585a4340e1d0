package model

import "net/http"

// ErrorResponse is the JSON body for every non-2xx answer.
type ErrorResponse struct {
    Code   int    `json:"code"`   // HTTP status code
    Status string `json:"status"` // HTTP status text
    Error  string `json:"error"`  // human readable reason
}

// NewError builds an ErrorResponse for the given status.
func NewError(code int, msg string) ErrorResponse {
    return ErrorResponse{Code: code, Status: http.StatusText(code), Error: msg}
}
