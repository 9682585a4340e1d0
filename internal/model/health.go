package model

// HealthResponse is the constant payload of GET /api/health.
type HealthResponse struct {
    Status  string `json:"status"`
    Message string `json:"message"`
}

// Healthy is the only value the health endpoint ever returns.
var Healthy = HealthResponse{Status: "ok", Message: "Server is running"}

// ReadyResponse is returned by GET /api/ready.  FailedCheck is set only
// when a dependency probe failed.
type ReadyResponse struct {
    Status      string `json:"status"`
    Message     string `json:"message"`
    FailedCheck string `json:"failed_check,omitempty"`
}
