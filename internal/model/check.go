package model

import "time"

const (
	ProtocolHTTP  = "http"
	ProtocolHTTPS = "https"
)

// CheckIDLength is the length of generated check ids
const CheckIDLength = 20

// Check represents a monitored HTTP(S) endpoint owned by one user
type Check struct {
	ID             string    `json:"id"`
	UserPhone      string    `json:"userPhone"`
	Protocol       string    `json:"protocol"` // "http" or "https"
	URL            string    `json:"url"`
	Method         string    `json:"method"` // "GET", "POST", "PUT" or "DELETE"
	SuccessCodes   []int     `json:"successCodes"`
	TimeoutSeconds int       `json:"timeoutSeconds"` // 1..5
	CreatedAt      time.Time `json:"created_at"`
}

// CreateCheckRequest is used for registering a new check.
// SuccessCodes carries no binding tag: the field must be present but may be
// an empty array, which "required" would reject; the service checks for nil.
type CreateCheckRequest struct {
	Protocol       string `json:"protocol" binding:"required,oneof=http https"`
	URL            string `json:"url" binding:"required"`
	Method         string `json:"method" binding:"required,oneof=GET POST PUT DELETE"`
	SuccessCodes   []int  `json:"successCodes"`
	TimeoutSeconds int    `json:"timeoutSeconds" binding:"required,min=1,max=5"`
}
